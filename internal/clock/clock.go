// Package clock implements the logical millisecond clock advanced from a
// periodic timer, decoupled from any redraw work.
package clock

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultResolution is the tick period of the reference cadence.
const DefaultResolution = 5 * time.Millisecond

// ErrInvalidResolution is returned for a tick period that is not a whole
// number of milliseconds of at least 1 ms.
var ErrInvalidResolution = errors.New("tick resolution must be a whole number of milliseconds >= 1ms")

// ValidateResolution reports whether d can drive a Logical without drift.
func ValidateResolution(d time.Duration) error {
	if d < time.Millisecond || d%time.Millisecond != 0 {
		return fmt.Errorf("%w (got %s)", ErrInvalidResolution, d)
	}
	return nil
}

// Logical counts elapsed milliseconds in fixed increments.
// It starts at zero and only ever grows.
type Logical struct {
	ms         atomic.Uint64
	step       uint64
	resolution time.Duration
}

// NewLogical uses DefaultResolution for a non-positive resolution and rounds
// anything else to the nearest whole millisecond, at least 1 ms, so the
// ticker period and the per-tick step always agree.
func NewLogical(resolution time.Duration) *Logical {
	switch {
	case resolution <= 0:
		resolution = DefaultResolution
	case resolution < time.Millisecond:
		resolution = time.Millisecond
	default:
		resolution = resolution.Round(time.Millisecond)
	}
	return &Logical{step: uint64(resolution.Milliseconds()), resolution: resolution}
}

// Tick advances the counter by one resolution step. It is the whole timer
// handler: one atomic add, no allocation, no blocking.
func (c *Logical) Tick() {
	c.ms.Add(c.step)
}

// Millis returns the counter. Reads are relaxed; callers only need
// eventual visibility.
func (c *Logical) Millis() uint64 {
	return c.ms.Load()
}

func (c *Logical) Resolution() time.Duration {
	return c.resolution
}

// Drive ticks c once per resolution period of clk until ctx is done.
func (c *Logical) Drive(ctx context.Context, clk clockwork.Clock) error {
	ticker := clk.NewTicker(c.resolution)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.Chan():
			c.Tick()
		}
	}
}
