// Package timesource feeds the time store from outside the render path.
package timesource

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/rook-computer/circleface/internal/state"
)

const (
	Manual = "manual"
	System = "system"
)

// SyncPeriod is how often the system source samples the wall clock.
const SyncPeriod = time.Second

// Valid reports whether name is a known time source.
func Valid(name string) bool {
	return name == Manual || name == System
}

// SystemSource copies the host wall clock into a store.
type SystemSource struct {
	Clock    clockwork.Clock
	Location *time.Location
	Store    *state.Store
}

func NewSystemSource(clk clockwork.Clock, loc *time.Location, store *state.Store) *SystemSource {
	if clk == nil {
		clk = clockwork.NewRealClock()
	}
	if loc == nil {
		loc = time.Local
	}
	return &SystemSource{Clock: clk, Location: loc, Store: store}
}

// Read returns the current wall-clock hour and minute.
func (s *SystemSource) Read() state.TimeValue {
	now := s.Clock.Now().In(s.Location)
	return state.TimeValue{Hour: now.Hour(), Minute: now.Minute()}
}

// Sync stores the current reading. It has the shape of a scheduler task.
func (s *SystemSource) Sync(ctx context.Context) error {
	if err := s.Store.SetTime(s.Read()); err != nil {
		return fmt.Errorf("system time source: %w", err)
	}
	return nil
}
