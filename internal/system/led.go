package system

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// DefaultLEDTimeout bounds one LED script run.
const DefaultLEDTimeout = 500 * time.Millisecond

// LED is the heartbeat indicator.
type LED interface {
	Set(ctx context.Context, on bool) error
}

// NewLED picks a driver from a config value: empty disables the LED, an
// absolute path is a sysfs LED directory, anything else is a script run
// through r with "on" or "off".
func NewLED(value string, r Runner) LED {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		return NoopLED{}
	case filepath.IsAbs(value):
		return &SysfsLED{Dir: value}
	default:
		if r == nil {
			r = ShellRunner{}
		}
		return &ScriptLED{Runner: r, Script: value}
	}
}

type NoopLED struct{}

func (NoopLED) Set(ctx context.Context, on bool) error { return nil }

// SysfsLED drives /sys/class/leds/<name>. The kernel trigger is switched to
// "none" on first use so the brightness sticks.
type SysfsLED struct {
	Dir string

	once sync.Once
}

func (l *SysfsLED) Set(ctx context.Context, on bool) error {
	l.once.Do(func() {
		_ = os.WriteFile(filepath.Join(l.Dir, "trigger"), []byte("none"), 0o644)
	})
	value := "0"
	if on {
		value = "1"
	}
	if err := os.WriteFile(filepath.Join(l.Dir, "brightness"), []byte(value), 0o644); err != nil {
		return fmt.Errorf("led %s: %w", l.Dir, err)
	}
	return nil
}

// ScriptLED toggles the LED with a helper script, e.g. "lifeline.sh on".
type ScriptLED struct {
	Runner Runner
	Script string
	// Timeout bounds each run; zero means DefaultLEDTimeout.
	Timeout time.Duration
}

func (l *ScriptLED) Set(ctx context.Context, on bool) error {
	mode := "off"
	if on {
		mode = "on"
	}
	timeout := l.Timeout
	if timeout <= 0 {
		timeout = DefaultLEDTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	_, stderr, err := l.Runner.Run(ctx, l.Script, mode)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w: %s", l.Script, mode, err, stderr)
	}
	return nil
}
