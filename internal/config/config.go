// Package config loads device settings from CIRCLEFACE_* environment
// variables over compiled defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/rook-computer/circleface/internal/clock"
	"github.com/rook-computer/circleface/internal/render"
	"github.com/rook-computer/circleface/internal/state"
	"github.com/rook-computer/circleface/internal/timesource"
)

// EnvPrefix is stripped from environment variables; the rest, lower-cased, is the key.
const EnvPrefix = "CIRCLEFACE_"

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Listen     string `koanf:"listen"`
	Dev        bool   `koanf:"dev"`
	FBDevice   string `koanf:"fb_device"`
	CanvasSize int    `koanf:"canvas_size"`

	Debug    bool   `koanf:"debug"`
	DebugLog string `koanf:"debug_log"`
	StdioLog string `koanf:"stdio_log"`

	TimeSource string `koanf:"time_source"`
	Hour       int    `koanf:"hour"`
	Minute     int    `koanf:"minute"`
	Location   string `koanf:"location"`

	LED        string `koanf:"led"`
	ShowDigits bool   `koanf:"show_digits"`
	QRPayload  string `koanf:"qr_payload"`

	Tick      time.Duration `koanf:"tick"`
	Redraw    time.Duration `koanf:"redraw"`
	Heartbeat time.Duration `koanf:"heartbeat"`
}

// Defaults matches the reference device: 4:45 on a 240 px panel, 5 ms ticks,
// 10 ms redraws.
func Defaults() *Config {
	return &Config{
		Listen:     ":80",
		FBDevice:   "/dev/fb0",
		CanvasSize: render.CanvasSize,
		DebugLog:   "./circleface-debug.log",
		TimeSource: timesource.Manual,
		Hour:       4,
		Minute:     45,
		Tick:       clock.DefaultResolution,
		Redraw:     10 * time.Millisecond,
		Heartbeat:  time.Second,
	}
}

// Load reads the environment over Defaults and validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")
	cfg := Defaults()

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if !timesource.Valid(c.TimeSource) {
		return fmt.Errorf("%w: time_source must be %q or %q (got %q)", ErrInvalidConfig, timesource.Manual, timesource.System, c.TimeSource)
	}
	if err := c.StartTime().Validate(); err != nil {
		return fmt.Errorf("%w: start time: %v", ErrInvalidConfig, err)
	}
	if c.CanvasSize <= 0 {
		return fmt.Errorf("%w: canvas_size must be positive", ErrInvalidConfig)
	}
	for name, d := range map[string]time.Duration{"tick": c.Tick, "redraw": c.Redraw, "heartbeat": c.Heartbeat} {
		if d <= 0 {
			return fmt.Errorf("%w: %s must be positive (got %s)", ErrInvalidConfig, name, d)
		}
	}
	if err := clock.ValidateResolution(c.Tick); err != nil {
		return fmt.Errorf("%w: tick: %v", ErrInvalidConfig, err)
	}
	if _, err := c.TimeLocation(); err != nil {
		return fmt.Errorf("%w: location: %v", ErrInvalidConfig, err)
	}
	return nil
}

func (c *Config) StartTime() state.TimeValue {
	return state.TimeValue{Hour: c.Hour, Minute: c.Minute}
}

// TimeLocation resolves Location; empty means the host zone.
func (c *Config) TimeLocation() (*time.Location, error) {
	if c.Location == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Location)
}
