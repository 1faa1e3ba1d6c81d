package state

import (
	"errors"
	"fmt"
	"sync"
)

type Phase int

const (
	BOOTING Phase = iota
	RUNNING
	ERROR
	STOPPED
)

func (p Phase) String() string {
	switch p {
	case BOOTING:
		return "booting"
	case RUNNING:
		return "running"
	case ERROR:
		return "error"
	case STOPPED:
		return "stopped"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// ErrInvalidTime is returned for an hour below zero or a minute outside [0, 59].
var ErrInvalidTime = errors.New("invalid time value")

// TimeValue is the wall-clock reading the watchface displays.
type TimeValue struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

func (tv TimeValue) Validate() error {
	if tv.Hour < 0 {
		return fmt.Errorf("%w: hour %d", ErrInvalidTime, tv.Hour)
	}
	if tv.Minute < 0 || tv.Minute > 59 {
		return fmt.Errorf("%w: minute %d", ErrInvalidTime, tv.Minute)
	}
	return nil
}

func (tv TimeValue) String() string {
	return fmt.Sprintf("%02d:%02d", tv.Hour, tv.Minute)
}

type FrameInfo struct {
	Frames         uint64
	PaintErrors    uint64
	LastPaintMs    uint64 // logical clock reading at the last paint
	LastPaintError string
}

type State struct {
	Phase Phase
	Time  TimeValue
	Frame FrameInfo
}

// Store guards State. Snapshot returns a copy, so readers never see a
// half-written hour/minute pair.
type Store struct {
	mu    sync.RWMutex
	state State
}

func NewStore(initial TimeValue) *Store {
	return &Store{state: State{Phase: BOOTING, Time: initial}}
}

func (store *Store) Snapshot() State {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.state
}

func (store *Store) Time() TimeValue {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.state.Time
}

// SetTime replaces the hour/minute pair atomically.
func (store *Store) SetTime(tv TimeValue) error {
	if err := tv.Validate(); err != nil {
		return err
	}
	store.mu.Lock()
	store.state.Time = tv
	store.mu.Unlock()
	return nil
}

func (store *Store) SetPhase(phase Phase) {
	store.mu.Lock()
	store.state.Phase = phase
	store.mu.Unlock()
}

// RecordPaint accounts one painted frame; a nil err clears LastPaintError.
func (store *Store) RecordPaint(clockMs uint64, err error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.state.Frame.Frames++
	store.state.Frame.LastPaintMs = clockMs
	if err != nil {
		store.state.Frame.PaintErrors++
		store.state.Frame.LastPaintError = err.Error()
		return
	}
	store.state.Frame.LastPaintError = ""
}
