// Package sched runs periodic and one-shot callbacks on a single goroutine,
// outside the timer context that advances the logical clock.
package sched

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
)

var (
	ErrQueueFull      = errors.New("event queue full")
	ErrAlreadyRunning = errors.New("dispatch already running")
	ErrInvalidPeriod  = errors.New("period must be positive")
)

const eventBacklog = 32

// Task is one unit of run-loop work. A non-nil error stops dispatch.
type Task func(ctx context.Context) error

type periodic struct {
	name   string
	period time.Duration
	fn     Task
	next   time.Time
	runs   uint64
}

// Queue is a cooperative event queue. Every callback runs on the goroutine
// that called DispatchForever, so callbacks never overlap.
type Queue struct {
	clock clockwork.Clock

	mu    sync.Mutex
	tasks []*periodic

	events     chan Task
	wake       chan struct{}
	dispatched atomic.Bool
}

func New(clk clockwork.Clock) *Queue {
	if clk == nil {
		clk = clockwork.NewRealClock()
	}
	return &Queue{
		clock:  clk,
		events: make(chan Task, eventBacklog),
		wake:   make(chan struct{}, 1),
	}
}

// CallEvery schedules fn every period, first one period from now.
func (q *Queue) CallEvery(name string, period time.Duration, fn Task) error {
	if period <= 0 {
		return fmt.Errorf("%s: %w", name, ErrInvalidPeriod)
	}
	q.mu.Lock()
	q.tasks = append(q.tasks, &periodic{name: name, period: period, fn: fn, next: q.clock.Now().Add(period)})
	q.mu.Unlock()

	if q.dispatched.Load() {
		select {
		case q.wake <- struct{}{}:
		default:
		}
	}
	return nil
}

// Call posts fn to run once on the dispatch goroutine. It never blocks.
func (q *Queue) Call(fn Task) error {
	select {
	case q.events <- fn:
		return nil
	default:
		return ErrQueueFull
	}
}

// Runs reports how many times the named periodic task has run.
func (q *Queue) Runs(name string) uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	var total uint64
	for _, task := range q.tasks {
		if task.name == name {
			total += task.runs
		}
	}
	return total
}

// DispatchForever services callbacks until ctx is done or a callback fails.
// It does not return in normal operation.
func (q *Queue) DispatchForever(ctx context.Context) error {
	if !q.dispatched.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer q.dispatched.Store(false)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := q.runDue(ctx); err != nil {
			return err
		}

		var timer clockwork.Timer
		var fire <-chan time.Time
		if wait, ok := q.untilNext(); ok {
			if wait <= 0 {
				continue
			}
			timer = q.clock.NewTimer(wait)
			fire = timer.Chan()
		}

		select {
		case <-ctx.Done():
			stopTimer(timer)
			return ctx.Err()
		case fn := <-q.events:
			stopTimer(timer)
			if err := fn(ctx); err != nil {
				return fmt.Errorf("event: %w", err)
			}
			// The loop re-plans after every event anyway.
			select {
			case <-q.wake:
			default:
			}
		case <-q.wake:
			stopTimer(timer)
		case <-fire:
		}
	}
}

func (q *Queue) runDue(ctx context.Context) error {
	for _, task := range q.due(q.clock.Now()) {
		if err := task.fn(ctx); err != nil {
			return fmt.Errorf("task %s: %w", task.name, err)
		}
		q.reschedule(task)
	}
	return nil
}

func (q *Queue) due(now time.Time) []*periodic {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []*periodic
	for _, task := range q.tasks {
		if !task.next.After(now) {
			out = append(out, task)
		}
	}
	return out
}

// reschedule moves task one period on; an overrun skips missed slots.
func (q *Queue) reschedule(task *periodic) {
	now := q.clock.Now()
	q.mu.Lock()
	defer q.mu.Unlock()
	task.runs++
	task.next = task.next.Add(task.period)
	if !task.next.After(now) {
		task.next = now.Add(task.period)
	}
}

func (q *Queue) untilNext() (time.Duration, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.tasks) == 0 {
		return 0, false
	}
	earliest := q.tasks[0].next
	for _, task := range q.tasks[1:] {
		if task.next.Before(earliest) {
			earliest = task.next
		}
	}
	return earliest.Sub(q.clock.Now()), true
}

func stopTimer(timer clockwork.Timer) {
	if timer != nil {
		timer.Stop()
	}
}
