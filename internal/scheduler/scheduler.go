// Package scheduler runs registered tasks on a fixed tick.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// DefaultInterval is the pause between two ticks.
const DefaultInterval = 100 * time.Millisecond

// Task is a unit of work run every Period ticks. Arguments are bound by the
// closure.
type Task struct {
	Name   string
	Period uint64
	Run    func(ctx context.Context) error
}

// Result is the outcome of one task invocation.
type Result struct {
	Task    string
	Tick    uint64
	Err     error
	Elapsed time.Duration
}

// Failed reports whether the invocation returned an error or panicked.
func (r Result) Failed() bool { return r.Err != nil }

// PanicError wraps a value recovered from a panicking task.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("task panicked: %v", e.Value)
}

// Options configure the scheduler.
type Options struct {
	// Interval is slept after every tick has fully completed, so slow tasks
	// push later ticks back instead of overlapping them.
	Interval time.Duration
	Sleeper  func(context.Context, time.Duration) error
}

// Scheduler owns the tick counter and the registered tasks.
type Scheduler struct {
	tasks    []Task
	interval time.Duration
	sleeper  func(context.Context, time.Duration) error

	mu    sync.Mutex
	ticks uint64
}

// New validates tasks and returns a scheduler. Tasks are fixed after New.
func New(tasks []Task, opts Options) (*Scheduler, error) {
	for i, t := range tasks {
		if t.Period < 1 {
			return nil, fmt.Errorf("task %d (%s): period must be at least 1", i, t.Name)
		}
		if t.Run == nil {
			return nil, fmt.Errorf("task %d (%s): missing run func", i, t.Name)
		}
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	sleeper := opts.Sleeper
	if sleeper == nil {
		sleeper = sleep
	}
	return &Scheduler{
		tasks:    append([]Task(nil), tasks...),
		interval: interval,
		sleeper:  sleeper,
	}, nil
}

func (s *Scheduler) completed() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticks
}

// Step runs one tick: every task whose period divides the tick counter is
// started, all of them are awaited, then the counter advances. Results are in
// registration order.
func (s *Scheduler) Step(ctx context.Context) []Result {
	s.mu.Lock()
	tick := s.ticks
	s.mu.Unlock()

	var due []Task
	for _, t := range s.tasks {
		if tick%t.Period == 0 {
			due = append(due, t)
		}
	}

	results := make([]Result, len(due))
	var wg sync.WaitGroup
	for i, t := range due {
		wg.Add(1)
		go func(i int, t Task) {
			defer wg.Done()
			results[i] = invoke(ctx, tick, t)
		}(i, t)
	}
	wg.Wait()

	s.mu.Lock()
	s.ticks++
	s.mu.Unlock()
	return results
}

// Run steps until ctx is cancelled, logging failed invocations. It only
// returns the context's error.
func (s *Scheduler) Run(ctx context.Context) error {
	slog.Info("scheduler started", slog.Int("tasks", len(s.tasks)), slog.Duration("interval", s.interval))
	failing := map[string]bool{}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, r := range s.Step(ctx) {
			logResult(r, failing)
		}
		if err := s.sleeper(ctx, s.interval); err != nil {
			return err
		}
	}
}

// logResult warns when a task starts failing and stays quiet while it keeps
// failing every tick.
func logResult(r Result, failing map[string]bool) {
	switch {
	case r.Failed() && !failing[r.Task]:
		failing[r.Task] = true
		slog.Warn("task failed", slog.String("task", r.Task), slog.Uint64("tick", r.Tick), slog.Any("error", r.Err))
	case r.Failed():
		slog.Debug("task failed", slog.String("task", r.Task), slog.Uint64("tick", r.Tick), slog.Any("error", r.Err))
	case failing[r.Task]:
		delete(failing, r.Task)
		slog.Info("task recovered", slog.String("task", r.Task), slog.Uint64("tick", r.Tick))
	}
}

// invoke isolates a single task: errors and panics end up in the result.
func invoke(ctx context.Context, tick uint64, t Task) (r Result) {
	start := time.Now()
	r = Result{Task: t.Name, Tick: tick}
	defer func() {
		if v := recover(); v != nil {
			r.Err = &PanicError{Value: v}
		}
		r.Elapsed = time.Since(start)
	}()
	r.Err = t.Run(ctx)
	return r
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// IsPanic reports whether err came from a recovered panic.
func IsPanic(err error) bool {
	var p *PanicError
	return errors.As(err, &p)
}
