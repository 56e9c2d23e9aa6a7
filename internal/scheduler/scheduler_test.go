package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	ticks map[string][]uint64
}

func newRecorder() *recorder {
	return &recorder{ticks: map[string][]uint64{}}
}

func (r *recorder) task(name string, period uint64, s **Scheduler) Task {
	return Task{
		Name:   name,
		Period: period,
		Run: func(context.Context) error {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.ticks[name] = append(r.ticks[name], (*s).completed())
			return nil
		},
	}
}

func (r *recorder) get(name string) []uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ticks[name]
}

func TestStepPeriods(t *testing.T) {
	rec := newRecorder()
	var s *Scheduler
	s, err := New([]Task{
		rec.task("every", 1, &s),
		rec.task("third", 3, &s),
	}, Options{})
	require.NoError(t, err)

	for i := 0; i < 6; i++ {
		s.Step(context.Background())
	}

	assert.Equal(t, []uint64{0, 1, 2, 3, 4, 5}, rec.get("every"))
	assert.Equal(t, []uint64{0, 3}, rec.get("third"))
	assert.Equal(t, uint64(6), s.completed())
}

func TestStepFaultIsolation(t *testing.T) {
	boom := errors.New("read failed")
	var calls sync.Map
	count := func(name string) {
		v, _ := calls.LoadOrStore(name, new(int))
		*(v.(*int))++
	}

	s, err := New([]Task{
		{Name: "failing", Period: 1, Run: func(context.Context) error { count("failing"); return boom }},
		{Name: "panicking", Period: 1, Run: func(context.Context) error { count("panicking"); panic("bad report") }},
		{Name: "healthy", Period: 1, Run: func(context.Context) error { count("healthy"); return nil }},
	}, Options{})
	require.NoError(t, err)

	results := s.Step(context.Background())
	require.Len(t, results, 3)
	assert.ErrorIs(t, results[0].Err, boom)
	assert.True(t, IsPanic(results[1].Err))
	assert.False(t, results[2].Failed())

	s.Step(context.Background())
	for _, name := range []string{"failing", "panicking", "healthy"} {
		v, ok := calls.Load(name)
		require.True(t, ok, name)
		assert.Equal(t, 2, *(v.(*int)), name)
	}
}

func TestStepWaitsForAllTasks(t *testing.T) {
	var mu sync.Mutex
	var done []string
	slow := func(name string, d time.Duration) Task {
		return Task{Name: name, Period: 1, Run: func(context.Context) error {
			time.Sleep(d)
			mu.Lock()
			done = append(done, name)
			mu.Unlock()
			return nil
		}}
	}
	s, err := New([]Task{slow("a", 30*time.Millisecond), slow("b", 10*time.Millisecond)}, Options{})
	require.NoError(t, err)

	results := s.Step(context.Background())

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"a", "b"}, done)
	assert.Equal(t, "a", results[0].Task)
	assert.GreaterOrEqual(t, results[0].Elapsed, 30*time.Millisecond)
}

func TestNewValidation(t *testing.T) {
	_, err := New([]Task{{Name: "zero", Period: 0, Run: func(context.Context) error { return nil }}}, Options{})
	assert.Error(t, err)

	_, err = New([]Task{{Name: "nil", Period: 1}}, Options{})
	assert.Error(t, err)
}

func TestRunSleepsBetweenTicksAndStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var slept []time.Duration
	var s *Scheduler
	s, err := New([]Task{{Name: "noop", Period: 1, Run: func(context.Context) error { return errors.New("flaky") }}}, Options{
		Interval: 25 * time.Millisecond,
		Sleeper: func(ctx context.Context, d time.Duration) error {
			slept = append(slept, d)
			if s.completed() == 4 {
				cancel()
				return ctx.Err()
			}
			return nil
		},
	})
	require.NoError(t, err)

	err = s.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, uint64(4), s.completed())
	assert.Equal(t, []time.Duration{25 * time.Millisecond, 25 * time.Millisecond, 25 * time.Millisecond, 25 * time.Millisecond}, slept)
}

func TestSleepHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleep(ctx, time.Hour), context.Canceled)
	assert.NoError(t, sleep(context.Background(), time.Millisecond))
}

func TestLogResultTracksFailingTasks(t *testing.T) {
	failing := map[string]bool{}
	logResult(Result{Task: "dev", Err: errors.New("x")}, failing)
	assert.True(t, failing["dev"])
	logResult(Result{Task: "dev", Err: errors.New("x")}, failing)
	assert.True(t, failing["dev"])
	logResult(Result{Task: "dev"}, failing)
	assert.False(t, failing["dev"])
}
