package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pulosarok/desa/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestScheduler_RegisterValidates(t *testing.T) {
	s := New(nil, zap.NewNop())
	assert.ErrorIs(t, s.Register(Task{Name: "x", Interval: time.Second}), ErrInvalidTask)
	assert.ErrorIs(t, s.Register(Task{Name: "x", Run: func(context.Context) error { return nil }}), ErrInvalidTask)
	assert.ErrorIs(t, s.Register(Task{Interval: time.Second, Run: func(context.Context) error { return nil }}), ErrInvalidTask)

	require.NoError(t, s.Register(Task{Name: "ok", Interval: time.Second, Run: func(context.Context) error { return nil }}))
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop(context.Background())
	assert.ErrorIs(t, s.Register(Task{Name: "late", Interval: time.Second, Run: func(context.Context) error { return nil }}), ErrSchedulerRunning)
}

func TestScheduler_RunsPeriodically(t *testing.T) {
	var runs atomic.Int32
	s := New(nil, zap.NewNop())
	require.NoError(t, s.Register(Task{
		Name:       "sweep",
		Interval:   10 * time.Millisecond,
		RunOnStart: true,
		Run: func(context.Context) error {
			runs.Add(1)
			return nil
		},
	}))
	require.NoError(t, s.Start(context.Background()))

	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))

	st, ok := s.Stats("sweep")
	require.True(t, ok)
	assert.GreaterOrEqual(t, st.Runs, int64(3))
	assert.Zero(t, st.Failures)
}

func TestScheduler_RecordsFailuresAndPanics(t *testing.T) {
	s := New(nil, zap.NewNop())
	ctx := context.Background()

	s.RunOnce(ctx, Task{Name: "fail", Timeout: time.Second, Run: func(context.Context) error { return errors.New("db down") }})
	s.RunOnce(ctx, Task{Name: "panic", Timeout: time.Second, Run: func(context.Context) error { panic("nil map") }})

	st, _ := s.Stats("fail")
	assert.EqualValues(t, 1, st.Failures)
	assert.Equal(t, "db down", st.LastError)

	st, _ = s.Stats("panic")
	assert.EqualValues(t, 1, st.Failures)
	assert.Contains(t, st.LastError, "panicked")
}

func TestScheduler_SkipsWhenLockHeld(t *testing.T) {
	locker := cache.NewMemoryLocker()
	ctx := context.Background()
	release, ok, err := locker.TryAcquire(ctx, "scheduler:sweep", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	var runs atomic.Int32
	s := New(locker, zap.NewNop())
	task := Task{Name: "sweep", Timeout: time.Second, Run: func(context.Context) error {
		runs.Add(1)
		return nil
	}}

	s.RunOnce(ctx, task)
	assert.Zero(t, runs.Load())
	st, _ := s.Stats("sweep")
	assert.EqualValues(t, 1, st.Skipped)

	release()
	s.RunOnce(ctx, task)
	assert.EqualValues(t, 1, runs.Load())
}
