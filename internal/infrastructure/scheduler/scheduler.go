// Package scheduler runs periodic background jobs such as the stale artifact sweep.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pulosarok/desa/internal/infrastructure/cache"
	"go.uber.org/zap"
)

// TaskFunc performs one run of a periodic job
type TaskFunc func(ctx context.Context) error

// Task is a periodic job
type Task struct {
	Name     string
	Interval time.Duration
	// Timeout bounds a single run; defaults to the interval
	Timeout time.Duration
	// RunOnStart triggers the first run immediately instead of after one interval
	RunOnStart bool
	Run        TaskFunc
}

// Stats is the run history of a task
type Stats struct {
	Runs      int64
	Failures  int64
	Skipped   int64
	LastRun   time.Time
	LastError string
}

// Scheduler runs registered tasks on their intervals. When a Locker is set only
// one replica runs a given task at a time.
type Scheduler struct {
	logger *zap.Logger
	locker cache.Locker

	mu        sync.Mutex
	tasks     []Task
	stats     map[string]*Stats
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	isRunning bool
}

// New creates a scheduler. locker may be nil.
func New(locker cache.Locker, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		logger: logger,
		locker: locker,
		stats:  make(map[string]*Stats),
	}
}

// Register adds a task. Tasks must be registered before Start.
func (s *Scheduler) Register(task Task) error {
	if task.Name == "" || task.Run == nil || task.Interval <= 0 {
		return fmt.Errorf("%w: %q", ErrInvalidTask, task.Name)
	}
	if task.Timeout <= 0 {
		task.Timeout = task.Interval
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return ErrSchedulerRunning
	}
	s.tasks = append(s.tasks, task)
	s.stats[task.Name] = &Stats{}
	return nil
}

// Start launches one goroutine per task
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return nil
	}
	s.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	for _, task := range s.tasks {
		s.wg.Add(1)
		go s.loop(ctx, task)
	}
	s.logger.Info("Scheduler started", zap.Int("tasks", len(s.tasks)))
	return nil
}

// Stop cancels running tasks and waits for them until ctx ends
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.cancel()
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		s.logger.Info("Scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out")
		return ctx.Err()
	}
}

// Stats returns a copy of the run history for name
func (s *Scheduler) Stats(name string) (Stats, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stats[name]
	if !ok {
		return Stats{}, false
	}
	return *st, true
}

func (s *Scheduler) loop(ctx context.Context, task Task) {
	defer s.wg.Done()

	if task.RunOnStart {
		s.RunOnce(ctx, task)
	}
	ticker := time.NewTicker(task.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx, task)
		}
	}
}

// RunOnce executes task immediately, honoring the distributed lock
func (s *Scheduler) RunOnce(ctx context.Context, task Task) {
	if s.locker != nil {
		release, ok, err := s.locker.TryAcquire(ctx, "scheduler:"+task.Name, task.Timeout)
		if err != nil {
			s.logger.Warn("Scheduler lock failed", zap.String("task", task.Name), zap.Error(err))
			return
		}
		if !ok {
			s.record(task.Name, nil, true)
			s.logger.Debug("Task running elsewhere, skipping", zap.String("task", task.Name))
			return
		}
		defer release()
	}

	runCtx, cancel := context.WithTimeout(ctx, task.Timeout)
	defer cancel()

	start := time.Now()
	err := s.safeRun(runCtx, task)
	s.record(task.Name, err, false)
	if err != nil {
		s.logger.Error("Task failed",
			zap.String("task", task.Name),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return
	}
	s.logger.Debug("Task completed",
		zap.String("task", task.Name),
		zap.Duration("duration", time.Since(start)))
}

func (s *Scheduler) safeRun(ctx context.Context, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task %s panicked: %v", task.Name, r)
		}
	}()
	return task.Run(ctx)
}

func (s *Scheduler) record(name string, err error, skipped bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.stats[name]
	if st == nil {
		st = &Stats{}
		s.stats[name] = st
	}
	if skipped {
		st.Skipped++
		return
	}
	st.Runs++
	st.LastRun = time.Now()
	st.LastError = ""
	if err != nil {
		st.Failures++
		st.LastError = err.Error()
	}
}
