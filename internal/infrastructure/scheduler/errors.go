package scheduler

import "errors"

var (
	// ErrSchedulerRunning is returned when registering a task after Start
	ErrSchedulerRunning = errors.New("scheduler is already running")

	// ErrInvalidTask is returned for tasks without a name, function or interval
	ErrInvalidTask = errors.New("invalid scheduled task")
)
