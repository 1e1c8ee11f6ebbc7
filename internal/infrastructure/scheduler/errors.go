package scheduler

import "errors"

var (
	// ErrSchedulerNotRunning rejects job submissions before Start or after Stop.
	ErrSchedulerNotRunning = errors.New("scheduler is not running")

	// ErrJobQueueFull signals that every worker is busy and the queue has no room.
	ErrJobQueueFull = errors.New("job queue is full")

	// ErrUnknownSweepKind is returned for a job whose sweep kind has no executor branch.
	ErrUnknownSweepKind = errors.New("unknown sweep kind")

	// ErrInvalidConfig is returned by Start when the worker pool settings are unusable.
	ErrInvalidConfig = errors.New("invalid scheduler configuration")
)
