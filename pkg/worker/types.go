package worker

import "time"

// Status represents the current state of the worker pool
type Status string

const (
	// StatusIdle means the pool is running with nothing queued or in flight
	StatusIdle Status = "idle"

	// StatusProcessing means at least one task is queued or executing
	StatusProcessing Status = "processing"

	// StatusShuttingDown means Stop was called and tasks are still draining
	StatusShuttingDown Status = "shutting_down"

	// StatusStopped means the pool is not running
	StatusStopped Status = "stopped"
)

// Stats is a point-in-time snapshot of pool counters
type Stats struct {
	// ActiveWorkers is the number of workers currently executing a task
	ActiveWorkers int

	// QueuedTasks is the number of submitted tasks not yet picked up
	QueuedTasks int

	// CompletedTasks counts tasks that returned without error
	CompletedTasks int

	// FailedTasks counts tasks that returned an error or were cancelled
	FailedTasks int

	Status Status

	// Uptime is the time since Start, zero before the pool starts
	Uptime time.Duration
}
