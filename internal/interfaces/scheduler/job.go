package scheduler

import "context"

// Job is a unit of work executed by the worker pool. Sync jobs are the
// only implementation today, but cleanup or notification jobs fit the
// same shape.
type Job interface {
	// Execute runs the job. The context carries cancellation and the
	// per-job timeout.
	Execute(ctx context.Context) error

	// UserID identifies whose data the job processes, for logging.
	UserID() string

	// Description is a human-readable summary used in logs.
	Description() string
}
