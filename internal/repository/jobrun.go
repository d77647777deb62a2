package repository

import (
	"context"
	"time"
)

// JobRunRepository stores the last successful run of each scheduled job.
type JobRunRepository interface {
	// LastSuccess returns the marker for name; ok is false when the job never succeeded.
	LastSuccess(ctx context.Context, name string) (at time.Time, ok bool, err error)
	MarkSuccess(ctx context.Context, name string, at time.Time) error
}
