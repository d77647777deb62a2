package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"complytrack/internal/repository"
)

// JobRunPostgres stores scheduler checkpoints in the job_runs table.
type JobRunPostgres struct {
	db *sql.DB
}

func NewJobRunPostgres(db *sql.DB) *JobRunPostgres {
	return &JobRunPostgres{db: db}
}

var _ repository.JobRunRepository = (*JobRunPostgres)(nil)

func (r *JobRunPostgres) LastSuccess(ctx context.Context, name string) (time.Time, bool, error) {
	const q = `SELECT last_success_at FROM job_runs WHERE name = $1`
	var at time.Time
	if err := r.db.QueryRowContext(ctx, q, name).Scan(&at); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}
	return at, true, nil
}

func (r *JobRunPostgres) MarkSuccess(ctx context.Context, name string, at time.Time) error {
	const q = `
		INSERT INTO job_runs (name, last_success_at) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET last_success_at = EXCLUDED.last_success_at
	`
	_, err := r.db.ExecContext(ctx, q, name, at)
	return err
}
