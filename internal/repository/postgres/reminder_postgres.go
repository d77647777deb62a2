package postgres

import (
	"context"
	"database/sql"
	"time"

	"complytrack/internal/model"
	"complytrack/internal/repository"
)

// ReminderLogPostgres is a PostgreSQL implementation of repository.ReminderLogRepository.
type ReminderLogPostgres struct {
	db *sql.DB
}

// NewReminderLogPostgres creates a new ReminderLogPostgres repository.
func NewReminderLogPostgres(db *sql.DB) *ReminderLogPostgres {
	return &ReminderLogPostgres{db: db}
}

var _ repository.ReminderLogRepository = (*ReminderLogPostgres)(nil)

// Append inserts one reminder log row.
func (r *ReminderLogPostgres) Append(ctx context.Context, entry *model.ReminderLog) error {
	const q = `
		INSERT INTO reminder_logs (id, requirement_id, reminder_type, cycle_date, sent_at, email_to)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, q,
		entry.ID,
		entry.RequirementID,
		string(entry.ReminderType),
		entry.CycleDate,
		entry.SentAt,
		entry.EmailTo,
	)
	return err
}

func (r *ReminderLogPostgres) ExistsSince(ctx context.Context, requirementID string, reminderType model.ReminderType, since time.Time) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM reminder_logs
			WHERE requirement_id = $1 AND reminder_type = $2 AND sent_at >= $3
		)
	`
	var exists bool
	err := r.db.QueryRowContext(ctx, q, requirementID, string(reminderType), since).Scan(&exists)
	return exists, err
}

func (r *ReminderLogPostgres) ExistsForCycle(ctx context.Context, requirementID string, reminderType model.ReminderType, cycleDate time.Time) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM reminder_logs
			WHERE requirement_id = $1 AND reminder_type = $2 AND cycle_date = $3
		)
	`
	var exists bool
	err := r.db.QueryRowContext(ctx, q, requirementID, string(reminderType), cycleDate).Scan(&exists)
	return exists, err
}
