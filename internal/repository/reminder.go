package repository

import (
	"context"
	"time"

	"complytrack/internal/model"
)

// ReminderLogRepository is append-only: rows are never updated or deleted here.
type ReminderLogRepository interface {
	Append(ctx context.Context, entry *model.ReminderLog) error

	// ExistsSince reports whether a log row for (requirementID, reminderType) was sent at or after since.
	ExistsSince(ctx context.Context, requirementID string, reminderType model.ReminderType, since time.Time) (bool, error)

	// ExistsForCycle reports whether a log row for (requirementID, reminderType) was recorded against cycleDate.
	ExistsForCycle(ctx context.Context, requirementID string, reminderType model.ReminderType, cycleDate time.Time) (bool, error)
}
