package mocks

import (
	"context"
	"time"

	"complytrack/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockReminderLogRepository struct {
	mock.Mock
}

func (m *MockReminderLogRepository) Append(ctx context.Context, entry *model.ReminderLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockReminderLogRepository) ExistsSince(ctx context.Context, requirementID string, reminderType model.ReminderType, since time.Time) (bool, error) {
	args := m.Called(ctx, requirementID, reminderType, since)
	return args.Bool(0), args.Error(1)
}

func (m *MockReminderLogRepository) ExistsForCycle(ctx context.Context, requirementID string, reminderType model.ReminderType, cycleDate time.Time) (bool, error) {
	args := m.Called(ctx, requirementID, reminderType, cycleDate)
	return args.Bool(0), args.Error(1)
}
