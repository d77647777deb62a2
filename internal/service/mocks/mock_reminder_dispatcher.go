package mocks

import (
	"context"
	"time"

	"complytrack/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockReminderDispatcher struct {
	mock.Mock
}

func (m *MockReminderDispatcher) RunDaily(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

func (m *MockReminderDispatcher) SendTest(ctx context.Context, orgID, requirementID, recipient string, t model.ReminderType) error {
	args := m.Called(ctx, orgID, requirementID, recipient, t)
	return args.Error(0)
}
