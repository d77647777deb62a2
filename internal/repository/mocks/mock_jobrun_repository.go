package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockJobRunRepository struct {
	mock.Mock
}

func (m *MockJobRunRepository) LastSuccess(ctx context.Context, name string) (time.Time, bool, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(time.Time), args.Bool(1), args.Error(2)
}

func (m *MockJobRunRepository) MarkSuccess(ctx context.Context, name string, at time.Time) error {
	args := m.Called(ctx, name, at)
	return args.Error(0)
}
