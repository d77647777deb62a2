package mocks

import (
	"context"

	"complytrack/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockStatusSyncService struct {
	mock.Mock
}

func (m *MockStatusSyncService) SyncOne(req *model.Requirement) *model.Requirement {
	m.Called(req)
	return req
}

func (m *MockStatusSyncService) SyncMany(ctx context.Context, reqs []model.Requirement) (int, error) {
	args := m.Called(ctx, reqs)
	return args.Int(0), args.Error(1)
}

func (m *MockStatusSyncService) SyncForOrganization(ctx context.Context, orgID string) (int, error) {
	args := m.Called(ctx, orgID)
	return args.Int(0), args.Error(1)
}

func (m *MockStatusSyncService) SyncAll(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
