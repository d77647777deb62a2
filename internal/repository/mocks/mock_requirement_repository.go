package mocks

import (
	"context"

	"complytrack/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockRequirementRepository struct {
	mock.Mock
}

func (m *MockRequirementRepository) Create(ctx context.Context, req *model.Requirement) (*model.Requirement, error) {
	args := m.Called(ctx, req)
	if f, ok := args.Get(0).(func(context.Context, *model.Requirement) *model.Requirement); ok {
		return f(ctx, req), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Requirement), args.Error(1)
}

func (m *MockRequirementRepository) FindByID(ctx context.Context, id string) (*model.Requirement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Requirement), args.Error(1)
}

func (m *MockRequirementRepository) Update(ctx context.Context, req *model.Requirement) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockRequirementRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRequirementRepository) ListByOrganization(ctx context.Context, orgID string) ([]model.Requirement, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Requirement), args.Error(1)
}

func (m *MockRequirementRepository) ListAll(ctx context.Context) ([]model.Requirement, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Requirement), args.Error(1)
}

func (m *MockRequirementRepository) UpdateStatuses(ctx context.Context, reqs []model.Requirement) error {
	args := m.Called(ctx, reqs)
	return args.Error(0)
}
