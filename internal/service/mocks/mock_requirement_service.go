package mocks

import (
	"context"
	"io"

	"complytrack/internal/model"
	"complytrack/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockRequirementService struct {
	mock.Mock
}

func (m *MockRequirementService) Create(ctx context.Context, orgID string, in service.RequirementInput) (*model.Requirement, error) {
	args := m.Called(ctx, orgID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Requirement), args.Error(1)
}

func (m *MockRequirementService) Get(ctx context.Context, orgID, id string) (*model.Requirement, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Requirement), args.Error(1)
}

func (m *MockRequirementService) List(ctx context.Context, orgID string) ([]model.Requirement, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Requirement), args.Error(1)
}

func (m *MockRequirementService) Update(ctx context.Context, orgID, id string, in service.RequirementInput) (*model.Requirement, error) {
	args := m.Called(ctx, orgID, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Requirement), args.Error(1)
}

func (m *MockRequirementService) Delete(ctx context.Context, orgID, id string) error {
	args := m.Called(ctx, orgID, id)
	return args.Error(0)
}

func (m *MockRequirementService) Documents(ctx context.Context, orgID, id string) ([]model.Document, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockRequirementService) Dashboard(ctx context.Context, orgID string) (*service.Dashboard, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Dashboard), args.Error(1)
}

func (m *MockRequirementService) ExportCSV(ctx context.Context, orgID string, w io.Writer) error {
	args := m.Called(ctx, orgID, w)
	if s, ok := args.Get(0).(string); ok {
		_, _ = io.WriteString(w, s)
		return args.Error(1)
	}
	return args.Error(0)
}
