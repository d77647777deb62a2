package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"complytrack/internal/model"
	repoMocks "complytrack/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func day(offset int) time.Time {
	return model.DateOf(fixedNow).AddDate(0, 0, offset)
}

func TestClassify(t *testing.T) {
	today := day(0)

	tests := []struct {
		name         string
		offset       int
		hasDocuments bool
		want         model.Status
	}{
		{name: "expired long ago without documents", offset: -365, want: model.StatusExpired},
		{name: "expired yesterday with documents", offset: -1, hasDocuments: true, want: model.StatusExpired},
		{name: "expires today", offset: 0, want: model.StatusExpiringSoon},
		{name: "expires today with documents", offset: 0, hasDocuments: true, want: model.StatusExpiringSoon},
		{name: "expires in 15 days", offset: 15, want: model.StatusExpiringSoon},
		{name: "boundary exactly 30 days", offset: 30, hasDocuments: true, want: model.StatusExpiringSoon},
		{name: "31 days with documents", offset: 31, hasDocuments: true, want: model.StatusCompliant},
		{name: "31 days without documents", offset: 31, want: model.StatusMissing},
		{name: "far future with documents", offset: 400, hasDocuments: true, want: model.StatusCompliant},
		{name: "far future without documents", offset: 400, want: model.StatusMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(day(tt.offset), tt.hasDocuments, today))
		})
	}
}

func TestClassify_AllPastDatesExpired(t *testing.T) {
	today := day(0)
	for offset := -60; offset < 0; offset++ {
		assert.Equal(t, model.StatusExpired, Classify(day(offset), true, today))
		assert.Equal(t, model.StatusExpired, Classify(day(offset), false, today))
	}
	for offset := 0; offset <= ExpiringSoonDays; offset++ {
		assert.Equal(t, model.StatusExpiringSoon, Classify(day(offset), true, today))
		assert.Equal(t, model.StatusExpiringSoon, Classify(day(offset), false, today))
	}
}

func TestClassify_IgnoresTimeOfDay(t *testing.T) {
	lateToday := time.Date(2026, 10, 17, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, model.StatusExpiringSoon, Classify(day(0), false, lateToday))
	assert.Equal(t, model.StatusExpired, Classify(day(-1).Add(23*time.Hour), false, lateToday))
}

func TestToday_UsesLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	now := time.Date(2026, 10, 17, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC), Today(now, tokyo))
	assert.Equal(t, time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC), Today(now, time.UTC))
}

func TestStatusSyncService_SyncOne(t *testing.T) {
	svc := NewStatusSyncService(nil, WithClock(fixedClock), WithLocation(time.UTC))

	req := &model.Requirement{ID: "r1", ExpirationDate: day(-3), Status: model.StatusMissing}
	got := svc.SyncOne(req)

	assert.Same(t, req, got)
	assert.Equal(t, model.StatusExpired, req.Status)
	assert.Equal(t, fixedNow, req.UpdatedAt)

	// Idempotent: no time passage, no document change.
	stamp := req.UpdatedAt
	svc.SyncOne(req)
	assert.Equal(t, model.StatusExpired, req.Status)
	assert.Equal(t, stamp, req.UpdatedAt)
}

func TestStatusSyncService_SyncMany(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		reqs       []model.Requirement
		setupMocks func(m *repoMocks.MockRequirementRepository)
		wantCount  int
		wantErr    bool
		wantStatus []model.Status
	}{
		{
			name: "persists only changed statuses",
			reqs: []model.Requirement{
				{ID: "r1", ExpirationDate: day(-3), Status: model.StatusMissing},
				{ID: "r2", ExpirationDate: day(90), DocumentCount: 1, Status: model.StatusCompliant},
				{ID: "r3", ExpirationDate: day(7), DocumentCount: 2, Status: model.StatusCompliant},
			},
			setupMocks: func(m *repoMocks.MockRequirementRepository) {
				m.On("UpdateStatuses", ctx, mock.MatchedBy(func(batch []model.Requirement) bool {
					return len(batch) == 2 &&
						batch[0].ID == "r1" && batch[0].Status == model.StatusExpired &&
						batch[1].ID == "r3" && batch[1].Status == model.StatusExpiringSoon
				})).Return(nil).Once()
			},
			wantCount:  3,
			wantStatus: []model.Status{model.StatusExpired, model.StatusCompliant, model.StatusExpiringSoon},
		},
		{
			name: "nothing changed skips persistence",
			reqs: []model.Requirement{
				{ID: "r1", ExpirationDate: day(90), Status: model.StatusMissing},
			},
			setupMocks: func(m *repoMocks.MockRequirementRepository) {},
			wantCount:  1,
			wantStatus: []model.Status{model.StatusMissing},
		},
		{
			name: "persistence failure aborts the batch",
			reqs: []model.Requirement{
				{ID: "r1", ExpirationDate: day(-3), Status: model.StatusMissing},
			},
			setupMocks: func(m *repoMocks.MockRequirementRepository) {
				m.On("UpdateStatuses", ctx, mock.Anything).Return(errors.New("tx aborted")).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockRequirementRepository)
			tt.setupMocks(mRepo)
			svc := NewStatusSyncService(mRepo, WithClock(fixedClock), WithLocation(time.UTC))

			n, err := svc.SyncMany(ctx, tt.reqs)

			if tt.wantErr {
				assert.ErrorContains(t, err, "persist statuses")
				assert.Equal(t, 0, n)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantCount, n)
				for i, want := range tt.wantStatus {
					assert.Equal(t, want, tt.reqs[i].Status)
				}
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestStatusSyncService_SyncForOrganization(t *testing.T) {
	ctx := context.Background()

	t.Run("syncs the organization's requirements", func(t *testing.T) {
		mRepo := new(repoMocks.MockRequirementRepository)
		mRepo.On("ListByOrganization", ctx, "org-1").Return([]model.Requirement{
			{ID: "r1", OrganizationID: "org-1", ExpirationDate: day(-3)},
		}, nil)
		mRepo.On("UpdateStatuses", ctx, mock.Anything).Return(nil)

		n, err := NewStatusSyncService(mRepo, WithClock(fixedClock)).SyncForOrganization(ctx, "org-1")

		assert.NoError(t, err)
		assert.Equal(t, 1, n)
		mRepo.AssertExpectations(t)
	})

	t.Run("requires organization", func(t *testing.T) {
		_, err := NewStatusSyncService(nil).SyncForOrganization(ctx, "")
		assert.ErrorIs(t, err, ErrOrganizationRequired)
	})

	t.Run("list failure", func(t *testing.T) {
		mRepo := new(repoMocks.MockRequirementRepository)
		mRepo.On("ListByOrganization", ctx, "org-1").Return(nil, errors.New("db fail"))

		_, err := NewStatusSyncService(mRepo).SyncForOrganization(ctx, "org-1")
		assert.ErrorContains(t, err, "list requirements")
	})
}

func TestStatusSyncService_SyncAll(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockRequirementRepository)
	mRepo.On("ListAll", ctx).Return([]model.Requirement{
		{ID: "r1", OrganizationID: "org-1", ExpirationDate: day(-3), Status: model.StatusMissing},
		{ID: "r2", OrganizationID: "org-2", ExpirationDate: day(60), DocumentCount: 1, Status: model.StatusMissing},
	}, nil)
	mRepo.On("UpdateStatuses", ctx, mock.MatchedBy(func(batch []model.Requirement) bool {
		return len(batch) == 2 && batch[0].Status == model.StatusExpired && batch[1].Status == model.StatusCompliant
	})).Return(nil)

	n, err := NewStatusSyncService(mRepo, WithClock(fixedClock), WithLocation(time.UTC)).SyncAll(ctx)

	assert.NoError(t, err)
	assert.Equal(t, 2, n)
	mRepo.AssertExpectations(t)
}
