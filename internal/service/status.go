package service

import (
	"context"
	"fmt"
	"time"

	"complytrack/internal/model"
	"complytrack/internal/repository"
)

// ExpiringSoonDays is the inclusive horizon within which a requirement counts as expiring soon.
const ExpiringSoonDays = 30

// Today returns the calendar date of now in loc.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return model.DateOf(now.In(loc))
}

// Classify derives a requirement's status. First match wins:
// past expiration is expired, within ExpiringSoonDays is expiring_soon,
// otherwise documents decide between compliant and missing.
func Classify(expirationDate time.Time, hasDocuments bool, today time.Time) model.Status {
	exp := model.DateOf(expirationDate)
	day := model.DateOf(today)

	switch {
	case exp.Before(day):
		return model.StatusExpired
	case !exp.After(day.AddDate(0, 0, ExpiringSoonDays)):
		return model.StatusExpiringSoon
	case hasDocuments:
		return model.StatusCompliant
	default:
		return model.StatusMissing
	}
}

// StatusSyncService re-classifies requirements against the current date.
type StatusSyncService interface {
	// SyncOne classifies req in place without persisting it.
	SyncOne(req *model.Requirement) *model.Requirement

	// SyncMany classifies every requirement in place and persists the changed statuses
	// in one transaction. It returns the number of requirements processed.
	SyncMany(ctx context.Context, reqs []model.Requirement) (int, error)

	// SyncForOrganization runs SyncMany over one organization's requirements.
	SyncForOrganization(ctx context.Context, orgID string) (int, error)

	// SyncAll runs SyncMany over every requirement in the system.
	SyncAll(ctx context.Context) (int, error)
}

type statusSyncService struct {
	repo repository.RequirementRepository
	opts options
}

// NewStatusSyncService constructs a StatusSyncService.
func NewStatusSyncService(repo repository.RequirementRepository, opts ...Option) StatusSyncService {
	return &statusSyncService{repo: repo, opts: buildOptions(opts)}
}

func (s *statusSyncService) SyncOne(req *model.Requirement) *model.Requirement {
	s.classify(req, s.opts.now())
	return req
}

func (s *statusSyncService) classify(req *model.Requirement, now time.Time) bool {
	status := Classify(req.ExpirationDate, req.HasDocuments(), Today(now, s.opts.loc))
	if status == req.Status {
		return false
	}
	req.Status = status
	req.UpdatedAt = now.UTC()
	return true
}

func (s *statusSyncService) SyncMany(ctx context.Context, reqs []model.Requirement) (int, error) {
	now := s.opts.now()
	changed := make([]model.Requirement, 0)
	for i := range reqs {
		if s.classify(&reqs[i], now) {
			changed = append(changed, reqs[i])
		}
	}

	if len(changed) > 0 {
		if err := s.repo.UpdateStatuses(ctx, changed); err != nil {
			return 0, fmt.Errorf("persist statuses: %w", err)
		}
		s.opts.metrics.StatusChanges(len(changed))
	}
	return len(reqs), nil
}

func (s *statusSyncService) SyncForOrganization(ctx context.Context, orgID string) (int, error) {
	if orgID == "" {
		return 0, ErrOrganizationRequired
	}
	reqs, err := s.repo.ListByOrganization(ctx, orgID)
	if err != nil {
		return 0, fmt.Errorf("list requirements: %w", err)
	}
	return s.SyncMany(ctx, reqs)
}

func (s *statusSyncService) SyncAll(ctx context.Context) (int, error) {
	reqs, err := s.repo.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("list requirements: %w", err)
	}
	return s.SyncMany(ctx, reqs)
}
