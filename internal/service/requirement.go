package service

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"complytrack/internal/model"
	"complytrack/internal/repository"
	"complytrack/internal/storage"
)

const (
	dateLayout         = "2006-01-02"
	maxNameLength      = 200
	maxFrequencyLength = 50
)

// RequirementInput is the create/update payload for a requirement.
type RequirementInput struct {
	Name             string `json:"name"`
	Description      string `json:"description"`
	ExpirationDate   string `json:"expiration_date"`
	RenewalFrequency string `json:"renewal_frequency"`
}

// Validate checks required fields and the YYYY-MM-DD expiration date.
func (in RequirementInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, maxNameLength)),
		validation.Field(&in.ExpirationDate, validation.Required, validation.Date(dateLayout)),
		validation.Field(&in.RenewalFrequency, validation.Length(0, maxFrequencyLength)),
	)
}

// StatusCounts summarizes an organization's requirements by status.
type StatusCounts struct {
	Total                int     `json:"total"`
	Compliant            int     `json:"compliant"`
	ExpiringSoon         int     `json:"expiring_soon"`
	Expired              int     `json:"expired"`
	Missing              int     `json:"missing"`
	CompliancePercentage float64 `json:"compliance_percentage"`
}

// Dashboard is the organization overview: counts plus what expires within 30 days.
type Dashboard struct {
	Counts       StatusCounts        `json:"counts"`
	ExpiringSoon []model.Requirement `json:"expiring_soon"`
}

// RequirementService implements requirement use cases. Every read syncs status first.
type RequirementService interface {
	Create(ctx context.Context, orgID string, in RequirementInput) (*model.Requirement, error)
	Get(ctx context.Context, orgID, id string) (*model.Requirement, error)
	List(ctx context.Context, orgID string) ([]model.Requirement, error)
	Update(ctx context.Context, orgID, id string, in RequirementInput) (*model.Requirement, error)

	// Delete removes the requirement and its documents; stored files are removed best-effort.
	Delete(ctx context.Context, orgID, id string) error

	// Documents lists a requirement's documents, newest version first.
	Documents(ctx context.Context, orgID, id string) ([]model.Document, error)

	Dashboard(ctx context.Context, orgID string) (*Dashboard, error)

	// ExportCSV writes the organization's requirements as CSV.
	ExportCSV(ctx context.Context, orgID string, w io.Writer) error
}

type requirementService struct {
	repo  repository.RequirementRepository
	docs  repository.DocumentRepository
	store storage.Storage
	sync  StatusSyncService
	opts  options
}

// NewRequirementService constructs a RequirementService.
func NewRequirementService(
	repo repository.RequirementRepository,
	docs repository.DocumentRepository,
	store storage.Storage,
	sync StatusSyncService,
	opts ...Option,
) RequirementService {
	return &requirementService{repo: repo, docs: docs, store: store, sync: sync, opts: buildOptions(opts)}
}

func (s *requirementService) Create(ctx context.Context, orgID string, in RequirementInput) (*model.Requirement, error) {
	if orgID == "" {
		return nil, ErrOrganizationRequired
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	exp, _ := time.Parse(dateLayout, in.ExpirationDate)

	now := s.opts.now().UTC()
	req := &model.Requirement{
		ID:               uuid.NewString(),
		OrganizationID:   orgID,
		Name:             strings.TrimSpace(in.Name),
		Description:      in.Description,
		ExpirationDate:   exp,
		RenewalFrequency: in.RenewalFrequency,
		Status:           model.StatusMissing,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	s.sync.SyncOne(req)

	stored, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create requirement: %w", err)
	}
	return stored, nil
}

func (s *requirementService) Get(ctx context.Context, orgID, id string) (*model.Requirement, error) {
	req, err := s.load(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	batch := []model.Requirement{*req}
	if _, err := s.sync.SyncMany(ctx, batch); err != nil {
		return nil, err
	}
	return &batch[0], nil
}

func (s *requirementService) List(ctx context.Context, orgID string) ([]model.Requirement, error) {
	if orgID == "" {
		return nil, ErrOrganizationRequired
	}
	reqs, err := s.repo.ListByOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if _, err := s.sync.SyncMany(ctx, reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

func (s *requirementService) Update(ctx context.Context, orgID, id string, in RequirementInput) (*model.Requirement, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	req, err := s.load(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	exp, _ := time.Parse(dateLayout, in.ExpirationDate)

	req.Name = strings.TrimSpace(in.Name)
	req.Description = in.Description
	req.ExpirationDate = exp
	req.RenewalFrequency = in.RenewalFrequency
	s.sync.SyncOne(req)
	req.UpdatedAt = s.opts.now().UTC()

	if err := s.repo.Update(ctx, req); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update requirement: %w", err)
	}
	return req, nil
}

func (s *requirementService) Delete(ctx context.Context, orgID, id string) error {
	req, err := s.load(ctx, orgID, id)
	if err != nil {
		return err
	}
	docs, err := s.docs.ListByRequirement(ctx, req.ID)
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}

	// Document rows cascade with the requirement row.
	if err := s.repo.Delete(ctx, req.ID); err != nil {
		return fmt.Errorf("delete requirement: %w", err)
	}

	for _, doc := range docs {
		if err := storage.IgnoreNotFound(s.store.Delete(ctx, doc.StoragePath)); err != nil {
			s.opts.log.Warn("document_cleanup_failed",
				zap.String("component", "requirements"),
				zap.String("requirement_id", req.ID),
				zap.String("storage_path", doc.StoragePath),
				zap.Error(err),
			)
		}
	}
	return nil
}

func (s *requirementService) Documents(ctx context.Context, orgID, id string) ([]model.Document, error) {
	req, err := s.load(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	return s.docs.ListByRequirement(ctx, req.ID)
}

func (s *requirementService) Dashboard(ctx context.Context, orgID string) (*Dashboard, error) {
	reqs, err := s.List(ctx, orgID)
	if err != nil {
		return nil, err
	}

	today := s.opts.today()
	cutoff := today.AddDate(0, 0, ExpiringSoonDays)
	d := &Dashboard{Counts: CountStatuses(reqs), ExpiringSoon: make([]model.Requirement, 0)}
	for _, r := range reqs {
		if !r.ExpirationDate.Before(today) && !r.ExpirationDate.After(cutoff) {
			d.ExpiringSoon = append(d.ExpiringSoon, r)
		}
	}
	return d, nil
}

// CountStatuses tallies requirements by status. The compliance percentage is the share of
// compliant requirements rounded to one decimal, and 0 for an empty set.
func CountStatuses(reqs []model.Requirement) StatusCounts {
	c := StatusCounts{Total: len(reqs)}
	for _, r := range reqs {
		switch r.Status {
		case model.StatusCompliant:
			c.Compliant++
		case model.StatusExpiringSoon:
			c.ExpiringSoon++
		case model.StatusExpired:
			c.Expired++
		case model.StatusMissing:
			c.Missing++
		}
	}
	if c.Total > 0 {
		c.CompliancePercentage = math.Round(float64(c.Compliant)/float64(c.Total)*1000) / 10
	}
	return c
}

func (s *requirementService) ExportCSV(ctx context.Context, orgID string, w io.Writer) error {
	reqs, err := s.List(ctx, orgID)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"name", "description", "expiration_date", "status", "renewal_frequency", "documents"}); err != nil {
		return err
	}
	for _, r := range reqs {
		row := []string{
			r.Name,
			r.Description,
			r.ExpirationDate.Format(dateLayout),
			r.Status.Label(),
			r.RenewalFrequency,
			strconv.Itoa(r.DocumentCount),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// load fetches a requirement and enforces organization ownership.
func (s *requirementService) load(ctx context.Context, orgID, id string) (*model.Requirement, error) {
	return loadRequirement(ctx, s.repo, orgID, id)
}

func loadRequirement(ctx context.Context, repo repository.RequirementRepository, orgID, id string) (*model.Requirement, error) {
	if orgID == "" {
		return nil, ErrOrganizationRequired
	}
	if id == "" {
		return nil, ErrIDRequired
	}
	req, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if req.OrganizationID != orgID {
		return nil, ErrForbidden
	}
	return req, nil
}
