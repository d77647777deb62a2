package repository

import (
	"context"

	"complytrack/internal/model"
)

// RequirementRepository persists requirements. Reads populate DocumentCount.
type RequirementRepository interface {
	Create(ctx context.Context, req *model.Requirement) (*model.Requirement, error)
	FindByID(ctx context.Context, id string) (*model.Requirement, error)
	Update(ctx context.Context, req *model.Requirement) error

	// Delete removes a requirement; documents and reminder logs cascade in the database.
	Delete(ctx context.Context, id string) error

	// ListByOrganization returns an organization's requirements ordered by expiration date.
	ListByOrganization(ctx context.Context, orgID string) ([]model.Requirement, error)

	// ListAll returns every requirement in the system ordered by expiration date.
	ListAll(ctx context.Context) ([]model.Requirement, error)

	// UpdateStatuses writes status and updated_at for every given requirement in one transaction.
	// Either all rows are written or none are.
	UpdateStatuses(ctx context.Context, reqs []model.Requirement) error
}
