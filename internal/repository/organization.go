package repository

import (
	"context"

	"complytrack/internal/model"
)

// OrganizationRepository resolves organization membership.
type OrganizationRepository interface {
	// Recipient returns the organization's designated owner, or its earliest-created user
	// when no owner is set. Returns sql.ErrNoRows when the organization has no users.
	Recipient(ctx context.Context, orgID string) (*model.User, error)

	// UsersFor returns the organization's users ordered by creation time.
	UsersFor(ctx context.Context, orgID string) ([]model.User, error)
}
