package postgres

import (
	"context"
	"database/sql"

	"complytrack/internal/model"
	"complytrack/internal/repository"
)

// OrganizationPostgres is a PostgreSQL implementation of repository.OrganizationRepository.
type OrganizationPostgres struct {
	db *sql.DB
}

// NewOrganizationPostgres creates a new OrganizationPostgres repository.
func NewOrganizationPostgres(db *sql.DB) *OrganizationPostgres {
	return &OrganizationPostgres{db: db}
}

var _ repository.OrganizationRepository = (*OrganizationPostgres)(nil)

// Recipient prefers the designated owner and falls back to the earliest-created member.
func (r *OrganizationPostgres) Recipient(ctx context.Context, orgID string) (*model.User, error) {
	const q = `
		SELECT u.id, u.organization_id, u.email, u.created_at
		FROM users u
		JOIN organizations o ON o.id = u.organization_id
		WHERE u.organization_id = $1
		ORDER BY (u.id = o.owner_user_id) IS TRUE DESC, u.created_at, u.id
		LIMIT 1
	`
	var u model.User
	if err := r.db.QueryRowContext(ctx, q, orgID).Scan(&u.ID, &u.OrganizationID, &u.Email, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// UsersFor returns an organization's users ordered by creation time.
func (r *OrganizationPostgres) UsersFor(ctx context.Context, orgID string) ([]model.User, error) {
	const q = `
		SELECT id, organization_id, email, created_at
		FROM users
		WHERE organization_id = $1
		ORDER BY created_at, id
	`
	rows, err := r.db.QueryContext(ctx, q, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.OrganizationID, &u.Email, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}
