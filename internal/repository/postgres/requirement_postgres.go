package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"complytrack/internal/model"
	"complytrack/internal/repository"
)

// RequirementPostgres is a PostgreSQL implementation of repository.RequirementRepository.
type RequirementPostgres struct {
	db *sql.DB
}

// NewRequirementPostgres creates a new RequirementPostgres repository.
func NewRequirementPostgres(db *sql.DB) *RequirementPostgres {
	return &RequirementPostgres{db: db}
}

var _ repository.RequirementRepository = (*RequirementPostgres)(nil)

const requirementSelect = `
	SELECT r.id, r.organization_id, r.name, r.description, r.expiration_date, r.renewal_frequency,
		r.status, r.created_at, r.updated_at,
		(SELECT COUNT(*) FROM documents d WHERE d.requirement_id = r.id) AS document_count
	FROM requirements r`

// Create inserts a requirement row. DocumentCount of a new requirement is always zero.
func (r *RequirementPostgres) Create(ctx context.Context, req *model.Requirement) (*model.Requirement, error) {
	const q = `
		INSERT INTO requirements (id, organization_id, name, description, expiration_date, renewal_frequency, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, organization_id, name, description, expiration_date, renewal_frequency, status, created_at, updated_at, 0
	`
	row := r.db.QueryRowContext(ctx, q,
		req.ID,
		req.OrganizationID,
		req.Name,
		req.Description,
		req.ExpirationDate,
		req.RenewalFrequency,
		string(req.Status),
		req.CreatedAt,
		req.UpdatedAt,
	)
	return scanRequirement(row)
}

// FindByID fetches a requirement with its document count.
func (r *RequirementPostgres) FindByID(ctx context.Context, id string) (*model.Requirement, error) {
	return scanRequirement(r.db.QueryRowContext(ctx, requirementSelect+` WHERE r.id = $1`, id))
}

// Update writes every mutable column of a requirement.
func (r *RequirementPostgres) Update(ctx context.Context, req *model.Requirement) error {
	const q = `
		UPDATE requirements
		SET name = $2, description = $3, expiration_date = $4, renewal_frequency = $5, status = $6, updated_at = $7
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, q,
		req.ID,
		req.Name,
		req.Description,
		req.ExpirationDate,
		req.RenewalFrequency,
		string(req.Status),
		req.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a requirement by ID. Missing rows are not an error.
func (r *RequirementPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM requirements WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

// ListByOrganization returns an organization's requirements ordered by expiration date.
func (r *RequirementPostgres) ListByOrganization(ctx context.Context, orgID string) ([]model.Requirement, error) {
	return r.list(ctx, requirementSelect+` WHERE r.organization_id = $1 ORDER BY r.expiration_date, r.id`, orgID)
}

// ListAll returns every requirement ordered by expiration date.
func (r *RequirementPostgres) ListAll(ctx context.Context) ([]model.Requirement, error) {
	return r.list(ctx, requirementSelect+` ORDER BY r.expiration_date, r.id`)
}

// UpdateStatuses persists the status of every requirement in a single transaction.
func (r *RequirementPostgres) UpdateStatuses(ctx context.Context, reqs []model.Requirement) error {
	if len(reqs) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	const q = `UPDATE requirements SET status = $2, updated_at = $3 WHERE id = $1`
	for _, req := range reqs {
		if _, err := tx.ExecContext(ctx, q, req.ID, string(req.Status), req.UpdatedAt); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("update status of %s: %w", req.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit statuses: %w", err)
	}
	return nil
}

func (r *RequirementPostgres) list(ctx context.Context, q string, args ...any) ([]model.Requirement, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Requirement, 0)
	for rows.Next() {
		req, err := scanRequirement(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func scanRequirement(row rowScanner) (*model.Requirement, error) {
	var (
		req    model.Requirement
		status string
	)
	if err := row.Scan(
		&req.ID,
		&req.OrganizationID,
		&req.Name,
		&req.Description,
		&req.ExpirationDate,
		&req.RenewalFrequency,
		&status,
		&req.CreatedAt,
		&req.UpdatedAt,
		&req.DocumentCount,
	); err != nil {
		return nil, err
	}
	req.Status = model.Status(status)
	req.ExpirationDate = model.DateOf(req.ExpirationDate)
	return &req, nil
}
