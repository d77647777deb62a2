package postgres

import (
	"context"
	"database/sql"

	"complytrack/internal/model"
	"complytrack/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentColumns = `id, requirement_id, filename, storage_path, description, size, content_type, version, uploaded_at`

// Create inserts a new document row with the next version for its requirement and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (id, requirement_id, filename, storage_path, description, size, content_type, version, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7,
			(SELECT COALESCE(MAX(version), 0) + 1 FROM documents WHERE requirement_id = $2),
			$8)
		RETURNING ` + documentColumns
	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.RequirementID,
		doc.Filename,
		doc.StoragePath,
		doc.Description,
		doc.Size,
		doc.ContentType,
		doc.UploadedAt,
	)
	return scanDocument(row)
}

// FindByID fetches a single document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	q := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	return scanDocument(r.db.QueryRowContext(ctx, q, id))
}

// ListByRequirement returns documents for a requirement ordered by version, newest first.
func (r *DocumentPostgres) ListByRequirement(ctx context.Context, requirementID string) ([]model.Document, error) {
	q := `SELECT ` + documentColumns + ` FROM documents WHERE requirement_id = $1 ORDER BY version DESC`
	rows, err := r.db.QueryContext(ctx, q, requirementID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// CountByRequirement returns the number of documents attached to a requirement.
func (r *DocumentPostgres) CountByRequirement(ctx context.Context, requirementID string) (int, error) {
	const q = `SELECT COUNT(*) FROM documents WHERE requirement_id = $1`
	var n int
	if err := r.db.QueryRowContext(ctx, q, requirementID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Delete removes a document by ID. It does not return an error if the row does not exist.
func (r *DocumentPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM documents WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*model.Document, error) {
	var d model.Document
	if err := row.Scan(
		&d.ID,
		&d.RequirementID,
		&d.Filename,
		&d.StoragePath,
		&d.Description,
		&d.Size,
		&d.ContentType,
		&d.Version,
		&d.UploadedAt,
	); err != nil {
		return nil, err
	}
	return &d, nil
}
