package repository

import (
	"context"

	"complytrack/internal/model"
)

// DocumentRepository defines data access for requirement documents using SQL queries only.
type DocumentRepository interface {
	// Create inserts a new document record, assigning the next version for its requirement
	// (max existing + 1, starting at 1). Returns the stored document.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// ListByRequirement returns a requirement's documents, newest version first.
	ListByRequirement(ctx context.Context, requirementID string) ([]model.Document, error)

	// CountByRequirement returns how many documents are attached to a requirement.
	CountByRequirement(ctx context.Context, requirementID string) (int, error)

	// Delete removes a document by ID. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id string) error
}
