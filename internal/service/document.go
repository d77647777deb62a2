package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"complytrack/internal/model"
	"complytrack/internal/repository"
	"complytrack/internal/storage"
)

// AllowedExtensions lists the accepted document file extensions (lowercase, without dot).
var AllowedExtensions = map[string]bool{
	"pdf": true, "doc": true, "docx": true, "xls": true, "xlsx": true,
	"jpg": true, "jpeg": true, "png": true, "txt": true,
}

const downloadURLExpiry = 15 * time.Minute

// UploadInput describes an uploaded file.
type UploadInput struct {
	Reader           io.Reader
	OriginalFilename string
	ContentType      string
	Size             int64
	Description      string
}

// DocumentService defines the use cases for handling requirement documents.
type DocumentService interface {
	// Upload stores the content, saves metadata with the next version, rolls back storage
	// if the DB save fails, and reclassifies the owning requirement.
	Upload(ctx context.Context, orgID, requirementID string, in UploadInput) (*model.Document, error)

	// Get returns a single document by its ID.
	Get(ctx context.Context, orgID, id string) (*model.Document, error)

	// DownloadURL returns a time-limited URL for the document's content.
	DownloadURL(ctx context.Context, orgID, id string) (string, error)

	// Delete removes a document from storage and repository and reclassifies its requirement.
	Delete(ctx context.Context, orgID, id string) error
}

type documentService struct {
	store        storage.Storage
	repo         repository.DocumentRepository
	requirements repository.RequirementRepository
	sync         StatusSyncService
	opts         options
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(
	store storage.Storage,
	repo repository.DocumentRepository,
	requirements repository.RequirementRepository,
	sync StatusSyncService,
	opts ...Option,
) DocumentService {
	return &documentService{store: store, repo: repo, requirements: requirements, sync: sync, opts: buildOptions(opts)}
}

// AllowedFile reports whether filename carries an accepted extension.
func AllowedFile(filename string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	return AllowedExtensions[ext]
}

func (s *documentService) Upload(ctx context.Context, orgID, requirementID string, in UploadInput) (*model.Document, error) {
	if in.Reader == nil {
		return nil, ErrReaderNil
	}
	if !AllowedFile(in.OriginalFilename) {
		return nil, ErrInvalidFileType
	}
	req, err := loadRequirement(ctx, s.requirements, orgID, requirementID)
	if err != nil {
		return nil, err
	}

	// Stored object name is UUID + original extension, grouped per requirement.
	ext := strings.ToLower(filepath.Ext(in.OriginalFilename))
	key := filepath.ToSlash(filepath.Join("requirements", req.ID, uuid.NewString()+ext))

	objInfo, err := s.store.Put(ctx, key, in.Reader, storage.PutObjectOptions{
		Size:        in.Size,
		ContentType: in.ContentType,
		Metadata: map[string]string{
			"original-filename": in.OriginalFilename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	now := s.opts.now().UTC()
	doc := &model.Document{
		ID:            uuid.NewString(),
		RequirementID: req.ID,
		Filename:      filepath.Base(in.OriginalFilename),
		StoragePath:   objInfo.Key,
		Description:   in.Description,
		Size:          objInfo.Size,
		ContentType:   objInfo.ContentType,
		UploadedAt:    now,
	}
	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	if err := s.refresh(ctx, req, now); err != nil {
		return nil, err
	}
	return stored, nil
}

func (s *documentService) Get(ctx context.Context, orgID, id string) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if _, err := loadRequirement(ctx, s.requirements, orgID, doc.RequirementID); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *documentService) DownloadURL(ctx context.Context, orgID, id string) (string, error) {
	doc, err := s.Get(ctx, orgID, id)
	if err != nil {
		return "", err
	}
	u, err := s.store.PresignGet(ctx, doc.StoragePath, doc.Filename, downloadURLExpiry)
	if err != nil {
		return "", fmt.Errorf("presign download: %w", err)
	}
	return u, nil
}

func (s *documentService) Delete(ctx context.Context, orgID, id string) error {
	doc, err := s.Get(ctx, orgID, id)
	if err != nil {
		return err
	}
	// A missing object is fine; any other storage failure keeps the row so the file is not orphaned.
	if err := storage.IgnoreNotFound(s.store.Delete(ctx, doc.StoragePath)); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	if err := s.repo.Delete(ctx, doc.ID); err != nil {
		return err
	}

	req, err := s.requirements.FindByID(ctx, doc.RequirementID)
	if err != nil {
		return fmt.Errorf("reload requirement: %w", err)
	}
	return s.refresh(ctx, req, s.opts.now().UTC())
}

// refresh recounts documents, reclassifies and persists the requirement.
func (s *documentService) refresh(ctx context.Context, req *model.Requirement, now time.Time) error {
	n, err := s.repo.CountByRequirement(ctx, req.ID)
	if err != nil {
		return fmt.Errorf("count documents: %w", err)
	}
	req.DocumentCount = n
	s.sync.SyncOne(req)
	req.UpdatedAt = now
	if err := s.requirements.Update(ctx, req); err != nil {
		return fmt.Errorf("update requirement: %w", err)
	}
	return nil
}
