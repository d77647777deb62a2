package model

import "time"

// Document is a versioned file attached to exactly one Requirement.
// Version is unique per requirement and starts at 1.
type Document struct {
	ID            string    `json:"id"`
	RequirementID string    `json:"requirement_id"`
	Filename      string    `json:"filename"`
	StoragePath   string    `json:"storage_path"`
	Description   string    `json:"description,omitempty"`
	Size          int64     `json:"size"`
	ContentType   string    `json:"content_type"`
	Version       int       `json:"version"`
	UploadedAt    time.Time `json:"uploaded_at"`
}
