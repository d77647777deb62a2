package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// Package storage contains file/object storage abstractions and utilities for object stores (S3-compatible).
// Implementations must avoid using local disk and rely on streaming I/O only.

// ErrObjectNotFound is returned when the requested key does not exist in the bucket.
var ErrObjectNotFound = errors.New("object not found")

// IgnoreNotFound drops ErrObjectNotFound so best-effort cleanups can treat absence as success.
func IgnoreNotFound(err error) error {
	if errors.Is(err, ErrObjectNotFound) {
		return nil
	}
	return err
}

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known; if unknown, set to -1 and the implementation
// will buffer/chunk as supported by the backend.
// ContentType and Metadata are optional.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage holds uploaded compliance evidence in an S3-compatible bucket.
// Uploads stream from the request body; no local disk is used.
type Storage interface {
	// Put uploads an object under the given key using the provided reader and options.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Delete removes an object by key.
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited download URL. A non-empty filename is sent back
	// as the attachment name instead of the object key.
	PresignGet(ctx context.Context, key, filename string, expiry time.Duration) (string, error)
}
