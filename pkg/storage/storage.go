// Package storage defines the storage abstraction layer for uploaded files.
// It provides a unified interface over the local filesystem and S3-compatible
// object storage; exactly one backend serves a process for its lifetime.
package storage

import (
	"context"
	"io"
)

// Kind identifies a storage backend implementation.
type Kind string

const (
	KindLocal Kind = "local"
	KindS3    Kind = "s3"
)

// Backend defines the operations every storage implementation supports.
type Backend interface {
	// UploadOptions describes how the transport layer should name and tag
	// incoming uploads before handing the bytes to PutObject.
	UploadOptions() UploadOptions

	// PutObject writes data under key and returns the backend-specific result.
	PutObject(ctx context.Context, key string, data io.Reader, contentType string, size int64) (*UploadResult, error)

	// Get builds the descriptor for key. It does not check existence.
	Get(ctx context.Context, key string) (*StoredFile, error)

	// Delete removes the object stored under key.
	Delete(ctx context.Context, key string) error

	// Type returns the storage type identifier ("local" or "s3").
	Type() Kind
}

// KeyFunc derives a storage key from an uploaded file's original name.
type KeyFunc func(originalName string) string

// ContentTypeFunc derives a MIME type from an uploaded file's original name.
type ContentTypeFunc func(originalName string) string

// UploadOptions is the upload configuration a backend hands to the transport layer.
type UploadOptions struct {
	// Destination is the local directory files are written to (local only).
	Destination string
	// Bucket is the target bucket (s3 only).
	Bucket string
	// ACL is the canned access policy applied to new objects (s3 only).
	ACL string
	// ContentDisposition is sent with new objects (s3 only).
	ContentDisposition string

	Key         KeyFunc
	ContentType ContentTypeFunc
}

// UploadResult is what a backend reports after a successful PutObject.
// The local backend fills Filename/Destination/Path, the s3 backend fills
// Key/Location/Bucket.
type UploadResult struct {
	Filename    string
	Destination string
	Path        string

	Key      string
	Location string
	Bucket   string

	ContentType string
	Size        int64
}

// StoredFile is the descriptor returned to callers.
type StoredFile struct {
	FilePath string `json:"filePath"`
	FileURL  string `json:"fileUrl"`
}
