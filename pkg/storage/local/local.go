// Package local implements the local filesystem storage backend.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/yi-nology/upload_bridge/pkg/storage"
)

const (
	// DefaultRoot is the directory uploads are written to.
	DefaultRoot = "./uploads"
	// DefaultPublicBaseURL is the dev server address used to build file URLs.
	DefaultPublicBaseURL = "http://localhost:3000"
	// URLPrefix is the path under which stored files are served.
	URLPrefix = "/uploads/"
)

// Storage implements storage.Backend using the local filesystem.
type Storage struct {
	root          string
	publicBaseURL string
}

var _ storage.Backend = (*Storage)(nil)

// New creates a local storage backend rooted at root, creating the directory
// if needed. publicBaseURL is the scheme and host file URLs are built on.
func New(root, publicBaseURL string) (*Storage, error) {
	if root == "" {
		root = DefaultRoot
	}
	if publicBaseURL == "" {
		publicBaseURL = DefaultPublicBaseURL
	}

	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	return &Storage{
		root:          filepath.Clean(root),
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

// UploadOptions names files with the filename strategy and writes them under root.
func (s *Storage) UploadOptions() storage.UploadOptions {
	return storage.UploadOptions{
		Destination: s.root,
		Key:         storage.DeriveKey,
		ContentType: storage.DeriveContentType,
	}
}

// PutObject writes data to root/key. A failed write removes the partial file.
func (s *Storage) PutObject(ctx context.Context, key string, data io.Reader, contentType string, size int64) (*storage.UploadResult, error) {
	fullPath, err := s.Resolve(key)
	if err != nil {
		return nil, storage.Observe(storage.KindLocal, "put", err)
	}

	f, err := os.Create(fullPath)
	if err != nil {
		return nil, storage.Observe(storage.KindLocal, "put", fmt.Errorf("create file: %w", err))
	}

	written, err := io.Copy(f, data)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(fullPath)
		return nil, storage.Observe(storage.KindLocal, "put", fmt.Errorf("write file: %w", err))
	}

	storage.Observe(storage.KindLocal, "put", nil)
	return &storage.UploadResult{
		Filename:    key,
		Destination: s.root,
		Path:        fullPath,
		ContentType: contentType,
		Size:        written,
	}, nil
}

// Get returns the path and dev-server URL for key without touching the disk.
func (s *Storage) Get(ctx context.Context, key string) (*storage.StoredFile, error) {
	fullPath, err := s.Resolve(key)
	if err != nil {
		return nil, err
	}
	return &storage.StoredFile{
		FilePath: fullPath,
		FileURL:  s.URL(key),
	}, nil
}

// Delete removes root/key, failing with storage.ErrNotFound if it is absent.
func (s *Storage) Delete(ctx context.Context, key string) error {
	fullPath, err := s.Resolve(key)
	if err != nil {
		return storage.Observe(storage.KindLocal, "delete", err)
	}

	if _, err := os.Stat(fullPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return storage.Observe(storage.KindLocal, "delete", fmt.Errorf("%w: %s", storage.ErrNotFound, key))
		}
		return storage.Observe(storage.KindLocal, "delete", fmt.Errorf("stat file: %w", err))
	}

	if err := os.Remove(fullPath); err != nil {
		return storage.Observe(storage.KindLocal, "delete", fmt.Errorf("delete file: %w", err))
	}
	return storage.Observe(storage.KindLocal, "delete", nil)
}

// Type returns storage.KindLocal.
func (s *Storage) Type() storage.Kind {
	return storage.KindLocal
}

// Resolve is the single join of the uploads root and a key. Keys that are
// empty or would leave the root are rejected.
func (s *Storage) Resolve(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("%w: %q", storage.ErrInvalidKey, key)
	}
	return filepath.Join(s.root, key), nil
}

// URL returns the public dev-server URL for key.
func (s *Storage) URL(key string) string {
	return s.publicBaseURL + URLPrefix + key
}

// Root returns the uploads directory.
func (s *Storage) Root() string {
	return s.root
}
