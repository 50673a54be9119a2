package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/yi-nology/upload_bridge/pkg/storage"
)

// FileUploadInput captures metadata and payload for an incoming upload.
type FileUploadInput struct {
	FileName    string
	ContentType string
	Size        int64
	Data        io.Reader
}

// FileService exposes save, get and delete over the process-wide backend.
type FileService struct {
	backend storage.Backend
	kind    storage.Kind
}

// NewFileService records the backend and its kind once; both selection and
// result normalization follow from that single decision.
func NewFileService(backend storage.Backend) *FileService {
	return &FileService{backend: backend, kind: backend.Type()}
}

// Kind returns the kind of the active backend.
func (s *FileService) Kind() storage.Kind {
	return s.kind
}

// Upload streams input into the backend using its upload options, then
// normalizes the result through Save.
func (s *FileService) Upload(ctx context.Context, input *FileUploadInput) (*storage.StoredFile, error) {
	if input == nil || input.Data == nil {
		return nil, errors.New("input required")
	}

	opts := s.backend.UploadOptions()
	key := opts.Key(input.FileName)
	contentType := opts.ContentType(input.FileName)
	if contentType == "" {
		contentType = input.ContentType
	}

	result, err := s.backend.PutObject(ctx, key, input.Data, contentType, input.Size)
	if err != nil {
		return nil, fmt.Errorf("upload file: %w", err)
	}
	return s.Save(ctx, result)
}

// Save converts a completed upload into a StoredFile.
func (s *FileService) Save(ctx context.Context, result *storage.UploadResult) (*storage.StoredFile, error) {
	if result == nil {
		return nil, errors.New("upload result required")
	}

	if s.kind == storage.KindLocal {
		file, err := s.backend.Get(ctx, result.Filename)
		if err != nil {
			return nil, err
		}
		return &storage.StoredFile{
			FilePath: result.Filename,
			FileURL:  file.FileURL,
		}, nil
	}
	return &storage.StoredFile{
		FilePath: result.Key,
		FileURL:  result.Location,
	}, nil
}

// Get returns the descriptor for key from the active backend.
func (s *FileService) Get(ctx context.Context, key string) (*storage.StoredFile, error) {
	return s.backend.Get(ctx, key)
}

// Delete removes key from the active backend.
func (s *FileService) Delete(ctx context.Context, key string) error {
	return s.backend.Delete(ctx, key)
}
