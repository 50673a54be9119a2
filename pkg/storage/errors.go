package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when deleting a file that does not exist.
	ErrNotFound = errors.New("file not found")
	// ErrInvalidKey is returned for keys that are empty or escape the storage root.
	ErrInvalidKey = errors.New("invalid storage key")
)

// BackendError wraps a failure reported by a remote storage service.
type BackendError struct {
	Backend Kind
	Op      string
	Key     string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s %s %q: %v", e.Backend, e.Op, e.Key, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}
