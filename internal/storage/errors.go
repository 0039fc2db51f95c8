package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrStorage is returned when the filesystem rejects an operation.
	ErrStorage = errors.New("storage error")

	// ErrArtifactNotFound is returned when a requested artifact does not exist.
	ErrArtifactNotFound = errors.New("artifact not found")
)

// StorageError records the failed operation and path.
type StorageError struct {
	Operation string
	Path      string
	Err       error
}

// Error implements the error interface for StorageError.
func (e *StorageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s failed: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("%s %s failed", e.Operation, e.Path)
}

// Unwrap exposes ErrStorage and the underlying cause to errors.Is/errors.As.
func (e *StorageError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrStorage}
	}
	return []error{ErrStorage, e.Err}
}

// NewStorageError creates a StorageError for operation on path.
func NewStorageError(operation, path string, err error) *StorageError {
	return &StorageError{Operation: operation, Path: path, Err: err}
}
