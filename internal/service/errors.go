// Package service provides the application-level operations for submitting
// and inspecting content kit generation tasks.
package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/antiflow-api/internal/storage"
	"github.com/phrazzld/antiflow-api/internal/store"
)

// Common service errors - sentinel errors callers check with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped in GenerationServiceError
// 3. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrTaskNotFound indicates no task exists for the given ID.
	// API layer should map this to HTTP 404 Not Found.
	ErrTaskNotFound = errors.New("task not found")

	// ErrArtifactNotFound indicates the task has no downloadable archive.
	// API layer should map this to HTTP 404 Not Found.
	ErrArtifactNotFound = errors.New("artifact not found")

	// ErrSubmissionFailed indicates the task was recorded but could not be
	// scheduled; the record has been marked failed.
	// API layer should map this to HTTP 503 Service Unavailable.
	ErrSubmissionFailed = errors.New("task could not be scheduled")
)

// GenerationServiceError wraps errors from the generation service with context.
type GenerationServiceError struct {
	// Operation is the operation that failed (e.g., "submit_generation")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for GenerationServiceError.
func (e *GenerationServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("generation service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *GenerationServiceError) Unwrap() error {
	return e.Err
}

// NewGenerationServiceError creates a new GenerationServiceError.
// Not-found conditions from lower layers are returned as the service
// sentinels without wrapping.
func NewGenerationServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrTaskNotFound), errors.Is(err, store.ErrTaskNotFound):
		return ErrTaskNotFound
	case errors.Is(err, ErrArtifactNotFound), errors.Is(err, storage.ErrArtifactNotFound):
		return ErrArtifactNotFound
	}

	return &GenerationServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
