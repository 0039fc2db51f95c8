// Package service contains the application use cases: accepting a generation
// request, reporting task state, and handing out finished archives.
//
// The service records a task, then emits a kit generation event; the task
// package turns that event into a queued pipeline run. The service depends on
// the task registry interface (internal/store) and never on a concrete
// backing store.
//
// Errors: not-found conditions surface as ErrTaskNotFound or
// ErrArtifactNotFound, scheduling failures as ErrSubmissionFailed, and
// invalid input as domain.ErrValidation. Everything else is wrapped in a
// GenerationServiceError.
package service
