package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/antiflow-api/internal/domain"
)

// TaskMutation changes a task in place. Returning an error aborts the update
// and leaves the stored task unchanged.
type TaskMutation func(task *domain.Task) error

// TaskStore defines the interface for generation task state.
// Implementations must be safe for concurrent use; returned tasks are
// snapshots that callers may read freely.
type TaskStore interface {
	// Create inserts a new pending task and returns a snapshot of it.
	Create(ctx context.Context) (*domain.Task, error)

	// Get returns a snapshot of the task.
	// Returns ErrTaskNotFound if the task does not exist.
	Get(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// Update applies mutation atomically with respect to other updates of
	// the same task and returns a snapshot of the result.
	// Returns ErrTaskNotFound if the task does not exist, or a StoreError
	// wrapping ErrUpdateFailed and the mutation's error if it is rejected.
	Update(ctx context.Context, id uuid.UUID, mutation TaskMutation) (*domain.Task, error)
}
