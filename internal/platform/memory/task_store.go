// Package memory provides in-process implementations of the store interfaces.
// Nothing here survives a restart.
package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/phrazzld/antiflow-api/internal/domain"
	"github.com/phrazzld/antiflow-api/internal/store"
)

// TaskStore is a store.TaskStore backed by go-cache with no expiry.
//
// Cached values are immutable snapshots: Update replaces the entry with a
// mutated copy, so readers never observe a half-applied mutation.
type TaskStore struct {
	items  *cache.Cache
	mu     sync.Mutex // serializes read-modify-write in Update
	logger *slog.Logger
}

var _ store.TaskStore = (*TaskStore)(nil)

// NewTaskStore creates an empty TaskStore.
func NewTaskStore(logger *slog.Logger) *TaskStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskStore{
		items:  cache.New(cache.NoExpiration, 0),
		logger: logger.With("component", "task_store"),
	}
}

// Create implements store.TaskStore.
func (s *TaskStore) Create(ctx context.Context) (*domain.Task, error) {
	task := domain.NewTask()
	if err := s.items.Add(task.ID.String(), task, cache.NoExpiration); err != nil {
		return nil, store.NewStoreError("task", "create", "duplicate id", err)
	}
	s.logger.DebugContext(ctx, "task created", "task_id", task.ID)
	return task.Clone(), nil
}

// Get implements store.TaskStore.
func (s *TaskStore) Get(_ context.Context, id uuid.UUID) (*domain.Task, error) {
	task, ok := s.lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrTaskNotFound, id)
	}
	return task.Clone(), nil
}

// Update implements store.TaskStore.
func (s *TaskStore) Update(ctx context.Context, id uuid.UUID, mutation store.TaskMutation) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrTaskNotFound, id)
	}

	next := current.Clone()
	if err := mutation(next); err != nil {
		return nil, store.NewStoreError("task", "update", "mutation rejected",
			fmt.Errorf("%w: %w", store.ErrUpdateFailed, err))
	}
	s.items.Set(id.String(), next, cache.NoExpiration)

	if next.Status != current.Status {
		s.logger.DebugContext(ctx, "task status changed",
			"task_id", id,
			"from", current.Status,
			"to", next.Status)
	}
	return next.Clone(), nil
}

// Len returns the number of tracked tasks.
func (s *TaskStore) Len() int {
	return s.items.ItemCount()
}

func (s *TaskStore) lookup(id uuid.UUID) (*domain.Task, bool) {
	v, ok := s.items.Get(id.String())
	if !ok {
		return nil, false
	}
	task, ok := v.(*domain.Task)
	return task, ok
}
