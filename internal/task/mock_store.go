package task

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/antiflow-api/internal/domain"
	"github.com/phrazzld/antiflow-api/internal/store"
)

// MockTaskStore implements store.TaskStore for testing. It keeps tasks in a
// map and records every status each task passes through. The function fields
// can be replaced to inject failures.
type MockTaskStore struct {
	mutex   sync.Mutex
	tasks   map[uuid.UUID]*domain.Task
	history map[uuid.UUID][]domain.TaskStatus

	CreateFn func(ctx context.Context) (*domain.Task, error)
	GetFn    func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	UpdateFn func(ctx context.Context, id uuid.UUID, mutation store.TaskMutation) (*domain.Task, error)
}

var _ store.TaskStore = (*MockTaskStore)(nil)

// NewMockTaskStore creates a new MockTaskStore with default implementations
func NewMockTaskStore() *MockTaskStore {
	s := &MockTaskStore{
		tasks:   make(map[uuid.UUID]*domain.Task),
		history: make(map[uuid.UUID][]domain.TaskStatus),
	}

	s.CreateFn = func(ctx context.Context) (*domain.Task, error) {
		s.mutex.Lock()
		defer s.mutex.Unlock()

		t := domain.NewTask()
		s.tasks[t.ID] = t
		s.history[t.ID] = []domain.TaskStatus{t.Status}
		return t.Clone(), nil
	}

	s.GetFn = func(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
		s.mutex.Lock()
		defer s.mutex.Unlock()

		t, ok := s.tasks[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", store.ErrTaskNotFound, id)
		}
		return t.Clone(), nil
	}

	s.UpdateFn = func(ctx context.Context, id uuid.UUID, mutation store.TaskMutation) (*domain.Task, error) {
		s.mutex.Lock()
		defer s.mutex.Unlock()

		t, ok := s.tasks[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", store.ErrTaskNotFound, id)
		}
		next := t.Clone()
		if err := mutation(next); err != nil {
			return nil, fmt.Errorf("%w: %w", store.ErrUpdateFailed, err)
		}
		s.tasks[id] = next
		if next.Status != t.Status {
			s.history[id] = append(s.history[id], next.Status)
		}
		return next.Clone(), nil
	}

	return s
}

// Create implements store.TaskStore.
func (s *MockTaskStore) Create(ctx context.Context) (*domain.Task, error) {
	return s.CreateFn(ctx)
}

// Get implements store.TaskStore.
func (s *MockTaskStore) Get(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	return s.GetFn(ctx, id)
}

// Update implements store.TaskStore.
func (s *MockTaskStore) Update(ctx context.Context, id uuid.UUID, mutation store.TaskMutation) (*domain.Task, error) {
	return s.UpdateFn(ctx, id, mutation)
}

// History returns the statuses task id has passed through, in order.
func (s *MockTaskStore) History(id uuid.UUID) []domain.TaskStatus {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	out := make([]domain.TaskStatus, len(s.history[id]))
	copy(out, s.history[id])
	return out
}
