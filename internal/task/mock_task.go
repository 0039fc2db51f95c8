package task

import (
	"context"

	"github.com/google/uuid"
)

// MockTask is a simple implementation of the Task interface for testing
type MockTask struct {
	TaskID    uuid.UUID
	TaskType  string
	ExecuteFn func(ctx context.Context) (Outcome, error)
}

// NewMockTask creates a new MockTask with the given ID whose Execute succeeds.
func NewMockTask(id uuid.UUID) *MockTask {
	return &MockTask{
		TaskID:   id,
		TaskType: "mock_task",
		ExecuteFn: func(ctx context.Context) (Outcome, error) {
			return Outcome{ResultLocation: "/tmp/" + id.String()}, nil
		},
	}
}

// ID returns the task's unique identifier
func (t *MockTask) ID() uuid.UUID {
	return t.TaskID
}

// Type returns the task type identifier
func (t *MockTask) Type() string {
	return t.TaskType
}

// Execute runs the task logic
func (t *MockTask) Execute(ctx context.Context) (Outcome, error) {
	return t.ExecuteFn(ctx)
}
