package task

import (
	"context"

	"github.com/google/uuid"
)

// Task type constants
const (
	// TaskTypeKitGeneration represents the task type for producing a content kit
	TaskTypeKitGeneration = "kit_generation"
)

// Outcome is what a successful task run leaves behind.
type Outcome struct {
	// ResultLocation is the archive path, or the task directory when archiving is off.
	ResultLocation string

	// DownloadURL is set only when an archive was produced.
	DownloadURL string
}

// Task represents a unit of background work to be processed.
// The task's ID is also the ID of its record in the task registry.
type Task interface {
	// ID returns the task's unique identifier
	ID() uuid.UUID

	// Type returns the task type identifier
	Type() string

	// Execute runs the task logic
	Execute(ctx context.Context) (Outcome, error)
}

// TaskQueueReader provides read-only access to the task channel
// allowing workers to consume tasks without the ability to enqueue
type TaskQueueReader interface {
	// GetChannel returns a read-only channel for consuming tasks
	GetChannel() <-chan Task
}

// TaskQueueWriter provides write access to the task queue
// allowing services to enqueue tasks for processing
type TaskQueueWriter interface {
	// Enqueue adds a task to the queue for processing
	// Returns an error if the queue is full or closed
	Enqueue(task Task) error

	// Close closes the task queue, preventing further task submission
	Close()
}
