package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the processing state of a generation task
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// IsTerminal reports whether no further transitions can leave this status.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusFailed
}

// CanTransitionTo reports whether moving from s to next is a legal forward step.
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	switch s {
	case TaskStatusPending:
		return next == TaskStatusProcessing
	case TaskStatusProcessing:
		return next == TaskStatusCompleted || next == TaskStatusFailed
	default:
		return false
	}
}

// Task is the tracked state of one end-to-end generation request.
// Instances handed out by a store are snapshots; mutate through the store.
type Task struct {
	ID             uuid.UUID  `json:"task_id"`
	Status         TaskStatus `json:"status"`
	PreviewData    *Script    `json:"preview_data,omitempty"`
	Error          string     `json:"error,omitempty"`
	ResultLocation string     `json:"file_path,omitempty"`
	DownloadURL    string     `json:"download_url,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewTask creates a pending task with a fresh ID.
func NewTask() *Task {
	now := time.Now().UTC()
	return &Task{
		ID:        uuid.New(),
		Status:    TaskStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Transition moves the task to next, enforcing the forward-only state machine.
func (t *Task) Transition(next TaskStatus) error {
	if !t.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, t.Status, next)
	}
	t.Status = next
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// Fail transitions the task to failed and records the message.
func (t *Task) Fail(message string) error {
	if err := t.Transition(TaskStatusFailed); err != nil {
		return err
	}
	t.Error = message
	return nil
}

// Complete transitions the task to completed and records where its artifacts live.
func (t *Task) Complete(resultLocation, downloadURL string) error {
	if err := t.Transition(TaskStatusCompleted); err != nil {
		return err
	}
	t.ResultLocation = resultLocation
	t.DownloadURL = downloadURL
	return nil
}

// AttachPreview stores the generated script on a task that is still processing.
func (t *Task) AttachPreview(script *Script) error {
	if t.Status != TaskStatusProcessing {
		return fmt.Errorf("%w: preview requires %s, task is %s",
			ErrInvalidTransition, TaskStatusProcessing, t.Status)
	}
	t.PreviewData = script
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// Clone returns a deep copy so callers can read it without racing the owner.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	c := *t
	c.PreviewData = t.PreviewData.Clone()
	return &c
}
