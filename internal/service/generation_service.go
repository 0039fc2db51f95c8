package service

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/antiflow-api/internal/domain"
	"github.com/phrazzld/antiflow-api/internal/events"
	"github.com/phrazzld/antiflow-api/internal/store"
	"github.com/spf13/afero"
)

// scheduleFailedMessage is recorded on a task whose event could not be delivered.
const scheduleFailedMessage = "task could not be scheduled"

// ArchiveOpener opens the finished archive of a task.
type ArchiveOpener interface {
	OpenArchive(taskID uuid.UUID) (afero.File, fs.FileInfo, error)
}

// Submission is the immediate answer to a generation request.
type Submission struct {
	TaskID uuid.UUID         `json:"task_id"`
	Status domain.TaskStatus `json:"status"`
}

// Archive is an open task archive. The caller closes Content.
type Archive struct {
	Content afero.File
	Info    fs.FileInfo
}

// GenerationService provides content kit operations
type GenerationService interface {
	// SubmitGeneration validates the request, records a task, and schedules
	// the pipeline. It returns before the pipeline runs.
	SubmitGeneration(ctx context.Context, topic, durationTarget, mood, voice string) (*Submission, error)

	// GetTaskResult returns a snapshot of the task record.
	GetTaskResult(ctx context.Context, taskID uuid.UUID) (*domain.Task, error)

	// OpenArchive opens the archive of a completed task.
	OpenArchive(ctx context.Context, taskID uuid.UUID) (*Archive, error)
}

// generationServiceImpl implements the GenerationService interface
type generationServiceImpl struct {
	tasks        store.TaskStore
	archives     ArchiveOpener
	eventEmitter events.EventEmitter
	logger       *slog.Logger
}

// NewGenerationService creates a new GenerationService.
// It returns an error if any of the required dependencies are nil.
func NewGenerationService(
	tasks store.TaskStore,
	archives ArchiveOpener,
	eventEmitter events.EventEmitter,
	logger *slog.Logger,
) (GenerationService, error) {
	if tasks == nil {
		return nil, &GenerationServiceError{Operation: "create_service", Message: "tasks cannot be nil"}
	}
	if archives == nil {
		return nil, &GenerationServiceError{Operation: "create_service", Message: "archives cannot be nil"}
	}
	if eventEmitter == nil {
		return nil, &GenerationServiceError{Operation: "create_service", Message: "eventEmitter cannot be nil"}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &generationServiceImpl{
		tasks:        tasks,
		archives:     archives,
		eventEmitter: eventEmitter,
		logger:       logger.With("component", "generation_service"),
	}, nil
}

// SubmitGeneration records a pending task and emits a kit generation event
// for it. If the event cannot be delivered the task is marked failed.
func (s *generationServiceImpl) SubmitGeneration(
	ctx context.Context,
	topic, durationTarget, mood, voice string,
) (*Submission, error) {
	// 1. Validate before anything is recorded
	req, err := domain.NewGenerationRequest(topic, durationTarget, mood, voice)
	if err != nil {
		s.logger.WarnContext(ctx, "rejected generation request", "error", err)
		return nil, err
	}

	// 2. Record the task
	rec, err := s.tasks.Create(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create task record", "error", err)
		return nil, NewGenerationServiceError("submit_generation", "failed to create task", err)
	}

	// 3. Emit the event that schedules the pipeline
	event, err := events.NewKitGenerationEvent(events.KitGenerationPayload{
		TaskID:         rec.ID,
		Topic:          req.Topic,
		DurationTarget: req.DurationHint,
		Mood:           req.Mood,
		Voice:          req.Voice,
	})
	if err == nil {
		err = s.eventEmitter.EmitEvent(ctx, event)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to schedule generation task",
			"error", err,
			"task_id", rec.ID)
		s.markUnscheduled(ctx, rec.ID)
		return nil, &GenerationServiceError{
			Operation: "submit_generation",
			Message:   "failed to schedule task",
			Err:       errors.Join(ErrSubmissionFailed, err),
		}
	}

	s.logger.InfoContext(ctx, "generation task submitted",
		"task_id", rec.ID,
		"topic", req.Topic,
		"duration_category", req.Duration,
		"event_id", event.ID)

	return &Submission{TaskID: rec.ID, Status: domain.TaskStatusProcessing}, nil
}

// markUnscheduled moves a task that will never run to failed. A worker may
// already have picked it up, in which case the transition is refused and the
// worker's outcome stands.
func (s *generationServiceImpl) markUnscheduled(ctx context.Context, id uuid.UUID) {
	_, err := s.tasks.Update(context.WithoutCancel(ctx), id, func(rec *domain.Task) error {
		if err := rec.Transition(domain.TaskStatusProcessing); err != nil {
			return err
		}
		return rec.Fail(scheduleFailedMessage)
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to mark unscheduled task", "error", err, "task_id", id)
	}
}

// GetTaskResult retrieves a task by its ID
func (s *generationServiceImpl) GetTaskResult(ctx context.Context, taskID uuid.UUID) (*domain.Task, error) {
	rec, err := s.tasks.Get(ctx, taskID)
	if err != nil {
		if !errors.Is(err, store.ErrTaskNotFound) {
			s.logger.ErrorContext(ctx, "failed to retrieve task", "error", err, "task_id", taskID)
		}
		return nil, NewGenerationServiceError("get_task_result", "failed to retrieve task", err)
	}

	s.logger.DebugContext(ctx, "retrieved task successfully",
		"task_id", taskID,
		"status", rec.Status)
	return rec, nil
}

// OpenArchive opens the archive of a task. Unknown tasks report
// ErrTaskNotFound; tasks without an archive report ErrArtifactNotFound.
func (s *generationServiceImpl) OpenArchive(ctx context.Context, taskID uuid.UUID) (*Archive, error) {
	if _, err := s.tasks.Get(ctx, taskID); err != nil {
		return nil, NewGenerationServiceError("open_archive", "failed to retrieve task", err)
	}

	file, info, err := s.archives.OpenArchive(taskID)
	if err != nil {
		return nil, NewGenerationServiceError("open_archive", "failed to open archive", err)
	}
	return &Archive{Content: file, Info: info}, nil
}
