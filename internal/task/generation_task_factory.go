package task

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/antiflow-api/internal/domain"
)

// GenerationTaskFactory creates GenerationTask instances sharing one set of
// collaborators and settings.
type GenerationTaskFactory struct {
	deps   PipelineDeps
	config PipelineConfig
	logger *slog.Logger
}

// NewGenerationTaskFactory creates a new factory for GenerationTasks
func NewGenerationTaskFactory(deps PipelineDeps, config PipelineConfig, logger *slog.Logger) (*GenerationTaskFactory, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	return &GenerationTaskFactory{
		deps:   deps,
		config: config,
		logger: logger.With("component", "generation_task_factory"),
	}, nil
}

// CreateTask creates a new GenerationTask for the task record id.
func (f *GenerationTaskFactory) CreateTask(id uuid.UUID, req *domain.GenerationRequest) (Task, error) {
	t, err := NewGenerationTask(id, req, f.deps, f.config, f.logger)
	if err != nil {
		return nil, err
	}
	return t, nil
}
