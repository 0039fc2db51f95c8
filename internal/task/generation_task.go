package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/antiflow-api/internal/domain"
	"github.com/phrazzld/antiflow-api/internal/generation"
	"github.com/phrazzld/antiflow-api/internal/platform/logger"
	"github.com/phrazzld/antiflow-api/internal/storage"
	"github.com/phrazzld/antiflow-api/internal/store"
	"golang.org/x/sync/errgroup"
)

// Common errors
var (
	ErrNilScriptGenerator = errors.New("script generator cannot be nil")
	ErrNilAudioGenerator  = errors.New("audio generator cannot be nil")
	ErrNilArtifactStore   = errors.New("artifact store cannot be nil")
	ErrNilTaskStore       = errors.New("task store cannot be nil")
	ErrNilLogger          = errors.New("logger cannot be nil")
	ErrEmptyTaskID        = errors.New("task ID cannot be empty")
	ErrNilRequest         = errors.New("generation request cannot be nil")
)

// ArtifactStore is the part of storage.Store the pipeline writes through.
type ArtifactStore interface {
	Provision(taskID uuid.UUID) (string, error)
	SaveScript(dir string, script *domain.Script) (string, error)
	Archive(taskID uuid.UUID) (string, error)
}

var _ ArtifactStore = (*storage.Store)(nil)

// PipelineConfig tunes one generation run.
type PipelineConfig struct {
	AudioConcurrency int
	ImageConcurrency int
	RequestDelay     time.Duration

	// ArchiveEnabled packs the task directory into a zip on success.
	ArchiveEnabled bool

	// DownloadPath prefixes the task ID to form the download URL of an archive.
	DownloadPath string
}

// DefaultPipelineConfig returns the reference concurrency and pacing.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		AudioConcurrency: DefaultConcurrency,
		ImageConcurrency: DefaultConcurrency,
		RequestDelay:     DefaultRequestDelay,
		DownloadPath:     "/api/v1/download/",
	}
}

// PipelineDeps are the collaborators of a GenerationTask.
// Images is optional; nil disables image generation.
type PipelineDeps struct {
	Scripts   generation.ScriptGenerator
	Audio     generation.AudioGenerator
	Images    generation.ImageGenerator
	Artifacts ArtifactStore
	Tasks     store.TaskStore
}

func (d PipelineDeps) validate() error {
	switch {
	case d.Scripts == nil:
		return ErrNilScriptGenerator
	case d.Audio == nil:
		return ErrNilAudioGenerator
	case d.Artifacts == nil:
		return ErrNilArtifactStore
	case d.Tasks == nil:
		return ErrNilTaskStore
	}
	return nil
}

// GenerationTask implements the Task interface for producing one content kit:
// script, transcript, per-scene audio and optional images, and an optional archive.
type GenerationTask struct {
	id     uuid.UUID
	req    *domain.GenerationRequest
	deps   PipelineDeps
	config PipelineConfig
	logger *slog.Logger
}

// NewGenerationTask creates the pipeline run for task id.
func NewGenerationTask(
	id uuid.UUID,
	req *domain.GenerationRequest,
	deps PipelineDeps,
	config PipelineConfig,
	log *slog.Logger,
) (*GenerationTask, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if log == nil {
		return nil, ErrNilLogger
	}
	if id == uuid.Nil {
		return nil, ErrEmptyTaskID
	}
	if req == nil {
		return nil, ErrNilRequest
	}

	return &GenerationTask{
		id:     id,
		req:    req,
		deps:   deps,
		config: config,
		logger: log.With("task_type", TaskTypeKitGeneration, "task_id", id),
	}, nil
}

// ID returns the task's unique identifier
func (t *GenerationTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier
func (t *GenerationTask) Type() string {
	return TaskTypeKitGeneration
}

// Execute runs the pipeline. Any returned error fails the task; a
// *SceneJobsError means the script succeeded but some scene jobs did not,
// and the artifacts that were produced are left in place.
func (t *GenerationTask) Execute(ctx context.Context) (Outcome, error) {
	log := logger.FromContextOrDefault(ctx, t.logger)
	log.InfoContext(ctx, "starting kit generation",
		"topic", t.req.Topic,
		"duration_category", t.req.Duration,
		"mood", t.req.Mood)

	dir, err := t.deps.Artifacts.Provision(t.id)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to provision task directory: %w", err)
	}

	script, err := t.deps.Scripts.GenerateScript(ctx, t.req)
	if err != nil {
		log.ErrorContext(ctx, "script generation failed", "error", err)
		return Outcome{}, fmt.Errorf("script generation failed: %w", err)
	}
	if script == nil {
		return Outcome{}, fmt.Errorf("script generation failed: %w", generation.ErrInvalidResponse)
	}
	log.InfoContext(ctx, "script generated", "title", script.Title, "scene_count", len(script.Scenes))

	if _, err := t.deps.Artifacts.SaveScript(dir, script); err != nil {
		return Outcome{}, fmt.Errorf("failed to save script: %w", err)
	}

	if _, err := t.deps.Tasks.Update(ctx, t.id, func(rec *domain.Task) error {
		return rec.AttachPreview(script.Clone())
	}); err != nil {
		return Outcome{}, fmt.Errorf("failed to attach preview: %w", err)
	}

	if err := t.runSceneJobs(ctx, dir, script); err != nil {
		log.WarnContext(ctx, "scene jobs failed", "error", err)
		return Outcome{}, err
	}

	outcome := Outcome{ResultLocation: dir}
	if t.config.ArchiveEnabled {
		archive, err := t.deps.Artifacts.Archive(t.id)
		if err != nil {
			return Outcome{}, fmt.Errorf("failed to archive task: %w", err)
		}
		outcome.ResultLocation = archive
		outcome.DownloadURL = t.downloadURL()
	}

	log.InfoContext(ctx, "kit generation completed", "result_location", outcome.ResultLocation)
	return outcome, nil
}

// runSceneJobs fans out audio and, when enabled, image jobs. Both kinds run
// to completion regardless of failures in the other.
func (t *GenerationTask) runSceneJobs(ctx context.Context, dir string, script *domain.Script) error {
	var audioResults, imageResults []SceneResult

	var g errgroup.Group
	g.Go(func() error {
		exec := NewExecutor(t.config.AudioConcurrency, t.config.RequestDelay)
		audioResults = exec.Run(ctx, t.audioJobs(dir, script))
		return nil
	})
	if t.deps.Images != nil {
		g.Go(func() error {
			exec := NewExecutor(t.config.ImageConcurrency, t.config.RequestDelay)
			imageResults = exec.Run(ctx, t.imageJobs(dir, script))
			return nil
		})
	}
	_ = g.Wait()

	var failures []SceneFailure
	failures = collectFailures(failures, JobKindAudio, audioResults)
	failures = collectFailures(failures, JobKindImage, imageResults)
	if len(failures) > 0 {
		return &SceneJobsError{Failures: failures}
	}
	return nil
}

func (t *GenerationTask) audioJobs(dir string, script *domain.Script) []SceneJob {
	jobs := make([]SceneJob, 0, len(script.Scenes))
	for _, scene := range script.Scenes {
		path := filepath.Join(dir, storage.AudioFileName(scene.ID))
		jobs = append(jobs, SceneJob{
			SceneID: scene.ID,
			Run: func(ctx context.Context) (string, error) {
				return t.deps.Audio.GenerateAudio(ctx, scene.Narration, path, t.req.Voice)
			},
		})
	}
	return jobs
}

func (t *GenerationTask) imageJobs(dir string, script *domain.Script) []SceneJob {
	jobs := make([]SceneJob, 0, len(script.Scenes))
	for _, scene := range script.Scenes {
		path := filepath.Join(dir, storage.ImageFileName(scene.ID))
		jobs = append(jobs, SceneJob{
			SceneID: scene.ID,
			Run: func(ctx context.Context) (string, error) {
				return t.deps.Images.GenerateImage(ctx, scene.VisualPrompt, path)
			},
		})
	}
	return jobs
}

func (t *GenerationTask) downloadURL() string {
	if t.config.DownloadPath == "" {
		return ""
	}
	return strings.TrimSuffix(t.config.DownloadPath, "/") + "/" + t.id.String()
}
