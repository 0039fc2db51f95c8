package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/phrazzld/antiflow-api/internal/config"
	"github.com/phrazzld/antiflow-api/internal/events"
	"github.com/phrazzld/antiflow-api/internal/generation"
	"github.com/phrazzld/antiflow-api/internal/platform/gemini"
	"github.com/phrazzld/antiflow-api/internal/platform/memory"
	"github.com/phrazzld/antiflow-api/internal/platform/pollinations"
	"github.com/phrazzld/antiflow-api/internal/platform/tts"
	"github.com/phrazzld/antiflow-api/internal/service"
	"github.com/phrazzld/antiflow-api/internal/storage"
	"github.com/phrazzld/antiflow-api/internal/store"
	"github.com/phrazzld/antiflow-api/internal/task"
	"github.com/spf13/afero"
)

// collaborators are the external services and filesystem a pipeline talks to.
type collaborators struct {
	scripts generation.ScriptGenerator
	audio   generation.AudioGenerator
	// images is nil when image generation is disabled.
	images generation.ImageGenerator
	fs     afero.Fs

	closers []io.Closer
}

type collaboratorsFunc func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*collaborators, error)

// defaultCollaborators connects to Gemini, edge-tts and, when enabled,
// Pollinations, writing to the OS filesystem.
func defaultCollaborators(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*collaborators, error) {
	c := &collaborators{fs: afero.NewOsFs()}

	scripts, err := gemini.NewGeminiGenerator(ctx, logger, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize script generator: %w", err)
	}
	c.scripts = scripts
	logger.Info("LLM generator initialized successfully", "model", cfg.LLM.ModelName)

	audio, err := tts.NewSynthesizer(logger, cfg.Speech)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize speech synthesizer: %w", err)
	}
	c.audio = audio

	if cfg.Image.Enabled {
		images, err := pollinations.NewClient(logger, cfg.Image, c.fs)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize image client: %w", err)
		}
		c.images = images
		c.closers = append(c.closers, images)
		logger.Info("image generation enabled", "strict", cfg.Image.Strict)
	}

	return c, nil
}

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	taskStore store.TaskStore
	artifacts *storage.Store

	eventEmitter      *events.InMemoryEventEmitter
	taskFactory       *task.GenerationTaskFactory
	taskRunner        *task.TaskRunner
	generationService service.GenerationService

	closers []io.Closer
}

// newApplication wires the application around collab. The task runner is
// created but not started.
func newApplication(cfg *config.Config, logger *slog.Logger, collab *collaborators) (*application, error) {
	app := &application{
		config:  cfg,
		logger:  logger,
		closers: collab.closers,
	}

	var err error
	app.taskStore = memory.NewTaskStore(logger)

	app.artifacts, err = storage.NewStore(collab.fs, cfg.Storage.RootDir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize artifact storage: %w", err)
	}

	app.taskFactory, err = task.NewGenerationTaskFactory(task.PipelineDeps{
		Scripts:   collab.scripts,
		Audio:     collab.audio,
		Images:    collab.images,
		Artifacts: app.artifacts,
		Tasks:     app.taskStore,
	}, pipelineConfig(cfg), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task factory: %w", err)
	}

	app.taskRunner = task.NewTaskRunner(app.taskStore, task.TaskRunnerConfig{
		WorkerCount: cfg.Task.WorkerCount,
		QueueSize:   cfg.Task.QueueSize,
	}, logger)

	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.eventEmitter.RegisterHandler(task.NewTaskFactoryEventHandler(app.taskFactory, app.taskRunner, logger))

	app.generationService, err = service.NewGenerationService(app.taskStore, app.artifacts, app.eventEmitter, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create generation service: %w", err)
	}

	return app, nil
}

func pipelineConfig(cfg *config.Config) task.PipelineConfig {
	pc := task.DefaultPipelineConfig()
	pc.AudioConcurrency = cfg.Pipeline.AudioConcurrency
	pc.ImageConcurrency = cfg.Pipeline.ImageConcurrency
	pc.RequestDelay = time.Duration(cfg.Pipeline.RequestDelayMS) * time.Millisecond
	pc.ArchiveEnabled = cfg.Storage.ArchiveEnabled
	return pc
}

// start begins background task processing.
func (app *application) start() error {
	if err := app.taskRunner.Start(); err != nil {
		return fmt.Errorf("failed to start task runner: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() error {
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}

	var errs []error
	for _, c := range app.closers {
		errs = append(errs, c.Close())
	}

	app.logger.Info("Application shutdown completed")
	return errors.Join(errs...)
}
