package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/phrazzld/antiflow-api/internal/domain"
	"github.com/phrazzld/antiflow-api/internal/platform/logger"
	"github.com/phrazzld/antiflow-api/internal/store"
)

// ErrTaskPanicked is returned when a task's Execute panics.
var ErrTaskPanicked = errors.New("task panicked")

// shutdownMessage is recorded on tasks still queued when the runner stops.
const shutdownMessage = "server shut down before the task could run"

// TaskRunnerConfig holds configuration for the task runner
type TaskRunnerConfig struct {
	// WorkerCount determines how many concurrent workers process tasks
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory task queue
	QueueSize int
}

// DefaultTaskRunnerConfig returns a TaskRunnerConfig with reasonable defaults
func DefaultTaskRunnerConfig() TaskRunnerConfig {
	return TaskRunnerConfig{
		WorkerCount: 2,
		QueueSize:   100,
	}
}

// TaskRunner manages background task processing
type TaskRunner struct {
	store      store.TaskStore
	queue      *TaskQueue
	pool       *WorkerPool
	config     TaskRunnerConfig
	logger     *slog.Logger
	errHandler func(task Task, err error)
	stopOnce   sync.Once
}

// NewTaskRunner creates a new TaskRunner recording task state in taskStore.
func NewTaskRunner(taskStore store.TaskStore, config TaskRunnerConfig, log *slog.Logger) *TaskRunner {
	log = log.With("component", "task_runner")
	r := &TaskRunner{
		store:  taskStore,
		queue:  NewTaskQueue(config.QueueSize, log),
		config: config,
		logger: log,
		errHandler: func(task Task, err error) {
			log.Error("task execution failed",
				"task_id", task.ID(),
				"task_type", task.Type(),
				"error", err)
		},
	}
	r.pool = NewWorkerPool(
		context.Background(),
		r.queue,
		WorkerPoolConfig{WorkerCount: config.WorkerCount},
		r.processTask,
		log,
	)
	return r
}

// SetErrorHandler allows setting a custom error handler function
func (r *TaskRunner) SetErrorHandler(handler func(task Task, err error)) {
	r.errHandler = handler
}

// Submit adds a task to the queue without waiting for it to run.
// The task's registry record must already exist.
func (r *TaskRunner) Submit(ctx context.Context, task Task) error {
	if err := r.queue.Enqueue(task); err != nil {
		r.logger.WarnContext(ctx, "task submission rejected",
			"task_id", task.ID(),
			"error", err)
		return fmt.Errorf("failed to submit task: %w", err)
	}
	return nil
}

// Start begins processing tasks
func (r *TaskRunner) Start() error {
	r.pool.Start()
	return nil
}

// Stop gracefully shuts down the task runner. Running tasks see their
// context cancelled and record failure; tasks still queued are marked failed.
func (r *TaskRunner) Stop() {
	r.stopOnce.Do(func() {
		r.pool.Stop()
		r.queue.Close()

		drained := 0
		for task := range r.queue.GetChannel() {
			drained++
			r.abandon(task)
		}
		r.logger.Info("task runner stopped", "abandoned_tasks", drained)
	})
}

// processTask handles execution of a single task
func (r *TaskRunner) processTask(ctx context.Context, task Task, workerID int) {
	log := r.logger.With(
		"task_id", task.ID(),
		"task_type", task.Type(),
		"worker_id", workerID,
	)
	ctx = logger.WithLogger(ctx, log)

	// A worker can still receive a buffered task after Stop cancelled ctx.
	if ctx.Err() != nil {
		log.Info("runner stopping, abandoning task")
		r.abandon(task)
		return
	}

	log.Info("processing task")
	final, err := ExecuteAndRecord(ctx, r.store, task)
	if err != nil {
		r.errHandler(task, err)
		return
	}
	log.Info("task completed successfully", "result_location", final.ResultLocation)
}

// abandon records a queued task that will never run as failed.
func (r *TaskRunner) abandon(task Task) {
	ctx := context.Background()
	_, err := r.store.Update(ctx, task.ID(), func(rec *domain.Task) error {
		if err := rec.Transition(domain.TaskStatusProcessing); err != nil {
			return err
		}
		return rec.Fail(shutdownMessage)
	})
	if err != nil {
		r.logger.Error("failed to mark abandoned task", "task_id", task.ID(), "error", err)
	}
}

// ExecuteAndRecord drives one task through its registry states: it moves
// the record to processing, executes the task, and records completed or
// failed. Panics in Execute are recovered and recorded as failures.
//
// The returned error is the task's own failure, or the store error that
// prevented recording it.
func ExecuteAndRecord(ctx context.Context, tasks store.TaskStore, task Task) (*domain.Task, error) {
	log := logger.FromContext(ctx)

	if _, err := tasks.Update(ctx, task.ID(), func(rec *domain.Task) error {
		return rec.Transition(domain.TaskStatusProcessing)
	}); err != nil {
		log.ErrorContext(ctx, "failed to update task status to processing", "error", err)
		return nil, fmt.Errorf("failed to mark task processing: %w", err)
	}

	outcome, execErr := safeExecute(ctx, task)

	// Recording must happen even when shutdown cancelled the run.
	recordCtx := context.WithoutCancel(ctx)
	var (
		final *domain.Task
		err   error
	)
	if execErr != nil {
		final, err = tasks.Update(recordCtx, task.ID(), func(rec *domain.Task) error {
			return rec.Fail(execErr.Error())
		})
	} else {
		final, err = tasks.Update(recordCtx, task.ID(), func(rec *domain.Task) error {
			return rec.Complete(outcome.ResultLocation, outcome.DownloadURL)
		})
	}
	if err != nil {
		log.ErrorContext(ctx, "failed to record task outcome", "error", err, "task_error", execErr)
		return nil, fmt.Errorf("failed to record task outcome: %w", err)
	}
	return final, execErr
}

func safeExecute(ctx context.Context, task Task) (outcome Outcome, err error) {
	defer func() {
		if p := recover(); p != nil {
			logger.FromContext(ctx).ErrorContext(ctx, "task panicked", "panic", p)
			outcome = Outcome{}
			err = fmt.Errorf("%w: %v", ErrTaskPanicked, p)
		}
	}()
	return task.Execute(ctx)
}
