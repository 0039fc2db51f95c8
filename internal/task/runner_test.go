package task

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/antiflow-api/internal/domain"
	"github.com/phrazzld/antiflow-api/internal/platform/logger"
	"github.com/phrazzld/antiflow-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecord(t *testing.T, s *MockTaskStore) uuid.UUID {
	t.Helper()
	rec, err := s.Create(context.Background())
	require.NoError(t, err)
	return rec.ID
}

func TestTaskRunner_CompletesTask(t *testing.T) {
	s := NewMockTaskStore()
	runner := NewTaskRunner(s, TaskRunnerConfig{WorkerCount: 2, QueueSize: 5}, setupTestLogger())
	require.NoError(t, runner.Start())
	defer runner.Stop()

	id := newRecord(t, s)
	require.NoError(t, runner.Submit(context.Background(), NewMockTask(id)))

	rec := waitForTerminal(t, s, id)
	assert.Equal(t, domain.TaskStatusCompleted, rec.Status)
	assert.Equal(t, "/tmp/"+id.String(), rec.ResultLocation)
	assert.Empty(t, rec.Error)
	assert.Equal(t, []domain.TaskStatus{
		domain.TaskStatusPending,
		domain.TaskStatusProcessing,
		domain.TaskStatusCompleted,
	}, s.History(id))
}

func TestTaskRunner_RecordsFailure(t *testing.T) {
	s := NewMockTaskStore()
	runner := NewTaskRunner(s, TaskRunnerConfig{WorkerCount: 1, QueueSize: 5}, setupTestLogger())

	var (
		mu     sync.Mutex
		failed []error
	)
	runner.SetErrorHandler(func(_ Task, err error) {
		mu.Lock()
		failed = append(failed, err)
		mu.Unlock()
	})
	require.NoError(t, runner.Start())
	defer runner.Stop()

	id := newRecord(t, s)
	task := NewMockTask(id)
	task.ExecuteFn = func(context.Context) (Outcome, error) {
		return Outcome{}, errors.New("script generation failed: upstream timeout")
	}
	require.NoError(t, runner.Submit(context.Background(), task))

	rec := waitForTerminal(t, s, id)
	assert.Equal(t, domain.TaskStatusFailed, rec.Status)
	assert.Equal(t, "script generation failed: upstream timeout", rec.Error)
	assert.Empty(t, rec.ResultLocation)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(failed) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestTaskRunner_RecoversPanics(t *testing.T) {
	s := NewMockTaskStore()
	runner := NewTaskRunner(s, TaskRunnerConfig{WorkerCount: 1, QueueSize: 5}, setupTestLogger())
	require.NoError(t, runner.Start())
	defer runner.Stop()

	panicking := newRecord(t, s)
	task := NewMockTask(panicking)
	task.ExecuteFn = func(context.Context) (Outcome, error) {
		panic("boom")
	}
	require.NoError(t, runner.Submit(context.Background(), task))

	rec := waitForTerminal(t, s, panicking)
	assert.Equal(t, domain.TaskStatusFailed, rec.Status)
	assert.Contains(t, rec.Error, "boom")

	// The worker survives and keeps processing.
	next := newRecord(t, s)
	require.NoError(t, runner.Submit(context.Background(), NewMockTask(next)))
	assert.Equal(t, domain.TaskStatusCompleted, waitForTerminal(t, s, next).Status)
}

func TestTaskRunner_SubmitQueueFull(t *testing.T) {
	s := NewMockTaskStore()
	runner := NewTaskRunner(s, TaskRunnerConfig{WorkerCount: 1, QueueSize: 1}, setupTestLogger())

	require.NoError(t, runner.Submit(context.Background(), NewMockTask(newRecord(t, s))))
	err := runner.Submit(context.Background(), NewMockTask(newRecord(t, s)))

	assert.ErrorIs(t, err, ErrQueueFull)
	assert.Contains(t, err.Error(), "failed to submit task")
}

func TestTaskRunner_AttachesTaskLogger(t *testing.T) {
	s := NewMockTaskStore()
	runner := NewTaskRunner(s, TaskRunnerConfig{WorkerCount: 1, QueueSize: 1}, setupTestLogger())
	require.NoError(t, runner.Start())
	defer runner.Stop()

	id := newRecord(t, s)
	found := make(chan bool, 1)
	task := NewMockTask(id)
	task.ExecuteFn = func(ctx context.Context) (Outcome, error) {
		found <- logger.FromContextOrDefault(ctx, nil) != nil
		return Outcome{}, nil
	}
	require.NoError(t, runner.Submit(context.Background(), task))

	select {
	case ok := <-found:
		assert.True(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("task did not run")
	}
}

func TestTaskRunner_StopCancelsRunningAndAbandonsQueued(t *testing.T) {
	s := NewMockTaskStore()
	runner := NewTaskRunner(s, TaskRunnerConfig{WorkerCount: 1, QueueSize: 5}, setupTestLogger())
	require.NoError(t, runner.Start())

	running := newRecord(t, s)
	started := make(chan struct{})
	blocking := NewMockTask(running)
	blocking.ExecuteFn = func(ctx context.Context) (Outcome, error) {
		close(started)
		<-ctx.Done()
		return Outcome{}, ctx.Err()
	}
	require.NoError(t, runner.Submit(context.Background(), blocking))
	<-started

	queued := newRecord(t, s)
	require.NoError(t, runner.Submit(context.Background(), NewMockTask(queued)))

	runner.Stop()
	runner.Stop()

	rec, err := s.Get(context.Background(), running)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusFailed, rec.Status)
	assert.Contains(t, rec.Error, context.Canceled.Error())

	rec, err = s.Get(context.Background(), queued)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusFailed, rec.Status)
	assert.Equal(t, shutdownMessage, rec.Error)

	assert.ErrorIs(t, runner.Submit(context.Background(), NewMockTask(uuid.New())), ErrQueueClosed)
}

func TestTaskRunner_StopNeverRunsQueuedTasks(t *testing.T) {
	for i := 0; i < 50; i++ {
		s := NewMockTaskStore()
		runner := NewTaskRunner(s, TaskRunnerConfig{WorkerCount: 1, QueueSize: 5}, setupTestLogger())
		require.NoError(t, runner.Start())

		started := make(chan struct{})
		blocking := NewMockTask(newRecord(t, s))
		blocking.ExecuteFn = func(ctx context.Context) (Outcome, error) {
			close(started)
			<-ctx.Done()
			return Outcome{}, ctx.Err()
		}
		require.NoError(t, runner.Submit(context.Background(), blocking))
		<-started

		var ran atomic.Bool
		queuedID := newRecord(t, s)
		queued := NewMockTask(queuedID)
		queued.ExecuteFn = func(context.Context) (Outcome, error) {
			ran.Store(true)
			return Outcome{ResultLocation: "/ignored"}, nil
		}
		require.NoError(t, runner.Submit(context.Background(), queued))

		runner.Stop()

		require.False(t, ran.Load(), "queued task ran after Stop (iteration %d)", i)
		rec, err := s.Get(context.Background(), queuedID)
		require.NoError(t, err)
		require.Equal(t, domain.TaskStatusFailed, rec.Status)
		require.Equal(t, shutdownMessage, rec.Error)
	}
}

func TestTaskRunner_ProcessTaskAbandonsAfterCancel(t *testing.T) {
	s := NewMockTaskStore()
	runner := NewTaskRunner(s, DefaultTaskRunnerConfig(), setupTestLogger())

	id := newRecord(t, s)
	ran := false
	task := NewMockTask(id)
	task.ExecuteFn = func(context.Context) (Outcome, error) {
		ran = true
		return Outcome{}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	runner.processTask(ctx, task, 0)

	assert.False(t, ran)
	rec, err := s.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusFailed, rec.Status)
	assert.Equal(t, shutdownMessage, rec.Error)
}

func TestExecuteAndRecord_UnknownTask(t *testing.T) {
	s := NewMockTaskStore()

	final, err := ExecuteAndRecord(context.Background(), s, NewMockTask(uuid.New()))

	assert.Nil(t, final)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestExecuteAndRecord_TerminalTaskIsNotRerun(t *testing.T) {
	s := NewMockTaskStore()
	id := newRecord(t, s)
	_, err := ExecuteAndRecord(context.Background(), s, NewMockTask(id))
	require.NoError(t, err)

	ran := false
	again := NewMockTask(id)
	again.ExecuteFn = func(context.Context) (Outcome, error) {
		ran = true
		return Outcome{}, nil
	}
	_, err = ExecuteAndRecord(context.Background(), s, again)

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.False(t, ran)
}

func TestExecuteAndRecord_RecordsAfterCancellation(t *testing.T) {
	s := NewMockTaskStore()
	id := newRecord(t, s)
	ctx, cancel := context.WithCancel(context.Background())

	task := NewMockTask(id)
	task.ExecuteFn = func(context.Context) (Outcome, error) {
		cancel()
		return Outcome{}, context.Canceled
	}
	final, err := ExecuteAndRecord(ctx, s, task)

	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, final)
	assert.Equal(t, domain.TaskStatusFailed, final.Status)
}
