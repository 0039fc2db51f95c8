package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/antiflow-api/internal/domain"
	"github.com/phrazzld/antiflow-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskStore_CreateAndGet(t *testing.T) {
	s := NewTaskStore(nil)
	ctx := context.Background()

	created, err := s.Create(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusPending, created.Status)
	assert.NotEqual(t, uuid.Nil, created.ID)

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, domain.TaskStatusPending, got.Status)
	assert.Equal(t, 1, s.Len())
}

func TestTaskStore_GetUnknown(t *testing.T) {
	s := NewTaskStore(nil)

	task, err := s.Get(context.Background(), uuid.New())

	assert.Nil(t, task)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
	assert.True(t, store.IsNotFoundError(err))
}

func TestTaskStore_UpdateAppliesMutation(t *testing.T) {
	s := NewTaskStore(nil)
	ctx := context.Background()
	created, err := s.Create(ctx)
	require.NoError(t, err)

	updated, err := s.Update(ctx, created.ID, func(task *domain.Task) error {
		return task.Transition(domain.TaskStatusProcessing)
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusProcessing, updated.Status)

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusProcessing, got.Status)
}

func TestTaskStore_RejectedMutationLeavesTaskUnchanged(t *testing.T) {
	s := NewTaskStore(nil)
	ctx := context.Background()
	created, err := s.Create(ctx)
	require.NoError(t, err)

	_, err = s.Update(ctx, created.ID, func(task *domain.Task) error {
		task.Error = "partially applied"
		return task.Transition(domain.TaskStatusCompleted)
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrUpdateFailed)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	var storeErr *store.StoreError
	assert.True(t, errors.As(err, &storeErr))

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusPending, got.Status)
	assert.Empty(t, got.Error)
}

func TestTaskStore_UpdateUnknown(t *testing.T) {
	s := NewTaskStore(nil)

	_, err := s.Update(context.Background(), uuid.New(), func(*domain.Task) error { return nil })

	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestTaskStore_SnapshotsAreIsolated(t *testing.T) {
	s := NewTaskStore(nil)
	ctx := context.Background()
	created, err := s.Create(ctx)
	require.NoError(t, err)
	_, err = s.Update(ctx, created.ID, func(task *domain.Task) error {
		if err := task.Transition(domain.TaskStatusProcessing); err != nil {
			return err
		}
		return task.AttachPreview(&domain.Script{Title: "t", Scenes: []domain.Scene{{ID: 1, Narration: "n"}}})
	})
	require.NoError(t, err)

	snapshot, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	snapshot.Status = domain.TaskStatusFailed
	snapshot.PreviewData.Scenes[0].Narration = "changed"

	fresh, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusProcessing, fresh.Status)
	assert.Equal(t, "n", fresh.PreviewData.Scenes[0].Narration)
}

func TestTaskStore_ConcurrentAccess(t *testing.T) {
	s := NewTaskStore(nil)
	ctx := context.Background()

	const tasks = 20
	ids := make([]uuid.UUID, tasks)
	for i := range ids {
		created, err := s.Create(ctx)
		require.NoError(t, err)
		ids[i] = created.ID
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		id := id
		wg.Add(3)
		go func() {
			defer wg.Done()
			_, _ = s.Update(ctx, id, func(task *domain.Task) error {
				return task.Transition(domain.TaskStatusProcessing)
			})
			_, _ = s.Update(ctx, id, func(task *domain.Task) error {
				return task.Complete("/kits/"+id.String(), "")
			})
		}()
		for r := 0; r < 2; r++ {
			go func() {
				defer wg.Done()
				for i := 0; i < 50; i++ {
					task, err := s.Get(ctx, id)
					if err == nil {
						_ = task.Status
					}
				}
			}()
		}
	}
	wg.Wait()

	for _, id := range ids {
		task, err := s.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusCompleted, task.Status)
		assert.Equal(t, "/kits/"+id.String(), task.ResultLocation)
	}
}
