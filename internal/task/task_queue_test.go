package task

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTaskQueue(t *testing.T) {
	q := NewTaskQueue(5, setupTestLogger())
	assert.Equal(t, 5, cap(q.tasks))

	q = NewTaskQueue(0, setupTestLogger())
	assert.Equal(t, 1, cap(q.tasks), "size is clamped to at least one")
}

func TestEnqueue(t *testing.T) {
	q := NewTaskQueue(2, setupTestLogger())

	require.NoError(t, q.Enqueue(NewMockTask(uuid.New())))
	require.NoError(t, q.Enqueue(NewMockTask(uuid.New())))

	err := q.Enqueue(NewMockTask(uuid.New()))
	assert.ErrorIs(t, err, ErrQueueFull)
	assert.Contains(t, err.Error(), "capacity 2")
}

func TestClose(t *testing.T) {
	q := NewTaskQueue(2, setupTestLogger())
	first := NewMockTask(uuid.New())
	require.NoError(t, q.Enqueue(first))

	q.Close()
	q.Close()

	assert.ErrorIs(t, q.Enqueue(NewMockTask(uuid.New())), ErrQueueClosed)

	got, ok := <-q.GetChannel()
	require.True(t, ok, "buffered tasks survive Close")
	assert.Equal(t, first.ID(), got.ID())

	_, ok = <-q.GetChannel()
	assert.False(t, ok)
}

func TestConcurrentEnqueueAndClose(t *testing.T) {
	q := NewTaskQueue(50, setupTestLogger())

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = q.Enqueue(NewMockTask(uuid.New()))
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		q.Close()
	}()
	wg.Wait()

	count := 0
	for range q.GetChannel() {
		count++
	}
	assert.LessOrEqual(t, count, 50)
}
