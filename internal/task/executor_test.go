package task

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExecutor_Defaults(t *testing.T) {
	assert.Equal(t, DefaultConcurrency, NewExecutor(0, 0).Limit())
	assert.Equal(t, DefaultConcurrency, NewExecutor(-2, 0).Limit())
	assert.Equal(t, 7, NewExecutor(7, -time.Second).Limit())
}

func TestExecutor_BoundsConcurrency(t *testing.T) {
	const limit = 3
	var inFlight, peak atomic.Int32

	jobs := make([]SceneJob, 12)
	for i := range jobs {
		jobs[i] = SceneJob{
			SceneID: i + 1,
			Run: func(context.Context) (string, error) {
				n := inFlight.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(10 * time.Millisecond)
				inFlight.Add(-1)
				return fmt.Sprintf("out_%d", i+1), nil
			},
		}
	}

	results := NewExecutor(limit, 0).Run(context.Background(), jobs)

	require.Len(t, results, len(jobs))
	assert.LessOrEqual(t, peak.Load(), int32(limit))
	assert.Positive(t, peak.Load())
}

func TestExecutor_PreservesOrderAndIsolatesFailures(t *testing.T) {
	failure := errors.New("synthesis failed")
	var calls atomic.Int32

	jobs := make([]SceneJob, 5)
	for i := range jobs {
		id := i + 1
		jobs[i] = SceneJob{
			SceneID: id,
			Run: func(context.Context) (string, error) {
				calls.Add(1)
				// Earlier scenes finish last.
				time.Sleep(time.Duration(5-id) * 5 * time.Millisecond)
				if id == 2 {
					return "", failure
				}
				return fmt.Sprintf("audio_%d.mp3", id), nil
			},
		}
	}

	results := NewExecutor(5, 0).Run(context.Background(), jobs)

	assert.Equal(t, int32(5), calls.Load(), "a failure must not cancel siblings")
	for i, r := range results {
		assert.Equal(t, i+1, r.SceneID)
		if r.SceneID == 2 {
			assert.ErrorIs(t, r.Err, failure)
			assert.Empty(t, r.Path)
			continue
		}
		assert.NoError(t, r.Err)
		assert.Equal(t, fmt.Sprintf("audio_%d.mp3", r.SceneID), r.Path)
	}
}

func TestExecutor_RecoversPanickingJob(t *testing.T) {
	jobs := []SceneJob{
		{SceneID: 1, Run: func(context.Context) (string, error) { panic("bad scene") }},
		{SceneID: 2, Run: func(context.Context) (string, error) { return "ok", nil }},
	}

	results := NewExecutor(1, 0).Run(context.Background(), jobs)

	assert.ErrorIs(t, results[0].Err, ErrTaskPanicked)
	assert.NoError(t, results[1].Err)
	assert.Equal(t, "ok", results[1].Path)
}

func TestExecutor_AppliesDelayPerJob(t *testing.T) {
	const delay = 20 * time.Millisecond
	jobs := make([]SceneJob, 4)
	for i := range jobs {
		jobs[i] = SceneJob{SceneID: i + 1, Run: func(context.Context) (string, error) { return "", nil }}
	}

	start := time.Now()
	NewExecutor(1, delay).Run(context.Background(), jobs)

	assert.GreaterOrEqual(t, time.Since(start), 4*delay, "serial jobs each wait the delay")
}

func TestExecutor_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	jobs := make([]SceneJob, 3)
	for i := range jobs {
		jobs[i] = SceneJob{SceneID: i + 1, Run: func(context.Context) (string, error) {
			calls.Add(1)
			return "", nil
		}}
	}

	for _, delay := range []time.Duration{0, time.Hour} {
		results := NewExecutor(2, delay).Run(ctx, jobs)
		for _, r := range results {
			assert.ErrorIs(t, r.Err, context.Canceled)
		}
	}
	assert.Zero(t, calls.Load())
}

func TestExecutor_NoJobs(t *testing.T) {
	assert.Empty(t, NewExecutor(3, 0).Run(context.Background(), nil))
}
