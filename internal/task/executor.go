package task

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// Default fan-out settings.
const (
	DefaultConcurrency  = 3
	DefaultRequestDelay = 500 * time.Millisecond
)

// SceneJob is one collaborator call for one scene.
type SceneJob struct {
	SceneID int
	Run     func(ctx context.Context) (string, error)
}

// SceneResult is the outcome of one SceneJob. Path may be empty on success
// when the collaborator produced nothing (lenient image generation).
type SceneResult struct {
	SceneID int
	Path    string
	Err     error
}

// Executor runs scene jobs with at most Limit in flight.
//
// Each job waits Delay after taking its slot and before calling out, so the
// delay throttles the external service without widening the fan-out. A job
// failure is captured in its result and never cancels siblings.
type Executor struct {
	limit int
	delay time.Duration
}

// NewExecutor creates an Executor. A non-positive limit falls back to
// DefaultConcurrency; a negative delay is treated as zero.
func NewExecutor(limit int, delay time.Duration) *Executor {
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	if delay < 0 {
		delay = 0
	}
	return &Executor{limit: limit, delay: delay}
}

// Limit returns the maximum number of jobs run at once.
func (e *Executor) Limit() int {
	return e.limit
}

// Run executes jobs and returns one result per job, in input order.
func (e *Executor) Run(ctx context.Context, jobs []SceneJob) []SceneResult {
	results := make([]SceneResult, len(jobs))

	// A plain Group: no derived context, so one failure cancels nothing.
	var g errgroup.Group
	g.SetLimit(e.limit)
	for i, job := range jobs {
		g.Go(func() error {
			results[i] = e.runJob(ctx, job)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (e *Executor) runJob(ctx context.Context, job SceneJob) (result SceneResult) {
	result.SceneID = job.SceneID
	defer func() {
		if p := recover(); p != nil {
			result.Path = ""
			result.Err = fmt.Errorf("%w: %v", ErrTaskPanicked, p)
		}
	}()

	if e.delay > 0 {
		timer := time.NewTimer(e.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			result.Err = ctx.Err()
			return result
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}

	result.Path, result.Err = job.Run(ctx)
	return result
}
