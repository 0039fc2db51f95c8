// Package task runs kit generation in the background.
//
// A TaskRunner feeds a bounded TaskQueue into a WorkerPool. Each worker moves
// the task's registry record to processing, executes it, and records the
// terminal state, so a task never stays in processing after its run ends.
// GenerationTask is the pipeline itself; Executor is the bounded per-scene
// fan-out it uses for audio and image jobs.
package task
