package task

import (
	"fmt"
	"sort"
	"strings"
)

// Scene job kinds, used in failure summaries.
const (
	JobKindAudio = "audio"
	JobKindImage = "image"
)

// SceneFailure is one failed scene job.
type SceneFailure struct {
	Kind    string
	SceneID int
	Err     error
}

// SceneJobsError aggregates every failed scene job of one pipeline run.
type SceneJobsError struct {
	Failures []SceneFailure
}

// Error lists the failed scene ids per job kind, e.g.
// "failed to generate audio for 2 scene(s): scene 2, scene 5".
func (e *SceneJobsError) Error() string {
	byKind := make(map[string][]int)
	var kinds []string
	for _, f := range e.Failures {
		if _, seen := byKind[f.Kind]; !seen {
			kinds = append(kinds, f.Kind)
		}
		byKind[f.Kind] = append(byKind[f.Kind], f.SceneID)
	}

	parts := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		ids := byKind[kind]
		sort.Ints(ids)
		names := make([]string, len(ids))
		for i, id := range ids {
			names[i] = fmt.Sprintf("scene %d", id)
		}
		parts = append(parts, fmt.Sprintf("failed to generate %s for %d scene(s): %s",
			kind, len(ids), strings.Join(names, ", ")))
	}
	return strings.Join(parts, "; ")
}

// Unwrap exposes every underlying job error to errors.Is/errors.As.
func (e *SceneJobsError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		if f.Err != nil {
			errs = append(errs, f.Err)
		}
	}
	return errs
}

// SceneIDs returns the failed scene ids for kind in ascending order.
func (e *SceneJobsError) SceneIDs(kind string) []int {
	var ids []int
	for _, f := range e.Failures {
		if f.Kind == kind {
			ids = append(ids, f.SceneID)
		}
	}
	sort.Ints(ids)
	return ids
}

// collectFailures appends the failed results of kind to failures.
func collectFailures(failures []SceneFailure, kind string, results []SceneResult) []SceneFailure {
	for _, r := range results {
		if r.Err != nil {
			failures = append(failures, SceneFailure{Kind: kind, SceneID: r.SceneID, Err: r.Err})
		}
	}
	return failures
}
