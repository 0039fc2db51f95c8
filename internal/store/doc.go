// Package store defines interfaces for task state persistence.
// These interfaces abstract the underlying storage mechanism from
// the pipeline and the HTTP layer, so the in-memory registry can be
// swapped without touching callers.
package store
