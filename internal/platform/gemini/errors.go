package gemini

import "errors"

// Error definitions for the gemini package.
var (
	// ErrEmptyTopic is returned when a prompt would be built without a topic.
	ErrEmptyTopic = errors.New("topic cannot be empty")
)
