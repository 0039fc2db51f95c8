package domain

import "strings"

// GenerationRequest is a validated request to produce a content kit.
// Duration is resolved from DurationHint once, at the boundary.
type GenerationRequest struct {
	Topic        string           `json:"topic"`
	DurationHint string           `json:"duration_target"`
	Duration     DurationCategory `json:"duration"`
	Mood         string           `json:"mood"`
	Voice        string           `json:"voice,omitempty"`
}

// NewGenerationRequest builds a request and resolves its duration category.
func NewGenerationRequest(topic, durationHint, mood, voice string) (*GenerationRequest, error) {
	req := &GenerationRequest{
		Topic:        strings.TrimSpace(topic),
		DurationHint: strings.TrimSpace(durationHint),
		Duration:     ParseDurationCategory(durationHint),
		Mood:         strings.TrimSpace(mood),
		Voice:        strings.TrimSpace(voice),
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

// Validate checks the required fields.
func (r *GenerationRequest) Validate() error {
	if r.Topic == "" {
		return NewValidationError("topic", "is required", ErrEmptyContent)
	}
	if r.Mood == "" {
		return NewValidationError("mood", "is required", ErrEmptyContent)
	}
	return nil
}
