package generation

import "errors"

// Common errors returned by generators
var (
	// ErrGenerationFailed is returned when script generation fails for any general reason
	ErrGenerationFailed = errors.New("failed to generate script")

	// ErrInvalidResponse is returned when the LLM response cannot be parsed or is malformed
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the LLM blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrInvalidConfig is returned when a generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")

	// ErrSynthesisFailed is returned when narration audio could not be produced
	ErrSynthesisFailed = errors.New("speech synthesis failed")

	// ErrImageFailed is returned when a scene image could not be produced
	ErrImageFailed = errors.New("image generation failed")
)
