package generation

import (
	"context"

	"github.com/phrazzld/antiflow-api/internal/domain"
)

// ScriptGenerator turns a generation request into a titled list of scenes.
// Implementations return a script that has passed domain.Script.Normalize.
type ScriptGenerator interface {
	// GenerateScript returns ErrContentBlocked, ErrInvalidResponse or
	// ErrGenerationFailed (possibly wrapped) on failure.
	GenerateScript(ctx context.Context, req *domain.GenerationRequest) (*domain.Script, error)
}

// AudioGenerator voices a single piece of narration.
type AudioGenerator interface {
	// GenerateAudio writes speech for text to outputPath and returns the path
	// written. An empty voice selects the implementation's default.
	// Failures wrap ErrSynthesisFailed.
	GenerateAudio(ctx context.Context, text, outputPath, voice string) (string, error)
}

// ImageGenerator renders a single visual prompt.
type ImageGenerator interface {
	// GenerateImage writes an image for prompt to outputPath and returns the
	// path written. A lenient implementation may return "" and a nil error
	// when no image was produced; a strict one wraps ErrImageFailed.
	GenerateImage(ctx context.Context, prompt, outputPath string) (string, error)
}
