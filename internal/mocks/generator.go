package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/antiflow-api/internal/domain"
	"github.com/phrazzld/antiflow-api/internal/generation"
	"github.com/spf13/afero"
)

var (
	_ generation.ScriptGenerator = (*MockScriptGenerator)(nil)
	_ generation.AudioGenerator  = (*MockAudioGenerator)(nil)
	_ generation.ImageGenerator  = (*MockImageGenerator)(nil)
)

// MockScriptGenerator implements generation.ScriptGenerator for testing.
type MockScriptGenerator struct {
	// GenerateScriptFn overrides the default behavior when set.
	GenerateScriptFn func(ctx context.Context, req *domain.GenerationRequest) (*domain.Script, error)

	// Default response values. Script is cloned per call.
	Script *domain.Script
	Err    error

	mu       sync.Mutex
	requests []*domain.GenerationRequest
}

// NewMockScriptGenerator creates a MockScriptGenerator that returns script.
func NewMockScriptGenerator(script *domain.Script) *MockScriptGenerator {
	return &MockScriptGenerator{Script: script}
}

// NewMockScriptGeneratorWithError creates a MockScriptGenerator that fails with err.
func NewMockScriptGeneratorWithError(err error) *MockScriptGenerator {
	return &MockScriptGenerator{Err: err}
}

// GenerateScript implements generation.ScriptGenerator.
func (m *MockScriptGenerator) GenerateScript(ctx context.Context, req *domain.GenerationRequest) (*domain.Script, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.GenerateScriptFn != nil {
		return m.GenerateScriptFn(ctx, req)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Script == nil {
		return nil, generation.ErrInvalidResponse
	}
	return m.Script.Clone(), nil
}

// Requests returns the requests received so far.
func (m *MockScriptGenerator) Requests() []*domain.GenerationRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.GenerationRequest(nil), m.requests...)
}

// AudioCall records one GenerateAudio invocation.
type AudioCall struct {
	Text       string
	OutputPath string
	Voice      string
}

// MockAudioGenerator implements generation.AudioGenerator for testing. By
// default it writes the narration text to the output path on FS.
type MockAudioGenerator struct {
	GenerateAudioFn func(ctx context.Context, text, outputPath, voice string) (string, error)

	FS afero.Fs

	mu    sync.Mutex
	calls []AudioCall
}

// NewMockAudioGenerator creates a MockAudioGenerator writing to fs.
func NewMockAudioGenerator(fs afero.Fs) *MockAudioGenerator {
	return &MockAudioGenerator{FS: fs}
}

// GenerateAudio implements generation.AudioGenerator.
func (m *MockAudioGenerator) GenerateAudio(ctx context.Context, text, outputPath, voice string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, AudioCall{Text: text, OutputPath: outputPath, Voice: voice})
	m.mu.Unlock()

	if m.GenerateAudioFn != nil {
		return m.GenerateAudioFn(ctx, text, outputPath, voice)
	}
	if err := afero.WriteFile(m.FS, outputPath, []byte(text), 0o644); err != nil {
		return "", err
	}
	return outputPath, nil
}

// Calls returns the invocations received so far.
func (m *MockAudioGenerator) Calls() []AudioCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]AudioCall(nil), m.calls...)
}

// MockImageGenerator implements generation.ImageGenerator for testing. By
// default it writes the prompt to the output path on FS.
type MockImageGenerator struct {
	GenerateImageFn func(ctx context.Context, prompt, outputPath string) (string, error)

	FS afero.Fs

	mu      sync.Mutex
	prompts []string
}

// NewMockImageGenerator creates a MockImageGenerator writing to fs.
func NewMockImageGenerator(fs afero.Fs) *MockImageGenerator {
	return &MockImageGenerator{FS: fs}
}

// GenerateImage implements generation.ImageGenerator.
func (m *MockImageGenerator) GenerateImage(ctx context.Context, prompt, outputPath string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.GenerateImageFn != nil {
		return m.GenerateImageFn(ctx, prompt, outputPath)
	}
	if err := afero.WriteFile(m.FS, outputPath, []byte(prompt), 0o644); err != nil {
		return "", err
	}
	return outputPath, nil
}

// Prompts returns the prompts received so far.
func (m *MockImageGenerator) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}
