// Package tts implements generation.AudioGenerator by shelling out to the
// edge-tts command line tool.
package tts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/phrazzld/antiflow-api/internal/config"
	"github.com/phrazzld/antiflow-api/internal/generation"
	"github.com/spf13/afero"
)

// DefaultVoice is used when neither the request nor the configuration names one.
const DefaultVoice = "en-US-ChristopherNeural"

// maxStderr bounds how much tool output is copied into an error message.
const maxStderr = 512

// commandResult is an internal process execution response.
type commandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// commandRunner abstracts process execution for testability.
type commandRunner interface {
	Run(ctx context.Context, name string, args ...string) (commandResult, error)
}

// execRunner executes commands via os/exec.
type execRunner struct{}

// Run executes one command and captures stdout/stderr and exit code.
func (r *execRunner) Run(ctx context.Context, name string, args ...string) (commandResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := commandResult{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		result.ExitCode = -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		}
		return result, err
	}
	return result, nil
}

// Synthesizer voices narration with edge-tts.
type Synthesizer struct {
	command string
	voice   string
	runner  commandRunner
	fs      afero.Fs
	logger  *slog.Logger
}

var _ generation.AudioGenerator = (*Synthesizer)(nil)

// NewSynthesizer creates a Synthesizer running cfg.Command against the OS filesystem.
func NewSynthesizer(logger *slog.Logger, cfg config.SpeechConfig) (*Synthesizer, error) {
	return newSynthesizer(logger, cfg, &execRunner{}, afero.NewOsFs())
}

func newSynthesizer(logger *slog.Logger, cfg config.SpeechConfig, runner commandRunner, fs afero.Fs) (*Synthesizer, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if strings.TrimSpace(cfg.Command) == "" {
		return nil, fmt.Errorf("%w: speech command cannot be empty", generation.ErrInvalidConfig)
	}
	voice := cfg.Voice
	if voice == "" {
		voice = DefaultVoice
	}
	return &Synthesizer{
		command: cfg.Command,
		voice:   voice,
		runner:  runner,
		fs:      fs,
		logger:  logger.With("component", "tts"),
	}, nil
}

// GenerateAudio runs `<command> --voice V --text T --write-media outputPath`
// and checks that the tool actually produced a non-empty file.
func (s *Synthesizer) GenerateAudio(ctx context.Context, text, outputPath, voice string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: narration is empty", generation.ErrSynthesisFailed)
	}
	if voice == "" {
		voice = s.voice
	}

	result, err := s.runner.Run(ctx, s.command,
		"--voice", voice,
		"--text", text,
		"--write-media", outputPath,
	)
	if err != nil {
		s.logger.WarnContext(ctx, "speech synthesis command failed",
			"output_path", outputPath,
			"exit_code", result.ExitCode,
			"error", err)
		return "", fmt.Errorf("%w: %s exited with code %d: %s",
			generation.ErrSynthesisFailed, s.command, result.ExitCode, tail(result.Stderr))
	}

	info, err := s.fs.Stat(outputPath)
	if err != nil {
		return "", fmt.Errorf("%w: no audio written to %s: %v", generation.ErrSynthesisFailed, outputPath, err)
	}
	if info.Size() == 0 {
		return "", fmt.Errorf("%w: empty audio written to %s", generation.ErrSynthesisFailed, outputPath)
	}

	s.logger.DebugContext(ctx, "audio generated",
		"output_path", outputPath,
		"voice", voice,
		"bytes", info.Size())
	return outputPath, nil
}

func tail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxStderr {
		return s[len(s)-maxStderr:]
	}
	return s
}
