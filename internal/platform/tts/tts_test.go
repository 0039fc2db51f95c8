package tts

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/phrazzld/antiflow-api/internal/config"
	"github.com/phrazzld/antiflow-api/internal/generation"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner writes a file to fs at the --write-media path unless configured to fail.
type fakeRunner struct {
	fs      afero.Fs
	content []byte
	result  commandResult
	err     error

	name string
	args []string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (commandResult, error) {
	f.name = name
	f.args = args
	if f.err != nil {
		return f.result, f.err
	}
	for i := 0; i+1 < len(args); i++ {
		if args[i] == "--write-media" {
			if err := afero.WriteFile(f.fs, args[i+1], f.content, 0o644); err != nil {
				return commandResult{}, err
			}
		}
	}
	return f.result, nil
}

func (f *fakeRunner) flag(name string) string {
	for i := 0; i+1 < len(f.args); i++ {
		if f.args[i] == name {
			return f.args[i+1]
		}
	}
	return ""
}

func newTestSynthesizer(t *testing.T, runner *fakeRunner, voice string) *Synthesizer {
	t.Helper()
	s, err := newSynthesizer(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		config.SpeechConfig{Command: "edge-tts", Voice: voice},
		runner,
		runner.fs,
	)
	require.NoError(t, err)
	return s
}

func TestGenerateAudio_Success(t *testing.T) {
	fs := afero.NewMemMapFs()
	runner := &fakeRunner{fs: fs, content: []byte("ID3")}
	s := newTestSynthesizer(t, runner, "en-US-AndrewNeural")

	path, err := s.GenerateAudio(context.Background(), "Magma rises.", "/kits/t1/audio_1.mp3", "")

	require.NoError(t, err)
	assert.Equal(t, "/kits/t1/audio_1.mp3", path)
	assert.Equal(t, "edge-tts", runner.name)
	assert.Equal(t, "en-US-AndrewNeural", runner.flag("--voice"))
	assert.Equal(t, "Magma rises.", runner.flag("--text"))
	assert.Equal(t, "/kits/t1/audio_1.mp3", runner.flag("--write-media"))
}

func TestGenerateAudio_VoiceSelection(t *testing.T) {
	fs := afero.NewMemMapFs()

	runner := &fakeRunner{fs: fs, content: []byte("ID3")}
	s := newTestSynthesizer(t, runner, "")
	_, err := s.GenerateAudio(context.Background(), "hi", "/a.mp3", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultVoice, runner.flag("--voice"))

	_, err = s.GenerateAudio(context.Background(), "hi", "/b.mp3", "en-GB-SoniaNeural")
	require.NoError(t, err)
	assert.Equal(t, "en-GB-SoniaNeural", runner.flag("--voice"))
}

func TestGenerateAudio_Failures(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		runner *fakeRunner
		errMsg string
	}{
		{
			name:   "empty narration",
			text:   "   ",
			runner: &fakeRunner{content: []byte("x")},
			errMsg: "narration is empty",
		},
		{
			name: "command fails",
			text: "hello",
			runner: &fakeRunner{
				err:    errors.New("exit status 1"),
				result: commandResult{ExitCode: 1, Stderr: "NoAudioReceived"},
			},
			errMsg: "NoAudioReceived",
		},
		{
			name:   "empty output file",
			text:   "hello",
			runner: &fakeRunner{content: nil},
			errMsg: "empty audio",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.runner.fs = afero.NewMemMapFs()
			s := newTestSynthesizer(t, tt.runner, "")

			path, err := s.GenerateAudio(context.Background(), tt.text, "/out.mp3", "")

			assert.Empty(t, path)
			assert.ErrorIs(t, err, generation.ErrSynthesisFailed)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestGenerateAudio_NoFileWritten(t *testing.T) {
	fs := afero.NewMemMapFs()
	runner := &fakeRunner{fs: afero.NewMemMapFs(), content: []byte("x")}
	s, err := newSynthesizer(slog.New(slog.NewTextHandler(io.Discard, nil)),
		config.SpeechConfig{Command: "edge-tts"}, runner, fs)
	require.NoError(t, err)

	_, err = s.GenerateAudio(context.Background(), "hello", "/missing.mp3", "")

	assert.ErrorIs(t, err, generation.ErrSynthesisFailed)
}

func TestNewSynthesizer_Validation(t *testing.T) {
	_, err := newSynthesizer(slog.Default(), config.SpeechConfig{}, &fakeRunner{}, afero.NewMemMapFs())
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	_, err = newSynthesizer(nil, config.SpeechConfig{Command: "edge-tts"}, &fakeRunner{}, afero.NewMemMapFs())
	assert.Error(t, err)
}

func TestTail(t *testing.T) {
	long := strings.Repeat("a", maxStderr) + "END"
	assert.Len(t, tail(long), maxStderr)
	assert.True(t, strings.HasSuffix(tail(long), "END"))
	assert.Equal(t, "short", tail("  short\n"))
}
