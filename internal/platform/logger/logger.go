package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/phrazzld/antiflow-api/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

type contextKey struct{}

// ParseLevel maps a configured level name to a slog.Level.
// Unknown names fall back to info; the second return reports whether the
// name was recognized.
func ParseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// Setup initializes the application's logging system from configuration and
// installs the result as the slog default.
//
// The returned io.Closer releases the log file when output is "file"; it is
// a no-op for stdout.
func Setup(server config.ServerConfig, logCfg config.LogConfig) (*slog.Logger, io.Closer, error) {
	level, ok := ParseLevel(server.LogLevel)

	var (
		out    io.Writer = os.Stdout
		closer io.Closer = nopCloser{}
	)
	if logCfg.Output == "file" {
		rotating := &lumberjack.Logger{
			Filename:   logCfg.File,
			MaxSize:    logCfg.MaxSizeMB,
			MaxBackups: logCfg.MaxBackups,
			MaxAge:     logCfg.MaxAgeDays,
			Compress:   logCfg.Compress,
		}
		out = rotating
		closer = rotating
	}

	logger := New(out, level, logCfg.Format)
	slog.SetDefault(logger)

	if !ok {
		logger.Warn("invalid log level configured, using default level",
			"configured_level", server.LogLevel,
			"default_level", "info")
	}

	return logger, closer, nil
}

// New creates a logger writing to out. Format "text" selects the text
// handler; anything else produces JSON.
func New(out io.Writer, level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == "text" {
		return slog.New(slog.NewTextHandler(out, opts))
	}
	return slog.New(slog.NewJSONHandler(out, opts))
}

// WithLogger returns a copy of ctx carrying l. It panics on a nil logger.
func WithLogger(ctx context.Context, l *slog.Logger) context.Context {
	if l == nil {
		panic("logger: nil logger")
	}
	return context.WithValue(ctx, contextKey{}, l)
}

// FromContext returns the logger stored in ctx, or slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	return FromContextOrDefault(ctx, slog.Default())
}

// FromContextOrDefault returns the logger stored in ctx, or def when none is present.
func FromContextOrDefault(ctx context.Context, def *slog.Logger) *slog.Logger {
	if ctx == nil {
		return def
	}
	if l, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
		return l
	}
	return def
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
