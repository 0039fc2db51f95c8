// Package logger provides structured logging functionality for the application.
//
// It builds a log/slog logger from configuration, writing JSON or text to
// stdout or to a size-rotated file, and carries request-scoped loggers
// through context.Context.
package logger
