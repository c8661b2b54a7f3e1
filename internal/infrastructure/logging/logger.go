// Package logging provides the slog-based logger used inside usecases and
// background workers, with helpers that pull request-scoped fields off the
// context.
package logging

import (
	"context"
	"log/slog"
	"os"
)

// ContextKey is the type for context keys carrying log fields.
type ContextKey string

const (
	// RequestIDKey carries the inbound request id.
	RequestIDKey ContextKey = "request_id"
	// UserIDKey carries the authenticated user id.
	UserIDKey ContextKey = "user_id"
)

// Logger wraps slog.Logger with context field extraction.
type Logger struct {
	*slog.Logger
}

// New creates a structured logger writing to stdout. Format "json" selects
// the JSON handler, anything else falls back to text.
func New(level slog.Level, format string) *Logger {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return &Logger{Logger: slog.New(handler)}
}

// WithContext returns a logger annotated with whatever request-scoped
// fields the context carries.
func (l *Logger) WithContext(ctx context.Context) *slog.Logger {
	logger := l.Logger

	if requestID, ok := ctx.Value(RequestIDKey).(string); ok && requestID != "" {
		logger = logger.With("request_id", requestID)
	}
	if userID, ok := ctx.Value(UserIDKey).(string); ok && userID != "" {
		logger = logger.With("user_id", userID)
	}

	return logger
}

// InfoCtx logs at info level with context fields attached.
func (l *Logger) InfoCtx(ctx context.Context, msg string, args ...any) {
	l.WithContext(ctx).Info(msg, args...)
}

// WarnCtx logs at warn level with context fields attached.
func (l *Logger) WarnCtx(ctx context.Context, msg string, args ...any) {
	l.WithContext(ctx).Warn(msg, args...)
}

// ErrorCtx logs at error level with context fields attached.
func (l *Logger) ErrorCtx(ctx context.Context, msg string, args ...any) {
	l.WithContext(ctx).Error(msg, args...)
}

// DebugCtx logs at debug level with context fields attached.
func (l *Logger) DebugCtx(ctx context.Context, msg string, args ...any) {
	l.WithContext(ctx).Debug(msg, args...)
}

// ParseLevel maps a config string to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
