package logging

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey string

const (
	// RunIDKey is the context key for the batch run ID.
	RunIDKey ctxKey = "run_id"
	// FileKey is the context key for the input file being processed.
	FileKey ctxKey = "file"
)

// WithContext returns a child logger carrying the run_id and file fields
// found in ctx.
func WithContext(logger Logger, ctx context.Context) Logger {
	if ctx == nil {
		return logger
	}

	var fields []zap.Field
	if runID := stringValue(ctx, RunIDKey); runID != "" {
		fields = append(fields, zap.String(string(RunIDKey), runID))
	}
	if file := stringValue(ctx, FileKey); file != "" {
		fields = append(fields, zap.String(string(FileKey), file))
	}

	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}

func stringValue(ctx context.Context, key ctxKey) string {
	if ctx == nil {
		return ""
	}
	if s, ok := ctx.Value(key).(string); ok {
		return s
	}
	return ""
}

func GetRunID(ctx context.Context) string { return stringValue(ctx, RunIDKey) }

func GetFile(ctx context.Context) string { return stringValue(ctx, FileKey) }

func SetRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

func SetFile(ctx context.Context, file string) context.Context {
	return context.WithValue(ctx, FileKey, file)
}

type loggerKey struct{}

// FromContext returns the Logger stored in the context, or the global logger if none.
func FromContext(ctx context.Context) Logger {
	if ctx == nil {
		return Global()
	}
	if l, ok := ctx.Value(loggerKey{}).(Logger); ok {
		return l
	}
	return Global()
}

// ToContext stores the Logger in the context.
func ToContext(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}
