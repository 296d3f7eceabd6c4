// Package ctxlog carries the host's slog.Logger through context.Context so
// that lifecycle hooks and feature modules log with the same handler.
package ctxlog

import (
	"context"
	"log/slog"
)

// key is an unexported type to prevent collisions with context keys from other packages.
type key struct{}

var loggerKey = key{}

// WithLogger returns a new context with the provided logger embedded.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the slog.Logger from a context. Contexts that were
// never given a logger fall back to slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// WithModule scopes the context logger to a single feature module.
func WithModule(ctx context.Context, name string) context.Context {
	return WithLogger(ctx, FromContext(ctx).With("module", name))
}
