// Package ctxutil provides context utilities that can be safely imported anywhere.
// This package has no internal dependencies to avoid import cycles.
package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

// RunIDKey is the context key for the run ID.
// Exported so it can be used consistently across packages.
type RunIDKey struct{}

// NewRunID returns a fresh run ID for correlating the log lines of one invocation.
func NewRunID() string {
	return uuid.NewString()
}

// WithRunID returns a context with the run ID embedded.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey{}, runID)
}

// RunIDFromContext returns the run ID from context, or empty string if not set.
func RunIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(RunIDKey{}).(string); ok {
		return v
	}
	return ""
}

// EnsureRunID returns ctx unchanged if it carries a run ID, otherwise a
// context with a new one.
func EnsureRunID(ctx context.Context) context.Context {
	if RunIDFromContext(ctx) != "" {
		return ctx
	}
	return WithRunID(ctx, NewRunID())
}
