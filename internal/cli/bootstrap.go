// Package cli provides CLI commands for the muse application.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/muse/internal/ctxutil"
)

// runID identifies the current CLI invocation in logs.
// Set once at startup by StartRun().
var runID string

// StartRun generates the run ID for this invocation.
// Should be called once at CLI startup in PersistentPreRun.
func StartRun() {
	runID = ctxutil.NewRunID()
}

// NewContext creates a context.Background() with the current run ID embedded.
// CLI commands should use this instead of context.Background() directly.
func NewContext() context.Context {
	ctx := context.Background()
	if runID != "" {
		return ctxutil.WithRunID(ctx, runID)
	}
	return ctx
}

// NewSignalContext is NewContext cancelled on SIGINT or SIGTERM.
func NewSignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(NewContext(), os.Interrupt, syscall.SIGTERM)
}
