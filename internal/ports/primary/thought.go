package primary

import (
	"context"

	"github.com/example/muse/internal/core/content"
	"github.com/example/muse/internal/core/plan"
	"github.com/example/muse/internal/core/thought"
)

// ThoughtService defines the primary port for the thought engine.
type ThoughtService interface {
	// StartNewThought elicits a task for the persona and persists version 1.
	StartNewThought(ctx context.Context, req StartThoughtRequest) (*thought.Thought, error)

	// DevelopThoughtPlan attaches a plan to an elicited thought.
	// A thought that already has a plan is returned unchanged.
	DevelopThoughtPlan(ctx context.Context, t *thought.Thought) (*thought.Thought, error)

	// ContinueThought executes the next step of a planned thought.
	// t must be the latest version; a stale thought yields a version conflict.
	ContinueThought(ctx context.Context, t *thought.Thought, progress ProgressFunc) (*StepResult, error)

	// RunThought calls ContinueThought until the thought is complete.
	RunThought(ctx context.Context, t *thought.Thought, progress ProgressFunc) (*thought.Thought, error)

	// GetThought retrieves the latest version of a thought.
	GetThought(ctx context.Context, thoughtID string) (*thought.Thought, error)

	// GetThoughtVersion retrieves a specific version of a thought.
	GetThoughtVersion(ctx context.Context, thoughtID string, version int) (*thought.Thought, error)

	// ThoughtHistory retrieves every version of a thought, oldest first.
	ThoughtHistory(ctx context.Context, thoughtID string) ([]*thought.Thought, error)

	// ListIncompleteThoughts lists unfinished thoughts, newest first.
	ListIncompleteThoughts(ctx context.Context) ([]*thought.Thought, error)

	// ListRecentlyCompleted lists finished thoughts, newest first.
	// An empty persona name lists every persona.
	ListRecentlyCompleted(ctx context.Context, personaName string, limit int) ([]*thought.Thought, error)

	// ListRecentThoughts lists thoughts of any status, newest first.
	ListRecentThoughts(ctx context.Context, limit int) ([]*thought.Thought, error)
}

// StartThoughtRequest contains parameters for starting a thought.
type StartThoughtRequest struct {
	PersonaName string
	UserNudge   string // Optional
}

// StepResult is the outcome of executing one step.
type StepResult struct {
	Thought *thought.Thought
	Step    plan.Step
	Output  string
	Content content.Entity // nil when the step produced nothing
}

// Progress is a non-authoritative status update emitted while a step runs.
type Progress struct {
	ThoughtID string
	Tool      plan.Tool
	Status    string
}

// ProgressFunc receives progress updates. It may be nil and never affects control flow.
type ProgressFunc func(Progress)
