// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"

	"github.com/example/muse/internal/core/thought"
)

// ThoughtRepository defines the secondary port for versioned thought persistence.
// Every version is kept; version 0 is an alias that always holds the latest.
type ThoughtRepository interface {
	// Create atomically writes version 1 and the current alias.
	// Returns ErrAlreadyExists if either already exists.
	Create(ctx context.Context, t *thought.Thought) error

	// Get retrieves a thought at the given version; 0 means latest.
	// Returns ErrNotFound if absent.
	Get(ctx context.Context, id string, version int) (*thought.Thought, error)

	// Update atomically writes next and advances the alias, provided the alias
	// is still at base.Version. Returns ErrVersionConflict otherwise.
	Update(ctx context.Context, base, next *thought.Thought) error

	// List retrieves current thoughts matching the filters, newest first.
	List(ctx context.Context, filters ThoughtFilters) ([]*thought.Thought, error)

	// ListVersions retrieves every numbered version of a thought, oldest first.
	ListVersions(ctx context.Context, id string) ([]*thought.Thought, error)
}

// ThoughtFilters contains filter options for listing thoughts.
type ThoughtFilters struct {
	Complete    *bool  // nil means any status
	PersonaName string // empty means any persona
	Limit       int    // 0 means no limit
}
