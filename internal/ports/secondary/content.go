package secondary

import (
	"context"
	"time"

	"github.com/example/muse/internal/core/content"
)

// ContentRepository defines the secondary port for content entity persistence.
type ContentRepository interface {
	// Create persists a new content record.
	// Returns ErrDuplicateContent if (kind, content id) already exists.
	Create(ctx context.Context, record *ContentRecord) error

	// Get retrieves a content record by kind and id.
	// Returns ErrContentNotFound if absent.
	Get(ctx context.Context, kind content.Kind, id string) (*ContentRecord, error)

	// Latest retrieves the most recent records of a kind, newest first.
	Latest(ctx context.Context, filters ContentFilters) ([]*ContentRecord, error)
}

// ContentRecord represents a content entity as stored in persistence.
type ContentRecord struct {
	Kind         content.Kind
	ContentID    string
	PersonaName  string
	ThoughtID    string // journal and blog entries only
	Title        string // art and blog entries only
	Body         string // description for art, text for everything else
	LinkedArtIDs []string
	DateAdded    time.Time
}

// ContentFilters contains filter options for listing content.
type ContentFilters struct {
	Kind        content.Kind
	PersonaName string // empty means any persona
	Limit       int
}

// ArtStore defines the secondary port for write-once artwork image bytes.
type ArtStore interface {
	// Write stores data under key. Returns ErrAlreadyExists if key holds data.
	Write(ctx context.Context, key string, data []byte) error

	// Read returns the data under key. Returns ErrArtworkMissing if absent.
	Read(ctx context.Context, key string) ([]byte, error)

	// Location returns a stable locator for key without checking existence.
	Location(key string) string
}
