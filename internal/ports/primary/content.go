package primary

import (
	"context"

	"github.com/example/muse/internal/core/content"
)

// ContentService defines the primary port for content memory.
type ContentService interface {
	// WriteArt stores the image bytes then persists the artwork.
	WriteArt(ctx context.Context, req WriteArtRequest) (*content.Art, error)

	// WriteJournalEntry persists a journal entry.
	WriteJournalEntry(ctx context.Context, personaName, thoughtID, text string) (*content.JournalEntry, error)

	// WriteBlogEntry persists a blog entry with optional linked art.
	WriteBlogEntry(ctx context.Context, req WriteBlogRequest) (*content.BlogEntry, error)

	// WriteSocialPost persists a social post with optional linked art.
	WriteSocialPost(ctx context.Context, personaName, text string, linkedArt *content.Art) (*content.SocialPost, error)

	GetArt(ctx context.Context, id string) (*content.Art, error)
	GetJournalEntry(ctx context.Context, id string) (*content.JournalEntry, error)
	GetBlogEntry(ctx context.Context, id string) (*content.BlogEntry, error)
	GetSocialPost(ctx context.Context, id string) (*content.SocialPost, error)

	// GetWithType dispatches on the kind prefix of a type-qualified id.
	GetWithType(ctx context.Context, qualifiedID string) (content.Entity, error)

	// Latest returns up to limit entries of a kind, newest first.
	// An empty persona name lists every persona.
	Latest(ctx context.Context, kind content.Kind, personaName string, limit int) ([]content.Entity, error)

	LatestJournalEntries(ctx context.Context, personaName string, limit int) ([]*content.JournalEntry, error)
	LatestBlogEntries(ctx context.Context, personaName string, limit int) ([]*content.BlogEntry, error)

	// ReadArtContents returns the image bytes of an artwork.
	ReadArtContents(ctx context.Context, art *content.Art) ([]byte, error)

	// ArtContentLocation returns a stable locator without checking existence.
	ArtContentLocation(art *content.Art) string
}

// WriteArtRequest contains parameters for storing an artwork.
type WriteArtRequest struct {
	PersonaName string
	Title       string
	Description string
	Image       []byte
}

// WriteBlogRequest contains parameters for publishing a blog entry.
type WriteBlogRequest struct {
	PersonaName string
	ThoughtID   string
	Title       string
	Text        string
	LinkedArt   []*content.Art
}
