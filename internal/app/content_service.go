package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/example/muse/internal/core/content"
	"github.com/example/muse/internal/ports/primary"
	"github.com/example/muse/internal/ports/secondary"
)

// ContentServiceImpl implements the ContentService interface.
// It is the only writer of content entities and their image bytes.
type ContentServiceImpl struct {
	repo   secondary.ContentRepository
	store  secondary.ArtStore
	logger *zap.Logger
	now    func() time.Time
}

// NewContentService creates a new ContentService with injected dependencies.
func NewContentService(repo secondary.ContentRepository, store secondary.ArtStore, logger *zap.Logger) *ContentServiceImpl {
	return &ContentServiceImpl{
		repo:   repo,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

func (s *ContentServiceImpl) stamp() time.Time {
	return s.now().UTC()
}

// WriteArt stores the image bytes under the art's blob key, then persists the record.
func (s *ContentServiceImpl) WriteArt(ctx context.Context, req primary.WriteArtRequest) (*content.Art, error) {
	art := &content.Art{
		PersonaName: req.PersonaName,
		DateAdded:   s.stamp(),
		Title:       req.Title,
		Description: req.Description,
	}

	// The blob key is derived from the content id, so a taken key is a duplicate artwork.
	key := content.BlobKey(art)
	if err := s.store.Write(ctx, key, req.Image); err != nil {
		if errors.Is(err, secondary.ErrAlreadyExists) {
			return nil, fmt.Errorf("%w: %s: %w", secondary.ErrDuplicateContent, content.QualifiedID(art), err)
		}
		return nil, fmt.Errorf("failed to store artwork image: %w", err)
	}

	if err := s.repo.Create(ctx, &secondary.ContentRecord{
		Kind:        content.KindArt,
		ContentID:   content.ID(art),
		PersonaName: art.PersonaName,
		Title:       art.Title,
		Body:        art.Description,
		DateAdded:   art.DateAdded,
	}); err != nil {
		return nil, fmt.Errorf("failed to save artwork: %w", err)
	}

	s.logger.Info("artwork saved",
		zap.String("persona", art.PersonaName),
		zap.String("content_id", content.QualifiedID(art)),
		zap.String("blob_key", key),
		zap.Int("bytes", len(req.Image)),
	)
	return art, nil
}

// WriteJournalEntry persists a journal entry.
func (s *ContentServiceImpl) WriteJournalEntry(ctx context.Context, personaName, thoughtID, text string) (*content.JournalEntry, error) {
	entry := &content.JournalEntry{
		PersonaName: personaName,
		DateAdded:   s.stamp(),
		ThoughtID:   thoughtID,
		Content:     text,
	}

	if err := s.repo.Create(ctx, &secondary.ContentRecord{
		Kind:        content.KindJournalEntry,
		ContentID:   content.ID(entry),
		PersonaName: personaName,
		ThoughtID:   thoughtID,
		Body:        text,
		DateAdded:   entry.DateAdded,
	}); err != nil {
		return nil, fmt.Errorf("failed to save journal entry: %w", err)
	}

	s.logger.Info("journal entry saved", zap.String("persona", personaName), zap.String("content_id", content.QualifiedID(entry)))
	return entry, nil
}

// WriteBlogEntry persists a blog entry with its linked art ids.
func (s *ContentServiceImpl) WriteBlogEntry(ctx context.Context, req primary.WriteBlogRequest) (*content.BlogEntry, error) {
	entry := &content.BlogEntry{
		PersonaName: req.PersonaName,
		DateAdded:   s.stamp(),
		ThoughtID:   req.ThoughtID,
		Title:       req.Title,
		Content:     req.Text,
		LinkedArt:   req.LinkedArt,
	}

	linked := make([]string, 0, len(req.LinkedArt))
	for _, art := range req.LinkedArt {
		linked = append(linked, content.ID(art))
	}

	if err := s.repo.Create(ctx, &secondary.ContentRecord{
		Kind:         content.KindBlogEntry,
		ContentID:    content.ID(entry),
		PersonaName:  req.PersonaName,
		ThoughtID:    req.ThoughtID,
		Title:        req.Title,
		Body:         req.Text,
		LinkedArtIDs: linked,
		DateAdded:    entry.DateAdded,
	}); err != nil {
		return nil, fmt.Errorf("failed to save blog entry: %w", err)
	}

	s.logger.Info("blog entry saved",
		zap.String("persona", req.PersonaName),
		zap.String("content_id", content.QualifiedID(entry)),
		zap.Int("linked_art", len(linked)),
	)
	return entry, nil
}

// WriteSocialPost persists a social post with its optional linked art id.
func (s *ContentServiceImpl) WriteSocialPost(ctx context.Context, personaName, text string, linkedArt *content.Art) (*content.SocialPost, error) {
	post := &content.SocialPost{
		PersonaName: personaName,
		DateAdded:   s.stamp(),
		Content:     text,
		LinkedArt:   linkedArt,
	}

	var linked []string
	if linkedArt != nil {
		linked = []string{content.ID(linkedArt)}
	}

	if err := s.repo.Create(ctx, &secondary.ContentRecord{
		Kind:         content.KindSocialPost,
		ContentID:    content.ID(post),
		PersonaName:  personaName,
		Body:         text,
		LinkedArtIDs: linked,
		DateAdded:    post.DateAdded,
	}); err != nil {
		return nil, fmt.Errorf("failed to save social post: %w", err)
	}

	s.logger.Info("social post saved", zap.String("persona", personaName), zap.String("content_id", content.QualifiedID(post)))
	return post, nil
}

// GetArt retrieves an artwork by content id.
func (s *ContentServiceImpl) GetArt(ctx context.Context, id string) (*content.Art, error) {
	record, err := s.repo.Get(ctx, content.KindArt, id)
	if err != nil {
		return nil, err
	}
	return artFromRecord(record), nil
}

// GetJournalEntry retrieves a journal entry by content id.
func (s *ContentServiceImpl) GetJournalEntry(ctx context.Context, id string) (*content.JournalEntry, error) {
	record, err := s.repo.Get(ctx, content.KindJournalEntry, id)
	if err != nil {
		return nil, err
	}
	return journalFromRecord(record), nil
}

// GetBlogEntry retrieves a blog entry by content id, with its linked art.
func (s *ContentServiceImpl) GetBlogEntry(ctx context.Context, id string) (*content.BlogEntry, error) {
	record, err := s.repo.Get(ctx, content.KindBlogEntry, id)
	if err != nil {
		return nil, err
	}
	return s.blogFromRecord(ctx, record)
}

// GetSocialPost retrieves a social post by content id, with its linked art.
func (s *ContentServiceImpl) GetSocialPost(ctx context.Context, id string) (*content.SocialPost, error) {
	record, err := s.repo.Get(ctx, content.KindSocialPost, id)
	if err != nil {
		return nil, err
	}
	return s.socialFromRecord(ctx, record)
}

// GetWithType dispatches on the kind prefix of a type-qualified id.
func (s *ContentServiceImpl) GetWithType(ctx context.Context, qualifiedID string) (content.Entity, error) {
	kind, id, err := content.ParseQualifiedID(qualifiedID)
	if err != nil {
		return nil, err
	}

	switch kind {
	case content.KindArt:
		return s.GetArt(ctx, id)
	case content.KindJournalEntry:
		return s.GetJournalEntry(ctx, id)
	case content.KindBlogEntry:
		return s.GetBlogEntry(ctx, id)
	case content.KindSocialPost:
		return s.GetSocialPost(ctx, id)
	default:
		return nil, fmt.Errorf("%w: %s", content.ErrUnknownContentType, kind)
	}
}

// Latest returns up to limit entries of any kind, newest first.
func (s *ContentServiceImpl) Latest(ctx context.Context, kind content.Kind, personaName string, limit int) ([]content.Entity, error) {
	records, err := s.repo.Latest(ctx, secondary.ContentFilters{Kind: kind, PersonaName: personaName, Limit: limit})
	if err != nil {
		return nil, err
	}

	entities := make([]content.Entity, 0, len(records))
	for _, r := range records {
		var e content.Entity
		switch r.Kind {
		case content.KindArt:
			e = artFromRecord(r)
		case content.KindJournalEntry:
			e = journalFromRecord(r)
		case content.KindBlogEntry:
			if e, err = s.blogFromRecord(ctx, r); err != nil {
				return nil, err
			}
		case content.KindSocialPost:
			if e, err = s.socialFromRecord(ctx, r); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("%w: %s", content.ErrUnknownContentType, r.Kind)
		}
		entities = append(entities, e)
	}
	return entities, nil
}

// LatestJournalEntries returns up to limit journal entries, newest first.
func (s *ContentServiceImpl) LatestJournalEntries(ctx context.Context, personaName string, limit int) ([]*content.JournalEntry, error) {
	records, err := s.repo.Latest(ctx, secondary.ContentFilters{Kind: content.KindJournalEntry, PersonaName: personaName, Limit: limit})
	if err != nil {
		return nil, err
	}
	entries := make([]*content.JournalEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, journalFromRecord(r))
	}
	return entries, nil
}

// LatestBlogEntries returns up to limit blog entries, newest first.
func (s *ContentServiceImpl) LatestBlogEntries(ctx context.Context, personaName string, limit int) ([]*content.BlogEntry, error) {
	records, err := s.repo.Latest(ctx, secondary.ContentFilters{Kind: content.KindBlogEntry, PersonaName: personaName, Limit: limit})
	if err != nil {
		return nil, err
	}
	entries := make([]*content.BlogEntry, 0, len(records))
	for _, r := range records {
		entry, err := s.blogFromRecord(ctx, r)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ReadArtContents returns the stored image bytes of an artwork.
func (s *ContentServiceImpl) ReadArtContents(ctx context.Context, art *content.Art) ([]byte, error) {
	return s.store.Read(ctx, content.BlobKey(art))
}

// ArtContentLocation returns where the artwork's image can be retrieved.
func (s *ContentServiceImpl) ArtContentLocation(art *content.Art) string {
	return s.store.Location(content.BlobKey(art))
}

// Helper functions

func artFromRecord(r *secondary.ContentRecord) *content.Art {
	return &content.Art{
		PersonaName: r.PersonaName,
		DateAdded:   r.DateAdded,
		Title:       r.Title,
		Description: r.Body,
	}
}

func journalFromRecord(r *secondary.ContentRecord) *content.JournalEntry {
	return &content.JournalEntry{
		PersonaName: r.PersonaName,
		DateAdded:   r.DateAdded,
		ThoughtID:   r.ThoughtID,
		Content:     r.Body,
	}
}

func (s *ContentServiceImpl) linkedArt(ctx context.Context, ids []string) ([]*content.Art, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	art := make([]*content.Art, 0, len(ids))
	for _, id := range ids {
		a, err := s.GetArt(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load linked art: %w", err)
		}
		art = append(art, a)
	}
	return art, nil
}

func (s *ContentServiceImpl) blogFromRecord(ctx context.Context, r *secondary.ContentRecord) (*content.BlogEntry, error) {
	art, err := s.linkedArt(ctx, r.LinkedArtIDs)
	if err != nil {
		return nil, err
	}
	return &content.BlogEntry{
		PersonaName: r.PersonaName,
		DateAdded:   r.DateAdded,
		ThoughtID:   r.ThoughtID,
		Title:       r.Title,
		Content:     r.Body,
		LinkedArt:   art,
	}, nil
}

func (s *ContentServiceImpl) socialFromRecord(ctx context.Context, r *secondary.ContentRecord) (*content.SocialPost, error) {
	art, err := s.linkedArt(ctx, r.LinkedArtIDs)
	if err != nil {
		return nil, err
	}
	post := &content.SocialPost{
		PersonaName: r.PersonaName,
		DateAdded:   r.DateAdded,
		Content:     r.Body,
	}
	if len(art) > 0 {
		post.LinkedArt = art[0]
	}
	return post, nil
}

// Ensure ContentServiceImpl implements the interface
var _ primary.ContentService = (*ContentServiceImpl)(nil)
