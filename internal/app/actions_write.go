package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/muse/internal/core/content"
	"github.com/example/muse/internal/core/prompts"
	"github.com/example/muse/internal/ports/primary"
)

// writeInJournal writes and persists a journal entry.
func (s *ThoughtServiceImpl) writeInJournal(ctx context.Context, in actionInput) (*actionOutput, error) {
	in.report("writing journal entry")
	text, err := s.complete(ctx, "write journal entry",
		prompts.WriteJournalEntry(s.stamp(), in.thought, in.persona, in.step))
	if err != nil {
		return nil, err
	}

	entry, err := s.content.WriteJournalEntry(ctx, in.persona.Name, in.thought.ThoughtID, text)
	if err != nil {
		return nil, err
	}

	// The entry text replaces the context outright. Every other writer
	// prepends a summary instead; later steps only see the journal entry.
	return &actionOutput{context: text, output: text, content: entry}, nil
}

// createArt describes, titles and renders an artwork, then stores it.
func (s *ThoughtServiceImpl) createArt(ctx context.Context, in actionInput) (*actionOutput, error) {
	now := s.stamp()

	in.report("describing artwork")
	description, err := s.complete(ctx, "describe artwork",
		prompts.CreateArtwork(now, in.thought, in.persona, in.step))
	if err != nil {
		return nil, err
	}

	in.report("titling artwork")
	title, err := s.complete(ctx, "title artwork",
		prompts.TitleArtwork(now, in.thought, in.persona, in.step, description))
	if err != nil {
		return nil, err
	}
	title = cleanTitle(title)

	in.report("rendering artwork")
	image, err := s.images.GenerateImage(ctx, description)
	if err != nil {
		return nil, fmt.Errorf("failed to render artwork: %w", err)
	}

	art, err := s.content.WriteArt(ctx, primary.WriteArtRequest{
		PersonaName: in.persona.Name,
		Title:       title,
		Description: description,
		Image:       image,
	})
	if err != nil {
		return nil, err
	}

	summary := fmt.Sprintf("I created a piece of art titled %q:\n\n%s", title, description)
	return &actionOutput{
		context: prependContext(summary, in.thought.Context),
		output:  description,
		content: art,
	}, nil
}

// writeBlogPost titles and writes a blog entry linked to the art made so far.
func (s *ThoughtServiceImpl) writeBlogPost(ctx context.Context, in actionInput) (*actionOutput, error) {
	now := s.stamp()

	art, err := s.thoughtArt(ctx, in)
	if err != nil {
		return nil, err
	}

	in.report("titling blog post")
	title, err := s.complete(ctx, "title blog post",
		prompts.TitleBlog(now, in.thought, in.persona, in.step))
	if err != nil {
		return nil, err
	}
	title = cleanTitle(title)

	in.report("writing blog post")
	body, err := s.complete(ctx, "write blog post",
		prompts.WriteBlogEntry(now, in.thought, in.persona, in.step, title, art))
	if err != nil {
		return nil, err
	}

	entry, err := s.content.WriteBlogEntry(ctx, primary.WriteBlogRequest{
		PersonaName: in.persona.Name,
		ThoughtID:   in.thought.ThoughtID,
		Title:       title,
		Text:        body,
		LinkedArt:   art,
	})
	if err != nil {
		return nil, err
	}

	summary := fmt.Sprintf("I published a blog post titled %q.", title)
	if len(art) > 0 {
		summary = fmt.Sprintf("I published a blog post titled %q featuring %d piece(s) of my art.", title, len(art))
	}
	return &actionOutput{
		context: prependContext(summary, in.thought.Context),
		output:  body,
		content: entry,
	}, nil
}

// thoughtArt loads every artwork this thought produced, in production order.
func (s *ThoughtServiceImpl) thoughtArt(ctx context.Context, in actionInput) ([]*content.Art, error) {
	var art []*content.Art
	for _, qualified := range in.thought.GeneratedContentIDs {
		kind, id, err := content.ParseQualifiedID(qualified)
		if err != nil {
			return nil, err
		}
		if kind != content.KindArt {
			continue
		}
		a, err := s.content.GetArt(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load art %s: %w", qualified, err)
		}
		art = append(art, a)
	}
	return art, nil
}

// postOnSocial writes a social post, linking the artwork produced by the previous step if any.
func (s *ThoughtServiceImpl) postOnSocial(ctx context.Context, in actionInput) (*actionOutput, error) {
	var linked *content.Art
	if ids := in.thought.GeneratedContentIDs; len(ids) > 0 {
		kind, id, err := content.ParseQualifiedID(ids[len(ids)-1])
		if err != nil {
			return nil, err
		}
		if kind == content.KindArt {
			if linked, err = s.content.GetArt(ctx, id); err != nil {
				return nil, fmt.Errorf("failed to load art %s: %w", ids[len(ids)-1], err)
			}
		}
	}

	in.report("writing social post")
	text, err := s.complete(ctx, "write social post",
		prompts.PostOnSocial(s.stamp(), in.thought, in.persona, in.step, linked))
	if err != nil {
		return nil, err
	}

	post, err := s.content.WriteSocialPost(ctx, in.persona.Name, text, linked)
	if err != nil {
		return nil, err
	}

	summary := fmt.Sprintf("I posted on social media: %q", text)
	if linked != nil {
		summary = fmt.Sprintf("I posted my artwork %q on social media: %q", linked.Title, text)
		s.log(ctx).Debug("social post linked art", zap.String("content_id", content.QualifiedID(linked)))
	}
	return &actionOutput{
		context: prependContext(summary, in.thought.Context),
		output:  text,
		content: post,
	}, nil
}
