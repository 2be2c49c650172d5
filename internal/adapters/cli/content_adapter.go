package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/example/muse/internal/core/content"
	"github.com/example/muse/internal/ports/primary"
)

// Renderer turns Markdown into terminal output.
type Renderer interface {
	Render(markdown string) (string, error)
}

// NewMarkdownRenderer returns a glamour renderer that picks its style from the terminal.
func NewMarkdownRenderer(width int) (*glamour.TermRenderer, error) {
	return glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
}

// ContentAdapter translates CLI operations to ContentService calls.
type ContentAdapter struct {
	service  primary.ContentService
	renderer Renderer
	out      io.Writer
}

// NewContentAdapter creates a new ContentAdapter. A nil renderer prints raw Markdown.
func NewContentAdapter(service primary.ContentService, renderer Renderer, out io.Writer) *ContentAdapter {
	return &ContentAdapter{service: service, renderer: renderer, out: out}
}

// Show renders one content entity by its type-qualified id.
func (a *ContentAdapter) Show(ctx context.Context, qualifiedID string) error {
	entity, err := a.service.GetWithType(ctx, qualifiedID)
	if err != nil {
		return fmt.Errorf("failed to get content: %w", err)
	}

	md := entity.Format()
	switch e := entity.(type) {
	case *content.Art:
		md += "\n\n" + a.service.ArtContentLocation(e)
	case *content.BlogEntry:
		for _, art := range e.LinkedArt {
			md += fmt.Sprintf("\n\n![%s](%s)", art.Title, a.service.ArtContentLocation(art))
		}
	case *content.SocialPost:
		if e.LinkedArt != nil {
			md += fmt.Sprintf("\n\n![%s](%s)", e.LinkedArt.Title, a.service.ArtContentLocation(e.LinkedArt))
		}
	}

	fmt.Fprintf(a.out, "%s  %s\n", qualifiedID, dim(entity.Added().Format("2006-01-02 15:04:05")))
	return a.render(md)
}

// List lists the latest content of a kind, newest first.
func (a *ContentAdapter) List(ctx context.Context, kind, persona string, limit int) error {
	k, err := content.ParseKind(kind)
	if err != nil {
		return err
	}
	entities, err := a.service.Latest(ctx, k, persona, limit)
	if err != nil {
		return fmt.Errorf("failed to list content: %w", err)
	}

	if len(entities) == 0 {
		fmt.Fprintf(a.out, "No %s found\n", k)
		return nil
	}

	fmt.Fprintf(a.out, "\n%-40s %-20s %-18s %s\n", "ID", "ADDED", "PERSONA", "SUMMARY")
	fmt.Fprintln(a.out, "──────────────────────────────────────────────────────────────────────────────────")
	for _, e := range entities {
		fmt.Fprintf(a.out, "%-40s %-20s %-18s %s\n",
			content.QualifiedID(e), e.Added().Format("2006-01-02 15:04:05"), truncate(e.Persona(), 18), truncate(summary(e), 40))
	}
	fmt.Fprintln(a.out)
	return nil
}

// ExportArt writes an artwork's image bytes to path, or prints its location when path is empty.
func (a *ContentAdapter) ExportArt(ctx context.Context, id, path string) error {
	art, err := a.service.GetArt(ctx, strings.TrimPrefix(id, string(content.KindArt)+":"))
	if err != nil {
		return fmt.Errorf("failed to get art: %w", err)
	}
	if path == "" {
		fmt.Fprintln(a.out, a.service.ArtContentLocation(art))
		return nil
	}

	data, err := a.service.ReadArtContents(ctx, art)
	if err != nil {
		return fmt.Errorf("failed to read art: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintf(a.out, "%s Wrote %q (%d bytes) to %s\n", green("✓"), art.Title, len(data), path)
	return nil
}

func (a *ContentAdapter) render(md string) error {
	if a.renderer == nil {
		_, err := fmt.Fprintln(a.out, md)
		return err
	}
	rendered, err := a.renderer.Render(md)
	if err != nil {
		return fmt.Errorf("failed to render: %w", err)
	}
	_, err = fmt.Fprint(a.out, rendered)
	return err
}

func summary(e content.Entity) string {
	switch v := e.(type) {
	case *content.Art:
		return v.Title
	case *content.BlogEntry:
		return v.Title
	case *content.JournalEntry:
		return firstLine(v.Content)
	case *content.SocialPost:
		return firstLine(v.Content)
	}
	return ""
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
