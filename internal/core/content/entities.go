package content

import (
	"strings"
	"time"
)

// Art is a generated artwork. Image bytes are stored separately.
type Art struct {
	PersonaName string
	DateAdded   time.Time
	Title       string
	Description string
}

func (a *Art) Kind() Kind       { return KindArt }
func (a *Art) Persona() string  { return a.PersonaName }
func (a *Art) Added() time.Time { return a.DateAdded }

func (a *Art) Format() string {
	return byline("Artwork", a.PersonaName) + "\n\n" + a.Title + "\n\n" + a.Description
}

// JournalEntry is a private journal entry written during a thought.
type JournalEntry struct {
	PersonaName string
	DateAdded   time.Time
	ThoughtID   string
	Content     string
}

func (j *JournalEntry) Kind() Kind       { return KindJournalEntry }
func (j *JournalEntry) Persona() string  { return j.PersonaName }
func (j *JournalEntry) Added() time.Time { return j.DateAdded }

func (j *JournalEntry) Format() string {
	return byline("Journal entry", j.PersonaName) + "\n\n" + j.Content
}

// BlogEntry is a published long-form post, optionally linking artwork.
type BlogEntry struct {
	PersonaName string
	DateAdded   time.Time
	ThoughtID   string
	Title       string
	Content     string
	LinkedArt   []*Art
}

func (b *BlogEntry) Kind() Kind       { return KindBlogEntry }
func (b *BlogEntry) Persona() string  { return b.PersonaName }
func (b *BlogEntry) Added() time.Time { return b.DateAdded }

func (b *BlogEntry) Format() string {
	var sb strings.Builder
	sb.WriteString(byline("Blog post", b.PersonaName))
	sb.WriteString("\n\n# ")
	sb.WriteString(b.Title)
	sb.WriteString("\n\n")
	sb.WriteString(b.Content)
	for _, art := range b.LinkedArt {
		sb.WriteString("\n\n[artwork: ")
		sb.WriteString(art.Title)
		sb.WriteString("]")
	}
	return sb.String()
}

// SocialPost is a short published message, optionally with one artwork.
type SocialPost struct {
	PersonaName string
	DateAdded   time.Time
	Content     string
	LinkedArt   *Art
}

func (s *SocialPost) Kind() Kind       { return KindSocialPost }
func (s *SocialPost) Persona() string  { return s.PersonaName }
func (s *SocialPost) Added() time.Time { return s.DateAdded }

func (s *SocialPost) Format() string {
	out := byline("Social post", s.PersonaName) + "\n\n" + s.Content
	if s.LinkedArt != nil {
		out += "\n\n[artwork: " + s.LinkedArt.Title + "]"
	}
	return out
}

var (
	_ Entity = (*Art)(nil)
	_ Entity = (*JournalEntry)(nil)
	_ Entity = (*BlogEntry)(nil)
	_ Entity = (*SocialPost)(nil)
)
