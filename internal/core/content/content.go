// Package content contains the pure business logic for creative content.
// Content entities are immutable and content-addressed: the id is derived
// from the creation second and a hash of the canonical rendering.
package content

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownContentType is returned for a type-qualified id with an unrecognized prefix.
var ErrUnknownContentType = errors.New("unknown content type")

// Kind identifies one of the four content variants.
type Kind string

const (
	KindArt          Kind = "Art"
	KindJournalEntry Kind = "JournalEntry"
	KindBlogEntry    Kind = "BlogEntry"
	KindSocialPost   Kind = "SocialPost"
)

// Kinds lists every content kind.
var Kinds = []Kind{KindArt, KindJournalEntry, KindBlogEntry, KindSocialPost}

// ParseKind converts a raw kind name into a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownContentType, s)
}

// IDTimeLayout is the timestamp prefix of a content id.
const IDTimeLayout = "20060102150405"

// hashLen is the number of hex characters of the digest kept in the id.
const hashLen = 10

// Entity is implemented by every content variant.
type Entity interface {
	Kind() Kind
	Persona() string
	Added() time.Time
	// Format returns the canonical textual rendering the id is derived from.
	Format() string
}

// Hash returns the full hex digest of an entity's canonical rendering.
func Hash(e Entity) string {
	sum := sha256.Sum256([]byte(e.Format()))
	return hex.EncodeToString(sum[:])
}

// ID derives the content id: the second-truncated creation time followed by
// a prefix of the rendering hash.
func ID(e Entity) string {
	return e.Added().UTC().Format(IDTimeLayout) + Hash(e)[:hashLen]
}

// QualifiedID returns "<Kind>:<content_id>".
func QualifiedID(e Entity) string {
	return Qualify(e.Kind(), ID(e))
}

// Qualify joins a kind and id into a type-qualified id.
func Qualify(kind Kind, id string) string {
	return string(kind) + ":" + id
}

// ParseQualifiedID splits a type-qualified id into its kind and content id.
func ParseQualifiedID(qualified string) (Kind, string, error) {
	prefix, id, ok := strings.Cut(qualified, ":")
	if !ok || id == "" {
		return "", "", fmt.Errorf("%w: malformed id %q", ErrUnknownContentType, qualified)
	}
	kind, err := ParseKind(prefix)
	if err != nil {
		return "", "", err
	}
	return kind, id, nil
}

// Slug lowercases a persona name and replaces runs of other characters with '-'.
func Slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// BlobKey returns the write-once storage key for an artwork's image bytes.
func BlobKey(a *Art) string {
	return Slug(a.PersonaName) + "/" + ID(a) + ".png"
}

func byline(kind string, persona string) string {
	return fmt.Sprintf("%s by %s", kind, persona)
}
