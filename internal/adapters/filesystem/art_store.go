// Package filesystem contains filesystem-based adapter implementations.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/example/muse/internal/ports/secondary"
)

// ArtStore implements secondary.ArtStore on a local directory.
// Keys are slash-separated paths relative to the root.
type ArtStore struct {
	root    string
	baseURL string
}

// NewArtStore creates a new filesystem art store.
// If root is empty, defaults to ~/.muse/art. baseURL is optional; when set,
// Location returns URLs under it instead of file paths.
func NewArtStore(root, baseURL string) (*ArtStore, error) {
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		root = filepath.Join(home, ".muse", "art")
	}

	return &ArtStore{
		root:    root,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

func (s *ArtStore) path(key string) (string, error) {
	clean := path.Clean(key)
	if key == "" || clean != key || path.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("invalid art key %q", key)
	}
	return filepath.Join(s.root, filepath.FromSlash(clean)), nil
}

// Write stores data under key. It never overwrites existing data.
func (s *ArtStore) Write(ctx context.Context, key string, data []byte) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return fmt.Errorf("failed to create art directory: %w", err)
	}

	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("art %s: %w", key, secondary.ErrAlreadyExists)
	}
	if err != nil {
		return fmt.Errorf("failed to create art file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(p)
		return fmt.Errorf("failed to write art file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(p)
		return fmt.Errorf("failed to close art file: %w", err)
	}
	return nil
}

// Read returns the data stored under key.
func (s *ArtStore) Read(ctx context.Context, key string) ([]byte, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("art %s: %w", key, secondary.ErrArtworkMissing)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read art file: %w", err)
	}
	return data, nil
}

// Location returns the URL or file URL for key.
func (s *ArtStore) Location(key string) string {
	if s.baseURL != "" {
		return s.baseURL + "/" + key
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(filepath.Join(s.root, filepath.FromSlash(key)))}
	return u.String()
}

var _ secondary.ArtStore = (*ArtStore)(nil)
