package secondary

import "errors"

// Sentinel errors returned by secondary adapters. Callers match with errors.Is.
var (
	// ErrNotFound is returned when a thought or thought version does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when a create or write-once target is taken.
	ErrAlreadyExists = errors.New("already exists")

	// ErrVersionConflict is returned when the writer's base version is no longer current.
	ErrVersionConflict = errors.New("version conflict")

	// ErrDuplicateContent is returned when a content entity with the same kind and id exists.
	ErrDuplicateContent = errors.New("duplicate content")

	// ErrContentNotFound is returned when a content entity does not exist.
	ErrContentNotFound = errors.New("content not found")

	// ErrArtworkMissing is returned when an artwork's image bytes are absent.
	ErrArtworkMissing = errors.New("artwork missing")

	// ErrBackendUnavailable wraps reasoning and image backend failures.
	ErrBackendUnavailable = errors.New("backend unavailable")
)
