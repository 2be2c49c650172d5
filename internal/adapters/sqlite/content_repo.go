package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/example/muse/internal/core/content"
	"github.com/example/muse/internal/ports/secondary"
)

const contentColumns = "kind, content_id, persona_name, thought_id, title, body, linked_art_ids, date_added"

// ContentRepository implements secondary.ContentRepository with SQLite.
type ContentRepository struct {
	db *sql.DB
}

// NewContentRepository creates a new SQLite content repository.
func NewContentRepository(db *sql.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// Create persists a new content record.
func (r *ContentRepository) Create(ctx context.Context, record *secondary.ContentRecord) error {
	linked := record.LinkedArtIDs
	if linked == nil {
		linked = []string{}
	}
	linkedJSON, err := json.Marshal(linked)
	if err != nil {
		return fmt.Errorf("failed to encode linked art: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		"INSERT INTO content ("+contentColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		string(record.Kind), record.ContentID, record.PersonaName, record.ThoughtID,
		record.Title, record.Body, string(linkedJSON), formatTime(record.DateAdded),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s %s: %w", record.Kind, record.ContentID, secondary.ErrDuplicateContent)
		}
		return fmt.Errorf("failed to create content: %w", err)
	}
	return nil
}

// Get retrieves a content record by kind and id.
func (r *ContentRepository) Get(ctx context.Context, kind content.Kind, id string) (*secondary.ContentRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+contentColumns+" FROM content WHERE kind = ? AND content_id = ?",
		string(kind), id,
	)
	record, err := scanContent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s %s: %w", kind, id, secondary.ErrContentNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get content: %w", err)
	}
	return record, nil
}

// Latest retrieves the most recent records of a kind, newest first.
func (r *ContentRepository) Latest(ctx context.Context, filters secondary.ContentFilters) ([]*secondary.ContentRecord, error) {
	query := "SELECT " + contentColumns + " FROM content WHERE kind = ?"
	args := []any{string(filters.Kind)}

	if filters.PersonaName != "" {
		query += " AND persona_name = ?"
		args = append(args, filters.PersonaName)
	}

	query += " ORDER BY date_added DESC, content_id DESC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list content: %w", err)
	}
	defer rows.Close()

	var records []*secondary.ContentRecord
	for rows.Next() {
		record, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan content: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate content: %w", err)
	}
	return records, nil
}

func scanContent(row rowScanner) (*secondary.ContentRecord, error) {
	var (
		record     secondary.ContentRecord
		kind       string
		linkedJSON string
		dateAdded  string
	)
	err := row.Scan(&kind, &record.ContentID, &record.PersonaName, &record.ThoughtID,
		&record.Title, &record.Body, &linkedJSON, &dateAdded)
	if err != nil {
		return nil, err
	}

	record.Kind = content.Kind(kind)
	if err := json.Unmarshal([]byte(linkedJSON), &record.LinkedArtIDs); err != nil {
		return nil, fmt.Errorf("invalid stored linked art: %w", err)
	}
	if len(record.LinkedArtIDs) == 0 {
		record.LinkedArtIDs = nil
	}
	if record.DateAdded, err = parseTime(dateAdded); err != nil {
		return nil, err
	}
	return &record, nil
}

var _ secondary.ContentRepository = (*ContentRepository)(nil)
