package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/example/muse/internal/core/plan"
	"github.com/example/muse/internal/core/thought"
	"github.com/example/muse/internal/ports/secondary"
)

const (
	aliasVersion     = 0
	statusComplete   = "COMPLETE"
	statusIncomplete = "INCOMPLETE"
)

const thoughtColumns = `thought_id, current_version, persona_name, user_nudge, initial_thought, it_rationale,
	plan, steps_completed, context, thought_complete, generated_content_ids, last_full_response,
	created_at, updated_at`

// ThoughtRepository implements secondary.ThoughtRepository with SQLite.
type ThoughtRepository struct {
	db *sql.DB
}

// NewThoughtRepository creates a new SQLite thought repository.
func NewThoughtRepository(db *sql.DB) *ThoughtRepository {
	return &ThoughtRepository{db: db}
}

// Create writes version 1 and the alias in one transaction.
func (r *ThoughtRepository) Create(ctx context.Context, t *thought.Thought) error {
	if t.Version != 1 {
		return fmt.Errorf("failed to create thought %s: new thoughts start at version 1, got %d", t.ThoughtID, t.Version)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, version := range []int{t.Version, aliasVersion} {
		if err := insertVersion(ctx, tx, t, version); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("thought %s: %w", t.ThoughtID, secondary.ErrAlreadyExists)
			}
			return fmt.Errorf("failed to create thought: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit thought: %w", err)
	}
	return nil
}

// Get retrieves a thought at version; 0 reads the alias.
func (r *ThoughtRepository) Get(ctx context.Context, id string, version int) (*thought.Thought, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+thoughtColumns+" FROM thought_versions WHERE thought_id = ? AND version = ?",
		id, version,
	)
	t, err := scanThought(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("thought %s version %d: %w", id, version, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get thought: %w", err)
	}
	return t, nil
}

// Update writes next and advances the alias if it is still at base.Version.
func (r *ThoughtRepository) Update(ctx context.Context, base, next *thought.Thought) error {
	if next.ThoughtID != base.ThoughtID || next.Version != base.Version+1 {
		return fmt.Errorf("failed to update thought %s: next must be version %d", base.ThoughtID, base.Version+1)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var current int
	err = tx.QueryRowContext(ctx,
		"SELECT current_version FROM thought_versions WHERE thought_id = ? AND version = ?",
		base.ThoughtID, aliasVersion,
	).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("thought %s: %w", base.ThoughtID, secondary.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to read current version: %w", err)
	}
	if current != base.Version {
		return fmt.Errorf("thought %s is at version %d, update started from %d: %w",
			base.ThoughtID, current, base.Version, secondary.ErrVersionConflict)
	}

	if err := insertVersion(ctx, tx, next, next.Version); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("thought %s version %d: %w", next.ThoughtID, next.Version, secondary.ErrVersionConflict)
		}
		return fmt.Errorf("failed to write thought version: %w", err)
	}

	values, err := thoughtValues(next)
	if err != nil {
		return err
	}
	result, err := tx.ExecContext(ctx, `
		UPDATE thought_versions SET
			current_version = ?, status = ?, persona_name = ?, user_nudge = ?, initial_thought = ?,
			it_rationale = ?, plan = ?, steps_completed = ?, context = ?, thought_complete = ?,
			generated_content_ids = ?, last_full_response = ?, created_at = ?, updated_at = ?
		WHERE thought_id = ? AND version = ? AND current_version = ?`,
		append(values[1:], next.ThoughtID, aliasVersion, base.Version)...,
	)
	if err != nil {
		return fmt.Errorf("failed to advance current version: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("thought %s alias moved during update: %w", base.ThoughtID, secondary.ErrVersionConflict)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit thought update: %w", err)
	}
	return nil
}

// List retrieves alias rows matching the filters, newest first.
func (r *ThoughtRepository) List(ctx context.Context, filters secondary.ThoughtFilters) ([]*thought.Thought, error) {
	query := "SELECT " + thoughtColumns + " FROM thought_versions WHERE version = 0"
	args := []any{}

	if filters.Complete != nil {
		query += " AND status = ?"
		args = append(args, statusOf(*filters.Complete))
	}
	if filters.PersonaName != "" {
		query += " AND persona_name = ?"
		args = append(args, filters.PersonaName)
	}

	query += " ORDER BY thought_id DESC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	return r.query(ctx, query, args...)
}

// ListVersions retrieves every numbered version, oldest first.
func (r *ThoughtRepository) ListVersions(ctx context.Context, id string) ([]*thought.Thought, error) {
	versions, err := r.query(ctx,
		"SELECT "+strings.Replace(thoughtColumns, "current_version", "version", 1)+
			" FROM thought_versions WHERE thought_id = ? AND version > 0 ORDER BY version ASC",
		id,
	)
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, fmt.Errorf("thought %s: %w", id, secondary.ErrNotFound)
	}
	return versions, nil
}

func (r *ThoughtRepository) query(ctx context.Context, query string, args ...any) ([]*thought.Thought, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list thoughts: %w", err)
	}
	defer rows.Close()

	var thoughts []*thought.Thought
	for rows.Next() {
		t, err := scanThought(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan thought: %w", err)
		}
		thoughts = append(thoughts, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate thoughts: %w", err)
	}
	return thoughts, nil
}

func statusOf(complete bool) string {
	if complete {
		return statusComplete
	}
	return statusIncomplete
}

// thoughtValues returns the column values for t, starting with thought_id
// and current_version, in the order the UPDATE statement expects.
func thoughtValues(t *thought.Thought) ([]any, error) {
	var planJSON sql.NullString
	if t.Plan != nil {
		data, err := plan.MarshalSteps(t.Plan)
		if err != nil {
			return nil, fmt.Errorf("failed to encode plan: %w", err)
		}
		planJSON = sql.NullString{String: string(data), Valid: true}
	}

	ids := t.GeneratedContentIDs
	if ids == nil {
		ids = []string{}
	}
	idsJSON, err := json.Marshal(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to encode content ids: %w", err)
	}

	return []any{
		t.ThoughtID,
		t.Version,
		statusOf(t.Complete),
		t.PersonaName,
		t.UserNudge,
		t.InitialThought,
		t.Rationale,
		planJSON,
		t.StepsCompleted,
		t.Context,
		t.Complete,
		string(idsJSON),
		t.LastFullResponse,
		formatTime(t.CreatedAt),
		formatTime(t.UpdatedAt),
	}, nil
}

func insertVersion(ctx context.Context, tx *sql.Tx, t *thought.Thought, version int) error {
	values, err := thoughtValues(t)
	if err != nil {
		return err
	}
	args := append([]any{values[0], version}, values[1:]...)
	_, err = tx.ExecContext(ctx, `
		INSERT INTO thought_versions (
			thought_id, version, current_version, status, persona_name, user_nudge, initial_thought,
			it_rationale, plan, steps_completed, context, thought_complete, generated_content_ids,
			last_full_response, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		args...,
	)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanThought(row rowScanner) (*thought.Thought, error) {
	var (
		t         thought.Thought
		planJSON  sql.NullString
		idsJSON   string
		createdAt string
		updatedAt string
	)
	err := row.Scan(
		&t.ThoughtID, &t.Version, &t.PersonaName, &t.UserNudge, &t.InitialThought, &t.Rationale,
		&planJSON, &t.StepsCompleted, &t.Context, &t.Complete, &idsJSON, &t.LastFullResponse,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if planJSON.Valid {
		if t.Plan, err = plan.UnmarshalSteps([]byte(planJSON.String)); err != nil {
			return nil, fmt.Errorf("invalid stored plan: %w", err)
		}
	}
	if err := json.Unmarshal([]byte(idsJSON), &t.GeneratedContentIDs); err != nil {
		return nil, fmt.Errorf("invalid stored content ids: %w", err)
	}
	if len(t.GeneratedContentIDs) == 0 {
		t.GeneratedContentIDs = nil
	}
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

var _ secondary.ThoughtRepository = (*ThoughtRepository)(nil)
