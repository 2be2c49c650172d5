package db

import (
	"database/sql"
	"fmt"
)

// SchemaSQL is the complete schema for fresh installs.
// This schema reflects the current state after all migrations.
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. Repository
// tests load it via GetSchemaSQL() rather than declaring their own tables,
// so any column drift fails immediately with "no such column".
//
// When adding new columns or tables:
//  1. Add a migration to migrations.go
//  2. Update this schema to match the post-migration state
//
// # Thought versions
//
// Every version of a thought is a row keyed by (thought_id, version). The row
// with version = 0 is the current alias: it duplicates the latest version,
// records that version number in current_version, and is the only row the
// status indexes cover. Numbered rows carry current_version = version.
var SchemaSQL = `
CREATE TABLE IF NOT EXISTS thought_versions (
	thought_id TEXT NOT NULL,
	version INTEGER NOT NULL CHECK(version >= 0),
	current_version INTEGER NOT NULL CHECK(current_version >= 1),
	status TEXT NOT NULL CHECK(status IN ('COMPLETE', 'INCOMPLETE')),
	persona_name TEXT NOT NULL,
	user_nudge TEXT NOT NULL DEFAULT '',
	initial_thought TEXT NOT NULL,
	it_rationale TEXT NOT NULL,
	plan TEXT,
	steps_completed INTEGER NOT NULL DEFAULT 0 CHECK(steps_completed >= 0),
	context TEXT NOT NULL DEFAULT '',
	thought_complete INTEGER NOT NULL DEFAULT 0,
	generated_content_ids TEXT NOT NULL DEFAULT '[]',
	last_full_response TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	PRIMARY KEY (thought_id, version)
);

CREATE INDEX IF NOT EXISTS idx_thought_alias_status ON thought_versions(status, thought_id DESC) WHERE version = 0;
CREATE INDEX IF NOT EXISTS idx_thought_alias_persona ON thought_versions(persona_name, status, thought_id DESC) WHERE version = 0;

CREATE TABLE IF NOT EXISTS content (
	kind TEXT NOT NULL CHECK(kind IN ('Art', 'JournalEntry', 'BlogEntry', 'SocialPost')),
	content_id TEXT NOT NULL,
	persona_name TEXT NOT NULL,
	thought_id TEXT NOT NULL DEFAULT '',
	title TEXT NOT NULL DEFAULT '',
	body TEXT NOT NULL,
	linked_art_ids TEXT NOT NULL DEFAULT '[]',
	date_added TEXT NOT NULL,
	PRIMARY KEY (kind, content_id)
);

CREATE INDEX IF NOT EXISTS idx_content_kind_date ON content(kind, date_added DESC);
CREATE INDEX IF NOT EXISTS idx_content_kind_persona ON content(kind, persona_name, date_added DESC);
`

// InitSchema creates the schema on a fresh database, or runs pending
// migrations on an existing one.
func InitSchema(database *sql.DB) error {
	var tableCount int
	err := database.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return fmt.Errorf("failed to inspect schema: %w", err)
	}

	if tableCount > 0 {
		return RunMigrations(database)
	}

	// Fresh install - create the current schema and mark every migration applied.
	if _, err := database.Exec(SchemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if err := createVersionTable(database); err != nil {
		return err
	}
	for _, m := range migrations {
		if _, err := database.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
	}
	return nil
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
