package db

import (
	"database/sql"
	"fmt"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.Tx) error
}

// migrations is the list of all migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_thought_versions",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "create_content",
		Up:      migrationV2,
	},
	{
		Version: 3,
		Name:    "add_last_full_response_to_thoughts",
		Up:      migrationV3,
	},
}

// CurrentVersion returns the schema version after all migrations.
func CurrentVersion() int {
	return migrations[len(migrations)-1].Version
}

func createVersionTable(database *sql.DB) error {
	_, err := database.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}
	return nil
}

// RunMigrations applies every migration newer than the recorded schema version.
// Each migration and its version record commit together.
func RunMigrations(database *sql.DB) error {
	if err := createVersionTable(database); err != nil {
		return err
	}

	var currentVersion int
	err := database.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, err := database.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", migration.Version, migration.Name, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", migration.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

func migrationV1(tx *sql.Tx) error {
	_, err := tx.Exec(`
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
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			PRIMARY KEY (thought_id, version)
		);
		CREATE INDEX IF NOT EXISTS idx_thought_alias_status ON thought_versions(status, thought_id DESC) WHERE version = 0;
		CREATE INDEX IF NOT EXISTS idx_thought_alias_persona ON thought_versions(persona_name, status, thought_id DESC) WHERE version = 0;
	`)
	return err
}

func migrationV2(tx *sql.Tx) error {
	_, err := tx.Exec(`
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
	`)
	return err
}

func migrationV3(tx *sql.Tx) error {
	_, err := tx.Exec(`ALTER TABLE thought_versions ADD COLUMN last_full_response TEXT NOT NULL DEFAULT ''`)
	return err
}
