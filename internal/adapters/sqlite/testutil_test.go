// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where test databases are created. Every
// test database goes through db.Open, which applies db.GetSchemaSQL(), so
// tests always run against the authoritative schema.
//
// DO NOT hardcode CREATE TABLE statements in test files.
package sqlite_test

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/muse/internal/core/plan"
	"github.com/example/muse/internal/core/thought"
	"github.com/example/muse/internal/db"
)

// setupTestDB creates a file-backed database with the authoritative schema
// using the default driver. A file is used instead of :memory: so that every
// pooled connection sees the same database.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return setupTestDBWithDriver(t, db.DriverCGO)
}

func setupTestDBWithDriver(t *testing.T, driver string) *sql.DB {
	t.Helper()

	testDB, err := db.Open(driver, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

var seedTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// newTestThought returns an elicited version-1 thought.
func newTestThought(id, persona string) *thought.Thought {
	return thought.New(id, thought.NewThought{
		PersonaName:    persona,
		InitialThought: "I will paint the moor.",
		Rationale:      "## RATIONALE\nThe moor is lovely.\n## Task\nI will paint the moor.",
	}, seedTime)
}

func testPlan() []plan.Step {
	return []plan.Step{
		{ToolName: plan.ToolCreateArt, Purpose: "paint"},
		{ToolName: plan.ToolPostOnSocial, Purpose: "share"},
	}
}
