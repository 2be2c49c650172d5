// Package sqlite contains SQLite implementations of repository interfaces.
// Repositories work with either registered driver (mattn/go-sqlite3 or
// modernc.org/sqlite).
package sqlite

import (
	"errors"
	"fmt"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"
	modernc "modernc.org/sqlite"
	sqlitelib "modernc.org/sqlite/lib"

	"github.com/example/muse/internal/db"
)

// isUniqueViolation reports whether err is a primary key or unique constraint failure.
func isUniqueViolation(err error) bool {
	var cgoErr sqlite3.Error
	if errors.As(err, &cgoErr) {
		return cgoErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
			cgoErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	var pureErr *modernc.Error
	if errors.As(err, &pureErr) {
		return pureErr.Code() == sqlitelib.SQLITE_CONSTRAINT_PRIMARYKEY ||
			pureErr.Code() == sqlitelib.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}

func formatTime(t time.Time) string {
	return t.UTC().Format(db.TimeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(db.TimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid stored timestamp %q: %w", s, err)
	}
	return t, nil
}
