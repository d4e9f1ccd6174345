// Package databasetest opens migrated throwaway databases for tests.
package databasetest

import (
	"database/sql"
	"path/filepath"
	"testing"

	"roundrobin-tracker/internal/config"
	"roundrobin-tracker/internal/database"

	"github.com/rs/zerolog"
)

// New returns a migrated SQLite database living in t.TempDir(). It is closed
// when the test ends.
func New(t testing.TB) *sql.DB {
	t.Helper()

	cfg := &config.Config{DBPath: filepath.Join(t.TempDir(), "roundrobin.db")}
	db, err := database.New(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
