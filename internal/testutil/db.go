// Package testutil provides shared helpers for package tests.
package testutil

import (
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/csshost/csshost/internal/db"
)

// SetupTestDB opens an in-memory sqlite database with the full migration set
// applied. The pool is pinned to a single connection: every new sqlite
// in-memory connection would otherwise be a fresh empty database.
func SetupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := db.Init("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	database.SetMaxOpenConns(1)

	err = db.RunMigrations(database.DB, "sqlite")
	if err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = database.Close()
	})

	return database
}
