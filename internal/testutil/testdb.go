package testutil

import (
	"database/sql"
	"testing"

	"github.com/Anton2181/partykajson/internal/db"
)

// NewTestDB opens a migrated in-memory run history, closed on cleanup.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(db.InMemory)
	if err != nil {
		t.Fatalf("opening test run history: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}
