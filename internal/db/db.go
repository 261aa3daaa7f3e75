package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// InMemory opens a throwaway database that lives as long as the *sql.DB.
const InMemory = ":memory:"

// DBTX is what the run repositories need from a connection. Both *sql.DB
// and *sql.Tx satisfy it, so a repository built on a transaction writes
// inside that transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)

// busy_timeout lets concurrent `partyka run` invocations queue on the
// history file instead of failing with SQLITE_BUSY.
var filePragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA busy_timeout = 5000",
	"PRAGMA foreign_keys = ON",
}

// OpenDB opens the run history at path, creating parent directories, and
// brings the schema up to date. The path must already be expanded.
func OpenDB(path string) (*sql.DB, error) {
	pragmas := filePragmas
	if path == InMemory {
		pragmas = []string{"PRAGMA foreign_keys = ON"}
	} else if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating db directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if path == InMemory {
		// Every pooled connection would get its own empty database.
		conn.SetMaxOpenConns(1)
	}

	for _, p := range pragmas {
		if _, err := conn.Exec(p); err != nil {
			conn.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}
	if err := Migrate(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return conn, nil
}
