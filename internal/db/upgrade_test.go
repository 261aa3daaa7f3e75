package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMigrate_UpgradePath_FirstReleaseSchema opens a database created before
// runs carried a label and a cached penalty count. Existing rows must survive
// and the count must be backfilled from run_penalties.
func TestMigrate_UpgradePath_FirstReleaseSchema(t *testing.T) {
	db, err := sql.Open("sqlite", InMemory)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`PRAGMA foreign_keys = ON`)
	require.NoError(t, err)

	legacy := []string{
		`CREATE TABLE runs (
			id            TEXT PRIMARY KEY,
			fingerprint   TEXT NOT NULL,
			status        TEXT NOT NULL
			              CHECK(status IN ('optimal','feasible','no_solution')),
			objective     INTEGER NOT NULL DEFAULT 0,
			solutions     INTEGER NOT NULL DEFAULT 0,
			elapsed_ms    INTEGER NOT NULL DEFAULT 0,
			penalty_ratio INTEGER NOT NULL,
			ladder        TEXT NOT NULL DEFAULT '[]',
			group_count   INTEGER NOT NULL DEFAULT 0,
			created_at    TEXT NOT NULL
		)`,
		`CREATE TABLE run_penalties (
			id       INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id   TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			rule     TEXT NOT NULL,
			person   TEXT,
			group_id TEXT,
			cost     INTEGER NOT NULL,
			details  TEXT NOT NULL DEFAULT ''
		)`,
		`INSERT INTO runs (id, fingerprint, status, objective, penalty_ratio, created_at)
			VALUES ('old', 'fp-old', 'optimal', 30, 10, '2025-12-01T10:00:00Z')`,
		`INSERT INTO run_penalties (run_id, rule, cost) VALUES ('old', 'Unassigned Group', 10)`,
		`INSERT INTO run_penalties (run_id, rule, person, cost) VALUES ('old', 'Cooldown (Adjacent Weeks)', 'Alice', 20)`,
	}
	for _, stmt := range legacy {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	require.NoError(t, Migrate(db))

	var label string
	var count, objective int
	err = db.QueryRow(`SELECT label, penalty_count, objective FROM runs WHERE id = 'old'`).Scan(&label, &count, &objective)
	require.NoError(t, err)
	assert.Equal(t, "", label)
	assert.Equal(t, 2, count)
	assert.Equal(t, 30, objective)

	// A second pass must not recount rows that are already filled in.
	_, err = db.Exec(`INSERT INTO run_penalties (run_id, rule, cost) VALUES ('old', 'Preferred Pair', 1)`)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	require.NoError(t, db.QueryRow(`SELECT penalty_count FROM runs WHERE id = 'old'`).Scan(&count))
	assert.Equal(t, 2, count)

	for _, table := range []string{"run_groups", "run_assignments"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should be created on upgrade", table)
	}
}
