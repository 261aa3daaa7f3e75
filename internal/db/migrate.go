package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillPenaltyCounts(db); err != nil {
		return fmt.Errorf("backfilling run penalty counts: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS runs (
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
	`CREATE INDEX IF NOT EXISTS idx_runs_fingerprint ON runs(fingerprint, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at)`,

	`CREATE TABLE IF NOT EXISTS run_groups (
		run_id   TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		group_id TEXT NOT NULL,
		seq      INTEGER NOT NULL,
		data     TEXT NOT NULL,
		PRIMARY KEY (run_id, group_id)
	)`,

	`CREATE TABLE IF NOT EXISTS run_assignments (
		run_id     TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		group_id   TEXT NOT NULL,
		group_name TEXT NOT NULL,
		assignee   TEXT,
		method     TEXT NOT NULL
		           CHECK(method IN ('manual','automatic','unassigned')),
		PRIMARY KEY (run_id, group_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_run_assignments_assignee ON run_assignments(assignee)`,

	`CREATE TABLE IF NOT EXISTS run_penalties (
		id       INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id   TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		rule     TEXT NOT NULL,
		person   TEXT,
		group_id TEXT,
		cost     INTEGER NOT NULL,
		details  TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_run_penalties_run ON run_penalties(run_id)`,

	// Labels and cached penalty counts arrived after the first release.
	`ALTER TABLE runs ADD COLUMN label TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE runs ADD COLUMN penalty_count INTEGER NOT NULL DEFAULT -1`,
}

// migrateBackfillPenaltyCounts fills penalty_count for runs stored before the
// column existed. Idempotent: only rows still at -1 are touched.
func migrateBackfillPenaltyCounts(db *sql.DB) error {
	ctx := context.Background()
	query := `UPDATE runs
		SET penalty_count = (SELECT COUNT(*) FROM run_penalties p WHERE p.run_id = runs.id)
		WHERE penalty_count < 0`
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("updating penalty counts: %w", err)
	}
	return nil
}
