package db_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/Anton2181/partykajson/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const insertRun = `INSERT INTO runs (id, fingerprint, status, penalty_ratio, created_at)
	VALUES (?, 'fp', 'optimal', 10, '2026-01-01T00:00:00Z')`

func openHistory(t *testing.T) (*sql.DB, *db.SQLiteUnitOfWork) {
	t.Helper()
	conn, err := db.OpenDB(db.InMemory)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn, db.NewSQLiteUnitOfWork(conn)
}

func runExists(t *testing.T, conn *sql.DB, id string) bool {
	t.Helper()
	var n int
	require.NoError(t, conn.QueryRow(`SELECT COUNT(*) FROM runs WHERE id = ?`, id).Scan(&n))
	return n == 1
}

func TestWithinTx_CommitsRunAndChildren(t *testing.T) {
	conn, uow := openHistory(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if _, err := tx.ExecContext(ctx, insertRun, "r1"); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO run_assignments (run_id, group_id, group_name, method) VALUES ('r1', 'G1', 'Door', 'unassigned')`)
		return err
	})
	require.NoError(t, err)

	assert.True(t, runExists(t, conn, "r1"))
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	conn, uow := openHistory(t)
	boom := errors.New("solver output rejected")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if _, err := tx.ExecContext(ctx, insertRun, "r2"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	assert.False(t, runExists(t, conn, "r2"))
}

func TestWithinTx_RollsBackOnForeignKeyViolation(t *testing.T) {
	conn, uow := openHistory(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if _, err := tx.ExecContext(ctx, insertRun, "r3"); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO run_penalties (run_id, rule, cost) VALUES ('missing', 'Unassigned Group', 1)`)
		return err
	})
	require.Error(t, err)

	assert.False(t, runExists(t, conn, "r3"))
}

func TestWithinTx_RollsBackAndRepanics(t *testing.T) {
	conn, uow := openHistory(t)

	assert.PanicsWithValue(t, "boom", func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_, _ = tx.ExecContext(ctx, insertRun, "r4")
			panic("boom")
		})
	})

	assert.False(t, runExists(t, conn, "r4"))
}
