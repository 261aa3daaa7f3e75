package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Anton2181/partykajson/internal/db"
	"github.com/Anton2181/partykajson/internal/domain"
)

// SQLiteRunRepo implements RunRepo using a SQLite database.
type SQLiteRunRepo struct {
	db db.DBTX
}

// NewSQLiteRunRepo creates a new SQLiteRunRepo.
func NewSQLiteRunRepo(conn db.DBTX) *SQLiteRunRepo {
	return &SQLiteRunRepo{db: conn}
}

const runColumns = `id, label, fingerprint, status, objective, solutions, elapsed_ms,
	penalty_ratio, ladder, group_count, penalty_count, created_at`

func (r *SQLiteRunRepo) Create(ctx context.Context, run *domain.Run) error {
	ladder, err := json.Marshal(run.Ladder)
	if err != nil {
		return fmt.Errorf("encoding ladder: %w", err)
	}
	if run.Ladder == nil {
		ladder = []byte("[]")
	}
	query := `INSERT INTO runs (` + runColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		run.ID,
		run.Label,
		run.Fingerprint,
		string(run.Status),
		run.Objective,
		run.Solutions,
		run.Elapsed.Milliseconds(),
		run.PenaltyRatio,
		string(ladder),
		run.GroupCount,
		run.PenaltyCount,
		formatTime(run.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	return nil
}

func (r *SQLiteRunRepo) GetByID(ctx context.Context, id string) (*domain.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE id = ?`
	return r.scanRun(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteRunRepo) GetByPrefix(ctx context.Context, prefix string) (*domain.Run, error) {
	if prefix == "" {
		return nil, fmt.Errorf("run: %w", ErrNotFound)
	}
	query := `SELECT ` + runColumns + ` FROM runs WHERE id LIKE ? || '%' ORDER BY id LIMIT 2`
	rows, err := r.db.QueryContext(ctx, query, prefix)
	if err != nil {
		return nil, fmt.Errorf("looking up run prefix: %w", err)
	}
	defer rows.Close()

	runs, err := r.scanRuns(rows)
	if err != nil {
		return nil, err
	}
	switch len(runs) {
	case 0:
		return nil, fmt.Errorf("run %q: %w", prefix, ErrNotFound)
	case 1:
		return runs[0], nil
	default:
		return nil, fmt.Errorf("run %q: %w", prefix, ErrAmbiguous)
	}
}

// List returns the newest runs first. A non-positive limit returns all.
func (r *SQLiteRunRepo) List(ctx context.Context, limit int) ([]*domain.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY created_at DESC, rowid DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()
	return r.scanRuns(rows)
}

// FindLatestByFingerprint returns the newest run with a solution for the
// given inputs.
func (r *SQLiteRunRepo) FindLatestByFingerprint(ctx context.Context, fingerprint string) (*domain.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs
		WHERE fingerprint = ? AND status IN ('optimal', 'feasible')
		ORDER BY created_at DESC, rowid DESC LIMIT 1`
	return r.scanRun(r.db.QueryRowContext(ctx, query, fingerprint))
}

func (r *SQLiteRunRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *SQLiteRunRepo) scanRun(row *sql.Row) (*domain.Run, error) {
	run, err := scanRunRow(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("run: %w", ErrNotFound)
		}
		return nil, err
	}
	return run, nil
}

func (r *SQLiteRunRepo) scanRuns(rows *sql.Rows) ([]*domain.Run, error) {
	var runs []*domain.Run
	for rows.Next() {
		run, err := scanRunRow(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

func scanRunRow(s rowScanner) (*domain.Run, error) {
	var run domain.Run
	var status, ladder, createdAt string
	var elapsedMS int64

	err := s.Scan(
		&run.ID, &run.Label, &run.Fingerprint, &status,
		&run.Objective, &run.Solutions, &elapsedMS,
		&run.PenaltyRatio, &ladder, &run.GroupCount, &run.PenaltyCount,
		&createdAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning run: %w", err)
	}

	run.Status = domain.RunStatus(status)
	run.Elapsed = time.Duration(elapsedMS) * time.Millisecond
	if err := json.Unmarshal([]byte(ladder), &run.Ladder); err != nil {
		return nil, fmt.Errorf("decoding ladder: %w", err)
	}
	run.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &run, nil
}
