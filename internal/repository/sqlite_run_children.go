package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Anton2181/partykajson/internal/db"
	"github.com/Anton2181/partykajson/internal/domain"
)

// SQLiteGroupRepo stores the aggregated groups a run was solved over. Each
// group is kept as a JSON document; the column set stays stable while the
// group shape evolves.
type SQLiteGroupRepo struct {
	db db.DBTX
}

func NewSQLiteGroupRepo(conn db.DBTX) *SQLiteGroupRepo {
	return &SQLiteGroupRepo{db: conn}
}

func (r *SQLiteGroupRepo) SaveAll(ctx context.Context, runID string, groups []domain.Group) error {
	query := `INSERT INTO run_groups (run_id, group_id, seq, data) VALUES (?, ?, ?, ?)`
	for i, g := range groups {
		data, err := json.Marshal(g)
		if err != nil {
			return fmt.Errorf("encoding group %s: %w", g.ID, err)
		}
		if _, err := r.db.ExecContext(ctx, query, runID, g.ID, i, string(data)); err != nil {
			return fmt.Errorf("inserting group %s: %w", g.ID, err)
		}
	}
	return nil
}

// ListByRun returns groups in their original order.
func (r *SQLiteGroupRepo) ListByRun(ctx context.Context, runID string) ([]domain.Group, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT data FROM run_groups WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("listing groups: %w", err)
	}
	defer rows.Close()

	var groups []domain.Group
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning group row: %w", err)
		}
		var g domain.Group
		if err := json.Unmarshal([]byte(data), &g); err != nil {
			return nil, fmt.Errorf("decoding group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating groups: %w", err)
	}
	return groups, nil
}

// SQLiteAssignmentRepo implements AssignmentRepo.
type SQLiteAssignmentRepo struct {
	db db.DBTX
}

func NewSQLiteAssignmentRepo(conn db.DBTX) *SQLiteAssignmentRepo {
	return &SQLiteAssignmentRepo{db: conn}
}

func (r *SQLiteAssignmentRepo) SaveAll(ctx context.Context, runID string, assignments []domain.Assignment) error {
	query := `INSERT INTO run_assignments (run_id, group_id, group_name, assignee, method) VALUES (?, ?, ?, ?, ?)`
	for _, a := range assignments {
		_, err := r.db.ExecContext(ctx, query, runID, a.GroupID, a.GroupName, nullableString(a.Assignee), string(a.Method))
		if err != nil {
			return fmt.Errorf("inserting assignment for %s: %w", a.GroupID, err)
		}
	}
	return nil
}

// ListByRun returns assignments ordered by group id.
func (r *SQLiteAssignmentRepo) ListByRun(ctx context.Context, runID string) ([]domain.Assignment, error) {
	query := `SELECT group_id, group_name, assignee, method FROM run_assignments WHERE run_id = ? ORDER BY group_id`
	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("listing assignments: %w", err)
	}
	defer rows.Close()

	var out []domain.Assignment
	for rows.Next() {
		var a domain.Assignment
		var assignee sql.NullString
		var method string
		if err := rows.Scan(&a.GroupID, &a.GroupName, &assignee, &method); err != nil {
			return nil, fmt.Errorf("scanning assignment row: %w", err)
		}
		a.Assignee = fromNullString(assignee)
		a.Method = domain.Method(method)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating assignments: %w", err)
	}
	return out, nil
}

// SQLitePenaltyRepo implements PenaltyRepo.
type SQLitePenaltyRepo struct {
	db db.DBTX
}

func NewSQLitePenaltyRepo(conn db.DBTX) *SQLitePenaltyRepo {
	return &SQLitePenaltyRepo{db: conn}
}

func (r *SQLitePenaltyRepo) SaveAll(ctx context.Context, runID string, penalties []domain.PenaltyRecord) error {
	query := `INSERT INTO run_penalties (run_id, rule, person, group_id, cost, details) VALUES (?, ?, ?, ?, ?, ?)`
	for _, p := range penalties {
		_, err := r.db.ExecContext(ctx, query,
			runID, p.Rule, nullableString(p.Person), nullableString(p.GroupID), p.Cost, p.Details)
		if err != nil {
			return fmt.Errorf("inserting penalty %q: %w", p.Rule, err)
		}
	}
	return nil
}

// ListByRun returns penalties in insertion order, which is the order the
// optimizer reported them in.
func (r *SQLitePenaltyRepo) ListByRun(ctx context.Context, runID string) ([]domain.PenaltyRecord, error) {
	query := `SELECT rule, person, group_id, cost, details FROM run_penalties WHERE run_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("listing penalties: %w", err)
	}
	defer rows.Close()

	var out []domain.PenaltyRecord
	for rows.Next() {
		var p domain.PenaltyRecord
		var person, groupID sql.NullString
		if err := rows.Scan(&p.Rule, &person, &groupID, &p.Cost, &p.Details); err != nil {
			return nil, fmt.Errorf("scanning penalty row: %w", err)
		}
		p.Person = fromNullString(person)
		p.GroupID = fromNullString(groupID)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating penalties: %w", err)
	}
	return out, nil
}
