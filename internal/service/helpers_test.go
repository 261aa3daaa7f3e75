package service

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Anton2181/partykajson/internal/db"
	"github.com/Anton2181/partykajson/internal/importer"
	"github.com/Anton2181/partykajson/internal/optimizer"
	"github.com/Anton2181/partykajson/internal/pbmodel"
	"github.com/Anton2181/partykajson/internal/repository"
	"github.com/Anton2181/partykajson/internal/testutil"
	"github.com/stretchr/testify/require"
)

const tasksJSON = `[
	{"id": "1", "name": "Door", "week": 1, "day": "Monday", "candidates": ["Alice", "Bob"], "effort": 2},
	{"id": "2", "name": "Bar", "week": 1, "day": "Monday", "candidates": ["Alice", "Bob"], "effort": 1},
	{"id": "3", "name": "Door", "week": 2, "day": "Monday", "candidates": ["Alice", "Bob"], "effort": 2},
	{"id": "4", "name": "Door", "week": 2, "day": "Sunday", "candidates": ["Bob"], "effort": 1, "assignee": "Bob"}
]`

const familiesYAML = `
- name: Door
  groups:
    - name: Door Shift
      tasks: [Door]
      any_group_count: 1
      exclusive: [Bar Shift]
- name: Bar
  groups:
    - name: Bar Shift
      tasks: [Bar]
      any_group_count: 1
      exclusive: []
`

const rosterJSON = `[
	{"name": "Alice", "role": "leader", "both": true},
	{"name": "Bob", "role": "follower", "both": true}
]`

func writeInputs(t *testing.T) importer.Paths {
	t.Helper()
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}
	return importer.Paths{
		Tasks:    write("tasks.json", tasksJSON),
		Families: write("families.yaml", familiesYAML),
		Roster:   write("roster.json", rosterJSON),
	}
}

type stack struct {
	aggregate AggregateService
	solve     SolveService
	history   HistoryService
	report    ReportService
	run       RunService
	events    *recordingObserver
}

func newStack(t *testing.T, uow db.UnitOfWork, database db.DBTX) *stack {
	t.Helper()
	events := &recordingObserver{}
	cfg := optimizer.DefaultConfig()
	cfg.TimeLimit = 10 * time.Second

	solve, err := NewSolveService(cfg, pbmodel.NewGophersatEngine(nil), nil, nil, events)
	require.NoError(t, err)

	history := NewHistoryService(
		repository.NewSQLiteRunRepo(database),
		repository.NewSQLiteGroupRepo(database),
		repository.NewSQLiteAssignmentRepo(database),
		repository.NewSQLitePenaltyRepo(database),
		events,
	)
	agg := NewAggregateService(nil, nil, events)
	return &stack{
		aggregate: agg,
		solve:     solve,
		history:   history,
		report:    NewReportService(history),
		run:       NewRunService(agg, solve, history, repository.NewSQLiteRunRepo(database), uow, events),
		events:    events,
	}
}

func newTestStack(t *testing.T) *stack {
	t.Helper()
	database := testutil.NewTestDB(t)
	return newStack(t, testutil.NewTestUoW(database), database)
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingObserver) named(name string) []UseCaseEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []UseCaseEvent
	for _, e := range r.events {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

func newBufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
}
