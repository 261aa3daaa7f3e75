package service

import (
	"context"

	"github.com/Anton2181/partykajson/internal/aggregate"
	"github.com/Anton2181/partykajson/internal/domain"
	"github.com/Anton2181/partykajson/internal/importer"
	"github.com/Anton2181/partykajson/internal/optimizer"
	"github.com/Anton2181/partykajson/internal/progress"
	"github.com/Anton2181/partykajson/internal/report"
	"github.com/Anton2181/partykajson/internal/sweep"
)

type AggregateService interface {
	Aggregate(ctx context.Context, in *importer.Inputs) (*aggregate.Result, error)
}

type SolveService interface {
	// Solve assigns groups. sink may be nil.
	Solve(ctx context.Context, groups []domain.Group, roster []domain.TeamMember, sink progress.Sink) (*optimizer.Result, error)
	Config() optimizer.Config
}

// RunRequest describes one end-to-end pipeline execution.
type RunRequest struct {
	Paths importer.Paths
	Label string
	// Reuse returns the latest stored run with the same fingerprint instead
	// of solving again.
	Reuse bool
	// Progress builds the sink for a run once its id is known. Optional.
	Progress func(runID string) progress.Sink
}

// RunResult is what a pipeline execution produced.
type RunResult struct {
	Detail    *domain.RunDetail
	Aggregate aggregate.Stats
	Reused    bool
}

type RunService interface {
	Run(ctx context.Context, req RunRequest) (*RunResult, error)
}

type HistoryService interface {
	List(ctx context.Context, limit int) ([]*domain.Run, error)
	// Get accepts a full run id or an unambiguous prefix.
	Get(ctx context.Context, id string) (*domain.RunDetail, error)
	Delete(ctx context.Context, id string) (*domain.Run, error)
}

type ReportService interface {
	PersonReport(ctx context.Context, runID string) (*domain.Run, *report.Report, error)
}

type SweepService interface {
	Sweep(ctx context.Context, groups []domain.Group, roster []domain.TeamMember, variants []sweep.Variant) ([]sweep.Outcome, error)
}
