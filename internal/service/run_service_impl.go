package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Anton2181/partykajson/internal/db"
	"github.com/Anton2181/partykajson/internal/domain"
	"github.com/Anton2181/partykajson/internal/fingerprint"
	"github.com/Anton2181/partykajson/internal/importer"
	"github.com/Anton2181/partykajson/internal/penalty"
	"github.com/Anton2181/partykajson/internal/progress"
	"github.com/Anton2181/partykajson/internal/repository"
	"github.com/google/uuid"
)

type runService struct {
	aggregate AggregateService
	solve     SolveService
	history   HistoryService
	runs      repository.RunRepo
	uow       db.UnitOfWork
	observer  UseCaseObserver
	now       func() time.Time
}

func NewRunService(
	aggregate AggregateService,
	solve SolveService,
	history HistoryService,
	runs repository.RunRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) RunService {
	return &runService{
		aggregate: aggregate,
		solve:     solve,
		history:   history,
		runs:      runs,
		uow:       uow,
		observer:  useCaseObserverOrNoop(observers),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Run loads the inputs, aggregates them, then either reuses a stored run
// with the same fingerprint or solves and stores a new one.
func (s *runService) Run(ctx context.Context, req RunRequest) (out *RunResult, err error) {
	startedAt := s.now()
	fields := map[string]any{"reuse": req.Reuse}
	defer observe(ctx, s.observer, "run", startedAt, fields, &err)

	in, err := importer.Load(req.Paths)
	if err != nil {
		return nil, err
	}
	agg, err := s.aggregate.Aggregate(ctx, in)
	if err != nil {
		return nil, err
	}

	cfg := s.solve.Config()
	fp, err := fingerprint.Inputs(in.Tasks, in.Families, in.Members, cfg)
	if err != nil {
		return nil, err
	}
	fields["fingerprint"] = fp

	if req.Reuse {
		prev, err := s.runs.FindLatestByFingerprint(ctx, fp)
		switch {
		case err == nil:
			detail, err := s.history.Get(ctx, prev.ID)
			if err != nil {
				return nil, fmt.Errorf("loading reused run: %w", err)
			}
			fields["run"] = prev.ID
			fields["reused"] = true
			return &RunResult{Detail: detail, Aggregate: agg.Stats, Reused: true}, nil
		case !errors.Is(err, repository.ErrNotFound):
			return nil, fmt.Errorf("looking up previous run: %w", err)
		}
	}

	runID := uuid.New().String()
	fields["run"] = runID
	var sink progress.Sink
	if req.Progress != nil {
		sink = req.Progress(runID)
	}

	res, err := s.solve.Solve(ctx, agg.Groups, in.Members, sink)
	if err != nil {
		return nil, err
	}

	ladder := cfg.Ladder
	if len(ladder) == 0 {
		ladder = penalty.DefaultOrder
	}
	detail := &domain.RunDetail{
		Run: domain.Run{
			ID:           runID,
			Label:        req.Label,
			Fingerprint:  fp,
			Status:       res.Status,
			Objective:    res.Objective,
			Solutions:    res.Solutions,
			Elapsed:      res.Elapsed,
			PenaltyRatio: cfg.PenaltyRatio,
			Ladder:       penalty.Active(ladder, cfg.DisabledRules),
			GroupCount:   len(agg.Groups),
			PenaltyCount: len(res.Penalties),
			CreatedAt:    s.now(),
		},
		Groups:      agg.Groups,
		Assignments: res.Assignments,
		Penalties:   res.Penalties,
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteRunRepo(tx).Create(ctx, &detail.Run); err != nil {
			return err
		}
		if err := repository.NewSQLiteGroupRepo(tx).SaveAll(ctx, runID, detail.Groups); err != nil {
			return err
		}
		if err := repository.NewSQLiteAssignmentRepo(tx).SaveAll(ctx, runID, detail.Assignments); err != nil {
			return err
		}
		return repository.NewSQLitePenaltyRepo(tx).SaveAll(ctx, runID, detail.Penalties)
	})
	if err != nil {
		return nil, fmt.Errorf("storing run: %w", err)
	}
	fields["status"] = string(res.Status)
	return &RunResult{Detail: detail, Aggregate: agg.Stats}, nil
}
