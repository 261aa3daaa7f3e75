package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Anton2181/partykajson/internal/domain"
	"github.com/Anton2181/partykajson/internal/optimizer"
	"github.com/Anton2181/partykajson/internal/pbmodel"
	"github.com/Anton2181/partykajson/internal/progress"
)

type solveService struct {
	cfg      optimizer.Config
	opt      *optimizer.Optimizer
	observer UseCaseObserver
}

// NewSolveService builds the optimizer once; an invalid configuration fails
// here rather than on the first solve. recorder may be nil.
func NewSolveService(
	cfg optimizer.Config,
	engine pbmodel.Engine,
	logger *slog.Logger,
	recorder optimizer.Recorder,
	observers ...UseCaseObserver,
) (SolveService, error) {
	opts := []optimizer.Option{optimizer.WithLogger(logger)}
	if recorder != nil {
		opts = append(opts, optimizer.WithRecorder(recorder))
	}
	opt, err := optimizer.New(cfg, engine, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating optimizer: %w", err)
	}
	return &solveService{
		cfg:      cfg,
		opt:      opt,
		observer: useCaseObserverOrNoop(observers),
	}, nil
}

func (s *solveService) Config() optimizer.Config { return s.cfg }

func (s *solveService) Solve(ctx context.Context, groups []domain.Group, roster []domain.TeamMember, sink progress.Sink) (res *optimizer.Result, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"groups":  len(groups),
		"members": len(roster),
	}
	defer observe(ctx, s.observer, "solve", startedAt, fields, &err)

	var onProgress func(optimizer.Progress)
	if sink != nil {
		onProgress = sink.Publish
	}
	res, err = s.opt.Solve(ctx, groups, roster, onProgress)
	if err != nil {
		return nil, fmt.Errorf("solving: %w", err)
	}
	fields["status"] = string(res.Status)
	fields["objective"] = res.Objective
	fields["solutions"] = res.Solutions
	fields["penalties"] = len(res.Penalties)
	return res, nil
}
