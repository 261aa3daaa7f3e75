package service

import (
	"context"
	"time"

	"github.com/Anton2181/partykajson/internal/domain"
	"github.com/Anton2181/partykajson/internal/sweep"
)

type sweepService struct {
	runner   *sweep.Runner
	observer UseCaseObserver
}

func NewSweepService(runner *sweep.Runner, observers ...UseCaseObserver) SweepService {
	return &sweepService{runner: runner, observer: useCaseObserverOrNoop(observers)}
}

func (s *sweepService) Sweep(ctx context.Context, groups []domain.Group, roster []domain.TeamMember, variants []sweep.Variant) (out []sweep.Outcome, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"groups":   len(groups),
		"variants": len(variants),
	}
	defer observe(ctx, s.observer, "sweep", startedAt, fields, &err)

	out, err = s.runner.Run(ctx, groups, roster, variants)
	if err != nil {
		return nil, err
	}
	failed := 0
	for _, o := range out {
		if o.Err != nil {
			failed++
		}
	}
	fields["failed"] = failed
	return out, nil
}
