package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Anton2181/partykajson/internal/aggregate"
	"github.com/Anton2181/partykajson/internal/importer"
)

// GroupObserver is told how many groups each aggregation produced.
type GroupObserver interface {
	ObserveGroups(n int)
}

type aggregateService struct {
	logger   *slog.Logger
	groups   GroupObserver
	observer UseCaseObserver
}

func NewAggregateService(logger *slog.Logger, groups GroupObserver, observers ...UseCaseObserver) AggregateService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &aggregateService{
		logger:   logger,
		groups:   groups,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *aggregateService) Aggregate(ctx context.Context, in *importer.Inputs) (res *aggregate.Result, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"tasks":    len(in.Tasks),
		"families": len(in.Families),
		"members":  len(in.Members),
	}
	defer observe(ctx, s.observer, "aggregate", startedAt, fields, &err)

	agg := aggregate.New(in.Families, in.Members, aggregate.WithLogger(s.logger))
	res, err = agg.Aggregate(in.Tasks)
	if err != nil {
		return nil, fmt.Errorf("aggregating tasks: %w", err)
	}
	fields["groups"] = res.Stats.Groups
	fields["relaxed"] = res.Stats.Relaxed
	fields["rollbacks"] = res.Stats.Rollbacks
	if s.groups != nil {
		s.groups.ObserveGroups(res.Stats.Groups)
	}
	return res, nil
}
