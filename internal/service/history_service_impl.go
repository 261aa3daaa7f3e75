package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Anton2181/partykajson/internal/domain"
	"github.com/Anton2181/partykajson/internal/repository"
)

type historyService struct {
	runs        repository.RunRepo
	groups      repository.GroupRepo
	assignments repository.AssignmentRepo
	penalties   repository.PenaltyRepo
	observer    UseCaseObserver
}

func NewHistoryService(
	runs repository.RunRepo,
	groups repository.GroupRepo,
	assignments repository.AssignmentRepo,
	penalties repository.PenaltyRepo,
	observers ...UseCaseObserver,
) HistoryService {
	return &historyService{
		runs:        runs,
		groups:      groups,
		assignments: assignments,
		penalties:   penalties,
		observer:    useCaseObserverOrNoop(observers),
	}
}

func (s *historyService) List(ctx context.Context, limit int) ([]*domain.Run, error) {
	return s.runs.List(ctx, limit)
}

func (s *historyService) Get(ctx context.Context, id string) (*domain.RunDetail, error) {
	run, err := s.resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &domain.RunDetail{Run: *run}
	if detail.Groups, err = s.groups.ListByRun(ctx, run.ID); err != nil {
		return nil, err
	}
	if detail.Assignments, err = s.assignments.ListByRun(ctx, run.ID); err != nil {
		return nil, err
	}
	if detail.Penalties, err = s.penalties.ListByRun(ctx, run.ID); err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *historyService) Delete(ctx context.Context, id string) (run *domain.Run, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"run": id}
	defer observe(ctx, s.observer, "delete-run", startedAt, fields, &err)

	run, err = s.resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	fields["run"] = run.ID
	if err = s.runs.Delete(ctx, run.ID); err != nil {
		return nil, err
	}
	return run, nil
}

// resolve accepts a full id or an unambiguous prefix.
func (s *historyService) resolve(ctx context.Context, id string) (*domain.Run, error) {
	run, err := s.runs.GetByID(ctx, id)
	if err == nil {
		return run, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	run, err = s.runs.GetByPrefix(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("resolving run %q: %w", id, err)
	}
	return run, nil
}
