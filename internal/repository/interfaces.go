package repository

import (
	"context"

	"github.com/Anton2181/partykajson/internal/domain"
)

type RunRepo interface {
	Create(ctx context.Context, r *domain.Run) error
	GetByID(ctx context.Context, id string) (*domain.Run, error)
	// GetByPrefix resolves an abbreviated run id. Ambiguous prefixes fail.
	GetByPrefix(ctx context.Context, prefix string) (*domain.Run, error)
	List(ctx context.Context, limit int) ([]*domain.Run, error)
	FindLatestByFingerprint(ctx context.Context, fingerprint string) (*domain.Run, error)
	Delete(ctx context.Context, id string) error
}

type GroupRepo interface {
	SaveAll(ctx context.Context, runID string, groups []domain.Group) error
	ListByRun(ctx context.Context, runID string) ([]domain.Group, error)
}

type AssignmentRepo interface {
	SaveAll(ctx context.Context, runID string, assignments []domain.Assignment) error
	ListByRun(ctx context.Context, runID string) ([]domain.Assignment, error)
}

type PenaltyRepo interface {
	SaveAll(ctx context.Context, runID string, penalties []domain.PenaltyRecord) error
	ListByRun(ctx context.Context, runID string) ([]domain.PenaltyRecord, error)
}
