package testutil

import (
	"time"

	"github.com/Anton2181/partykajson/internal/domain"
	"github.com/google/uuid"
)

// Group options
type GroupOption func(*domain.Group)

func WithGroupDay(day string) GroupOption {
	return func(g *domain.Group) {
		g.Day = day
	}
}

func WithGroupAssignee(name string) GroupOption {
	return func(g *domain.Group) {
		g.Assignee = name
	}
}

func WithGroupEffort(e float64) GroupOption {
	return func(g *domain.Group) {
		g.Effort = e
	}
}

func WithExclusive(ids ...string) GroupOption {
	return func(g *domain.Group) {
		g.ExclusiveGroups = ids
	}
}

func WithCooldown(ids ...string) GroupOption {
	return func(g *domain.Group) {
		g.CooldownGroups = ids
	}
}

// NewTestGroup builds a single-task Monday group open to every candidate.
func NewTestGroup(id, name string, week int, candidates []string, opts ...GroupOption) domain.Group {
	g := domain.Group{
		ID:                    id,
		Name:                  name,
		Family:                name,
		Role:                  domain.RoleAny,
		Week:                  week,
		Day:                   "Monday",
		RepeatIndex:           1,
		Tasks:                 []domain.TaskRef{{ID: id + "-t", Name: name}},
		TaskCount:             1,
		Effort:                1,
		CandidateList:         candidates,
		FilteredCandidateList: candidates,
	}
	for _, opt := range opts {
		opt(&g)
	}
	return g
}

// NewTestRoster returns members who can serve either role.
func NewTestRoster(names ...string) []domain.TeamMember {
	out := make([]domain.TeamMember, len(names))
	for i, n := range names {
		out[i] = domain.TeamMember{Name: n, Role: domain.RoleLeader, Both: true}
	}
	return out
}

// Run options
type RunOption func(*domain.Run)

func WithFingerprint(fp string) RunOption {
	return func(r *domain.Run) {
		r.Fingerprint = fp
	}
}

func WithRunStatus(s domain.RunStatus) RunOption {
	return func(r *domain.Run) {
		r.Status = s
	}
}

func WithCreatedAt(t time.Time) RunOption {
	return func(r *domain.Run) {
		r.CreatedAt = t
	}
}

func WithLabel(l string) RunOption {
	return func(r *domain.Run) {
		r.Label = l
	}
}

func NewTestRun(opts ...RunOption) *domain.Run {
	r := &domain.Run{
		ID:           uuid.New().String(),
		Fingerprint:  "fp-" + uuid.New().String()[:8],
		Status:       domain.StatusOptimal,
		Objective:    100,
		Solutions:    2,
		Elapsed:      1500 * time.Millisecond,
		PenaltyRatio: 10,
		Ladder:       []string{"Unassigned Group"},
		CreatedAt:    time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}
