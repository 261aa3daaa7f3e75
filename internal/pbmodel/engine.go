package pbmodel

import (
	"context"
	"time"
)

type Status int

const (
	StatusUnknown Status = iota
	StatusOptimal
	StatusFeasible
	StatusInfeasible
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusFeasible:
		return "feasible"
	case StatusInfeasible:
		return "infeasible"
	}
	return "unknown"
}

// HasValues reports whether the status carries an assignment.
func (s Status) HasValues() bool {
	return s == StatusOptimal || s == StatusFeasible
}

// Incumbent is an improving solution reported during search.
type Incumbent struct {
	Index     int
	Elapsed   time.Duration
	Objective int64
	Values    []bool
}

type SolveOptions struct {
	// TimeLimit bounds the search; zero means no limit.
	TimeLimit time.Duration
	// OnIncumbent is called for every improving solution. It runs before
	// the search resumes and must return quickly.
	OnIncumbent func(Incumbent)
}

// Solution is the final outcome of a solve.
type Solution struct {
	Status     Status
	Values     []bool
	Objective  int64
	Elapsed    time.Duration
	Incumbents int
}

// Engine solves a model. Implementations must treat the model as
// read-only so one model can be solved by several engines.
type Engine interface {
	Solve(ctx context.Context, m *Model, opts SolveOptions) (*Solution, error)
}
