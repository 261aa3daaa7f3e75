package pbmodel

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/crillab/gophersat/solver"
)

// GophersatEngine solves models with the gophersat pseudo-boolean solver.
type GophersatEngine struct {
	logger *slog.Logger
}

func NewGophersatEngine(logger *slog.Logger) *GophersatEngine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &GophersatEngine{logger: logger}
}

var _ Engine = (*GophersatEngine)(nil)

// Solve runs gophersat's optimisation loop on its own goroutine and
// reports every improving solution. gophersat cannot be interrupted, so on
// the time limit or cancellation Solve stops waiting, returns the best
// incumbent so far and leaves the search to finish in the background with
// its results discarded.
func (e *GophersatEngine) Solve(ctx context.Context, m *Model, opts SolveOptions) (*Solution, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.NumVars() == 0 {
		return &Solution{Status: StatusOptimal}, nil
	}
	if _, err := objectiveBound(m); err != nil {
		return nil, err
	}

	start := time.Now()
	problem, err := toProblem(m)
	if err != nil {
		return nil, err
	}
	if len(m.Objective()) > 0 {
		lits := make([]solver.Lit, 0, len(m.Objective()))
		weights := make([]int, 0, len(m.Objective()))
		for _, t := range m.Objective() {
			lits = append(lits, solver.IntToLit(int32(t.Lit)))
			weights = append(weights, int(t.Weight))
		}
		problem.SetCostFunc(lits, weights)
	}
	s := solver.New(problem)

	stop := make(chan struct{})
	var once sync.Once
	halt := func() { once.Do(func() { close(stop) }) }
	if opts.TimeLimit > 0 {
		timer := time.AfterFunc(opts.TimeLimit, halt)
		defer timer.Stop()
	}
	release := context.AfterFunc(ctx, halt)
	defer release()

	results := make(chan solver.Result)
	final := make(chan solver.Result, 1)
	go func() {
		final <- s.Optimal(results, nil)
	}()

	var (
		best        []bool
		count       int
		last        solver.Result
		interrupted bool
	)
wait:
	for {
		select {
		case r, ok := <-results:
			if !ok {
				last = <-final
				break wait
			}
			if r.Status != solver.Sat {
				continue
			}
			values := fit(r.Model, m.NumVars())
			count++
			best = values
			if opts.OnIncumbent != nil {
				opts.OnIncumbent(Incumbent{
					Index:     count,
					Elapsed:   time.Since(start),
					Objective: m.ObjectiveValue(values),
					Values:    values,
				})
			}
		case <-stop:
			interrupted = true
			go func() {
				for range results {
				}
			}()
			break wait
		}
	}

	sol := &Solution{Elapsed: time.Since(start), Incumbents: count}
	switch {
	case interrupted && best != nil:
		sol.Values, sol.Status = best, StatusFeasible
	case interrupted:
		sol.Status = StatusUnknown
	case last.Status == solver.Sat:
		if last.Model != nil {
			best = fit(last.Model, m.NumVars())
		}
		sol.Values, sol.Status = best, StatusOptimal
	case best != nil:
		// Unsat after incumbents means the last one was proven optimal.
		sol.Values, sol.Status = best, StatusOptimal
	case last.Status == solver.Unsat:
		sol.Status = StatusInfeasible
	default:
		sol.Status = StatusUnknown
	}
	if sol.Values != nil {
		sol.Objective = m.ObjectiveValue(sol.Values)
	}

	e.logger.Debug("gophersat finished",
		"status", sol.Status.String(),
		"incumbents", count,
		"objective", sol.Objective,
		"elapsed_ms", sol.Elapsed.Milliseconds(),
		"interrupted", interrupted)

	if err := ctx.Err(); err != nil && !sol.Status.HasValues() {
		return nil, fmt.Errorf("solve cancelled: %w", err)
	}
	return sol, nil
}

// objectiveBound sums every objective weight. gophersat accumulates the
// same sum in an int, so anything past MaxObjective is rejected.
func objectiveBound(m *Model) (int64, error) {
	var total int64
	for _, t := range m.Objective() {
		if t.Weight > MaxObjective-total {
			return 0, fmt.Errorf("%w: %d objective terms", ErrObjectiveOverflow, len(m.Objective()))
		}
		total += t.Weight
	}
	return total, nil
}

// toProblem converts the model into gophersat constraints. A trivially
// satisfied constraint over every variable pins the variable count so
// unconstrained variables still appear in the returned model.
func toProblem(m *Model) (*solver.Problem, error) {
	constrs := make([]solver.PBConstr, 0, len(m.Constraints())+1)
	for i, c := range m.Constraints() {
		lits := make([]int, len(c.Terms))
		weights := make([]int, len(c.Terms))
		for j, t := range c.Terms {
			if t.Lit == 0 {
				return nil, fmt.Errorf("constraint %d: zero literal", i)
			}
			lits[j] = int(t.Lit)
			weights[j] = int(t.Weight)
		}
		constrs = append(constrs, solver.PBConstr{Lits: lits, Weights: weights, AtLeast: int(c.Bound)})
	}
	all := make([]int, m.NumVars())
	for v := range all {
		all[v] = v + 1
	}
	constrs = append(constrs, solver.PBConstr{Lits: all, AtLeast: 0})
	return solver.ParsePBConstrs(constrs), nil
}

// fit copies a solver model and pads or trims it to n variables.
func fit(model []bool, n int) []bool {
	out := make([]bool, n)
	copy(out, model)
	return out
}
