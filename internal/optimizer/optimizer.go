// Package optimizer turns aggregated groups into a weighted pseudo-boolean
// model, solves it and reports the assignments together with the penalties
// that made up the objective.
package optimizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Anton2181/partykajson/internal/domain"
	"github.com/Anton2181/partykajson/internal/forced"
	"github.com/Anton2181/partykajson/internal/pbmodel"
	"github.com/Anton2181/partykajson/internal/penalty"
)

// ErrEmptyModel is returned when there is nothing to assign.
var ErrEmptyModel = errors.New("no groups to assign")

// DefaultEffortThreshold is the effort below which a person is underworked.
const DefaultEffortThreshold = 8.0

// Config is the fully resolved optimizer configuration.
type Config struct {
	// Ladder lists rule names, highest priority first. Empty means
	// penalty.DefaultOrder.
	Ladder         []string
	DisabledRules  []string
	PreferredPairs [][2]string
	PenaltyRatio   int
	// TimeLimit bounds the search; zero means unbounded.
	TimeLimit       time.Duration
	EffortThreshold float64
}

func DefaultConfig() Config {
	return Config{
		Ladder:          append([]string(nil), penalty.DefaultOrder...),
		PenaltyRatio:    penalty.DefaultRatio,
		TimeLimit:       30 * time.Second,
		EffortThreshold: DefaultEffortThreshold,
	}
}

// Recorder observes solver activity. Implementations must not block.
type Recorder interface {
	ObserveIncumbent(p Progress)
	ObserveResult(r *Result)
}

// Result is the outcome of one solve.
type Result struct {
	Status      domain.RunStatus
	Objective   int64
	Assignments []domain.Assignment
	Penalties   []domain.PenaltyRecord
	Solutions   int
	Elapsed     time.Duration
	Stats       ModelStats
}

// ModelStats describes the size of the built model.
type ModelStats struct {
	Variables   int
	Constraints int
	Terms       int
}

type Option func(*Optimizer)

func WithLogger(l *slog.Logger) Option {
	return func(o *Optimizer) {
		if l != nil {
			o.logger = l
		}
	}
}

func WithRecorder(r Recorder) Option {
	return func(o *Optimizer) { o.recorder = r }
}

// Optimizer builds and solves assignment models. One Optimizer may serve
// several sequential or concurrent solves; every solve owns its model.
type Optimizer struct {
	cfg      Config
	ladder   *penalty.Ladder
	engine   pbmodel.Engine
	logger   *slog.Logger
	recorder Recorder
}

func New(cfg Config, engine pbmodel.Engine, opts ...Option) (*Optimizer, error) {
	if engine == nil {
		return nil, errors.New("optimizer requires an engine")
	}
	if cfg.PenaltyRatio == 0 {
		cfg.PenaltyRatio = penalty.DefaultRatio
	}
	if cfg.EffortThreshold < 0 {
		return nil, fmt.Errorf("effort threshold must not be negative, got %v", cfg.EffortThreshold)
	}
	order := cfg.Ladder
	if len(order) == 0 {
		order = penalty.DefaultOrder
	}
	ladder, err := penalty.NewLadder(penalty.Active(order, cfg.DisabledRules), cfg.PenaltyRatio)
	if err != nil {
		return nil, fmt.Errorf("building penalty ladder: %w", err)
	}
	if ladder.Saturated() {
		return nil, fmt.Errorf("penalty ratio %d is too large for %d active rules: the top cost passes %d",
			cfg.PenaltyRatio, len(ladder.Names()), penalty.MaxCost)
	}
	o := &Optimizer{
		cfg:    cfg,
		ladder: ladder,
		engine: engine,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

func (o *Optimizer) Ladder() *penalty.Ladder { return o.ladder }

// Plan is a built model together with the bookkeeping needed to read a
// solution back.
type Plan struct {
	Model *pbmodel.Model
	b     *builder
}

func (p *Plan) Stats() ModelStats {
	return ModelStats{
		Variables:   p.Model.NumVars(),
		Constraints: len(p.Model.Constraints()),
		Terms:       len(p.Model.Objective()),
	}
}

// Build constructs the model for groups without solving it.
func (o *Optimizer) Build(groups []domain.Group, members []domain.TeamMember) (*Plan, error) {
	if len(groups) == 0 {
		return nil, ErrEmptyModel
	}
	reg, err := domain.NewRegistry(groups)
	if err != nil {
		return nil, err
	}
	b := newBuilder(o.cfg, o.ladder, reg, domain.NewRoster(members), forced.Detect(reg.All()))
	b.build()
	return &Plan{Model: b.m, b: b}, nil
}

// Solve builds the model and hands it to the engine. onProgress, when set,
// receives every improving solution on the solving goroutine.
func (o *Optimizer) Solve(ctx context.Context, groups []domain.Group, members []domain.TeamMember, onProgress func(Progress)) (*Result, error) {
	plan, err := o.Build(groups, members)
	if err != nil {
		return nil, err
	}
	stats := plan.Stats()
	o.logger.Debug("model built",
		"groups", len(groups),
		"variables", stats.Variables,
		"constraints", stats.Constraints,
		"objective_terms", stats.Terms,
	)

	sol, err := o.engine.Solve(ctx, plan.Model, pbmodel.SolveOptions{
		TimeLimit: o.cfg.TimeLimit,
		OnIncumbent: func(inc pbmodel.Incumbent) {
			p := Progress{
				Solution:  inc.Index,
				Elapsed:   inc.Elapsed,
				Objective: inc.Objective,
				Penalties: plan.b.activePenalties(inc.Values),
			}
			if o.recorder != nil {
				o.recorder.ObserveIncumbent(p)
			}
			if onProgress != nil {
				onProgress(p)
			}
		},
	})
	if err != nil {
		return nil, fmt.Errorf("solving model: %w", err)
	}

	res := &Result{
		Status:    runStatus(sol.Status),
		Solutions: sol.Incumbents,
		Elapsed:   sol.Elapsed,
		Stats:     stats,
	}
	if res.Status.HasSolution() {
		res.Assignments = plan.b.assignments(sol.Values)
		res.Penalties = plan.b.penalties(sol.Values)
		res.Objective = plan.Model.ObjectiveValue(sol.Values)
	}
	o.logger.Info("solve finished",
		"status", res.Status,
		"objective", res.Objective,
		"solutions", res.Solutions,
		"elapsed", res.Elapsed.Round(time.Millisecond),
	)
	if o.recorder != nil {
		o.recorder.ObserveResult(res)
	}
	return res, nil
}

func runStatus(s pbmodel.Status) domain.RunStatus {
	switch s {
	case pbmodel.StatusOptimal:
		return domain.StatusOptimal
	case pbmodel.StatusFeasible:
		return domain.StatusFeasible
	}
	return domain.StatusNoSolution
}
