// Package sweep solves the same groups under several optimizer
// configurations in parallel, for comparing ratios or the effect of
// disabling a rule.
package sweep

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"github.com/Anton2181/partykajson/internal/domain"
	"github.com/Anton2181/partykajson/internal/optimizer"
	"github.com/Anton2181/partykajson/internal/pbmodel"
	"github.com/puzpuzpuz/xsync/v4"
	"golang.org/x/sync/errgroup"
)

// Variant is one named configuration to solve with.
type Variant struct {
	Name   string
	Config optimizer.Config
}

// Outcome is the result of one variant. Err is set when the variant could
// not be solved; other variants still run.
type Outcome struct {
	Variant string
	Result  *optimizer.Result
	Err     error
}

// Runner solves variants concurrently.
type Runner struct {
	engine   pbmodel.Engine
	workers  int
	logger   *slog.Logger
	recorder optimizer.Recorder
}

type Option func(*Runner)

func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithRecorder attaches a recorder shared by every variant's optimizer.
func WithRecorder(rec optimizer.Recorder) Option {
	return func(r *Runner) { r.recorder = rec }
}

func NewRunner(engine pbmodel.Engine, workers int, opts ...Option) *Runner {
	if workers < 1 {
		workers = 1
	}
	r := &Runner{engine: engine, workers: workers, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run solves every variant with its own optimizer, at most workers at a
// time. Variant names must be unique. Per-variant failures are reported in
// the outcome; Run itself fails only on bad input or cancellation.
func (r *Runner) Run(ctx context.Context, groups []domain.Group, roster []domain.TeamMember, variants []Variant) ([]Outcome, error) {
	seen := make(map[string]bool, len(variants))
	for _, v := range variants {
		if seen[v.Name] {
			return nil, fmt.Errorf("duplicate variant name %q", v.Name)
		}
		seen[v.Name] = true
	}

	outcomes := xsync.NewMap[string, Outcome]()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for _, v := range variants {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := r.solve(gctx, v, groups, roster)
			if err != nil {
				r.logger.Warn("sweep variant failed", "variant", v.Name, "error", err)
			} else {
				r.logger.Info("sweep variant solved", "variant", v.Name, "status", res.Status, "objective", res.Objective)
			}
			outcomes.Store(v.Name, Outcome{Variant: v.Name, Result: res, Err: err})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("running sweep: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("running sweep: %w", err)
	}

	out := make([]Outcome, 0, outcomes.Size())
	outcomes.Range(func(_ string, o Outcome) bool {
		out = append(out, o)
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Variant < out[j].Variant })
	return out, nil
}

func (r *Runner) solve(ctx context.Context, v Variant, groups []domain.Group, roster []domain.TeamMember) (*optimizer.Result, error) {
	opts := []optimizer.Option{optimizer.WithLogger(r.logger.With("variant", v.Name))}
	if r.recorder != nil {
		opts = append(opts, optimizer.WithRecorder(r.recorder))
	}
	opt, err := optimizer.New(v.Config, r.engine, opts...)
	if err != nil {
		return nil, err
	}
	return opt.Solve(ctx, groups, roster, nil)
}

// RatioVariants derives one variant per penalty ratio, named "ratio=N".
func RatioVariants(base optimizer.Config, ratios []int) []Variant {
	out := make([]Variant, 0, len(ratios))
	for _, ratio := range ratios {
		cfg := clone(base)
		cfg.PenaltyRatio = ratio
		out = append(out, Variant{Name: "ratio=" + strconv.Itoa(ratio), Config: cfg})
	}
	return out
}

// DisableVariants derives the baseline plus one variant per rule with that
// rule switched off, named "baseline" and "without <rule>".
func DisableVariants(base optimizer.Config, rules []string) []Variant {
	out := []Variant{{Name: "baseline", Config: clone(base)}}
	for _, rule := range rules {
		cfg := clone(base)
		cfg.DisabledRules = append(cfg.DisabledRules, rule)
		out = append(out, Variant{Name: "without " + rule, Config: cfg})
	}
	return out
}

func clone(c optimizer.Config) optimizer.Config {
	c.Ladder = append([]string(nil), c.Ladder...)
	c.DisabledRules = append([]string(nil), c.DisabledRules...)
	c.PreferredPairs = append([][2]string(nil), c.PreferredPairs...)
	return c
}
