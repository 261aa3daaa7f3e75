// Package metrics exposes solver and aggregation metrics on a private
// Prometheus registry. A batch tool has no scrape endpoint, so the registry
// is dumped in text exposition format for the node exporter textfile
// collector.
package metrics

import (
	"fmt"

	"github.com/Anton2181/partykajson/internal/optimizer"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "partyka"

// Solver collects metrics for every solve it observes.
type Solver struct {
	reg *prometheus.Registry

	duration   prometheus.Histogram
	incumbents prometheus.Counter
	objective  prometheus.Gauge
	runs       *prometheus.CounterVec
	groups     prometheus.Gauge
}

var _ optimizer.Recorder = (*Solver)(nil)

// NewSolver creates the collectors and registers them on a fresh registry.
func NewSolver() *Solver {
	s := &Solver{reg: prometheus.NewRegistry()}

	s.duration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "solver",
		Name:      "solve_duration_seconds",
		Help:      "Wall time of a solve in seconds.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12), // 50ms .. ~100s
	})
	s.incumbents = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "solver",
		Name:      "incumbents_total",
		Help:      "Improving solutions reported by the engine.",
	})
	s.objective = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "solver",
		Name:      "objective",
		Help:      "Objective of the most recent solve.",
	})
	s.runs = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "solver",
		Name:      "runs_total",
		Help:      "Finished solves by status (optimal, feasible, no_solution).",
	}, []string{"status"})
	s.groups = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "aggregate",
		Name:      "groups",
		Help:      "Groups produced by the most recent aggregation.",
	})

	s.reg.MustRegister(s.duration, s.incumbents, s.objective, s.runs, s.groups)
	return s
}

// Registry exposes the underlying registry, mostly for tests.
func (s *Solver) Registry() *prometheus.Registry { return s.reg }

func (s *Solver) ObserveIncumbent(optimizer.Progress) {
	s.incumbents.Inc()
}

func (s *Solver) ObserveResult(r *optimizer.Result) {
	if r == nil {
		return
	}
	s.duration.Observe(r.Elapsed.Seconds())
	s.runs.WithLabelValues(string(r.Status)).Inc()
	if r.Status.HasSolution() {
		s.objective.Set(float64(r.Objective))
	}
}

// ObserveGroups records the size of an aggregation result.
func (s *Solver) ObserveGroups(n int) {
	s.groups.Set(float64(n))
}

// WriteTextfile writes every collected metric to path. The file is
// replaced atomically.
func (s *Solver) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, s.reg); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
