// Package fingerprint hashes the inputs of a run so that identical runs
// can be detected and their stored results reused.
package fingerprint

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"

	"github.com/Anton2181/partykajson/internal/domain"
	"github.com/Anton2181/partykajson/internal/optimizer"
	"github.com/zeebo/xxh3"
)

// version is mixed into every hash; bump it when the encoding changes.
const version = 1

type optimizerInputs struct {
	Ladder          []string    `json:"ladder"`
	Disabled        []string    `json:"disabled"`
	Pairs           [][2]string `json:"pairs"`
	Ratio           int         `json:"ratio"`
	TimeLimitMillis int64       `json:"time_limit_ms"`
	Threshold       float64     `json:"threshold"`
}

type document struct {
	Version   int                 `json:"version"`
	Tasks     []domain.Task       `json:"tasks"`
	Families  []domain.Family     `json:"families"`
	Roster    []domain.TeamMember `json:"roster"`
	Optimizer optimizerInputs     `json:"optimizer"`
}

// Inputs returns the 128-bit xxh3 hash of the run inputs as 32 hex digits.
// Task and family order is significant because it drives aggregation; roster
// order, disabled rules and preferred pairs are normalised first.
func Inputs(tasks []domain.Task, families []domain.Family, roster []domain.TeamMember, cfg optimizer.Config) (string, error) {
	doc := document{
		Version:   version,
		Tasks:     tasks,
		Families:  families,
		Roster:    slices.Clone(roster),
		Optimizer: canonicalConfig(cfg),
	}
	sort.Slice(doc.Roster, func(i, j int) bool { return doc.Roster[i].Name < doc.Roster[j].Name })

	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encoding fingerprint inputs: %w", err)
	}
	h := xxh3.Hash128(data)
	return fmt.Sprintf("%016x%016x", h.Hi, h.Lo), nil
}

func canonicalConfig(cfg optimizer.Config) optimizerInputs {
	ladder := cfg.Ladder
	if len(ladder) == 0 {
		ladder = optimizer.DefaultConfig().Ladder
	}
	disabled := slices.Clone(cfg.DisabledRules)
	sort.Strings(disabled)

	pairs := make([][2]string, len(cfg.PreferredPairs))
	for i, p := range cfg.PreferredPairs {
		if p[1] < p[0] {
			p[0], p[1] = p[1], p[0]
		}
		pairs[i] = p
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})

	return optimizerInputs{
		Ladder:          ladder,
		Disabled:        disabled,
		Pairs:           pairs,
		Ratio:           cfg.PenaltyRatio,
		TimeLimitMillis: cfg.TimeLimit.Milliseconds(),
		Threshold:       cfg.EffortThreshold,
	}
}
