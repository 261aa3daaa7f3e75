package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Anton2181/partykajson/internal/penalty"
)

// ValidationError is a single invalid field.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "\n  %d. %s", i+1, err.Error())
	}
	return sb.String()
}

func (e ValidationErrors) Unwrap() error { return ErrInvalidConfig }

func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

func ValidLogFormats() []string {
	return []string{"text", "json"}
}

// Validate returns nil or ValidationErrors listing every problem found.
// The returned error matches ErrInvalidConfig with errors.Is.
func (c *Config) Validate() error {
	var errs ValidationErrors
	errs = append(errs, c.validateOptimizer()...)
	errs = append(errs, c.validateLog()...)

	if c.Sweep.Workers < 1 {
		errs = append(errs, ValidationError{Field: "sweep.workers", Value: c.Sweep.Workers, Message: "must be at least 1"})
	}
	if c.Progress.NATSURL != "" && c.Progress.Subject == "" {
		errs = append(errs, ValidationError{Field: "progress.subject", Value: c.Progress.Subject, Message: "required when nats_url is set"})
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (c *Config) validateOptimizer() []ValidationError {
	var errs []ValidationError
	o := c.Optimizer

	if o.PenaltyRatio < 2 {
		errs = append(errs, ValidationError{Field: "optimizer.penalty_ratio", Value: o.PenaltyRatio, Message: "must be at least 2"})
	} else if l, err := penalty.NewLadder(activeRules(o.Ladder, o.DisabledRules), o.PenaltyRatio); err == nil && l.Saturated() {
		errs = append(errs, ValidationError{
			Field:   "optimizer.penalty_ratio",
			Value:   o.PenaltyRatio,
			Message: fmt.Sprintf("too large for %d active rules (top cost passes %d)", len(l.Names()), penalty.MaxCost),
		})
	}
	if o.EffortThreshold < 0 {
		errs = append(errs, ValidationError{Field: "optimizer.effort_threshold", Value: o.EffortThreshold, Message: "must be non-negative"})
	}
	if o.TimeLimitSeconds < 0 {
		errs = append(errs, ValidationError{Field: "optimizer.time_limit_seconds", Value: o.TimeLimitSeconds, Message: "must be non-negative"})
	}

	seen := make(map[string]bool, len(o.Ladder))
	for i, name := range o.Ladder {
		field := fmt.Sprintf("optimizer.ladder[%d]", i)
		if !penalty.Known(name) {
			errs = append(errs, ValidationError{Field: field, Value: name, Message: "unknown rule"})
		}
		if seen[name] {
			errs = append(errs, ValidationError{Field: field, Value: name, Message: "duplicate rule"})
		}
		seen[name] = true
	}
	for i, name := range o.DisabledRules {
		if !penalty.Known(name) {
			errs = append(errs, ValidationError{Field: fmt.Sprintf("optimizer.disabled_rules[%d]", i), Value: name, Message: "unknown rule"})
		}
	}
	for i, pair := range o.PreferredPairs {
		field := fmt.Sprintf("optimizer.preferred_pairs[%d]", i)
		switch {
		case len(pair) != 2:
			errs = append(errs, ValidationError{Field: field, Value: pair, Message: "must name exactly two people"})
		case pair[0] == "" || pair[1] == "":
			errs = append(errs, ValidationError{Field: field, Value: pair, Message: "names must not be empty"})
		case pair[0] == pair[1]:
			errs = append(errs, ValidationError{Field: field, Value: pair, Message: "must name two different people"})
		}
	}
	return errs
}

func (c *Config) validateLog() []ValidationError {
	var errs []ValidationError
	if !slices.Contains(ValidLogLevels(), strings.ToLower(c.Log.Level)) {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Value:   c.Log.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}
	if !slices.Contains(ValidLogFormats(), strings.ToLower(c.Log.Format)) {
		errs = append(errs, ValidationError{
			Field:   "log.format",
			Value:   c.Log.Format,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogFormats(), ", ")),
		})
	}
	return errs
}

func activeRules(ladder, disabled []string) []string {
	if len(ladder) == 0 {
		ladder = penalty.DefaultOrder
	}
	return penalty.Active(ladder, disabled)
}
