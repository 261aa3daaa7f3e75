package domain

import "time"

// Run is one persisted optimizer execution.
type Run struct {
	ID           string
	Label        string
	Fingerprint  string
	Status       RunStatus
	Objective    int64
	Solutions    int
	Elapsed      time.Duration
	PenaltyRatio int
	Ladder       []string
	GroupCount   int
	PenaltyCount int
	CreatedAt    time.Time
}

// RunDetail is a run together with everything it produced.
type RunDetail struct {
	Run         Run
	Groups      []Group
	Assignments []Assignment
	Penalties   []PenaltyRecord
}
