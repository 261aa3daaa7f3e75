package optimizer

import (
	"fmt"
	"time"
)

// Progress describes one improving solution.
type Progress struct {
	Solution  int
	Elapsed   time.Duration
	Objective int64
	// Penalties is the number of objective terms currently paying a cost.
	Penalties int
}

// Line renders the progress line printed while solving.
func (p Progress) Line() string {
	return fmt.Sprintf("Solution %d, time = %.2f s, objective = %d, penalties = %d",
		p.Solution, p.Elapsed.Seconds(), p.Objective, p.Penalties)
}
