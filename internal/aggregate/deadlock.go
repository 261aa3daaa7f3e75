package aggregate

import (
	"fmt"
	"log/slog"

	"github.com/Anton2181/partykajson/internal/domain"
)

// ResolveDeadlocks relaxes priority lists that cannot all be honoured.
//
// Groups are clustered by (week, day, name). A group is constrained when it
// has a manual assignee or a non-empty filtered priority list. When a
// cluster has more constrained groups than distinct people behind those
// constraints, every non-manual constrained group whose filtered list is
// wider than its priority list gets its priority list reset to the filtered
// list. Groups are edited in place; it returns the number relaxed.
func ResolveDeadlocks(groups []domain.Group, logger *slog.Logger) int {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	type clusterKey struct {
		week int
		day  string
		name string
	}
	var order []clusterKey
	clusters := make(map[clusterKey][]int)
	for i := range groups {
		k := clusterKey{groups[i].Week, groups[i].Day, groups[i].Name}
		if _, ok := clusters[k]; !ok {
			order = append(order, k)
		}
		clusters[k] = append(clusters[k], i)
	}

	relaxed := 0
	for _, k := range order {
		var constrained []int
		people := make(map[string]bool)
		for _, i := range clusters[k] {
			g := &groups[i]
			switch {
			case g.Assignee != "":
				constrained = append(constrained, i)
				people[g.Assignee] = true
			case len(g.FilteredPriorityCandidateList) > 0:
				constrained = append(constrained, i)
				for _, p := range g.FilteredPriorityCandidateList {
					people[p] = true
				}
			}
		}
		if len(constrained) == 0 || len(people) >= len(constrained) {
			continue
		}

		logger.Warn("priority deadlock, relaxing",
			"week", k.week, "day", k.day, "group", k.name,
			"slots", len(constrained), "candidates", len(people))

		note := fmt.Sprintf("Priority constraint relaxed (Deadlock: %d cands < %d slots)", len(people), len(constrained))
		for _, i := range constrained {
			g := &groups[i]
			if g.Assignee != "" {
				continue
			}
			if len(g.FilteredCandidateList) <= len(g.FilteredPriorityCandidateList) {
				continue
			}
			g.FilteredPriorityCandidateList = append([]string(nil), g.FilteredCandidateList...)
			g.Note = appendNote(g.Note, note)
			relaxed++
		}
	}
	return relaxed
}

func appendNote(existing, note string) string {
	if existing == "" {
		return note
	}
	return existing + "; " + note
}
