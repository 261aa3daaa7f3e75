package aggregate

import (
	"sort"

	"github.com/Anton2181/partykajson/internal/domain"
)

// intersectCandidates returns the people eligible for every task, sorted.
func intersectCandidates(tasks []domain.Task) []string {
	if len(tasks) == 0 {
		return nil
	}
	common := make(map[string]bool)
	for _, c := range tasks[0].Candidates {
		common[c] = true
	}
	for _, t := range tasks[1:] {
		next := make(map[string]bool, len(common))
		for _, c := range t.Candidates {
			if common[c] {
				next[c] = true
			}
		}
		common = next
	}
	out := make([]string, 0, len(common))
	for c := range common {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// finalizeCandidates derives the role-filtered and priority lists from the
// group's candidate list. People missing from the roster are filtered out.
func finalizeCandidates(g *domain.Group, roster domain.Roster, priority []string) {
	filtered := make([]string, 0, len(g.CandidateList))
	for _, c := range g.CandidateList {
		if canServe(roster, c, g.Role) {
			filtered = append(filtered, c)
		}
	}
	g.FilteredCandidateList = filtered

	if len(priority) == 0 {
		g.PriorityCandidateList = nil
		g.FilteredPriorityCandidateList = nil
		return
	}
	allow := make(map[string]bool, len(priority))
	for _, p := range priority {
		allow[p] = true
	}
	g.PriorityCandidateList = keep(g.CandidateList, allow)
	g.FilteredPriorityCandidateList = keep(filtered, allow)
}

func keep(names []string, allow map[string]bool) []string {
	var out []string
	for _, n := range names {
		if allow[n] {
			out = append(out, n)
		}
	}
	return out
}

func sortedUnique(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
