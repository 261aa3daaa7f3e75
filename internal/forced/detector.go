// Package forced classifies (group, person) pairs that are committed before
// optimisation starts. The same classification drives both the reported
// assignment method and the exemption of cooldown-style penalties.
package forced

import (
	"fmt"
	"sort"

	"github.com/Anton2181/partykajson/internal/domain"
)

// Reason explains why a pair is forced.
type Reason string

const (
	ReasonNone     Reason = ""
	ReasonManual   Reason = "manual"
	ReasonPriority Reason = "priority"
	ReasonSingle   Reason = "single-candidate"
	ReasonNForN    Reason = "n-for-n"
)

type pairKey struct {
	group  string
	person string
}

// Set is the lookup produced by Detect.
type Set struct {
	reasons map[pairKey]Reason
}

// Detect walks every group and every plausible candidate and records the
// first matching reason: manual assignee, priority list, sole eligible
// candidate, or an N-for-N cluster.
func Detect(groups []domain.Group) *Set {
	s := &Set{reasons: make(map[pairKey]Reason)}

	for i := range groups {
		g := &groups[i]
		eligible := g.EligibleList()
		priority := toSet(g.PriorityList())
		for _, person := range g.Candidates() {
			switch {
			case g.Assignee == person:
				s.mark(g.ID, person, ReasonManual)
			case priority[person]:
				s.mark(g.ID, person, ReasonPriority)
			case len(eligible) == 1 && eligible[0] == person:
				s.mark(g.ID, person, ReasonSingle)
			}
		}
	}

	for _, cluster := range nForNClusters(groups) {
		for _, g := range cluster {
			for _, person := range g.EligibleList() {
				s.mark(g.ID, person, ReasonNForN)
			}
		}
	}
	return s
}

func (s *Set) mark(groupID, person string, r Reason) {
	k := pairKey{groupID, person}
	if _, ok := s.reasons[k]; ok {
		return
	}
	s.reasons[k] = r
}

// IsForced reports whether person is pre-committed to the group.
func (s *Set) IsForced(groupID, person string) bool {
	_, ok := s.reasons[pairKey{groupID, person}]
	return ok
}

// Reason returns why the pair is forced, or ReasonNone.
func (s *Set) Reason(groupID, person string) Reason {
	return s.reasons[pairKey{groupID, person}]
}

// AllForced is the exemption predicate for relational penalties: true only
// when every listed group is forced for person.
func (s *Set) AllForced(person string, groupIDs ...string) bool {
	if len(groupIDs) == 0 {
		return false
	}
	for _, id := range groupIDs {
		if !s.IsForced(id, person) {
			return false
		}
	}
	return true
}

// Len is the number of forced pairs.
func (s *Set) Len() int { return len(s.reasons) }

// nForNClusters groups by (name, week), ignoring the day so duplicates
// spread over several days are caught, and returns the clusters whose
// distinct eligible people exactly match the number of groups.
func nForNClusters(groups []domain.Group) [][]*domain.Group {
	byKey := make(map[string][]*domain.Group)
	var keys []string
	for i := range groups {
		g := &groups[i]
		k := fmt.Sprintf("%s|%d", g.Name, g.Week)
		if _, ok := byKey[k]; !ok {
			keys = append(keys, k)
		}
		byKey[k] = append(byKey[k], g)
	}
	sort.Strings(keys)

	var out [][]*domain.Group
	for _, k := range keys {
		cluster := byKey[k]
		union := make(map[string]bool)
		for _, g := range cluster {
			for _, p := range g.EligibleList() {
				union[p] = true
			}
		}
		if len(union) > 0 && len(union) == len(cluster) {
			out = append(out, cluster)
		}
	}
	return out
}

func toSet(names []string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}
