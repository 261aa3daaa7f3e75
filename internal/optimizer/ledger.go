package optimizer

import (
	"sort"

	"github.com/Anton2181/partykajson/internal/domain"
	"github.com/Anton2181/partykajson/internal/pbmodel"
	"github.com/Anton2181/partykajson/internal/penalty"
)

type step struct {
	lit  pbmodel.Lit
	cost int64
}

// entry is one attributable penalty: the objective terms it added and how
// to describe it once a solution is known. Reported costs are computed from
// the same steps that went into the objective.
type entry struct {
	rule    string
	person  string
	groupID string
	steps   []step
	details func(values []bool) string
}

// charge records e and adds its steps to the objective.
func (b *builder) charge(e *entry) {
	kept := e.steps[:0]
	for _, s := range e.steps {
		if s.cost <= 0 {
			continue
		}
		b.m.Minimize(s.lit, s.cost)
		kept = append(kept, s)
	}
	if len(kept) == 0 {
		return
	}
	e.steps = kept
	b.ledger = append(b.ledger, e)
}

func (e *entry) cost(values []bool) int64 {
	var total int64
	for _, s := range e.steps {
		if pbmodel.Value(values, s.lit) {
			total = penalty.SatAdd(total, s.cost)
		}
	}
	return total
}

// activePenalties counts ledger entries with a nonzero cost under values.
func (b *builder) activePenalties(values []bool) int {
	n := 0
	for _, e := range b.ledger {
		if e.cost(values) > 0 {
			n++
		}
	}
	return n
}

func (b *builder) penalties(values []bool) []domain.PenaltyRecord {
	var out []domain.PenaltyRecord
	for _, e := range b.ledger {
		c := e.cost(values)
		if c <= 0 {
			continue
		}
		out = append(out, domain.PenaltyRecord{
			Rule:    e.rule,
			Person:  e.person,
			GroupID: e.groupID,
			Cost:    c,
			Details: e.details(values),
		})
	}
	SortPenalties(out)
	return out
}

// SortPenalties orders by cost descending, then rule, person and group id.
func SortPenalties(ps []domain.PenaltyRecord) {
	sort.SliceStable(ps, func(i, j int) bool {
		a, c := ps[i], ps[j]
		if a.Cost != c.Cost {
			return a.Cost > c.Cost
		}
		if a.Rule != c.Rule {
			return a.Rule < c.Rule
		}
		if a.Person != c.Person {
			return a.Person < c.Person
		}
		return a.GroupID < c.GroupID
	})
}

func (b *builder) assignments(values []bool) []domain.Assignment {
	out := make([]domain.Assignment, 0, b.reg.Len())
	for i := 0; i < b.reg.Len(); i++ {
		g := b.reg.At(i)
		a := domain.Assignment{GroupID: g.ID, GroupName: g.Name, Method: domain.MethodUnassigned}
		for _, p := range b.cands[i] {
			if !pbmodel.Value(values, b.x[i][p]) {
				continue
			}
			a.Assignee = p
			a.Method = domain.MethodAutomatic
			if b.forced.IsForced(g.ID, p) {
				a.Method = domain.MethodManual
			}
			break
		}
		out = append(out, a)
	}
	return out
}
