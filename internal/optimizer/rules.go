package optimizer

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/Anton2181/partykajson/internal/pbmodel"
	"github.com/Anton2181/partykajson/internal/penalty"
)

const (
	familyTeaching  = "Teaching"
	familyAssisting = "Assisting"
)

// maxEffortLevels bounds the reachable effort levels charged exactly on
// each side of the level closest to the target. Levels further out are
// charged at the last kept level.
const maxEffortLevels = 200

func (b *builder) cost(rule string) int64 {
	return b.ladder.CostOf(rule)
}

func (b *builder) unassignedRule() {
	base := b.cost(penalty.RuleUnassigned)
	if base == 0 {
		return
	}
	for i := 0; i < b.reg.Len(); i++ {
		g := b.reg.At(i)
		b.charge(&entry{
			rule:    penalty.RuleUnassigned,
			groupID: g.ID,
			steps:   []step{{lit: b.unassigned[i], cost: base}},
			details: func([]bool) string {
				return fmt.Sprintf("Group: %s (ID: %s)", g.Name, g.ID)
			},
		})
	}
}

func (b *builder) underworkedRule() {
	base := b.cost(penalty.RuleUnderworked)
	threshold := scaledThreshold(b.cfg.EffortThreshold)
	if base == 0 || threshold <= 0 {
		return
	}
	for _, p := range b.active {
		enough := b.m.AtLeast("effort_ok["+p+"]", b.effortTerms(p), threshold)
		b.charge(&entry{
			rule:   penalty.RuleUnderworked,
			person: p,
			steps:  []step{{lit: enough.Not(), cost: base}},
			details: func(values []bool) string {
				return fmt.Sprintf("Total Effort: %.1f < %.1f", unscale(b.effort(values, p)), b.cfg.EffortThreshold)
			},
		})
	}
}

// personDays groups the candidate groups of person by week and day number.
// Floating groups are left out.
func (b *builder) personDays(person string) map[int]map[int][]int {
	out := make(map[int]map[int][]int)
	for _, i := range b.byPerson[person] {
		g := b.reg.At(i)
		d := g.DayNumber()
		if d == 0 {
			continue
		}
		if out[g.Week] == nil {
			out[g.Week] = make(map[int][]int)
		}
		out[g.Week][d] = append(out[g.Week][d], i)
	}
	return out
}

func (b *builder) multiWeekdayRule() {
	base := b.cost(penalty.RuleMultiWeekday)
	if base == 0 {
		return
	}
	for _, p := range b.active {
		byWeek := b.personDays(p)
		for _, week := range slices.Sorted(maps.Keys(byWeek)) {
			var days []int
			for _, d := range slices.Sorted(maps.Keys(byWeek[week])) {
				if d <= 6 {
					days = append(days, d)
				}
			}
			if len(days) < 2 {
				continue
			}
			worked := make([]pbmodel.Lit, len(days))
			for k, d := range days {
				worked[k] = b.m.Or(fmt.Sprintf("works[%s,W%d,%d]", p, week, d), b.lits(p, byWeek[week][d])...)
			}
			deltas := penalty.Deltas(penalty.Cascade(base, len(days)+1, 2))
			e := &entry{rule: penalty.RuleMultiWeekday, person: p}
			for k := 2; k <= len(days); k++ {
				c := b.m.Count(fmt.Sprintf("weekdays[%s,W%d]>=%d", p, week, k), worked, int64(k))
				e.steps = append(e.steps, step{lit: c, cost: deltas[k]})
			}
			dayIdx := byWeek[week]
			e.details = func(values []bool) string {
				var names []string
				for k, d := range days {
					if pbmodel.Value(values, worked[k]) {
						names = append(names, b.reg.At(dayIdx[d][0]).Day)
					}
				}
				return fmt.Sprintf("W%d: worked %d weekdays (%s)", week, len(names), strings.Join(names, ", "))
			}
			b.charge(e)
		}
	}
}

func (b *builder) inefficientDayRule() {
	base := b.cost(penalty.RuleInefficientDay)
	if base == 0 {
		return
	}
	for _, p := range b.active {
		byWeek := b.personDays(p)
		for _, week := range slices.Sorted(maps.Keys(byWeek)) {
			for _, d := range slices.Sorted(maps.Keys(byWeek[week])) {
				idx := byWeek[week][d]
				var terms []pbmodel.Term
				small := false
				for _, i := range idx {
					tc := int64(b.reg.At(i).TaskCount)
					if tc < 2 {
						small = true
					}
					if tc > 0 {
						terms = append(terms, pbmodel.Term{Lit: b.x[i][p], Weight: tc})
					}
				}
				if !small {
					continue
				}
				name := fmt.Sprintf("%s,W%d,%d", p, week, d)
				worked := b.m.Or("works["+name+"]", b.lits(p, idx)...)
				enough := b.m.AtLeast("tasks_ok["+name+"]", terms, 2)
				ineff := b.m.And("inefficient["+name+"]", worked, enough.Not())
				day := b.reg.At(idx[0]).Day
				b.charge(&entry{
					rule:   penalty.RuleInefficientDay,
					person: p,
					steps:  []step{{lit: ineff, cost: base}},
					details: func(values []bool) string {
						n := 0
						for _, i := range idx {
							if pbmodel.Value(values, b.x[i][p]) {
								n += b.reg.At(i).TaskCount
							}
						}
						return fmt.Sprintf("W%d %s: %d task(s)", week, day, n)
					},
				})
			}
		}
	}
}

func (b *builder) multiGeneralRule() {
	base := b.cost(penalty.RuleMultiGeneral)
	if base == 0 {
		return
	}
	for _, p := range b.active {
		var weekday, sunday []pbmodel.Lit
		for _, i := range b.byPerson[p] {
			switch d := b.reg.At(i).DayNumber(); {
			case d == 7:
				sunday = append(sunday, b.x[i][p])
			case d >= 1:
				weekday = append(weekday, b.x[i][p])
			}
		}
		if len(weekday) == 0 || len(sunday) == 0 {
			continue
		}
		both := b.m.And("weekday_and_sunday["+p+"]",
			b.m.Or("any_weekday["+p+"]", weekday...),
			b.m.Or("any_sunday["+p+"]", sunday...),
		)
		b.charge(&entry{
			rule:    penalty.RuleMultiGeneral,
			person:  p,
			steps:   []step{{lit: both, cost: base}},
			details: func([]bool) string { return "Worked on Weekday + Sunday" },
		})
	}
}

// familyGroups indexes the candidate groups of person by family.
func (b *builder) familyGroups(person string) map[string][]int {
	out := make(map[string][]int)
	for _, i := range b.byPerson[person] {
		f := b.reg.At(i).Family
		out[f] = append(out[f], i)
	}
	return out
}

func (b *builder) roleDiversityRule() {
	base := b.cost(penalty.RuleRoleDiversity)
	if base == 0 {
		return
	}
	for _, p := range b.active {
		byFamily := b.familyGroups(p)
		families := slices.Sorted(maps.Keys(byFamily))
		has := make([]pbmodel.Lit, len(families))
		missed := make([]pbmodel.Lit, len(families))
		for k, f := range families {
			has[k] = b.m.Or(fmt.Sprintf("in_family[%s,%s]", p, f), b.lits(p, byFamily[f])...)
			missed[k] = has[k].Not()
		}
		deltas := penalty.Deltas(penalty.Cascade(base, len(families)+1, 1))
		e := &entry{rule: penalty.RuleRoleDiversity, person: p}
		for k := 1; k <= len(families); k++ {
			c := b.m.Count(fmt.Sprintf("missed[%s]>=%d", p, k), missed, int64(k))
			e.steps = append(e.steps, step{lit: c, cost: deltas[k]})
		}
		e.details = func(values []bool) string {
			var names []string
			for k, f := range families {
				if !pbmodel.Value(values, has[k]) {
					names = append(names, f)
				}
			}
			return "Missed assignment in capable family: " + strings.Join(names, ", ")
		}
		b.charge(e)
	}
}

func (b *builder) teachingPreferenceRule() {
	base := b.cost(penalty.RuleTeachingPref)
	if base == 0 {
		return
	}
	for _, p := range b.active {
		byFamily := b.familyGroups(p)
		teaching, assisting := byFamily[familyTeaching], byFamily[familyAssisting]
		hasA := b.m.Or("assists["+p+"]", b.lits(p, assisting)...)

		switch {
		case len(teaching) > 0:
			hasT := b.m.Or("teaches["+p+"]", b.lits(p, teaching)...)
			neither := b.m.And("no_teach_no_assist["+p+"]", hasT.Not(), hasA.Not())
			assistOnly := b.m.And("assist_only["+p+"]", hasT.Not(), hasA)
			b.charge(&entry{
				rule:   penalty.RuleTeachingPref,
				person: p,
				steps: []step{
					{lit: neither, cost: base},
					{lit: assistOnly, cost: base / 2},
				},
				details: func(values []bool) string {
					if pbmodel.Value(values, neither) {
						return "Teaching-capable without teaching or assisting"
					}
					return "Teaching-capable but only assisting"
				},
			})
		case len(assisting) > 0:
			b.charge(&entry{
				rule:    penalty.RuleTeachingPref,
				person:  p,
				steps:   []step{{lit: hasA.Not(), cost: base}},
				details: func([]bool) string { return "Assisting-capable without assisting" },
			})
		}
	}
}

func (b *builder) teachingEqualityRule() {
	base := b.cost(penalty.RuleTeachingEquality)
	if base == 0 {
		return
	}
	for _, p := range b.active {
		byFamily := b.familyGroups(p)
		for _, fam := range []string{familyTeaching, familyAssisting} {
			idx := byFamily[fam]
			if len(idx) < 2 {
				continue
			}
			var auto []pbmodel.Lit
			for _, i := range idx {
				if !b.forced.IsForced(b.reg.At(i).ID, p) {
					auto = append(auto, b.x[i][p])
				}
			}
			if len(auto) == 0 {
				continue
			}
			name := p + "," + fam
			hasAuto := b.m.Or("has_auto["+name+"]", auto...)
			xs := b.lits(p, idx)
			deltas := penalty.Deltas(penalty.Cascade(base, len(xs)+1, 2))
			e := &entry{rule: penalty.RuleTeachingEquality, person: p}
			for k := 2; k <= len(xs); k++ {
				c := b.m.Count(fmt.Sprintf("count[%s]>=%d", name, k), xs, int64(k))
				e.steps = append(e.steps, step{
					lit:  b.m.And(fmt.Sprintf("hoard[%s]>=%d", name, k), c, hasAuto),
					cost: deltas[k],
				})
			}
			e.details = func(values []bool) string {
				total, manual := 0, 0
				for _, i := range idx {
					if !pbmodel.Value(values, b.x[i][p]) {
						continue
					}
					total++
					if b.forced.IsForced(b.reg.At(i).ID, p) {
						manual++
					}
				}
				return fmt.Sprintf("%d %s assignments (%d forced)", total, fam, manual)
			}
			b.charge(e)
		}
	}
}

type logicalKey struct {
	name string
	week int
	day  string
}

func (b *builder) preferredPairRule() {
	base := b.cost(penalty.RulePreferredPair)
	if base == 0 || len(b.cfg.PreferredPairs) == 0 {
		return
	}
	var keys []logicalKey
	clusters := make(map[logicalKey][]int)
	for i := 0; i < b.reg.Len(); i++ {
		g := b.reg.At(i)
		k := logicalKey{name: g.Name, week: g.Week, day: g.Day}
		if _, ok := clusters[k]; !ok {
			keys = append(keys, k)
		}
		clusters[k] = append(clusters[k], i)
	}

	for _, pair := range b.cfg.PreferredPairs {
		a, c := pair[0], pair[1]
		if a == c {
			continue
		}
		for _, k := range keys {
			idx := clusters[k]
			la, lc := b.lits(a, idx), b.lits(c, idx)
			if len(la) == 0 || len(lc) == 0 {
				continue
			}
			tag := fmt.Sprintf("%s,%s,%s,W%d,%s", a, c, k.name, k.week, k.day)
			inA := b.m.Or("present["+a+","+tag+"]", la...)
			inC := b.m.Or("present["+c+","+tag+"]", lc...)
			b.pairSplit(a, c, inA, inC, k, b.reg.At(idx[0]).ID, base)
			b.pairSplit(c, a, inC, inA, k, b.reg.At(idx[0]).ID, base)
		}
	}
}

// pairSplit charges person when they appear in a logical group without
// their partner.
func (b *builder) pairSplit(person, partner string, in, partnerIn pbmodel.Lit, k logicalKey, groupID string, base int64) {
	alone := b.m.And(fmt.Sprintf("alone[%s,%s,%s,W%d,%s]", person, partner, k.name, k.week, k.day), in, partnerIn.Not())
	b.charge(&entry{
		rule:    penalty.RulePreferredPair,
		person:  person,
		groupID: groupID,
		steps:   []step{{lit: alone, cost: base}},
		details: func([]bool) string {
			return fmt.Sprintf("Without preferred partner %s in %s (W%d %s)", partner, k.name, k.week, k.day)
		},
	})
}

// effortEqualizationRule charges ((effort - target)^2 / 100) * base per
// person, on scaled effort. Only efforts some subset of the person's groups
// adds up to are levels; between two levels the cost steps by the
// difference, so every reachable effort is charged exactly.
func (b *builder) effortEqualizationRule() {
	base := b.cost(penalty.RuleEffortEqualize)
	if base == 0 || len(b.active) == 0 {
		return
	}
	var total int64
	for _, s := range b.scaled {
		total += s
	}
	target := (total + int64(len(b.active))/2) / int64(len(b.active))
	deviation := func(e int64) int64 {
		d := e - target
		return penalty.SatMul(penalty.SatMul(d, d)/100, base)
	}

	for _, p := range b.active {
		terms := b.effortTerms(p)
		levels := reachableEfforts(terms)
		near := 0
		for i, v := range levels {
			if deviation(v) < deviation(levels[near]) {
				near = i
			}
		}
		lo := max(0, near-maxEffortLevels)
		hi := min(len(levels)-1, near+maxEffortLevels)
		atLeast := func(i int) pbmodel.Lit {
			return b.m.AtLeast(fmt.Sprintf("effort[%s]>=%d", p, levels[i]), terms, levels[i])
		}

		e := &entry{rule: penalty.RuleEffortEqualize, person: p}
		if floor := deviation(levels[near]); floor > 0 {
			e.steps = append(e.steps, step{lit: b.m.True(), cost: floor})
		}
		for i := near + 1; i <= hi; i++ {
			e.steps = append(e.steps, step{lit: atLeast(i), cost: deviation(levels[i]) - deviation(levels[i-1])})
		}
		for i := near - 1; i >= lo; i-- {
			e.steps = append(e.steps, step{lit: atLeast(i + 1).Not(), cost: deviation(levels[i]) - deviation(levels[i+1])})
		}
		e.details = func(values []bool) string {
			return fmt.Sprintf("Effort %.1f vs target %.1f", unscale(b.effort(values, p)), unscale(target))
		}
		b.charge(e)
	}
}

// reachableEfforts lists, ascending, every total a subset of terms sums to.
// The first level is always 0.
func reachableEfforts(terms []pbmodel.Term) []int64 {
	var reach int64
	for _, t := range terms {
		reach += t.Weight
	}
	set := make([]uint64, reach/64+1)
	set[0] = 1
	for _, t := range terms {
		shiftOr(set, t.Weight)
	}
	var levels []int64
	for v := int64(0); v <= reach; v++ {
		if set[v/64]&(1<<uint(v%64)) != 0 {
			levels = append(levels, v)
		}
	}
	return levels
}

// shiftOr sets set |= set << k for k > 0.
func shiftOr(set []uint64, k int64) {
	words, bits := int(k/64), uint(k%64)
	for i := len(set) - 1; i >= words; i-- {
		v := set[i-words] << bits
		if bits > 0 && i-words > 0 {
			v |= set[i-words-1] >> (64 - bits)
		}
		set[i] |= v
	}
}
