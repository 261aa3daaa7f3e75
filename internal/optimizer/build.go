package optimizer

import (
	"fmt"
	"math"
	"sort"

	"github.com/Anton2181/partykajson/internal/domain"
	"github.com/Anton2181/partykajson/internal/forced"
	"github.com/Anton2181/partykajson/internal/pbmodel"
	"github.com/Anton2181/partykajson/internal/penalty"
)

// effortScale turns fractional effort into integers with one decimal of
// precision.
const effortScale = 10

type builder struct {
	cfg    Config
	ladder *penalty.Ladder
	reg    *domain.Registry
	roster domain.Roster
	forced *forced.Set
	m      *pbmodel.Model

	cands      [][]string
	x          []map[string]pbmodel.Lit
	unassigned []pbmodel.Lit
	scaled     []int64
	byPerson   map[string][]int
	active     []string

	ledger []*entry
}

func newBuilder(cfg Config, ladder *penalty.Ladder, reg *domain.Registry, roster domain.Roster, fs *forced.Set) *builder {
	return &builder{
		cfg:      cfg,
		ladder:   ladder,
		reg:      reg,
		roster:   roster,
		forced:   fs,
		m:        pbmodel.New(),
		byPerson: make(map[string][]int),
	}
}

func (b *builder) build() {
	b.variables()
	b.hardConstraints()

	b.unassignedRule()
	b.underworkedRule()
	b.intraCooldownRule()
	b.teachingPreferenceRule()
	b.multiWeekdayRule()
	b.teachingEqualityRule()
	b.roleDiversityRule()
	b.inefficientDayRule()
	b.multiGeneralRule()
	b.cooldownRule()
	b.preferredPairRule()
	b.effortEqualizationRule()
}

func (b *builder) variables() {
	n := b.reg.Len()
	b.cands = make([][]string, n)
	b.x = make([]map[string]pbmodel.Lit, n)
	b.unassigned = make([]pbmodel.Lit, n)
	b.scaled = make([]int64, n)

	for i := 0; i < n; i++ {
		g := b.reg.At(i)
		b.cands[i] = g.Candidates()
		b.x[i] = make(map[string]pbmodel.Lit, len(b.cands[i]))
		for _, p := range b.cands[i] {
			b.x[i][p] = b.m.NewVar(fmt.Sprintf("x[%s,%s]", g.ID, p))
			b.byPerson[p] = append(b.byPerson[p], i)
		}
		b.unassigned[i] = b.m.NewVar("unassigned[" + g.ID + "]")
		if e := math.Round(g.Effort * effortScale); e > 0 {
			b.scaled[i] = int64(e)
		}
	}

	for name := range b.roster {
		if len(b.byPerson[name]) > 0 {
			b.active = append(b.active, name)
		}
	}
	sort.Strings(b.active)
}

func (b *builder) hardConstraints() {
	for i := 0; i < b.reg.Len(); i++ {
		g := b.reg.At(i)
		one := make([]pbmodel.Lit, 0, len(b.cands[i])+1)
		for _, p := range b.cands[i] {
			one = append(one, b.x[i][p])
		}
		one = append(one, b.unassigned[i])
		b.m.AddExactlyOne(one...)

		if g.Assignee != "" {
			b.m.Fix(b.x[i][g.Assignee], true)
			continue
		}
		if len(g.FilteredPriorityCandidateList) > 0 {
			prio := make(map[string]bool, len(g.FilteredPriorityCandidateList))
			for _, p := range g.FilteredPriorityCandidateList {
				prio[p] = true
			}
			for _, p := range b.cands[i] {
				if !prio[p] {
					b.m.Fix(b.x[i][p], false)
				}
			}
		}
	}

	seen := make(map[[2]int]bool)
	for i := 0; i < b.reg.Len(); i++ {
		g := b.reg.At(i)
		for _, id := range g.ExclusiveGroups {
			j := b.reg.Index(id)
			if j < 0 || j == i {
				continue
			}
			key := [2]int{min(i, j), max(i, j)}
			if seen[key] {
				continue
			}
			seen[key] = true
			t := b.reg.At(j)
			for _, p := range b.common(i, j) {
				if g.Assignee == p && t.Assignee == p {
					continue
				}
				b.m.AddAtMostOne(b.x[i][p], b.x[j][p])
			}
		}
	}
}

// common lists people who are candidates of every given group.
func (b *builder) common(idx ...int) []string {
	if len(idx) == 0 {
		return nil
	}
	var out []string
	for _, p := range b.cands[idx[0]] {
		ok := true
		for _, j := range idx[1:] {
			if _, in := b.x[j][p]; !in {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, p)
		}
	}
	return out
}

func (b *builder) lits(person string, idx []int) []pbmodel.Lit {
	out := make([]pbmodel.Lit, 0, len(idx))
	for _, i := range idx {
		if l, ok := b.x[i][person]; ok {
			out = append(out, l)
		}
	}
	return out
}

func (b *builder) effortTerms(person string) []pbmodel.Term {
	var terms []pbmodel.Term
	for _, i := range b.byPerson[person] {
		if b.scaled[i] > 0 {
			terms = append(terms, pbmodel.Term{Lit: b.x[i][person], Weight: b.scaled[i]})
		}
	}
	return terms
}

// effort is the scaled effort assigned to person under values.
func (b *builder) effort(values []bool, person string) int64 {
	var total int64
	for _, i := range b.byPerson[person] {
		if pbmodel.Value(values, b.x[i][person]) {
			total += b.scaled[i]
		}
	}
	return total
}

func (b *builder) ids(idx []int) []string {
	out := make([]string, len(idx))
	for k, i := range idx {
		out[k] = b.reg.At(i).ID
	}
	return out
}

func scaledThreshold(threshold float64) int64 {
	return int64(math.Round(threshold * effortScale))
}

func unscale(v int64) float64 {
	return float64(v) / effortScale
}
