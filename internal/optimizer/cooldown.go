package optimizer

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Anton2181/partykajson/internal/penalty"
)

// maxStreak is the longest weekly chain that carries its own cost.
const maxStreak = 5

// streakMultiplier scales the pairwise cooldown cost for a chain of the
// given length. Summed over every sub-chain and pair of a streak the total
// grows by 3x per extra week.
var streakMultiplier = map[int]int64{3: 1, 4: 4, 5: 12}

func (b *builder) intraCooldownRule() {
	base := b.cost(penalty.RuleIntraCooldown)
	if base == 0 {
		return
	}
	seen := make(map[[2]int]bool)
	for i := 0; i < b.reg.Len(); i++ {
		g := b.reg.At(i)
		for _, id := range g.IntraCooldownGroups {
			j := b.reg.Index(id)
			if j < 0 || j == i {
				continue
			}
			key := [2]int{min(i, j), max(i, j)}
			if seen[key] {
				continue
			}
			seen[key] = true
			first, second := b.reg.At(key[0]), b.reg.At(key[1])
			for _, p := range b.common(key[0], key[1]) {
				if b.forced.AllForced(p, first.ID, second.ID) {
					continue
				}
				both := b.m.And(fmt.Sprintf("intra[%s,%s,%s]", p, first.ID, second.ID), b.x[key[0]][p], b.x[key[1]][p])
				b.charge(&entry{
					rule:    penalty.RuleIntraCooldown,
					person:  p,
					groupID: first.ID,
					steps:   []step{{lit: both, cost: base}},
					details: func([]bool) string {
						return fmt.Sprintf("Intra-week: %s & %s", first.Name, second.Name)
					},
				})
			}
		}
	}
}

// cooldownEdges links every group to the same-family groups of the
// following week. Edges always point forward in time, so the graph is
// acyclic.
func (b *builder) cooldownEdges() [][]int {
	next := make([][]int, b.reg.Len())
	for i := 0; i < b.reg.Len(); i++ {
		g := b.reg.At(i)
		for _, id := range g.CooldownGroups {
			j := b.reg.Index(id)
			if j < 0 || b.reg.At(j).Week != g.Week+1 {
				continue
			}
			next[i] = append(next[i], j)
		}
		slices.Sort(next[i])
		next[i] = slices.Compact(next[i])
	}
	return next
}

func (b *builder) cooldownRule() {
	base := b.cost(penalty.RuleCooldown)
	if base == 0 {
		return
	}
	next := b.cooldownEdges()

	for i, targets := range next {
		from := b.reg.At(i)
		for _, j := range targets {
			to := b.reg.At(j)
			for _, p := range b.common(i, j) {
				if b.forced.AllForced(p, from.ID, to.ID) {
					continue
				}
				both := b.m.And(fmt.Sprintf("cooldown[%s,%s,%s]", p, from.ID, to.ID), b.x[i][p], b.x[j][p])
				b.charge(&entry{
					rule:    penalty.RuleCooldown,
					person:  p,
					groupID: from.ID,
					steps:   []step{{lit: both, cost: base}},
					details: func([]bool) string {
						return fmt.Sprintf("%s (W%d) & %s (W%d)", from.Name, from.Week, to.Name, to.Week)
					},
				})
			}
		}
	}

	for start := range next {
		stack := [][]int{{start}}
		for len(stack) > 0 {
			path := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, j := range next[path[len(path)-1]] {
				chain := append(slices.Clone(path), j)
				if len(chain) >= 3 {
					b.streak(chain, base)
				}
				if len(chain) < maxStreak {
					stack = append(stack, chain)
				}
			}
		}
	}
}

func (b *builder) streak(chain []int, base int64) {
	cost := penalty.SatMul(base, streakMultiplier[len(chain)])
	ids := b.ids(chain)
	weeks := make([]string, len(chain))
	for k, i := range chain {
		weeks[k] = fmt.Sprintf("W%d", b.reg.At(i).Week)
	}
	for _, p := range b.common(chain...) {
		if b.forced.AllForced(p, ids...) {
			continue
		}
		all := b.m.And(fmt.Sprintf("streak[%s,%s]", p, strings.Join(ids, ">")), b.lits(p, chain)...)
		b.charge(&entry{
			rule:    penalty.RuleCooldown,
			person:  p,
			groupID: ids[0],
			steps:   []step{{lit: all, cost: cost}},
			details: func([]bool) string {
				return fmt.Sprintf("Geometric Streak (%d weeks): %s", len(chain), strings.Join(weeks, " -> "))
			},
		})
	}
}
