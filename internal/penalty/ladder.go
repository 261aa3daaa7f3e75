package penalty

import "fmt"

// DefaultRatio is the cost ratio between adjacent ladder ranks.
const DefaultRatio = 10

// Ladder maps an ordered list of rule names to geometrically decaying
// costs: cost[i] = ratio^(n-1-i).
//
// The ladder only approximates a lexicographic order. A higher rank wins
// as long as fewer than ratio violations accumulate on any lower rank.
type Ladder struct {
	names []string
	costs []int64
	rank  map[string]int
	ratio int
}

// NewLadder builds a ladder over names, highest priority first. Duplicate
// names are rejected; an empty list gives a ladder where every lookup is 0.
func NewLadder(names []string, ratio int) (*Ladder, error) {
	if ratio < 2 {
		return nil, fmt.Errorf("penalty ratio must be at least 2, got %d", ratio)
	}
	l := &Ladder{
		names: make([]string, len(names)),
		costs: make([]int64, len(names)),
		rank:  make(map[string]int, len(names)),
		ratio: ratio,
	}
	copy(l.names, names)
	n := len(names)
	for i, name := range names {
		if _, dup := l.rank[name]; dup {
			return nil, fmt.Errorf("rule %q appears twice in the ladder", name)
		}
		l.rank[name] = i
		l.costs[i] = Pow(int64(ratio), n-1-i)
	}
	return l, nil
}

// Active removes disabled rules from order before ranking, so the lowest
// active rule always costs 1.
func Active(order, disabled []string) []string {
	off := make(map[string]bool, len(disabled))
	for _, d := range disabled {
		off[d] = true
	}
	out := make([]string, 0, len(order))
	for _, name := range order {
		if !off[name] {
			out = append(out, name)
		}
	}
	return out
}

// Saturated reports whether the top rank was clamped at MaxCost. Such a
// ladder no longer separates its upper ranks and leaves no room for the
// objective to sum several top-rank charges.
func (l *Ladder) Saturated() bool {
	return len(l.costs) > 0 && l.costs[0] >= MaxCost
}

// Cost returns the cost at rank, or 0 when rank is out of range.
func (l *Ladder) Cost(rank int) int64 {
	if rank < 0 || rank >= len(l.costs) {
		return 0
	}
	return l.costs[rank]
}

// CostOf returns the cost of a rule, or 0 when it is not on the ladder.
func (l *Ladder) CostOf(name string) int64 {
	i, ok := l.rank[name]
	if !ok {
		return 0
	}
	return l.costs[i]
}

// Rank returns the position of name, or -1.
func (l *Ladder) Rank(name string) int {
	i, ok := l.rank[name]
	if !ok {
		return -1
	}
	return i
}

func (l *Ladder) Len() int { return len(l.names) }

func (l *Ladder) Ratio() int { return l.ratio }

// Names returns the rules in rank order.
func (l *Ladder) Names() []string {
	out := make([]string, len(l.names))
	copy(out, l.names)
	return out
}
