package pbmodel

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// enumerate calls fn for every assignment satisfying the model's
// constraints.
func enumerate(m *Model, fn func(values []bool)) {
	n := m.NumVars()
	for mask := 0; mask < 1<<n; mask++ {
		values := make([]bool, n)
		for i := 0; i < n; i++ {
			values[i] = mask&(1<<i) != 0
		}
		if m.Check(values) == nil {
			fn(values)
		}
	}
}

// checkReified asserts that for every assignment of base, exactly one
// satisfying extension exists and y agrees with want.
func checkReified(t *testing.T, m *Model, base []Lit, y Lit, want func(values []bool) bool) {
	t.Helper()
	seen := make(map[int]int)
	enumerate(m, func(values []bool) {
		key := 0
		for i, l := range base {
			if Value(values, l) {
				key |= 1 << i
			}
		}
		seen[key]++
		assert.Equal(t, want(values), Value(values, y), "base assignment %b", key)
	})
	assert.Len(t, seen, 1<<len(base), "every base assignment must extend")
	for k, n := range seen {
		assert.Equal(t, 1, n, "base assignment %b has %d extensions", k, n)
	}
}

func TestAddGE_NormalisesNegativeWeights(t *testing.T) {
	m := New()
	a, b := m.NewVar("a"), m.NewVar("b")
	m.AddGE([]Term{{a, 2}, {b, -1}}, 1)
	require.Len(t, m.Constraints(), 1)
	c := m.Constraints()[0]
	assert.Equal(t, []Term{{a, 2}, {b.Not(), 1}}, c.Terms)
	assert.Equal(t, int64(2), c.Bound)
}

func TestAddGE_DropsTrivial(t *testing.T) {
	m := New()
	a := m.NewVar("a")
	m.AddGE([]Term{{a, 1}}, 0)
	m.AddLE([]Term{{a, 1}}, 1)
	assert.Empty(t, m.Constraints())
}

func TestExactlyOne(t *testing.T) {
	m := New()
	a, b, c := m.NewVar("a"), m.NewVar("b"), m.NewVar("c")
	m.AddExactlyOne(a, b, c)
	count := 0
	enumerate(m, func(values []bool) { count++ })
	assert.Equal(t, 3, count)
}

func TestAnd(t *testing.T) {
	m := New()
	a, b, c := m.NewVar("a"), m.NewVar("b"), m.NewVar("c")
	y := m.And("y", a, b.Not(), c)
	checkReified(t, m, []Lit{a, b, c}, y, func(v []bool) bool {
		return Value(v, a) && !Value(v, b) && Value(v, c)
	})
}

func TestOr(t *testing.T) {
	m := New()
	a, b := m.NewVar("a"), m.NewVar("b")
	y := m.Or("y", a, b)
	checkReified(t, m, []Lit{a, b}, y, func(v []bool) bool {
		return Value(v, a) || Value(v, b)
	})
}

func TestXor(t *testing.T) {
	m := New()
	a, b := m.NewVar("a"), m.NewVar("b")
	y := m.Xor("y", a, b)
	enumerate(m, func(v []bool) {
		assert.Equal(t, Value(v, a) != Value(v, b), Value(v, y))
	})
}

func TestAtLeast(t *testing.T) {
	for k := int64(1); k <= 6; k++ {
		m := New()
		a, b, c := m.NewVar("a"), m.NewVar("b"), m.NewVar("c")
		terms := []Term{{a, 1}, {b, 2}, {c.Not(), 3}}
		y := m.AtLeast("y", terms, k)
		checkReified(t, m, []Lit{a, b, c}, y, func(v []bool) bool {
			var sum int64
			for _, tm := range terms {
				if Value(v, tm.Lit) {
					sum += tm.Weight
				}
			}
			return sum >= k
		})
	}
}

func TestAtLeast_Degenerate(t *testing.T) {
	m := New()
	a := m.NewVar("a")
	always := m.Count("always", []Lit{a}, 0)
	never := m.Count("never", []Lit{a}, 2)
	enumerate(m, func(v []bool) {
		assert.True(t, Value(v, always))
		assert.False(t, Value(v, never))
	})
}

func TestMinimize_NegatedLiteralGetsAlias(t *testing.T) {
	m := New()
	a := m.NewVar("a")
	m.Minimize(a.Not(), 7)
	m.Minimize(a, 0)
	require.Len(t, m.Objective(), 1)
	alias := m.Objective()[0].Lit
	assert.Greater(t, int(alias), 0)
	enumerate(m, func(v []bool) {
		assert.Equal(t, !Value(v, a), Value(v, alias))
		want := int64(0)
		if !Value(v, a) {
			want = 7
		}
		assert.Equal(t, want, m.ObjectiveValue(v))
	})
}

func TestWriteOPB(t *testing.T) {
	m := New()
	a, b := m.NewVar("a"), m.NewVar("b")
	m.AddClause(a, b.Not())
	m.Minimize(b, 3)
	var buf bytes.Buffer
	require.NoError(t, m.WriteOPB(&buf))
	assert.Equal(t, "* #variable= 2 #constraint= 1\nmin: +3 x2 ;\n +1 x1 +1 ~x2 >= 1 ;\n", buf.String())
}
