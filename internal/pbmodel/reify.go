package pbmodel

// And returns a literal equivalent to the conjunction of lits.
func (m *Model) And(name string, lits ...Lit) Lit {
	switch len(lits) {
	case 0:
		return m.True()
	case 1:
		return lits[0]
	}
	y := m.NewVar(name)
	back := make([]Lit, 0, len(lits)+1)
	back = append(back, y)
	for _, l := range lits {
		m.AddClause(y.Not(), l)
		back = append(back, l.Not())
	}
	m.AddClause(back...)
	return y
}

// Or returns a literal equivalent to the disjunction of lits.
func (m *Model) Or(name string, lits ...Lit) Lit {
	switch len(lits) {
	case 0:
		return m.False()
	case 1:
		return lits[0]
	}
	y := m.NewVar(name)
	fwd := make([]Lit, 0, len(lits)+1)
	fwd = append(fwd, y.Not())
	for _, l := range lits {
		m.AddClause(l.Not(), y)
		fwd = append(fwd, l)
	}
	m.AddClause(fwd...)
	return y
}

// Xor returns a literal true when exactly one of a, b holds.
func (m *Model) Xor(name string, a, b Lit) Lit {
	return m.Or(name,
		m.And(name+".a", a, b.Not()),
		m.And(name+".b", a.Not(), b),
	)
}

// AtLeast returns a literal equivalent to sum(w*l) >= k. Weights must be
// positive.
func (m *Model) AtLeast(name string, terms []Term, k int64) Lit {
	var total int64
	for _, t := range terms {
		total += t.Weight
	}
	if k <= 0 {
		return m.True()
	}
	if k > total {
		return m.False()
	}

	s := m.NewVar(name)
	// s -> sum >= k
	ge := make([]Term, 0, len(terms)+1)
	ge = append(ge, terms...)
	ge = append(ge, Term{Lit: s, Weight: -k})
	m.AddGE(ge, 0)

	// ~s -> sum <= k-1
	le := make([]Term, 0, len(terms)+1)
	le = append(le, terms...)
	le = append(le, Term{Lit: s, Weight: -(total - k + 1)})
	m.AddLE(le, k-1)
	return s
}

// Count is AtLeast with unit weights.
func (m *Model) Count(name string, lits []Lit, k int64) Lit {
	return m.AtLeast(name, unitTerms(lits), k)
}
