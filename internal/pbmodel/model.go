// Package pbmodel builds pseudo-boolean optimisation models: boolean
// variables, linear constraints over literals and a linear objective to
// minimise. Engines consume the normalised form where every constraint is
// sum(w*l) >= bound with positive weights.
package pbmodel

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// MaxObjective is the largest objective an engine accepts: the sum of all
// objective weights must stay at or below it. It equals the penalty cost
// ceiling.
const MaxObjective int64 = 9_000_000_000_000_000_000

// ErrObjectiveOverflow is returned by engines when the objective weights
// sum past MaxObjective.
var ErrObjectiveOverflow = errors.New("objective weights exceed the cost ceiling")

// Lit is a literal: a positive variable index, or its negation.
type Lit int

// Not returns the negated literal.
func (l Lit) Not() Lit { return -l }

// Var is the 1-based variable index behind the literal.
func (l Lit) Var() int {
	if l < 0 {
		return int(-l)
	}
	return int(l)
}

// Term is a weighted literal.
type Term struct {
	Lit    Lit
	Weight int64
}

// Constraint is sum(Weight*Lit) >= Bound with every weight positive.
type Constraint struct {
	Terms []Term
	Bound int64
}

// Model is a pseudo-boolean model under construction. It is not safe for
// concurrent use.
type Model struct {
	names       []string
	constraints []Constraint
	objective   []Term
	truth       Lit
}

func New() *Model {
	return &Model{}
}

// NewVar allocates a fresh variable and returns its positive literal.
func (m *Model) NewVar(name string) Lit {
	m.names = append(m.names, name)
	return Lit(len(m.names))
}

func (m *Model) NumVars() int { return len(m.names) }

// Name returns the variable name behind l, prefixed with ~ when negated.
func (m *Model) Name(l Lit) string {
	v := l.Var()
	if v < 1 || v > len(m.names) {
		return fmt.Sprintf("?%d", l)
	}
	if l < 0 {
		return "~" + m.names[v-1]
	}
	return m.names[v-1]
}

// True returns a literal fixed to true, allocated on first use.
func (m *Model) True() Lit {
	if m.truth == 0 {
		m.truth = m.NewVar("true")
		m.AddClause(m.truth)
	}
	return m.truth
}

// False returns a literal fixed to false.
func (m *Model) False() Lit {
	return m.True().Not()
}

// Fix forces l to v.
func (m *Model) Fix(l Lit, v bool) {
	if v {
		m.AddClause(l)
		return
	}
	m.AddClause(l.Not())
}

// AddClause requires at least one of lits to hold.
func (m *Model) AddClause(lits ...Lit) {
	m.AddGE(unitTerms(lits), 1)
}

// AddAtMostOne allows at most one of lits to hold.
func (m *Model) AddAtMostOne(lits ...Lit) {
	if len(lits) < 2 {
		return
	}
	m.AddLE(unitTerms(lits), 1)
}

// AddExactlyOne requires exactly one of lits to hold.
func (m *Model) AddExactlyOne(lits ...Lit) {
	m.AddClause(lits...)
	m.AddAtMostOne(lits...)
}

// AddGE adds sum(w*l) >= bound. Weights may be negative; they are
// normalised by negating the literal.
func (m *Model) AddGE(terms []Term, bound int64) {
	norm := make([]Term, 0, len(terms))
	for _, t := range terms {
		switch {
		case t.Weight > 0:
			norm = append(norm, t)
		case t.Weight < 0:
			// w*l == w + (-w)*~l
			norm = append(norm, Term{Lit: t.Lit.Not(), Weight: -t.Weight})
			bound -= t.Weight
		}
	}
	if bound <= 0 {
		return
	}
	m.constraints = append(m.constraints, Constraint{Terms: norm, Bound: bound})
}

// AddLE adds sum(w*l) <= bound.
func (m *Model) AddLE(terms []Term, bound int64) {
	neg := make([]Term, len(terms))
	for i, t := range terms {
		neg[i] = Term{Lit: t.Lit, Weight: -t.Weight}
	}
	m.AddGE(neg, -bound)
}

// Minimize adds cost*l to the objective. Non-positive costs are ignored.
// Negated literals are routed through an equivalent positive variable so
// the objective only ever references positive literals.
func (m *Model) Minimize(l Lit, cost int64) {
	if cost <= 0 {
		return
	}
	if l < 0 {
		alias := m.NewVar(m.Name(l))
		m.AddClause(alias.Not(), l)
		m.AddClause(alias, l.Not())
		l = alias
	}
	m.objective = append(m.objective, Term{Lit: l, Weight: cost})
}

func (m *Model) Constraints() []Constraint { return m.constraints }

func (m *Model) Objective() []Term { return m.objective }

// Value reports the value of l under an assignment indexed by variable-1.
func Value(values []bool, l Lit) bool {
	v := l.Var()
	if v < 1 || v > len(values) {
		return false
	}
	if l < 0 {
		return !values[v-1]
	}
	return values[v-1]
}

// ObjectiveValue evaluates the objective under values, saturating at
// MaxObjective.
func (m *Model) ObjectiveValue(values []bool) int64 {
	var total int64
	for _, t := range m.objective {
		if !Value(values, t.Lit) {
			continue
		}
		if t.Weight > MaxObjective-total {
			return MaxObjective
		}
		total += t.Weight
	}
	return total
}

// Check returns the first constraint violated by values, if any.
func (m *Model) Check(values []bool) error {
	for i, c := range m.constraints {
		var sum int64
		for _, t := range c.Terms {
			if Value(values, t.Lit) {
				sum += t.Weight
			}
		}
		if sum < c.Bound {
			return fmt.Errorf("constraint %d violated: %d < %d", i, sum, c.Bound)
		}
	}
	return nil
}

// WriteOPB dumps the model in the OPB text format.
func (m *Model) WriteOPB(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "* #variable= %d #constraint= %d\n", m.NumVars(), len(m.constraints))
	if len(m.objective) > 0 {
		b.WriteString("min:")
		writeTerms(&b, m.objective)
		b.WriteString(" ;\n")
	}
	for _, c := range m.constraints {
		writeTerms(&b, c.Terms)
		fmt.Fprintf(&b, " >= %d ;\n", c.Bound)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeTerms(b *strings.Builder, terms []Term) {
	for _, t := range terms {
		if t.Lit < 0 {
			fmt.Fprintf(b, " +%d ~x%d", t.Weight, t.Lit.Var())
		} else {
			fmt.Fprintf(b, " +%d x%d", t.Weight, t.Lit.Var())
		}
	}
}

func unitTerms(lits []Lit) []Term {
	terms := make([]Term, len(lits))
	for i, l := range lits {
		terms[i] = Term{Lit: l, Weight: 1}
	}
	return terms
}
