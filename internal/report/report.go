// Package report reshapes a solved schedule around people: what each person
// works, how much of it was forced, and which penalties name them.
package report

import (
	"math"
	"sort"

	"github.com/Anton2181/partykajson/internal/domain"
)

// Slot is one group worked by a person.
type Slot struct {
	Week      int           `json:"week"`
	Day       string        `json:"day"`
	GroupName string        `json:"group_name"`
	Family    string        `json:"family"`
	Role      domain.Role   `json:"role"`
	GroupID   string        `json:"group_id"`
	Effort    float64       `json:"effort"`
	Method    domain.Method `json:"method"`
}

// Charge is a penalty attributed to a person.
type Charge struct {
	Rule    string `json:"rule"`
	Cost    int64  `json:"cost"`
	Details string `json:"details"`
}

// Person is one row of the person report.
type Person struct {
	Name         string   `json:"-"`
	Assignments  []Slot   `json:"assignments"`
	Penalties    []Charge `json:"penalties"`
	TotalEffort  float64  `json:"total_effort"`
	ManualEffort float64  `json:"manual_effort"`
	AutoEffort   float64  `json:"auto_effort"`
}

// Report groups a run's output by person. People are sorted by name.
type Report struct {
	People     []Person
	Unassigned []Slot
	// GroupPenalties are charges that name no person, such as unassigned
	// groups.
	GroupPenalties []domain.PenaltyRecord
}

// Build assembles the report. Assignments for unknown group ids are kept
// with zero effort so nothing silently disappears.
func Build(groups []domain.Group, assignments []domain.Assignment, penalties []domain.PenaltyRecord) *Report {
	byID := make(map[string]*domain.Group, len(groups))
	for i := range groups {
		byID[groups[i].ID] = &groups[i]
	}

	people := make(map[string]*Person)
	person := func(name string) *Person {
		p, ok := people[name]
		if !ok {
			p = &Person{Name: name, Assignments: []Slot{}, Penalties: []Charge{}}
			people[name] = p
		}
		return p
	}

	r := &Report{}
	for _, a := range assignments {
		s := Slot{GroupID: a.GroupID, GroupName: a.GroupName, Method: a.Method}
		if g, ok := byID[a.GroupID]; ok {
			s.Week, s.Day, s.Family, s.Role, s.Effort = g.Week, g.Day, g.Family, g.Role, g.Effort
			if s.GroupName == "" {
				s.GroupName = g.Name
			}
		}
		if a.Assignee == "" {
			r.Unassigned = append(r.Unassigned, s)
			continue
		}
		p := person(a.Assignee)
		p.Assignments = append(p.Assignments, s)
		p.TotalEffort += s.Effort
		if a.Method == domain.MethodManual {
			p.ManualEffort += s.Effort
		} else {
			p.AutoEffort += s.Effort
		}
	}

	for _, pen := range penalties {
		if pen.Person == "" {
			r.GroupPenalties = append(r.GroupPenalties, pen)
			continue
		}
		p := person(pen.Person)
		p.Penalties = append(p.Penalties, Charge{Rule: pen.Rule, Cost: pen.Cost, Details: pen.Details})
	}

	for _, p := range people {
		sortSlots(p.Assignments)
		p.TotalEffort = round2(p.TotalEffort)
		p.ManualEffort = round2(p.ManualEffort)
		p.AutoEffort = round2(p.AutoEffort)
		r.People = append(r.People, *p)
	}
	sort.Slice(r.People, func(i, j int) bool { return r.People[i].Name < r.People[j].Name })
	sortSlots(r.Unassigned)
	return r
}

// Person looks a person up by name.
func (r *Report) Person(name string) (Person, bool) {
	i := sort.Search(len(r.People), func(i int) bool { return r.People[i].Name >= name })
	if i < len(r.People) && r.People[i].Name == name {
		return r.People[i], true
	}
	return Person{}, false
}

// sortSlots orders by week, day number and group id. Floating groups come
// first within their week.
func sortSlots(s []Slot) {
	sort.SliceStable(s, func(i, j int) bool {
		if s[i].Week != s[j].Week {
			return s[i].Week < s[j].Week
		}
		di, dj := domain.DayNumber(s[i].Day), domain.DayNumber(s[j].Day)
		if di != dj {
			return di < dj
		}
		return s[i].GroupID < s[j].GroupID
	})
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
