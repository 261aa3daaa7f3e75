package report

import "sort"

// SplitRow is the manual-versus-automatic effort of one person.
type SplitRow struct {
	Name   string
	Manual float64
	Auto   float64
}

func (s SplitRow) Total() float64 { return s.Manual + s.Auto }

// Split returns one row per person who works at least one group, sorted
// by name.
func (r *Report) Split() []SplitRow {
	var rows []SplitRow
	for _, p := range r.People {
		if len(p.Assignments) == 0 {
			continue
		}
		rows = append(rows, SplitRow{Name: p.Name, Manual: p.ManualEffort, Auto: p.AutoEffort})
	}
	return rows
}

// ByLoad reorders rows by ascending total effort, ties by name.
func ByLoad(rows []SplitRow) []SplitRow {
	out := append([]SplitRow(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Total() != out[j].Total() {
			return out[i].Total() < out[j].Total()
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// MaxTotal is the largest total effort, used to scale effort bars.
func MaxTotal(rows []SplitRow) float64 {
	var hi float64
	for _, r := range rows {
		if t := r.Total(); t > hi {
			hi = t
		}
	}
	return hi
}
