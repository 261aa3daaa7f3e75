package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Anton2181/partykajson/internal/aggregate"
	"github.com/Anton2181/partykajson/internal/domain"
	"github.com/Anton2181/partykajson/internal/optimizer"
)

// FormatAggregateStats summarises one aggregation pass.
func FormatAggregateStats(s aggregate.Stats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %d groups (%d standalone)\n", Bold("Aggregated"), s.Groups, s.Standalone)
	var notes []string
	if s.Splits > 0 {
		notes = append(notes, fmt.Sprintf("%d split", s.Splits))
	}
	if s.Rollbacks > 0 {
		notes = append(notes, fmt.Sprintf("%d rolled back", s.Rollbacks))
	}
	if s.Discarded > 0 {
		notes = append(notes, fmt.Sprintf("%d discarded", s.Discarded))
	}
	if s.Relaxed > 0 {
		notes = append(notes, StyleYellow.Render(fmt.Sprintf("%d deadlocks relaxed", s.Relaxed)))
	}
	if s.ExclusionFix > 0 {
		notes = append(notes, fmt.Sprintf("%d exclusions made symmetric", s.ExclusionFix))
	}
	if len(notes) > 0 {
		b.WriteString("  " + Dim(strings.Join(notes, ", ")) + "\n")
	}
	return b.String()
}

// FormatRunSummary is printed after `run` and `history show`.
func FormatRunSummary(r domain.Run, reused bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", StatusPill(r.Status), r.ID)
	if r.Label != "" {
		fmt.Fprintf(&b, "  Label:      %s\n", r.Label)
	}
	fmt.Fprintf(&b, "  Objective:  %s\n", FormatCost(r.Objective))
	fmt.Fprintf(&b, "  Penalties:  %d\n", r.PenaltyCount)
	fmt.Fprintf(&b, "  Groups:     %d\n", r.GroupCount)
	fmt.Fprintf(&b, "  Solutions:  %d in %s\n", r.Solutions, FormatElapsed(r.Elapsed))
	fmt.Fprintf(&b, "  Ratio:      %d\n", r.PenaltyRatio)
	fmt.Fprintf(&b, "  Created:    %s\n", HumanTimestamp(r.CreatedAt))
	if reused {
		b.WriteString("  " + StyleBlue.Render("reused a stored run with identical inputs") + "\n")
	}
	return b.String()
}

// FormatResult summarises a solve that was not recorded as a run.
func FormatResult(res *optimizer.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", StatusPill(res.Status))
	fmt.Fprintf(&b, "  Objective:  %s\n", FormatCost(res.Objective))
	fmt.Fprintf(&b, "  Penalties:  %d\n", len(res.Penalties))
	fmt.Fprintf(&b, "  Solutions:  %d in %s\n", res.Solutions, FormatElapsed(res.Elapsed))
	fmt.Fprintf(&b, "  Model:      %d variables, %d constraints\n", res.Stats.Variables, res.Stats.Constraints)
	return b.String()
}

// FormatRunList renders the history table, newest first.
func FormatRunList(runs []*domain.Run) string {
	if len(runs) == 0 {
		return Dim("No runs recorded yet.") + "\n"
	}
	t := &Table{
		Headers: []string{"ID", "CREATED", "STATUS", "OBJECTIVE", "PENALTIES", "GROUPS", "LABEL"},
		Right:   []int{3, 4, 5},
	}
	for _, r := range runs {
		t.AddRow(
			TruncID(r.ID),
			HumanTimestamp(r.CreatedAt),
			StatusPill(r.Status),
			FormatCost(r.Objective),
			strconv.Itoa(r.PenaltyCount),
			strconv.Itoa(r.GroupCount),
			r.Label,
		)
	}
	return t.Render()
}

// FormatAssignments lists every group with who works it.
func FormatAssignments(groups []domain.Group, assignments []domain.Assignment) string {
	byID := make(map[string]domain.Assignment, len(assignments))
	for _, a := range assignments {
		byID[a.GroupID] = a
	}
	t := &Table{Headers: []string{"GROUP", "NAME", "WEEK", "DAY", "EFFORT", "ASSIGNEE", "METHOD"}, Right: []int{2, 4}}
	for _, g := range groups {
		a, ok := byID[g.ID]
		assignee, method := Dim("-"), Dim("-")
		if ok {
			method = MethodLabel(a.Method)
			if a.Assignee != "" {
				assignee = a.Assignee
			}
		}
		t.AddRow(g.ID, g.Name, strconv.Itoa(g.Week), DayLabel(g.Day), FormatEffort(g.Effort), assignee, method)
	}
	return t.Render()
}

// FormatPenalties lists penalty records in their stored order.
func FormatPenalties(ps []domain.PenaltyRecord) string {
	if len(ps) == 0 {
		return StyleGreen.Render("No penalties.") + "\n"
	}
	t := &Table{Headers: []string{"RULE", "PERSON", "GROUP", "COST", "DETAILS"}, Right: []int{3}}
	for _, p := range ps {
		t.AddRow(p.Rule, orDash(p.Person), orDash(p.GroupID), FormatCost(p.Cost), p.Details)
	}
	return t.Render()
}

// FormatRunDetail is the body of `history show`.
func FormatRunDetail(d *domain.RunDetail) string {
	var b strings.Builder
	b.WriteString(FormatRunSummary(d.Run, false))
	b.WriteString("\n" + Header("Assignments") + "\n")
	b.WriteString(FormatAssignments(d.Groups, d.Assignments))
	b.WriteString("\n" + Header("Penalties") + "\n")
	b.WriteString(FormatPenalties(d.Penalties))
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return Dim("-")
	}
	return s
}
