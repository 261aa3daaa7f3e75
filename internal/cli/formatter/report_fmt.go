package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Anton2181/partykajson/internal/domain"
	"github.com/Anton2181/partykajson/internal/report"
)

const effortBarWidth = 24

// FormatEffortSplit renders one bar per working person. byLoad sorts by
// total effort instead of name.
func FormatEffortSplit(rep *report.Report, byLoad bool) string {
	rows := rep.Split()
	if len(rows) == 0 {
		return Dim("Nobody is assigned.") + "\n"
	}
	if byLoad {
		rows = report.ByLoad(rows)
	}
	scale := report.MaxTotal(rows)

	t := &Table{Headers: []string{"PERSON", "LOAD", "MANUAL", "AUTO", "TOTAL"}, Right: []int{2, 3, 4}}
	for _, r := range rows {
		t.AddRow(
			r.Name,
			EffortBar(r.Manual, r.Auto, scale, effortBarWidth),
			FormatEffort(r.Manual),
			FormatEffort(r.Auto),
			Bold(FormatEffort(r.Total())),
		)
	}
	legend := fmt.Sprintf("%s manual  %s automatic", StyleYellow.Render(filledBlock), StyleGreen.Render(filledBlock))
	return t.Render() + Dim("  ") + legend + "\n"
}

// FormatPerson lists one person's slots and charges.
func FormatPerson(p report.Person) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", Bold(p.Name), Dim(fmt.Sprintf("effort %s (manual %s, auto %s)",
		FormatEffort(p.TotalEffort), FormatEffort(p.ManualEffort), FormatEffort(p.AutoEffort))))
	if len(p.Assignments) > 0 {
		b.WriteString(formatSlots(p.Assignments))
	}
	for _, c := range p.Penalties {
		fmt.Fprintf(&b, "  %s %s %s\n", StyleRed.Render("✖"), c.Rule, Dim(fmt.Sprintf("(%s) %s", FormatCost(c.Cost), c.Details)))
	}
	return b.String()
}

func formatSlots(slots []report.Slot) string {
	t := &Table{Headers: []string{"WEEK", "DAY", "GROUP", "ROLE", "EFFORT", "METHOD"}, Right: []int{0, 4}}
	for _, s := range slots {
		t.AddRow(strconv.Itoa(s.Week), DayLabel(s.Day), s.GroupName, string(s.Role), FormatEffort(s.Effort), MethodLabel(s.Method))
	}
	return indent(t.Render(), "  ")
}

// FormatReport is the body of `report`: effort bars, then every person,
// then what nobody works.
func FormatReport(run *domain.Run, rep *report.Report, byLoad bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n\n", StatusPill(run.Status), run.ID)
	b.WriteString(Header("Effort") + "\n")
	b.WriteString(FormatEffortSplit(rep, byLoad))

	b.WriteString("\n" + Header("People") + "\n")
	for _, p := range rep.People {
		b.WriteString(FormatPerson(p))
		b.WriteString("\n")
	}

	if len(rep.Unassigned) > 0 {
		b.WriteString(Header("Unassigned") + "\n")
		b.WriteString(formatSlots(rep.Unassigned))
	}
	if len(rep.GroupPenalties) > 0 {
		b.WriteString("\n" + Header("Group penalties") + "\n")
		b.WriteString(FormatPenalties(rep.GroupPenalties))
	}
	return b.String()
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n") + "\n"
}
