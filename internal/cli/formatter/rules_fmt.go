package formatter

import (
	"strconv"
	"strings"

	"github.com/Anton2181/partykajson/internal/penalty"
	"github.com/Anton2181/partykajson/internal/sweep"
)

// FormatLadder renders the active ladder, highest priority first, then
// the rules switched off by configuration.
func FormatLadder(l *penalty.Ladder, disabled []string) string {
	t := &Table{Headers: []string{"#", "RULE", "COST", "DESCRIPTION"}, Right: []int{0, 2}}
	for i, name := range l.Names() {
		t.AddRow(strconv.Itoa(i+1), name, FormatCost(l.Cost(i)), Dim(penalty.Describe(name)))
	}
	var b strings.Builder
	b.WriteString(t.Render())
	b.WriteString(Dim("ratio " + strconv.Itoa(l.Ratio())))
	b.WriteString("\n")
	if len(disabled) > 0 {
		b.WriteString("\n" + Header("Disabled") + "\n")
		for _, name := range disabled {
			b.WriteString("  " + StyleDim.Strikethrough(true).Render(name) + "\n")
		}
	}
	return b.String()
}

// FormatSweep compares variants. Failed variants show their error.
func FormatSweep(outcomes []sweep.Outcome) string {
	t := &Table{Headers: []string{"VARIANT", "STATUS", "OBJECTIVE", "PENALTIES", "SOLUTIONS", "TIME"}, Right: []int{2, 3, 4, 5}}
	for _, o := range outcomes {
		if o.Err != nil {
			t.AddRow(o.Variant, StyleRed.Render("error: "+o.Err.Error()))
			continue
		}
		r := o.Result
		t.AddRow(
			o.Variant,
			StatusPill(r.Status),
			FormatCost(r.Objective),
			strconv.Itoa(len(r.Penalties)),
			strconv.Itoa(r.Solutions),
			FormatElapsed(r.Elapsed),
		)
	}
	return t.Render()
}
