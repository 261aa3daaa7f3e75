package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const colGap = 2

// Table is an aligned text table. Cells may carry ANSI styling; widths are
// measured on the visible text.
type Table struct {
	Headers []string
	Rows    [][]string
	// Right lists column indexes that are right-aligned, typically numbers.
	Right []int
}

// AddRow appends a row. Missing trailing cells render empty.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

func (t *Table) widths() []int {
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i := 0; i < len(widths) && i < len(row); i++ {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

func (t *Table) rightAligned(col int) bool {
	for _, c := range t.Right {
		if c == col {
			return true
		}
	}
	return false
}

// Render draws the header row, a separator and every row. Lines carry no
// trailing spaces.
func (t *Table) Render() string {
	if len(t.Headers) == 0 {
		return ""
	}
	widths := t.widths()

	var b strings.Builder
	line := func(cells []string, style func(string) string) {
		var l strings.Builder
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			pad := widths[i] - lipgloss.Width(cell)
			if pad < 0 {
				pad = 0
			}
			if i > 0 {
				l.WriteString(strings.Repeat(" ", colGap))
			}
			if t.rightAligned(i) {
				l.WriteString(strings.Repeat(" ", pad))
				l.WriteString(style(cell))
			} else {
				l.WriteString(style(cell))
				l.WriteString(strings.Repeat(" ", pad))
			}
		}
		b.WriteString(strings.TrimRight(l.String(), " "))
		b.WriteString("\n")
	}

	line(t.Headers, func(s string) string { return StyleHeader.Render(s) })

	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("─", w)
	}
	line(sep, func(s string) string { return StyleDim.Render(s) })

	for _, row := range t.Rows {
		line(row, func(s string) string { return s })
	}
	return b.String()
}

// RenderTable renders a left-aligned table.
func RenderTable(headers []string, rows [][]string) string {
	t := &Table{Headers: headers, Rows: rows}
	return t.Render()
}
