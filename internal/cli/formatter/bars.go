package formatter

import (
	"math"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// EffortBar draws manual effort then automatic effort as one stacked bar
// of width cells, scaled so that scale fills the whole bar. Manual cells
// are yellow, automatic cells green, the rest dim.
func EffortBar(manual, auto, scale float64, width int) string {
	if width < 2 {
		width = 2
	}
	m, a := barCells(manual, auto, scale, width)

	var b strings.Builder
	if m > 0 {
		b.WriteString(StyleYellow.Render(strings.Repeat(filledBlock, m)))
	}
	if a > 0 {
		b.WriteString(StyleGreen.Render(strings.Repeat(filledBlock, a)))
	}
	if rest := width - m - a; rest > 0 {
		b.WriteString(StyleDim.Render(strings.Repeat(emptyBlock, rest)))
	}
	return b.String()
}

// barCells converts effort to cell counts. Any positive effort gets at
// least one cell and the total never exceeds width.
func barCells(manual, auto, scale float64, width int) (int, int) {
	if scale <= 0 {
		return 0, 0
	}
	cells := func(v float64) int {
		if v <= 0 {
			return 0
		}
		n := int(math.Round(v / scale * float64(width)))
		if n < 1 {
			n = 1
		}
		return n
	}
	m, a := cells(manual), cells(auto)
	if m > width {
		m = width
	}
	if m+a > width {
		a = width - m
	}
	return m, a
}
