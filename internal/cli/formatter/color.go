package formatter

import (
	"fmt"
	"strings"

	"github.com/Anton2181/partykajson/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// SetColor switches styled output on or off for the whole process.
func SetColor(enabled bool) {
	if enabled {
		lipgloss.SetColorProfile(termenv.TrueColor)
		return
	}
	lipgloss.SetColorProfile(termenv.Ascii)
}

// MethodColor returns the style used for an assignment method: manual
// picks stand out, automatic ones are calm, holes are red.
func MethodColor(m domain.Method) lipgloss.Style {
	switch m {
	case domain.MethodManual:
		return StyleYellow
	case domain.MethodAutomatic:
		return StyleGreen
	case domain.MethodUnassigned:
		return StyleRed
	default:
		return StyleDim
	}
}

// MethodLabel renders a method as a short colored tag.
func MethodLabel(m domain.Method) string {
	switch m {
	case domain.MethodManual:
		return MethodColor(m).Render("manual")
	case domain.MethodAutomatic:
		return MethodColor(m).Render("auto")
	case domain.MethodUnassigned:
		return MethodColor(m).Render("unassigned")
	default:
		return StyleDim.Render(string(m))
	}
}

// StatusPill returns a colored indicator such as "● OPTIMAL".
func StatusPill(s domain.RunStatus) string {
	switch s {
	case domain.StatusOptimal:
		return StyleGreen.Render("● OPTIMAL")
	case domain.StatusFeasible:
		return StyleYellow.Render("● FEASIBLE")
	case domain.StatusNoSolution:
		return StyleRed.Render("● NO SOLUTION")
	default:
		return StyleDim.Render("● " + strings.ToUpper(string(s)))
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
