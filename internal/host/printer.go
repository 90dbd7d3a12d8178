package host

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dshills/calltip/internal/calltip"
	"github.com/dshills/calltip/internal/colors"
)

// Arrow glyphs drawn in place of the marker control characters.
const (
	ArrowPrev = "▲"
	ArrowNext = "▼"
)

// DisplayText replaces the marker control characters with arrow glyphs.
func DisplayText(text string) string {
	return strings.NewReplacer(calltip.MarkerPrev, ArrowPrev, calltip.MarkerNext, ArrowNext).Replace(text)
}

// Style returns the lipgloss style for a calltip drawn with c.
func Style(c colors.Colors) lipgloss.Style {
	return lipgloss.NewStyle().
		Background(lipgloss.Color(c.Background.Hex())).
		Foreground(lipgloss.Color(c.Text.Hex())).
		Padding(0, 1)
}

// Print renders a calltip as a styled block for terminal output.
func Print(text string, c colors.Colors) string {
	return Style(c).Render(DisplayText(text))
}
