package report

import (
	"strings"

	"charm.land/lipgloss/v2"
)

const (
	barFilled = "█"
	barEmpty  = "░"
)

// scoreBar renders pct (0-100) as a fixed-width bar.
func scoreBar(pct, width int) string {
	if width < 4 {
		width = 4
	}
	filled := width * min(max(pct, 0), 100) / 100
	empty := width - filled

	return gradeStyle(pct).Render(strings.Repeat(barFilled, filled)) +
		lipgloss.NewStyle().Foreground(Border).Render(strings.Repeat(barEmpty, empty))
}
