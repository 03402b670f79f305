package report

import (
	"charm.land/lipgloss/v2"
)

// Palette
var (
	Primary   = lipgloss.Color("#8B5CF6") // Vivid Purple
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F97316") // Orange
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	Border    = lipgloss.Color("#334155") // Slate
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Secondary).
			MarginTop(1)

	dimStyle = lipgloss.NewStyle().
			Foreground(TextDim)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	summaryCard = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 2)

	goodStyle = lipgloss.NewStyle().Foreground(Success).Bold(true)
	midStyle  = lipgloss.NewStyle().Foreground(Accent)
	badStyle  = lipgloss.NewStyle().Foreground(Error).Bold(true)
)

// gradeStyle colors a percentage: green from 80, orange from 50, rose below.
func gradeStyle(pct int) lipgloss.Style {
	switch {
	case pct >= 80:
		return goodStyle
	case pct >= 50:
		return midStyle
	}
	return badStyle
}
