package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/calderasec/vigil/internal/feed"
)

// Severity colors for visual differentiation
var severityColors = map[feed.Severity]lipgloss.Color{
	feed.SeverityCritical: lipgloss.Color("#f85149"), // red
	feed.SeverityHigh:     lipgloss.Color("#ffa657"), // orange
	feed.SeverityMedium:   lipgloss.Color("#d29922"), // amber
	feed.SeverityLow:      lipgloss.Color("#8b949e"), // gray
}

var (
	tabStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("#8b949e"))

	activeTabStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Bold(true).
			Foreground(lipgloss.Color("#c9d1d9")).
			Background(lipgloss.Color("#1f6feb"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c9d1d9"))

	pinnedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#e3b341"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8b949e"))

	liveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3fb950"))

	degradedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#f85149"))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8b949e"))
)

// severityBadge renders a fixed-width colored severity tag.
func severityBadge(s feed.Severity) string {
	color, ok := severityColors[s]
	if !ok {
		color = severityColors[feed.SeverityLow]
	}
	return lipgloss.NewStyle().Foreground(color).Bold(true).Render("[" + string(s) + "]")
}
