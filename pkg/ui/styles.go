package ui

import "github.com/charmbracelet/lipgloss"

var (
	// Palette
	cyan   = lipgloss.Color("#00B7C3")
	green  = lipgloss.Color("#2EA043")
	yellow = lipgloss.Color("#D4A72C")
	red    = lipgloss.Color("#F85149")
	dim    = lipgloss.Color("#8B949E")

	indexStyle = lipgloss.NewStyle().
			Foreground(dim)

	okStyle = lipgloss.NewStyle().
		Foreground(green)

	skipStyle = lipgloss.NewStyle().
			Foreground(yellow)

	missingStyle = lipgloss.NewStyle().
			Foreground(dim)

	failStyle = lipgloss.NewStyle().
			Foreground(red).
			Bold(true)

	bannerStyle = lipgloss.NewStyle().
			Foreground(cyan).
			Bold(true)

	summaryBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(cyan).
			Padding(0, 2)

	summaryLabelStyle = lipgloss.NewStyle().
				Foreground(cyan)

	summaryValueStyle = lipgloss.NewStyle().
				Foreground(yellow).
				Bold(true)
)
