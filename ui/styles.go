package ui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170")).
			Bold(true).
			Padding(0, 1)

	bannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Bold(true).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("11")).
			Padding(0, 2)

	highCPUStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	medCPUStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)
