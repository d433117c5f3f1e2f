package tui

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor = lipgloss.Color("#7C3AED")
	errorColor   = lipgloss.Color("#DC2626")
	successColor = lipgloss.Color("#16A34A")
	mutedColor   = lipgloss.Color("#6B7280")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	stepStyle    = lipgloss.NewStyle().Foreground(mutedColor)
	labelStyle   = lipgloss.NewStyle().Width(28)
	focusedLabel = labelStyle.Foreground(primaryColor).Bold(true)
	fieldError   = lipgloss.NewStyle().Foreground(errorColor).PaddingLeft(28)
	mutedStyle   = lipgloss.NewStyle().Foreground(mutedColor)
	helpKey      = lipgloss.NewStyle().Bold(true)
	bannerError  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(errorColor).
			Foreground(errorColor).
			Padding(0, 1)
	bannerSuccess = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(successColor).
			Padding(1, 2)
)
