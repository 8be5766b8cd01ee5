package tui

import "github.com/charmbracelet/lipgloss"

var (
	ColorNavy  = lipgloss.Color("#1B2A41")
	ColorWhite = lipgloss.Color("#F5F5F5")
	ColorGray  = lipgloss.Color("245")
	ColorBlue  = lipgloss.Color("#00CAC7")
	ColorGreen = lipgloss.Color("#49E209")
	ColorRed   = lipgloss.Color("#FF6666")
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(ColorBlue).
			Bold(true)

	introStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorNavy).
			Padding(0, 1)

	paneTitleStyle = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Bold(true).
			MarginBottom(1)

	cursorStyle = lipgloss.NewStyle().
			Foreground(ColorBlue).
			Bold(true)

	placeholderStyle = lipgloss.NewStyle().
				Foreground(ColorGray).
				Italic(true)

	overlaidStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	statusStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	errorStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorGray)
)
