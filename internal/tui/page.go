package tui

import tea "github.com/charmbracelet/bubbletea"

// Page is a top-level screen hosted by App.
type Page interface {
	ID() string
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View(width, height int) string
}
