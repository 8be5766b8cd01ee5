package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all updater key bindings with built-in help text.
type KeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Clear   key.Binding
	Add     key.Binding
	Remove  key.Binding
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Clear: key.NewBinding(
			key.WithKeys("escape", "esc"),
			key.WithHelp("esc", "clear selection"),
		),
		Add: key.NewBinding(
			key.WithKeys("a", "enter"),
			key.WithHelp("a", "add overlay"),
		),
		Remove: key.NewBinding(
			key.WithKeys("d", "x", "delete"),
			key.WithHelp("d", "remove overlay"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Remove, k.Refresh, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Clear},
		{k.Add, k.Remove, k.Refresh},
		{k.Help, k.Quit},
	}
}
