package tui

import (
	"context"

	"github.com/dvrpc/tp-updater/internal/overlay"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Init issues the mount refresh.
func (m *UpdaterModel) Init() tea.Cmd {
	cmds := m.initial
	m.initial = nil
	return m.run(cmds)
}

// Update implements Page.
func (m *UpdaterModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case overlay.Msg:
		// Service results come back through here.
		return m.dispatch(msg)
	}
	return nil
}

func (m *UpdaterModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil
	case key.Matches(msg, m.keys.Up):
		return m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		return m.moveCursor(1)
	case key.Matches(msg, m.keys.Clear):
		m.cursor = -1
		return m.dispatch(overlay.SelectIndicator{})
	case key.Matches(msg, m.keys.Add):
		return m.dispatch(overlay.Add{})
	case key.Matches(msg, m.keys.Remove):
		return m.dispatch(overlay.Remove{})
	case key.Matches(msg, m.keys.Refresh):
		return m.dispatch(overlay.Refresh{})
	}
	return nil
}

// moveCursor steps through the placeholder row and the catalog, selecting
// whatever lands under the cursor.
func (m *UpdaterModel) moveCursor(delta int) tea.Cmd {
	next := m.cursor + delta
	if next < -1 {
		next = -1
	}
	if next >= len(m.names) {
		next = len(m.names) - 1
	}
	if next == m.cursor {
		return nil
	}
	m.cursor = next
	return m.dispatch(overlay.SelectIndicator{Name: m.cursorName()})
}

// dispatch feeds msg to the reducer and turns the commands it returns into
// Bubble Tea commands.
func (m *UpdaterModel) dispatch(msg overlay.Msg) tea.Cmd {
	var cmds []overlay.Command
	m.state, cmds = overlay.Update(m.state, msg)
	m.syncKeys()
	return m.run(cmds)
}

func (m *UpdaterModel) run(cmds []overlay.Command) tea.Cmd {
	if len(cmds) == 0 {
		return nil
	}
	svc, timeout := m.service, m.timeout
	batch := make([]tea.Cmd, 0, len(cmds))
	for _, c := range cmds {
		batch = append(batch, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			return overlay.Run(ctx, svc, c)
		})
	}
	return tea.Batch(batch...)
}
