package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	appTitle = "Tracking Progress Updates"
	intro    = "Mark an indicator as recently updated. Marks fall off after 30 days."

	recentTitle = "Recently Updated Indicators"
	emptyRecent = "No indicators added."
)

// View implements Page.
func (m *UpdaterModel) View(width, height int) string {
	if m.quitting {
		return ""
	}
	if width > 0 {
		m.width = width
	}
	if height > 0 {
		m.height = height
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(appTitle))
	b.WriteString("\n")
	b.WriteString(introStyle.Render(intro))
	b.WriteString("\n\n")

	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		paneStyle.Render(m.renderCatalog()),
		" ",
		paneStyle.Render(m.renderRecent()),
	)
	b.WriteString(panes)
	b.WriteString("\n")
	b.WriteString(m.renderStatusLine())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// renderCatalog draws the selectable indicator list, scrolled so the cursor
// stays visible.
func (m *UpdaterModel) renderCatalog() string {
	header := paneTitleStyle.Render(fmt.Sprintf("Indicators (%s)", m.state.Catalog().Version()))

	rows := make([]string, 0, len(m.names)+1)
	rows = append(rows, m.renderRow(-1, placeholderStyle.Render(placeholder)))
	for i, name := range m.names {
		label := name
		if m.state.IsOverlaid(name) {
			label = overlaidStyle.Render(name + " ●")
		}
		rows = append(rows, m.renderRow(i, label))
	}

	rows = visibleWindow(rows, m.cursor+1, m.listHeight())
	return header + "\n" + strings.Join(rows, "\n")
}

func (m *UpdaterModel) renderRow(idx int, label string) string {
	if idx == m.cursor {
		return cursorStyle.Render("› ") + label
	}
	return "  " + label
}

func (m *UpdaterModel) renderRecent() string {
	header := paneTitleStyle.Render(recentTitle)
	if len(m.state.Overlaid) == 0 {
		return header + "\n" + mutedStyle.Render(emptyRecent)
	}
	lines := make([]string, len(m.state.Overlaid))
	for i, name := range m.state.Overlaid {
		lines[i] = "• " + name
	}
	return header + "\n" + strings.Join(lines, "\n")
}

func (m *UpdaterModel) renderStatusLine() string {
	switch {
	case m.state.Error != "":
		return errorStyle.Render(m.state.Error)
	case m.state.Status != "":
		return statusStyle.Render(m.state.Status)
	case m.state.InFlight() > 0 || m.state.Refreshing():
		return mutedStyle.Render("Working...")
	}
	if m.state.Selected == "" {
		return mutedStyle.Render("Select an indicator to add or remove it.")
	}
	return mutedStyle.Render("Selected: " + m.state.Selected)
}

// listHeight is the number of catalog rows that fit; 0 means no limit.
func (m *UpdaterModel) listHeight() int {
	if m.height <= 0 {
		return 0
	}
	// title, intro, blank, pane border and header, status, help
	h := m.height - 10
	if h < 3 {
		h = 3
	}
	return h
}

// visibleWindow returns at most n rows from rows, positioned so that focus
// is included. n <= 0 returns rows unchanged.
func visibleWindow(rows []string, focus, n int) []string {
	if n <= 0 || len(rows) <= n {
		return rows
	}
	start := focus - n/2
	if start < 0 {
		start = 0
	}
	if start+n > len(rows) {
		start = len(rows) - n
	}
	return rows[start : start+n]
}
