package tui

import (
	"time"

	"github.com/dvrpc/tp-updater/internal/catalog"
	"github.com/dvrpc/tp-updater/internal/model"
	"github.com/dvrpc/tp-updater/internal/overlay"

	"github.com/charmbracelet/bubbles/help"
)

var _ Page = (*UpdaterModel)(nil)

// placeholder is shown above the catalog; choosing it clears the selection.
const placeholder = "Select Indicator"

// UpdaterModel is the Bubble Tea model for the overlay updater. It owns no
// overlay state of its own: everything it renders comes from overlay.State.
type UpdaterModel struct {
	state   overlay.State
	service model.OverlayService
	initial []overlay.Command
	timeout time.Duration

	names  []string // catalog names in display order
	cursor int      // -1 = placeholder row

	keys     KeyMap
	help     help.Model
	width    int
	height   int
	quitting bool
}

// NewUpdaterModel builds the model. The mount refresh is issued from Init.
// Each service call is bounded by timeout; zero means model.DefaultRequestTimeout.
func NewUpdaterModel(service model.OverlayService, cat *catalog.Catalog, timeout time.Duration) *UpdaterModel {
	if timeout <= 0 {
		timeout = model.DefaultRequestTimeout
	}
	state, cmds := overlay.New(cat)
	m := &UpdaterModel{
		state:   state,
		service: service,
		initial: cmds,
		timeout: timeout,
		names:   state.Catalog().Names(),
		cursor:  -1,
		keys:    DefaultKeyMap(),
		help:    help.New(),
	}
	m.syncKeys()
	return m
}

// ID implements Page.
func (m *UpdaterModel) ID() string { return "updater" }

// State returns the current overlay state.
func (m *UpdaterModel) State() overlay.State {
	return m.state
}

// cursorName returns the catalog name under the cursor, or "" on the placeholder.
func (m *UpdaterModel) cursorName() string {
	if m.cursor < 0 || m.cursor >= len(m.names) {
		return ""
	}
	return m.names[m.cursor]
}

// syncKeys enables Add/Remove only while a valid indicator is selected.
func (m *UpdaterModel) syncKeys() {
	enabled := m.state.CanMutate()
	m.keys.Add.SetEnabled(enabled)
	m.keys.Remove.SetEnabled(enabled)
}
