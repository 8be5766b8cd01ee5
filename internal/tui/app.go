package tui

import tea "github.com/charmbracelet/bubbletea"

// App is the top-level Bubble Tea model. It tracks the terminal size and
// forwards everything else to the active page.
type App struct {
	page   Page
	width  int
	height int
}

// NewApp wraps page as a runnable Bubble Tea model.
func NewApp(page Page) *App {
	return &App{page: page}
}

func (a *App) Init() tea.Cmd {
	if a.page == nil {
		return nil
	}
	return a.page.Init()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		a.width = wsm.Width
		a.height = wsm.Height
	}
	if a.page == nil {
		if km, ok := msg.(tea.KeyMsg); ok && km.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a, nil
	}
	return a, a.page.Update(msg)
}

func (a *App) View() string {
	if a.page == nil {
		return "No active page"
	}
	return a.page.View(a.width, a.height)
}
