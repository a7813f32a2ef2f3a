package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/hauntedos/internal/shell"
	"github.com/1broseidon/hauntedos/internal/viewport"
	"github.com/1broseidon/hauntedos/internal/window"
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// model is the root bubbletea model for the terminal desktop.
type model struct {
	shell *shell.Shell
	keys  keyMap
	help  help.Model
	now   time.Time

	lastError string

	width  int
	height int
}

func newModel(sh *shell.Shell) model {
	return model{
		shell: sh,
		keys:  defaultKeyMap(),
		help:  help.New(),
		now:   time.Now(),
	}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tick()
}

// canvasRows is the number of rows left for windows once the taskbar and
// the help line are drawn.
func (m model) canvasRows() int {
	return max(m.height-2, 1)
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.now = time.Time(msg)
		return m, tick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		size := viewport.Size{Width: m.width * CellWidth, Height: m.canvasRows() * CellHeight}
		if _, err := m.shell.ResizeViewport(size); err != nil {
			m.lastError = err.Error()
		}
		return m, nil

	case tea.KeyMsg:
		m.lastError = ""
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Launch):
			m.launch(msg.String())
		case key.Matches(msg, m.keys.Cycle):
			m.cycleFocus()
		case key.Matches(msg, m.keys.Minimize):
			m.onActive(m.shell.Minimize)
		case key.Matches(msg, m.keys.Maximize):
			m.onActive(m.shell.ToggleMaximize)
		case key.Matches(msg, m.keys.Close):
			m.onActive(m.shell.Close)
		case key.Matches(msg, m.keys.Up):
			m.drag(0, -CellHeight)
		case key.Matches(msg, m.keys.Down):
			m.drag(0, CellHeight)
		case key.Matches(msg, m.keys.Left):
			m.drag(-CellWidth, 0)
		case key.Matches(msg, m.keys.Right):
			m.drag(CellWidth, 0)
		}
		return m, nil
	}
	return m, nil
}

func (m *model) launch(k string) {
	apps := window.Apps()
	n := int(k[0] - '1')
	if n < 0 || n >= len(apps) {
		return
	}
	if _, err := m.shell.Launch(apps[n].ID); err != nil {
		m.lastError = err.Error()
	}
}

// cycleFocus raises the bottom-most visible window, so repeated presses
// walk through every window.
func (m *model) cycleFocus() {
	frames := m.shell.Desktop()
	if len(frames) == 0 {
		return
	}
	if err := m.shell.Focus(frames[0].Window.ID); err != nil {
		m.lastError = err.Error()
	}
}

func (m *model) activeID() string {
	return m.shell.Status().ActiveWindowID
}

func (m *model) onActive(op func(string) error) {
	id := m.activeID()
	if id == "" {
		return
	}
	if err := op(id); err != nil {
		m.lastError = err.Error()
	}
}

func (m *model) drag(dx, dy int) {
	id := m.activeID()
	if id == "" {
		return
	}
	if _, err := m.shell.Drag(id, dx, dy); err != nil {
		m.lastError = err.Error()
	}
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	footer := m.help.View(m.keys)
	if m.lastError != "" {
		footer = errorStyle.Render(m.lastError)
	}
	// Expanded help borrows rows from the bottom of the canvas.
	rows := max(m.height-1-lipgloss.Height(footer), 1)

	desktop := renderDesktop(m.shell.Desktop(), m.width, rows)
	taskbar := renderTaskbar(m.shell.Taskbar(), m.now, m.width)
	return lipgloss.JoinVertical(lipgloss.Left, desktop, taskbar, footer)
}
