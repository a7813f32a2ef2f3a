package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/hauntedos/internal/shell"
)

var (
	taskbarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Background(lipgloss.Color("235"))

	taskbarActiveStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("208"))

	taskbarOpenStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("238"))

	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// marker shows an entry's window state: ● focused, ○ open, ▁ minimized.
func marker(e shell.TaskbarEntry) string {
	switch {
	case !e.Open:
		return " "
	case e.Minimized:
		return "▁"
	case e.Active:
		return "●"
	default:
		return "○"
	}
}

func taskbarLabel(i int, e shell.TaskbarEntry) string {
	return fmt.Sprintf(" %d %s %s ", i+1, e.App.Title, marker(e))
}

// renderTaskbar renders the launcher row with a clock on the right.
func renderTaskbar(entries []shell.TaskbarEntry, now time.Time, width int) string {
	parts := make([]string, 0, len(entries))
	for i, e := range entries {
		style := taskbarStyle
		switch {
		case e.Active && !e.Minimized:
			style = taskbarActiveStyle
		case e.Open:
			style = taskbarOpenStyle
		}
		parts = append(parts, style.Render(taskbarLabel(i, e)))
	}
	left := strings.Join(parts, taskbarStyle.Render(" "))
	clock := taskbarStyle.Render(" " + now.Format("15:04") + " ")

	gap := width - lipgloss.Width(left) - lipgloss.Width(clock)
	if gap < 0 {
		return taskbarStyle.MaxWidth(width).Render(left)
	}
	return left + taskbarStyle.Render(strings.Repeat(" ", gap)) + clock
}
