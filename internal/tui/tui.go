// Package tui renders the desktop in a terminal: windows are drawn as boxes
// on a character canvas above a taskbar.
package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/hauntedos/internal/shell"
)

// One terminal cell covers this many viewport pixels.
const (
	CellWidth  = 10
	CellHeight = 20
)

// Run starts the terminal desktop on sh and blocks until the user quits.
func Run(sh *shell.Shell) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	p := tea.NewProgram(newModel(sh), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
