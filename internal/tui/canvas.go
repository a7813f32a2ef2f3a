package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/hauntedos/internal/shell"
)

type role int

const (
	roleDesktop role = iota
	roleBody
	roleBorder
	roleActiveBorder
	roleTitle
	roleActiveTitle
)

type cell struct {
	r    rune
	role role
}

var (
	desktopStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("238")).Background(lipgloss.Color("234"))
	bodyStyle         = lipgloss.NewStyle().Background(lipgloss.Color("236"))
	borderStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Background(lipgloss.Color("236"))
	activeBorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Background(lipgloss.Color("236")).Bold(true)
	titleStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Background(lipgloss.Color("236"))
	activeTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("208")).Bold(true)
)

func (r role) style() lipgloss.Style {
	switch r {
	case roleBody:
		return bodyStyle
	case roleBorder:
		return borderStyle
	case roleActiveBorder:
		return activeBorderStyle
	case roleTitle:
		return titleStyle
	case roleActiveTitle:
		return activeTitleStyle
	default:
		return desktopStyle
	}
}

type boxChars struct {
	h, v, tl, tr, bl, br rune
}

var (
	singleBox = boxChars{'─', '│', '┌', '┐', '└', '┘'}
	doubleBox = boxChars{'═', '║', '╔', '╗', '╚', '╝'}
)

// paint draws frames in paint order onto a cols×rows grid. Later frames
// cover earlier ones.
func paint(frames []shell.Frame, cols, rows int) [][]cell {
	canvas := make([][]cell, rows)
	for y := range canvas {
		canvas[y] = make([]cell, cols)
		for x := range canvas[y] {
			canvas[y][x] = cell{r: '·', role: roleDesktop}
		}
	}
	for _, f := range frames {
		drawWindow(canvas, f, cols, rows)
	}
	return canvas
}

func drawWindow(canvas [][]cell, f shell.Frame, cols, rows int) {
	x1 := f.Rect.X / CellWidth
	y1 := f.Rect.Y / CellHeight
	x2 := (f.Rect.X+f.Rect.Width)/CellWidth - 1
	y2 := (f.Rect.Y+f.Rect.Height)/CellHeight - 1

	// Need at least 2x2 for a window
	if x2 <= x1 || y2 <= y1 {
		return
	}

	set := func(x, y int, r rune, ro role) {
		if x >= 0 && x < cols && y >= 0 && y < rows {
			canvas[y][x] = cell{r: r, role: ro}
		}
	}

	for y := y1 + 1; y < y2; y++ {
		for x := x1 + 1; x < x2; x++ {
			set(x, y, ' ', roleBody)
		}
	}

	box, border, title := singleBox, roleBorder, roleTitle
	if f.Active {
		box, border, title = doubleBox, roleActiveBorder, roleActiveTitle
	}
	for x := x1 + 1; x < x2; x++ {
		set(x, y1, box.h, border)
		set(x, y2, box.h, border)
	}
	for y := y1 + 1; y < y2; y++ {
		set(x1, y, box.v, border)
		set(x2, y, box.v, border)
	}
	set(x1, y1, box.tl, border)
	set(x2, y1, box.tr, border)
	set(x1, y2, box.bl, border)
	set(x2, y2, box.br, border)

	// Header: title on the left, minimize/maximize/close on the right.
	controls := []rune("_□×")
	ctrlX := x2 - len(controls) - 1
	if ctrlX > x1+1 {
		for i, r := range controls {
			set(ctrlX+i, y1, r, title)
		}
	} else {
		ctrlX = x2
	}
	label := []rune(" " + f.Window.Title + " ")
	for i, r := range label {
		x := x1 + 1 + i
		if x >= ctrlX-1 {
			break
		}
		set(x, y1, r, title)
	}
}

// renderDesktop renders the visible windows as styled terminal lines.
func renderDesktop(frames []shell.Frame, cols, rows int) string {
	canvas := paint(frames, cols, rows)
	lines := make([]string, len(canvas))
	for y, row := range canvas {
		var b strings.Builder
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && row[x].role == row[start].role {
				continue
			}
			run := make([]rune, 0, x-start)
			for _, c := range row[start:x] {
				run = append(run, c.r)
			}
			b.WriteString(row[start].role.style().Render(string(run)))
			start = x
		}
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}

// plain returns the canvas characters without styling.
func plain(canvas [][]cell) []string {
	lines := make([]string, len(canvas))
	for y, row := range canvas {
		rs := make([]rune, len(row))
		for x, c := range row {
			rs[x] = c.r
		}
		lines[y] = string(rs)
	}
	return lines
}
