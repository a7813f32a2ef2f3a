package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Area is a rectangle in root window coordinates.
type Area struct {
	X, Y          int
	Width, Height int
}

// Intersect returns the overlap of a and b, and false when they do not
// overlap.
func (a Area) Intersect(b Area) (Area, bool) {
	x1 := max(a.X, b.X)
	y1 := max(a.Y, b.Y)
	x2 := min(a.X+a.Width, b.X+b.Width)
	y2 := min(a.Y+a.Height, b.Y+b.Height)
	if x2 <= x1 || y2 <= y1 {
		return Area{}, false
	}
	return Area{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}, true
}

// RootGeometry returns the size of the root window.
func (c *Connection) RootGeometry() (Area, error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return Area{}, fmt.Errorf("failed to get root geometry: %w", err)
	}
	return Area{X: int(geom.X), Y: int(geom.Y), Width: int(geom.Width), Height: int(geom.Height)}, nil
}

// WorkArea returns the EWMH work area of the current desktop, which
// excludes panels and docks.
func (c *Connection) WorkArea() (Area, error) {
	workArea, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil {
		return Area{}, fmt.Errorf("failed to get work area: %w", err)
	}
	if len(workArea) == 0 {
		return Area{}, fmt.Errorf("window manager reports no work area")
	}

	desktopIndex := 0
	if currentDesktop, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil {
		if int(currentDesktop) >= 0 && int(currentDesktop) < len(workArea) {
			desktopIndex = int(currentDesktop)
		}
	}

	wa := workArea[desktopIndex]
	return Area{X: wa.X, Y: wa.Y, Width: int(wa.Width), Height: int(wa.Height)}, nil
}

// UsableArea is the root window narrowed to the work area when the window
// manager publishes one.
func (c *Connection) UsableArea() (Area, error) {
	root, err := c.RootGeometry()
	if err != nil {
		return Area{}, err
	}
	wa, err := c.WorkArea()
	if err != nil {
		return root, nil
	}
	if usable, ok := root.Intersect(wa); ok {
		return usable, nil
	}
	return root, nil
}
