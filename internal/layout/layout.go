// Package layout holds the geometry rules for desktop windows: which size a
// window gets at a given viewport width, where a new window is placed, how
// existing windows adapt when the viewport changes, and how far a window may
// be dragged.
//
// Every threshold and margin lives in Metrics. Placement, re-layout and drag
// clamping all go through Size and Bounds so they cannot disagree.
package layout

import (
	"fmt"

	"github.com/1broseidon/hauntedos/internal/viewport"
	"github.com/1broseidon/hauntedos/internal/window"
)

// Breakpoint selects one of three discrete default window sizes.
type Breakpoint int

const (
	Narrow Breakpoint = iota
	Medium
	Wide
)

func (b Breakpoint) String() string {
	switch b {
	case Narrow:
		return "narrow"
	case Medium:
		return "medium"
	case Wide:
		return "wide"
	default:
		return "unknown"
	}
}

// Offset is a fixed pixel offset.
type Offset struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
}

// Metrics are the layout constants.
type Metrics struct {
	NarrowBelow int `yaml:"narrow_below"` // viewport widths below this are narrow
	WideFrom    int `yaml:"wide_from"`    // viewport widths at or above this are wide

	NarrowInsetWidth  int `yaml:"narrow_inset_width"`  // narrow: width = W - inset
	NarrowInsetHeight int `yaml:"narrow_inset_height"` // narrow: height = H - inset

	MediumMaxWidth    int `yaml:"medium_max_width"`
	MediumMaxHeight   int `yaml:"medium_max_height"`
	MediumInsetWidth  int `yaml:"medium_inset_width"`
	MediumInsetHeight int `yaml:"medium_inset_height"`

	WideWidth  int `yaml:"wide_width"`
	WideHeight int `yaml:"wide_height"`

	RightMargin    int `yaml:"right_margin"`
	BottomReserve  int `yaml:"bottom_reserve"` // taskbar height plus padding
	TopInset       int `yaml:"top_inset"`
	TopInsetNarrow int `yaml:"top_inset_narrow"` // room for a mobile status bar

	NarrowTop    int    `yaml:"narrow_top"` // narrow windows span the width and sit at MinX
	MediumOffset Offset `yaml:"medium_offset"`
	WideOrigin   Offset `yaml:"wide_origin"`
	WideJitter   Offset `yaml:"wide_jitter"`
}

// DefaultMetrics returns the stock desktop metrics.
func DefaultMetrics() Metrics {
	return Metrics{
		NarrowBelow:       640,
		WideFrom:          1024,
		NarrowInsetWidth:  20,
		NarrowInsetHeight: 80,
		MediumMaxWidth:    600,
		MediumMaxHeight:   500,
		MediumInsetWidth:  100,
		MediumInsetHeight: 120,
		WideWidth:         800,
		WideHeight:        600,
		RightMargin:       20,
		BottomReserve:     84,
		TopInset:          20,
		TopInsetNarrow:    30,
		NarrowTop:         30,
		MediumOffset:      Offset{X: 50, Y: 40},
		WideOrigin:        Offset{X: 100, Y: 50},
		WideJitter:        Offset{X: 200, Y: 100},
	}
}

// Validate checks that the metrics describe a usable layout.
func (m Metrics) Validate() error {
	if m.NarrowBelow <= 0 {
		return fmt.Errorf("narrow_below must be > 0")
	}
	if m.WideFrom <= m.NarrowBelow {
		return fmt.Errorf("wide_from (%d) must be greater than narrow_below (%d)", m.WideFrom, m.NarrowBelow)
	}
	if m.WideWidth <= 0 || m.WideHeight <= 0 {
		return fmt.Errorf("wide size must be positive (got %dx%d)", m.WideWidth, m.WideHeight)
	}
	if m.MediumMaxWidth <= 0 || m.MediumMaxHeight <= 0 {
		return fmt.Errorf("medium max size must be positive (got %dx%d)", m.MediumMaxWidth, m.MediumMaxHeight)
	}
	for name, v := range map[string]int{
		"narrow_inset_width":  m.NarrowInsetWidth,
		"narrow_inset_height": m.NarrowInsetHeight,
		"medium_inset_width":  m.MediumInsetWidth,
		"medium_inset_height": m.MediumInsetHeight,
		"right_margin":        m.RightMargin,
		"bottom_reserve":      m.BottomReserve,
		"top_inset":           m.TopInset,
		"top_inset_narrow":    m.TopInsetNarrow,
		"narrow_top":          m.NarrowTop,
		"wide_jitter.x":       m.WideJitter.X,
		"wide_jitter.y":       m.WideJitter.Y,
	} {
		if v < 0 {
			return fmt.Errorf("%s must be >= 0 (got %d)", name, v)
		}
	}
	return nil
}

// Breakpoint classifies a viewport by width.
func (m Metrics) Breakpoint(vp viewport.Size) Breakpoint {
	switch {
	case vp.Width < m.NarrowBelow:
		return Narrow
	case vp.Width < m.WideFrom:
		return Medium
	default:
		return Wide
	}
}

// Size returns the default window size for the viewport.
func (m Metrics) Size(vp viewport.Size) (width, height int) {
	switch m.Breakpoint(vp) {
	case Narrow:
		width = vp.Width - m.NarrowInsetWidth
		height = vp.Height - m.NarrowInsetHeight
	case Medium:
		width = min(m.MediumMaxWidth, vp.Width-m.MediumInsetWidth)
		height = min(m.MediumMaxHeight, vp.Height-m.MediumInsetHeight)
	default:
		width = m.WideWidth
		height = m.WideHeight
	}
	return max(width, 1), max(height, 1)
}

// TopInsetFor returns the minimum y for a window at the viewport's breakpoint.
func (m Metrics) TopInsetFor(vp viewport.Size) int {
	if m.Breakpoint(vp) == Narrow {
		return m.TopInsetNarrow
	}
	return m.TopInset
}

// Bounds is the allowed range for a window's top-left corner.
type Bounds struct {
	MinX, MaxX int
	MinY, MaxY int
}

// Bounds returns the position range that keeps a width×height window on
// screen, clear of the right margin and the taskbar.
func (m Metrics) Bounds(vp viewport.Size, width, height int) Bounds {
	minY := m.TopInsetFor(vp)
	return Bounds{
		MinX: 0,
		MaxX: max(0, vp.Width-width-m.RightMargin),
		MinY: minY,
		MaxY: max(minY, vp.Height-height-m.BottomReserve),
	}
}

// Contains reports whether (x, y) is inside the bounds.
func (b Bounds) Contains(x, y int) bool {
	return x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

// Clamp moves (x, y) into the bounds.
func (b Bounds) Clamp(x, y int) (int, int) {
	return clamp(x, b.MinX, b.MaxX), clamp(y, b.MinY, b.MaxY)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Jitter returns a value in [0, 1).
type Jitter func() float64

// Place computes the geometry of a newly opened window. Narrow and medium
// viewports use a pinned offset; wide viewports scatter windows near the
// top-left so repeated opens do not stack exactly.
func (m Metrics) Place(vp viewport.Size, jitter Jitter) window.Rect {
	w, h := m.Size(vp)
	b := m.Bounds(vp, w, h)

	var x, y int
	switch m.Breakpoint(vp) {
	case Narrow:
		x, y = b.MinX, m.NarrowTop
	case Medium:
		x, y = m.MediumOffset.X, m.MediumOffset.Y
	default:
		jx, jy := 0.0, 0.0
		if jitter != nil {
			jx, jy = jitter(), jitter()
		}
		x = m.WideOrigin.X + int(jx*float64(m.WideJitter.X))
		y = m.WideOrigin.Y + int(jy*float64(m.WideJitter.Y))
	}
	x, y = b.Clamp(x, y)
	return window.Rect{X: x, Y: y, Width: w, Height: h}
}

// Relayout adapts an existing window to a new viewport. When the
// breakpoint size differs from r's size the size is replaced and the
// position pulled back into range. It reports whether anything changed.
func (m Metrics) Relayout(r window.Rect, vp viewport.Size) (window.Rect, bool) {
	w, h := m.Size(vp)
	if r.Width == w && r.Height == h {
		return r, false
	}
	r.Width, r.Height = w, h
	r.X, r.Y = m.Bounds(vp, w, h).Clamp(r.X, r.Y)
	return r, true
}

// EnsureVisible clamps r's position into range without touching its size.
func (m Metrics) EnsureVisible(r window.Rect, vp viewport.Size) (window.Rect, bool) {
	b := m.Bounds(vp, r.Width, r.Height)
	if b.Contains(r.X, r.Y) {
		return r, false
	}
	r.X, r.Y = b.Clamp(r.X, r.Y)
	return r, true
}

// ClampDrag bounds a proposed drag position for a window of r's size.
func (m Metrics) ClampDrag(r window.Rect, x, y int, vp viewport.Size) (int, int) {
	return m.Bounds(vp, r.Width, r.Height).Clamp(x, y)
}

// Maximized returns the render frame of a maximized window.
func (m Metrics) Maximized(vp viewport.Size) window.Rect {
	return window.Rect{X: 0, Y: 0, Width: vp.Width, Height: vp.Height}
}
