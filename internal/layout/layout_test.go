package layout

import (
	"testing"

	"github.com/1broseidon/hauntedos/internal/viewport"
	"github.com/1broseidon/hauntedos/internal/window"
)

func fixedJitter(v float64) Jitter {
	return func() float64 { return v }
}

func TestBreakpoint(t *testing.T) {
	m := DefaultMetrics()
	tests := []struct {
		width int
		want  Breakpoint
	}{
		{320, Narrow},
		{639, Narrow},
		{640, Medium},
		{1023, Medium},
		{1024, Wide},
		{2560, Wide},
	}
	for _, tt := range tests {
		if got := m.Breakpoint(viewport.Size{Width: tt.width, Height: 800}); got != tt.want {
			t.Errorf("Breakpoint(%d) = %v, want %v", tt.width, got, tt.want)
		}
	}
}

func TestSize(t *testing.T) {
	m := DefaultMetrics()
	tests := []struct {
		name  string
		vp    viewport.Size
		wantW int
		wantH int
	}{
		{"narrow", viewport.Size{Width: 400, Height: 700}, 380, 620},
		{"medium capped", viewport.Size{Width: 900, Height: 900}, 600, 500},
		{"medium bounded by viewport", viewport.Size{Width: 650, Height: 560}, 550, 440},
		{"wide", viewport.Size{Width: 1920, Height: 1080}, 800, 600},
		{"degenerate narrow", viewport.Size{Width: 10, Height: 50}, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := m.Size(tt.vp)
			if w != tt.wantW || h != tt.wantH {
				t.Fatalf("Size(%v) = %dx%d, want %dx%d", tt.vp, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestBounds(t *testing.T) {
	m := DefaultMetrics()

	b := m.Bounds(viewport.Size{Width: 1280, Height: 800}, 800, 600)
	want := Bounds{MinX: 0, MaxX: 460, MinY: 20, MaxY: 116}
	if b != want {
		t.Fatalf("Bounds = %+v, want %+v", b, want)
	}

	// A window larger than the viewport collapses the range to its minimum.
	b = m.Bounds(viewport.Size{Width: 500, Height: 400}, 800, 600)
	if b.MaxX != 0 || b.MaxY != b.MinY {
		t.Fatalf("oversized window bounds = %+v", b)
	}
	if b.MinY != m.TopInsetNarrow {
		t.Fatalf("narrow MinY = %d, want %d", b.MinY, m.TopInsetNarrow)
	}
}

func TestPlace(t *testing.T) {
	m := DefaultMetrics()

	t.Run("narrow pinned", func(t *testing.T) {
		r := m.Place(viewport.Size{Width: 400, Height: 700}, fixedJitter(0.99))
		want := window.Rect{X: 0, Y: 30, Width: 380, Height: 620}
		if r != want {
			t.Fatalf("Place = %+v, want %+v", r, want)
		}
	})

	t.Run("narrow placement survives mount clamp", func(t *testing.T) {
		vp := viewport.Size{Width: 400, Height: 700}
		r := m.Place(vp, nil)
		if _, moved := m.EnsureVisible(r, vp); moved {
			t.Fatalf("placed narrow window %+v is out of bounds", r)
		}
	})

	t.Run("narrow top is configurable", func(t *testing.T) {
		custom := DefaultMetrics()
		custom.NarrowTop = 60
		r := custom.Place(viewport.Size{Width: 400, Height: 900}, nil)
		if r.X != 0 || r.Y != 60 {
			t.Fatalf("Place = %+v, want 0,60", r)
		}
	})

	t.Run("medium pinned", func(t *testing.T) {
		r := m.Place(viewport.Size{Width: 900, Height: 900}, fixedJitter(0.99))
		want := window.Rect{X: 50, Y: 40, Width: 600, Height: 500}
		if r != want {
			t.Fatalf("Place = %+v, want %+v", r, want)
		}
	})

	t.Run("wide jitter range", func(t *testing.T) {
		vp := viewport.Size{Width: 1920, Height: 1080}
		lo := m.Place(vp, fixedJitter(0))
		if lo.X != 100 || lo.Y != 50 {
			t.Fatalf("Place(jitter=0) = %+v, want origin 100,50", lo)
		}
		hi := m.Place(vp, fixedJitter(0.5))
		if hi.X != 200 || hi.Y != 100 {
			t.Fatalf("Place(jitter=0.5) = %+v, want 200,100", hi)
		}
		if hi.Width != 800 || hi.Height != 600 {
			t.Fatalf("wide size = %dx%d", hi.Width, hi.Height)
		}
	})

	t.Run("wide jitter respects max position", func(t *testing.T) {
		vp := viewport.Size{Width: 1100, Height: 760}
		r := m.Place(vp, fixedJitter(0.99))
		b := m.Bounds(vp, r.Width, r.Height)
		if !b.Contains(r.X, r.Y) {
			t.Fatalf("Place = %+v outside bounds %+v", r, b)
		}
		if r.Y != b.MaxY {
			t.Fatalf("expected y clamped to %d, got %d", b.MaxY, r.Y)
		}
	})

	t.Run("nil jitter", func(t *testing.T) {
		r := m.Place(viewport.Size{Width: 1920, Height: 1080}, nil)
		if r.X != 100 || r.Y != 50 {
			t.Fatalf("Place(nil) = %+v", r)
		}
	})
}

func TestRelayout_ViewportShrinkToNarrow(t *testing.T) {
	m := DefaultMetrics()
	r := window.Rect{X: 150, Y: 80, Width: 800, Height: 600}

	got, changed := m.Relayout(r, viewport.Size{Width: 400, Height: 700})
	if !changed {
		t.Fatal("expected relayout to report a change")
	}
	if got.Width != 380 || got.Height != 620 {
		t.Fatalf("size = %dx%d, want 380x620", got.Width, got.Height)
	}
	// maxX = max(0, 400-380-20) = 0, maxY = max(30, 700-620-84) = 30
	if got.X != 0 || got.Y != 30 {
		t.Fatalf("position = %d,%d, want 0,30", got.X, got.Y)
	}
}

func TestRelayout_SameSizeIsNoop(t *testing.T) {
	m := DefaultMetrics()
	// Off-screen position is left alone when the size does not change.
	r := window.Rect{X: 5000, Y: 5000, Width: 800, Height: 600}
	got, changed := m.Relayout(r, viewport.Size{Width: 1920, Height: 1080})
	if changed || got != r {
		t.Fatalf("Relayout = %+v, %v; want unchanged", got, changed)
	}
}

func TestRelayout_KeepsInRangePosition(t *testing.T) {
	m := DefaultMetrics()
	r := window.Rect{X: 40, Y: 45, Width: 800, Height: 600}
	got, changed := m.Relayout(r, viewport.Size{Width: 900, Height: 900})
	if !changed {
		t.Fatal("expected size change")
	}
	if got.X != 40 || got.Y != 45 {
		t.Fatalf("in-range position moved to %d,%d", got.X, got.Y)
	}
}

func TestClampDrag(t *testing.T) {
	m := DefaultMetrics()
	vp := viewport.Size{Width: 1280, Height: 800}
	r := window.Rect{X: 100, Y: 100, Width: 800, Height: 600}

	tests := []struct {
		name         string
		x, y         int
		wantX, wantY int
	}{
		{"in bounds", 200, 60, 200, 60},
		{"left", -50, 60, 0, 60},
		{"top", 200, 0, 200, 20},
		{"right", 900, 60, 460, 60},
		{"bottom", 200, 700, 200, 116},
		{"corner", 9999, 9999, 460, 116},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := m.ClampDrag(r, tt.x, tt.y, vp)
			if x != tt.wantX || y != tt.wantY {
				t.Fatalf("ClampDrag(%d,%d) = %d,%d; want %d,%d", tt.x, tt.y, x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestClampDrag_Idempotent(t *testing.T) {
	m := DefaultMetrics()
	vps := []viewport.Size{
		{Width: 400, Height: 700},
		{Width: 900, Height: 900},
		{Width: 1920, Height: 1080},
	}
	for _, vp := range vps {
		w, h := m.Size(vp)
		r := window.Rect{Width: w, Height: h}
		b := m.Bounds(vp, w, h)
		for x := b.MinX; x <= b.MaxX; x += 7 {
			for y := b.MinY; y <= b.MaxY; y += 5 {
				gx, gy := m.ClampDrag(r, x, y, vp)
				if gx != x || gy != y {
					t.Fatalf("vp %v: ClampDrag(%d,%d) = %d,%d", vp, x, y, gx, gy)
				}
				// Clamping an already clamped value is stable.
				hx, hy := m.ClampDrag(r, gx, gy, vp)
				if hx != gx || hy != gy {
					t.Fatalf("vp %v: second clamp moved %d,%d -> %d,%d", vp, gx, gy, hx, hy)
				}
			}
		}
	}
}

func TestEnsureVisible(t *testing.T) {
	m := DefaultMetrics()
	vp := viewport.Size{Width: 1280, Height: 800}

	r := window.Rect{X: 2000, Y: -10, Width: 800, Height: 600}
	got, changed := m.EnsureVisible(r, vp)
	if !changed || got.X != 460 || got.Y != 20 {
		t.Fatalf("EnsureVisible = %+v, %v", got, changed)
	}
	if got.Width != 800 || got.Height != 600 {
		t.Fatalf("EnsureVisible changed size: %+v", got)
	}

	in := window.Rect{X: 10, Y: 30, Width: 800, Height: 600}
	if got, changed := m.EnsureVisible(in, vp); changed || got != in {
		t.Fatalf("EnsureVisible moved in-range window: %+v", got)
	}
}

func TestValidate(t *testing.T) {
	if err := DefaultMetrics().Validate(); err != nil {
		t.Fatalf("default metrics invalid: %v", err)
	}

	m := DefaultMetrics()
	m.WideFrom = m.NarrowBelow
	if err := m.Validate(); err == nil {
		t.Fatal("expected error when wide_from <= narrow_below")
	}

	m = DefaultMetrics()
	m.BottomReserve = -1
	if err := m.Validate(); err == nil {
		t.Fatal("expected error for negative bottom_reserve")
	}
}
