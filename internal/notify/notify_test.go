package notify

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/1broseidon/hauntedos/internal/window"
)

func TestMultiFansOutInOrder(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	m := Multi{a, Nop{}, b}

	m.WindowOpened(window.AppGhostEditor)
	m.ControlClicked("w1", ControlClose)
	m.WindowClosed("w1")
	m.WindowFocused("w2")

	want := []string{"open:ghost-editor", "click:w1:close", "close:w1", "focus:w2"}
	for _, r := range []*Recorder{a, b} {
		got := r.Events()
		if strings.Join(got, ",") != strings.Join(want, ",") {
			t.Fatalf("events = %v, want %v", got, want)
		}
	}
}

func TestBellRingsOnOpenAndClose(t *testing.T) {
	var buf bytes.Buffer
	b := NewBell(&buf)

	b.WindowOpened(window.AppSeanceChat)
	b.WindowFocused("x")
	b.ControlClicked("x", ControlMinimize)
	b.WindowClosed("x")

	if got := buf.String(); got != "\a\a" {
		t.Fatalf("bell output = %q, want two BELs", got)
	}
}

func TestLogWritesEvents(t *testing.T) {
	var buf bytes.Buffer
	l := Log{Logger: slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))}

	l.ControlClicked("crypt-files-1", ControlMaximize)

	out := buf.String()
	if !strings.Contains(out, "id=crypt-files-1") || !strings.Contains(out, "control=maximize") {
		t.Fatalf("unexpected log output: %s", out)
	}
}
