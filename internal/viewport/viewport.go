// Package viewport tracks the size of the desktop surface and tells
// subscribers when it changes.
package viewport

import (
	"fmt"
	"sort"
	"sync"
)

// Size is the visible desktop area in pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Valid reports whether both dimensions are positive.
func (s Size) Valid() bool {
	return s.Width > 0 && s.Height > 0
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Listener is called with the new size after a change.
type Listener func(Size)

// Tracker holds the current viewport size and notifies listeners when it
// changes.
type Tracker struct {
	mu        sync.Mutex
	size      Size
	listeners map[int]Listener
	nextID    int
}

// NewTracker creates a tracker seeded with initial.
func NewTracker(initial Size) *Tracker {
	return &Tracker{
		size:      initial,
		listeners: make(map[int]Listener),
	}
}

// Current returns the current size.
func (t *Tracker) Current() Size {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.size
}

// Set updates the size. Listeners run only when the size actually changed,
// after the lock is released, in subscription order.
func (t *Tracker) Set(size Size) bool {
	t.mu.Lock()
	if size == t.size {
		t.mu.Unlock()
		return false
	}
	t.size = size
	ids := make([]int, 0, len(t.listeners))
	for id := range t.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]Listener, 0, len(ids))
	for _, id := range ids {
		fns = append(fns, t.listeners[id])
	}
	t.mu.Unlock()

	for _, fn := range fns {
		fn(size)
	}
	return true
}

// Subscribe registers fn and returns a function that removes it. The cancel
// function may be called more than once.
func (t *Tracker) Subscribe(fn Listener) (cancel func()) {
	t.mu.Lock()
	id := t.nextID
	t.nextID++
	t.listeners[id] = fn
	t.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.listeners, id)
			t.mu.Unlock()
		})
	}
}

// Listeners returns the number of registered listeners.
func (t *Tracker) Listeners() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.listeners)
}
