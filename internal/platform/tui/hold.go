package tui

import (
	"time"

	"github.com/vovakirdan/tui-overworld/internal/clock"
	"github.com/vovakirdan/tui-overworld/internal/motion"
)

// HoldTracker turns terminal key presses into held directions.
//
// Terminals deliver a press and then auto-repeats, never a release. Each
// press holds its direction for a fixed duration; a repeat arriving in that
// window pushes the release further out.
type HoldTracker struct {
	timers  *clock.Timers
	hold    time.Duration
	handles map[motion.Direction]clock.Handle
	press   func(motion.Direction)
	release func(motion.Direction)
}

// NewHoldTracker creates a tracker calling press and release on the world.
func NewHoldTracker(hold time.Duration, press, release func(motion.Direction)) *HoldTracker {
	return &HoldTracker{
		timers:  clock.New(),
		hold:    hold,
		handles: make(map[motion.Direction]clock.Handle),
		press:   press,
		release: release,
	}
}

// Press holds d, or extends its hold on a key repeat.
func (h *HoldTracker) Press(d motion.Direction) {
	if d == motion.None {
		return
	}
	if handle, ok := h.handles[d]; ok {
		h.timers.Cancel(handle)
	} else {
		h.press(d)
	}
	h.handles[d] = h.timers.After(h.hold, func() {
		delete(h.handles, d)
		h.release(d)
	})
}

// Advance moves the tracker's clock, releasing expired directions.
func (h *HoldTracker) Advance(dt time.Duration) {
	h.timers.Advance(dt)
}

// Held reports whether d is currently held by the tracker.
func (h *HoldTracker) Held(d motion.Direction) bool {
	_, ok := h.handles[d]
	return ok
}

// ReleaseAll drops every held direction at once.
func (h *HoldTracker) ReleaseAll() {
	for d, handle := range h.handles {
		h.timers.Cancel(handle)
		delete(h.handles, d)
		h.release(d)
	}
}
