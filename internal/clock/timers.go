// Package clock provides a deterministic virtual timer queue.
//
// The overworld runs on a single update goroutine. Instead of wall-clock
// timers that fire on their own goroutines, the host advances a Timers value by
// the elapsed frame time and due callbacks run inline, in order, on the caller's
// goroutine. Tests drive the same queue with exact durations.
package clock

import (
	"sort"
	"time"
)

// Handle identifies a scheduled callback. The zero Handle is never issued.
type Handle uint64

type entry struct {
	id  Handle
	due time.Duration
	fn  func()
}

// Timers is a virtual-time callback queue. It is not safe for concurrent use.
type Timers struct {
	now     time.Duration
	nextID  Handle
	pending []entry // sorted by due, then id
}

// New returns an empty queue at time zero.
func New() *Timers {
	return &Timers{}
}

// Now returns the current virtual time.
func (t *Timers) Now() time.Duration {
	return t.now
}

// Pending returns the number of scheduled callbacks.
func (t *Timers) Pending() int {
	return len(t.pending)
}

// After schedules fn to run once d has elapsed from the current virtual time.
// A callback scheduled from inside another callback is measured from the
// firing callback's due time, so chained timers keep an exact cadence.
func (t *Timers) After(d time.Duration, fn func()) Handle {
	if d < 0 {
		d = 0
	}
	t.nextID++
	e := entry{id: t.nextID, due: t.now + d, fn: fn}

	i := sort.Search(len(t.pending), func(i int) bool {
		p := t.pending[i]
		return p.due > e.due || (p.due == e.due && p.id > e.id)
	})
	t.pending = append(t.pending, entry{})
	copy(t.pending[i+1:], t.pending[i:])
	t.pending[i] = e
	return e.id
}

// Cancel removes a scheduled callback. It reports whether the handle was
// still pending; cancelling a fired or unknown handle is a no-op.
func (t *Timers) Cancel(h Handle) bool {
	for i, e := range t.pending {
		if e.id == h {
			t.pending = append(t.pending[:i], t.pending[i+1:]...)
			return true
		}
	}
	return false
}

// Advance moves virtual time forward by d, running every callback that
// becomes due, in due order. It returns the number of callbacks run.
func (t *Timers) Advance(d time.Duration) int {
	if d < 0 {
		d = 0
	}
	target := t.now + d
	fired := 0

	for len(t.pending) > 0 && t.pending[0].due <= target {
		e := t.pending[0]
		t.pending = t.pending[1:]
		t.now = e.due
		e.fn()
		fired++
	}

	t.now = target
	return fired
}

// Reset drops every pending callback and rewinds time to zero.
func (t *Timers) Reset() {
	t.pending = nil
	t.now = 0
}
