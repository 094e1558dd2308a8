package clock

import (
	"testing"
	"time"
)

func TestTimersFireInDueOrder(t *testing.T) {
	tm := New()
	var order []string

	tm.After(30*time.Millisecond, func() { order = append(order, "c") })
	tm.After(10*time.Millisecond, func() { order = append(order, "a") })
	tm.After(20*time.Millisecond, func() { order = append(order, "b") })
	tm.After(10*time.Millisecond, func() { order = append(order, "a2") })

	if n := tm.Advance(25 * time.Millisecond); n != 3 {
		t.Errorf("Advance fired %d callbacks, expected 3", n)
	}
	if got := len(order); got != 3 || order[0] != "a" || order[1] != "a2" || order[2] != "b" {
		t.Errorf("order = %v, expected [a a2 b]", order)
	}
	if tm.Now() != 25*time.Millisecond {
		t.Errorf("Now() = %v, expected 25ms", tm.Now())
	}
	if tm.Pending() != 1 {
		t.Errorf("Pending() = %d, expected 1", tm.Pending())
	}
}

func TestTimersCancel(t *testing.T) {
	tm := New()
	fired := false
	h := tm.After(5*time.Millisecond, func() { fired = true })

	if !tm.Cancel(h) {
		t.Fatal("Cancel should report a pending handle")
	}
	if tm.Cancel(h) {
		t.Error("second Cancel should report false")
	}
	tm.Advance(time.Second)
	if fired {
		t.Error("cancelled callback fired")
	}
}

func TestTimersChainedCadence(t *testing.T) {
	// A callback rescheduling itself every 50ms must hit exact multiples of
	// 50ms even when the host advances in uneven frame-sized steps.
	tm := New()
	var stamps []time.Duration
	var tick func()
	tick = func() {
		stamps = append(stamps, tm.Now())
		if len(stamps) < 5 {
			tm.After(50*time.Millisecond, tick)
		}
	}
	tm.After(0, tick)

	for i := 0; i < 20; i++ {
		tm.Advance(17 * time.Millisecond)
	}

	if len(stamps) != 5 {
		t.Fatalf("got %d ticks, expected 5", len(stamps))
	}
	for i, s := range stamps {
		if want := time.Duration(i) * 50 * time.Millisecond; s != want {
			t.Errorf("tick %d at %v, expected %v", i, s, want)
		}
	}
}

func TestTimersCatchUpInOneAdvance(t *testing.T) {
	tm := New()
	count := 0
	var tick func()
	tick = func() {
		count++
		tm.After(10*time.Millisecond, tick)
	}
	tm.After(10*time.Millisecond, tick)

	// A long stall runs every overdue step, not just one.
	tm.Advance(100 * time.Millisecond)
	if count != 10 {
		t.Errorf("count = %d, expected 10", count)
	}
}

func TestTimersReset(t *testing.T) {
	tm := New()
	tm.After(time.Millisecond, func() { t.Error("should not fire after Reset") })
	tm.Advance(0)
	tm.Reset()

	if tm.Pending() != 0 || tm.Now() != 0 {
		t.Errorf("Reset left pending=%d now=%v", tm.Pending(), tm.Now())
	}
	tm.Advance(time.Second)
}
