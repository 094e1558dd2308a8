// Package tui provides the Bubble Tea host for the overworld.
// It handles the terminal frame loop, input mapping, and rendering.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// maxFrameStep caps the time fed to the world after a stall, so a
// suspended terminal does not replay seconds of walking at once.
const maxFrameStep = 250 * time.Millisecond

// TickMsg is sent to trigger one animation frame.
// Loop identifies the frame loop that scheduled it; a model drops ticks
// from loops it does not own, so a re-entered scene never runs two loops.
type TickMsg struct {
	Time time.Time
	Loop uint64
}

var loopSeq atomic.Uint64

// newLoopID returns a process-unique frame loop identifier.
func newLoopID() uint64 {
	return loopSeq.Add(1)
}

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int, loop uint64) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 60
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t, Loop: loop}
	})
}

// frameDelta returns the time between two ticks, clamped to [0, maxFrameStep].
// The first tick of a session uses the nominal frame interval.
func frameDelta(last, now time.Time, tickRate int) time.Duration {
	if last.IsZero() {
		if tickRate <= 0 {
			tickRate = 60
		}
		return time.Second / time.Duration(tickRate)
	}
	dt := now.Sub(last)
	if dt < 0 {
		return 0
	}
	if dt > maxFrameStep {
		return maxFrameStep
	}
	return dt
}
