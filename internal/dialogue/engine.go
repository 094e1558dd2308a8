// Package dialogue implements the modal dialogue engine: typewriter reveal of
// each line, skip-to-full-line on a repeated advance, a per-line sound cue and
// an end-of-sequence callback.
//
// The engine never blocks and owns no goroutines. Reveal steps are scheduled
// on a Scheduler that the host advances from its update loop.
package dialogue

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-overworld/internal/clock"
)

// CharInterval is the delay between two revealed characters.
const CharInterval = 50 * time.Millisecond

// State is the engine's position in the dialogue state machine.
type State int

const (
	StateIdle     State = iota // no session has run yet
	StateTyping                // a line is being revealed
	StateLineDone              // a line is fully shown, waiting for advance
	StateEnded                 // the last session ended
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateTyping:
		return "typing"
	case StateLineDone:
		return "line-done"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Scheduler runs callbacks after a delay and lets pending ones be cancelled.
// *clock.Timers satisfies it.
type Scheduler interface {
	After(d time.Duration, fn func()) clock.Handle
	Cancel(h clock.Handle) bool
}

// Cue is the per-line sound. Playback is best effort.
type Cue interface {
	Rewind() error
	Play() error
}

// Option configures an Engine.
type Option func(*Engine)

// WithCue sets the sound played when a line starts.
func WithCue(c Cue) Option {
	return func(e *Engine) { e.cue = c }
}

// WithLogger sets the logger used for swallowed cue errors.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithInterval overrides the per-character reveal delay.
func WithInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.interval = d
		}
	}
}

// Engine is a single dialogue session state machine. Not safe for concurrent use.
type Engine struct {
	sched    Scheduler
	cue      Cue
	logger   *log.Logger
	interval time.Duration

	lines   []string
	index   int
	active  bool
	visible bool
	ended   bool
	onEnd   func()

	typing   bool
	target   []rune
	revealed int
	timer    clock.Handle
	gen      uint64 // bumped whenever a reveal is superseded

	appends int // character appends performed, for diagnostics
	skips   int // skip-to-full-line presses in the current session
}

// New creates an idle engine scheduling reveal steps on s.
func New(s Scheduler, opts ...Option) *Engine {
	e := &Engine{
		sched:    s,
		interval: CharInterval,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard)
	}
	return e
}

// Start begins a new session and immediately advances to the first line.
// An empty sequence ends at once, calling onEnd before Start returns.
// Starting while another session is active replaces it; the replaced
// session's callback is not called.
func (e *Engine) Start(lines []string, onEnd func()) {
	e.cancelReveal()

	e.lines = append([]string(nil), lines...)
	e.index = 0
	e.active = true
	e.ended = false
	e.onEnd = onEnd
	e.skips = 0
	e.target = nil
	e.revealed = 0
	e.visible = true

	e.Advance()
}

// Advance is the single input of a running session:
// while typing it shows the current line in full, otherwise it starts
// the next line or ends the session after the last one.
// It does nothing when no session is active.
func (e *Engine) Advance() {
	if !e.active {
		return
	}

	if e.typing {
		e.cancelReveal()
		e.target = []rune(e.lines[e.index-1])
		e.revealed = len(e.target)
		e.typing = false
		e.skips++
		return
	}

	if e.index < len(e.lines) {
		e.reveal(e.lines[e.index])
		e.playCue()
		e.index++
		return
	}

	e.end()
}

// reveal clears the text and shows s one rune per interval.
// The first rune appears immediately.
func (e *Engine) reveal(s string) {
	e.cancelReveal()

	e.target = []rune(s)
	e.revealed = 0
	e.typing = true

	gen := e.gen
	var step func()
	step = func() {
		if gen != e.gen || !e.typing {
			return
		}
		if e.revealed < len(e.target) {
			e.revealed++
			e.appends++
		}
		if e.revealed >= len(e.target) {
			e.typing = false
			e.timer = 0
			return
		}
		e.timer = e.sched.After(e.interval, step)
	}
	step()
}

// cancelReveal invalidates the in-flight reveal, if any.
func (e *Engine) cancelReveal() {
	if e.timer != 0 {
		e.sched.Cancel(e.timer)
		e.timer = 0
	}
	e.gen++
	e.typing = false
}

func (e *Engine) playCue() {
	if e.cue == nil {
		return
	}
	if err := e.cue.Rewind(); err != nil {
		e.logger.Debug("dialogue cue rewind failed", "error", err)
	}
	if err := e.cue.Play(); err != nil {
		e.logger.Debug("dialogue cue blocked", "error", err)
	}
}

func (e *Engine) end() {
	e.cancelReveal()

	e.visible = false
	e.active = false
	e.ended = true
	e.lines = nil
	e.target = nil
	e.revealed = 0

	cb := e.onEnd
	e.onEnd = nil
	if cb != nil {
		cb()
	}
}

// Active reports whether a session is running.
func (e *Engine) Active() bool {
	return e.active
}

// Typing reports whether a line is still being revealed.
func (e *Engine) Typing() bool {
	return e.typing
}

// Visible reports whether the dialogue surface should be shown.
func (e *Engine) Visible() bool {
	return e.visible
}

// Text returns the currently displayed text.
func (e *Engine) Text() string {
	return string(e.target[:e.revealed])
}

// Index returns the session cursor: the number of lines started so far.
func (e *Engine) Index() int {
	return e.index
}

// Len returns the number of lines in the active session.
func (e *Engine) Len() int {
	return len(e.lines)
}

// Skips returns how many times the current or last session skipped a reveal.
func (e *Engine) Skips() int {
	return e.skips
}

// Appends returns the total number of revealed characters since creation.
func (e *Engine) Appends() int {
	return e.appends
}

// State returns the engine's state machine position.
func (e *Engine) State() State {
	switch {
	case e.typing:
		return StateTyping
	case e.active:
		return StateLineDone
	case e.ended:
		return StateEnded
	default:
		return StateIdle
	}
}
