package motion

import "github.com/vovakirdan/tui-overworld/internal/core"

// Direction is a movement direction. The zero value means no direction.
type Direction uint8

const (
	None Direction = iota
	Up
	Down
	Left
	Right
)

// String returns the lower-case direction name used for facing attributes.
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "none"
	}
}

// FromAction maps a directional input action to a Direction.
func FromAction(a core.Action) (Direction, bool) {
	switch a {
	case core.ActionUp:
		return Up, true
	case core.ActionDown:
		return Down, true
	case core.ActionLeft:
		return Left, true
	case core.ActionRight:
		return Right, true
	}
	return None, false
}

// Held is the ordered list of currently pressed directions.
// The front entry is authoritative; the most recent press goes to the front.
type Held struct {
	dirs []Direction
}

// Press records a direction as held. A direction already held keeps its place.
// Returns true if the list changed.
func (h *Held) Press(d Direction) bool {
	if d == None || h.Has(d) {
		return false
	}
	h.dirs = append([]Direction{d}, h.dirs...)
	return true
}

// Release removes a direction. Returns true if it was held.
func (h *Held) Release(d Direction) bool {
	for i, cur := range h.dirs {
		if cur == d {
			h.dirs = append(h.dirs[:i], h.dirs[i+1:]...)
			return true
		}
	}
	return false
}

// Has reports whether d is currently held.
func (h *Held) Has(d Direction) bool {
	for _, cur := range h.dirs {
		if cur == d {
			return true
		}
	}
	return false
}

// Front returns the authoritative direction, or None when nothing is held.
func (h *Held) Front() Direction {
	if len(h.dirs) == 0 {
		return None
	}
	return h.dirs[0]
}

// Len returns the number of held directions.
func (h *Held) Len() int {
	return len(h.dirs)
}

// Clear releases every direction.
func (h *Held) Clear() {
	h.dirs = h.dirs[:0]
}
