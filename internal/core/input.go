package core

// Action represents a semantic input action, abstracted from physical key presses.
// Hosts translate their own key events (terminal key strings, Ebiten keys) into actions.
type Action int

const (
	ActionNone     Action = iota
	ActionUp              // Up arrow, W
	ActionDown            // Down arrow, S
	ActionLeft            // Left arrow, A
	ActionRight           // Right arrow, D
	ActionInteract        // E, Enter, Space - talk to a neighbour or advance dialogue
	ActionHelp            // ? - toggle the key help
	ActionQuit            // Q, Ctrl+C
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionInteract:
		return "Interact"
	case ActionHelp:
		return "Help"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// IsDirection reports whether the action is one of the four movement directions.
func (a Action) IsDirection() bool {
	return a == ActionUp || a == ActionDown || a == ActionLeft || a == ActionRight
}
