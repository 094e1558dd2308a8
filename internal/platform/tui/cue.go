package tui

import "io"

// BellCue rings the terminal bell when a dialogue line starts.
type BellCue struct {
	w io.Writer
}

// NewBellCue creates a cue writing BEL to w.
func NewBellCue(w io.Writer) *BellCue {
	return &BellCue{w: w}
}

// Rewind is a no-op; a bell has no playback position.
func (b *BellCue) Rewind() error {
	return nil
}

// Play writes the BEL character.
func (b *BellCue) Play() error {
	_, err := io.WriteString(b.w, "\a")
	return err
}
