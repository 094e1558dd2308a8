package core

import (
	"strings"
	"testing"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen(80, 24)

	if s.Width() != 80 || s.Height() != 24 {
		t.Fatalf("dimensions = %dx%d, expected 80x24", s.Width(), s.Height())
	}

	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if c := s.GetCell(x, y); c.Rune != ' ' || c.Color != ColorDefault {
				t.Fatalf("New screen should be blank, got %+v at (%d, %d)", c, x, y)
			}
		}
	}
}

func TestScreenSetColor(t *testing.T) {
	s := NewScreen(10, 10)

	s.SetColor(5, 5, '@', ColorBrightYellow)
	if c := s.GetCell(5, 5); c.Rune != '@' || c.Color != ColorBrightYellow {
		t.Errorf("GetCell(5, 5) = %+v", c)
	}

	// Out of bounds should be silent
	s.SetColor(-1, 0, 'A', ColorRed)
	s.SetColor(0, 100, 'A', ColorRed)

	if s.Get(-1, 0) != ' ' {
		t.Error("Out of bounds Get should return space")
	}
}

func TestScreenDrawTextMultibyte(t *testing.T) {
	s := NewScreen(10, 2)
	s.DrawTextColor(1, 0, "héllo", ColorCyan)

	// Runes must land in consecutive cells even when they are multi-byte
	if s.Get(2, 0) != 'é' || s.Get(3, 0) != 'l' {
		t.Errorf("row = %q", s.Row(0))
	}
	if s.GetCell(5, 0).Color != ColorCyan {
		t.Error("DrawTextColor should color every cell")
	}

	// Clipped at the right edge
	s.DrawText(8, 1, "Hello")
	if s.Row(1) != "        He" {
		t.Errorf("clipped row = %q", s.Row(1))
	}
}

func TestScreenDrawBox(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawBox(NewRect(1, 1, 5, 4), ColorWhite)

	corners := map[[2]int]rune{
		{1, 1}: '┌',
		{5, 1}: '┐',
		{1, 4}: '└',
		{5, 4}: '┘',
	}
	for pos, want := range corners {
		if got := s.Get(pos[0], pos[1]); got != want {
			t.Errorf("corner at %v = %q, expected %q", pos, got, want)
		}
	}
	if s.Get(3, 1) != '─' || s.Get(1, 2) != '│' {
		t.Error("edges not drawn")
	}
	if s.GetCell(3, 4).Color != ColorWhite {
		t.Error("box should use the given color")
	}
}

func TestScreenDrawRect(t *testing.T) {
	s := NewScreen(6, 6)
	s.DrawRect(NewRect(2, 2, 2, 2), '#')

	if s.Get(2, 2) != '#' || s.Get(3, 3) != '#' {
		t.Error("DrawRect should fill the area")
	}
	if s.Get(4, 4) != ' ' || s.Get(1, 1) != ' ' {
		t.Error("DrawRect should not affect outside area")
	}
}

func TestScreenString(t *testing.T) {
	s := NewScreen(3, 2)
	s.DrawText(0, 0, "abc")
	s.DrawText(0, 1, "def")

	if got := s.String(); got != "abc\ndef" {
		t.Errorf("String() = %q", got)
	}
}

func TestScreenResize(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawTextColor(0, 0, "Hello", ColorGreen)

	s.Resize(4, 3)
	if s.Width() != 4 || s.Height() != 3 {
		t.Fatalf("After resize, dimensions should be 4x3, got %dx%d", s.Width(), s.Height())
	}
	if s.Row(0) != "Hell" {
		t.Errorf("row 0 = %q", s.Row(0))
	}

	s.Resize(12, 6)
	if !strings.HasPrefix(s.Row(0), "Hell ") {
		t.Errorf("Content should be preserved after enlarging, row 0 = %q", s.Row(0))
	}
	if s.GetCell(0, 0).Color != ColorGreen {
		t.Error("colors should survive a resize")
	}
	if s.Row(-1) != strings.Repeat(" ", 12) {
		t.Error("Out of bounds row should be spaces")
	}
}
