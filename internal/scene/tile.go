package scene

import "github.com/vovakirdan/tui-overworld/internal/core"

// Tile is how one map cell looks.
type Tile struct {
	Glyph rune
	Color core.Color
}

// Void is drawn outside the map.
var Void = Tile{Glyph: ' ', Color: core.ColorDefault}

var palette = map[rune]Tile{
	'#': {Glyph: '#', Color: core.ColorGray},
	'.': {Glyph: '.', Color: core.ColorGreen},
	',': {Glyph: ',', Color: core.ColorBrightGreen},
	'"': {Glyph: '"', Color: core.ColorBrightGreen},
	'~': {Glyph: '~', Color: core.ColorBlue},
	'=': {Glyph: '=', Color: core.ColorBrown},
	'+': {Glyph: '+', Color: core.ColorYellow},
	'^': {Glyph: '^', Color: core.ColorRed},
	'*': {Glyph: '*', Color: core.ColorMagenta},
}

// TileFor maps a map character to its tile. Unknown characters are drawn
// as themselves in the default color.
func TileFor(r rune) Tile {
	if r == ' ' {
		return Void
	}
	if t, ok := palette[r]; ok {
		return t
	}
	return Tile{Glyph: r, Color: core.ColorDefault}
}
