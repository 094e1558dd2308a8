package window

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/vovakirdan/tui-overworld/internal/core"
	"github.com/vovakirdan/tui-overworld/internal/motion"
)

var (
	background = color.RGBA{0x10, 0x10, 0x18, 0xff}
	boxFill    = color.RGBA{0x08, 0x08, 0x20, 0xe8}
	boxFrame   = color.RGBA{0x60, 0xd0, 0xe0, 0xff}
	textColor  = color.RGBA{0xf0, 0xf0, 0xf0, 0xff}
)

var palette = map[core.Color]color.RGBA{
	core.ColorDefault:      {0xc0, 0xc0, 0xc0, 0xff},
	core.ColorRed:          {0xc0, 0x40, 0x40, 0xff},
	core.ColorGreen:        {0x38, 0x88, 0x38, 0xff},
	core.ColorYellow:       {0xd8, 0xc0, 0x40, 0xff},
	core.ColorBlue:         {0x30, 0x58, 0xc0, 0xff},
	core.ColorMagenta:      {0xb0, 0x48, 0xb0, 0xff},
	core.ColorCyan:         {0x40, 0xb0, 0xc0, 0xff},
	core.ColorWhite:        {0xe0, 0xe0, 0xe0, 0xff},
	core.ColorBrightGreen:  {0x60, 0xc8, 0x50, 0xff},
	core.ColorBrightYellow: {0xff, 0xe8, 0x60, 0xff},
	core.ColorBrightCyan:   {0x70, 0xe8, 0xf0, 0xff},
	core.ColorBrightWhite:  {0xff, 0xff, 0xff, 0xff},
	core.ColorBrown:        {0x88, 0x58, 0x30, 0xff},
	core.ColorGray:         {0x70, 0x70, 0x78, 0xff},
}

// rgba returns the window color for a terminal palette entry.
func rgba(c core.Color) color.RGBA {
	if v, ok := palette[c]; ok {
		return v
	}
	return palette[core.ColorDefault]
}

// Draw renders the map, NPCs and character through the camera transform,
// then the dialogue box on top.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)

	frame := g.world.Frame()
	ps := float32(max(g.world.PixelSize(), 1))
	cam := frame.Camera
	tile := float32(motion.TileSize) * ps

	s := g.world.Scene()
	for row := 0; row < s.Height(); row++ {
		for col := 0; col < s.Width(); col++ {
			t := s.TileAt(col, row)
			if t.Glyph == ' ' {
				continue
			}
			x := float32(col)*tile + float32(cam.X)
			y := float32(row)*tile + float32(cam.Y)
			vector.FillRect(screen, x, y, tile, tile, rgba(t.Color), false)
			if t.Glyph == '#' {
				vector.StrokeRect(screen, x, y, tile, tile, 1, background, false)
			}
		}
	}

	for _, n := range s.NPCs {
		p := n.Pos.Scale(float64(ps)).Add(cam)
		inset := 2 * ps
		vector.FillRect(screen, float32(p.X)+inset, float32(p.Y)+inset, tile-2*inset, tile-2*inset, rgba(n.Color), false)
	}

	// Character transform inside the map layer.
	p := frame.Character.Add(cam)
	cx, cy := float32(p.X), float32(p.Y)
	vector.FillRect(screen, cx+ps, cy+ps, tile-2*ps, tile-2*ps, palette[core.ColorBrightWhite], false)
	fx, fy := facingMarker(frame.Facing, tile)
	vector.FillRect(screen, cx+fx-ps, cy+fy-ps, 2*ps, 2*ps, background, false)

	if g.world.Dialogue().Visible() {
		g.drawDialogue(screen, ps)
	}
}

// facingMarker returns the offset inside a tile sprite of the facing dot.
func facingMarker(d motion.Direction, tile float32) (float32, float32) {
	mid := tile / 2
	edge := tile / 5
	switch d {
	case motion.Up:
		return mid, edge
	case motion.Left:
		return edge, mid
	case motion.Right:
		return tile - edge, mid
	default:
		return mid, tile - edge
	}
}

func (g *Game) drawDialogue(screen *ebiten.Image, ps float32) {
	b := screen.Bounds()
	w := float32(b.Dx())
	h := float32(b.Dy())
	boxH := h / 3
	pad := 4 * ps
	top := h - boxH - pad

	vector.FillRect(screen, pad, top, w-2*pad, boxH, boxFill, false)
	vector.StrokeRect(screen, pad, top, w-2*pad, boxH, ps, boxFrame, false)

	lineH := g.face.Metrics().HAscent + g.face.Metrics().HDescent
	x := float64(pad * 2)
	y := float64(top + pad)

	if npc, ok := g.world.Speaker(); ok {
		drawText(screen, npc.Name, g.face, x, y, rgba(npc.Color))
		y += lineH
	}

	d := g.world.Dialogue()
	advance, _ := text.Measure("M", g.face, 0)
	cols := int(math.Floor(float64(w-4*pad) / advance))
	for _, line := range wrapLines(d.Text(), cols) {
		if y+lineH > float64(top+boxH) {
			break
		}
		drawText(screen, line, g.face, x, y, textColor)
		y += lineH
	}

	if d.Active() && !d.Typing() {
		marker := fmt.Sprintf("%d/%d >", d.Index(), d.Len())
		mw, _ := text.Measure(marker, g.face, 0)
		drawText(screen, marker, g.face, float64(w-2*pad)-mw, float64(top+boxH)-lineH, boxFrame)
	}
}

func drawText(dst *ebiten.Image, s string, face text.Face, x, y float64, c color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	text.Draw(dst, s, face, op)
}

func wrapLines(s string, width int) []string {
	if s == "" || width < 1 {
		return nil
	}
	return strings.Split(ansi.Wrap(s, width, ""), "\n")
}
