package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/vovakirdan/tui-overworld/internal/core"
	"github.com/vovakirdan/tui-overworld/internal/motion"
	"github.com/vovakirdan/tui-overworld/internal/world"
)

// CellMetrics is the size of one terminal cell in screen pixels.
type CellMetrics struct {
	W, H int
}

// spriteCenter offsets an entity position to the middle of its tile sprite.
var spriteCenter = core.Vec2{X: motion.TileSize / 2, Y: motion.TileSize / 2}

// dialogueRows is the height of the dialogue box including its border.
const dialogueRows = 5

var facingGlyphs = map[motion.Direction]rune{
	motion.Up:    '▲',
	motion.Down:  '▼',
	motion.Left:  '◀',
	motion.Right: '▶',
}

// DrawWorld renders w into dst: a status line, the map layer offset by the
// camera transform, the NPCs, the character and the dialogue box.
func DrawWorld(dst *core.Screen, w *world.World, cm CellMetrics) {
	dst.Clear()
	if dst.Width() == 0 || dst.Height() < 2 {
		return
	}
	if cm.W < 1 || cm.H < 1 {
		cm = CellMetrics{W: 6, H: 12}
	}

	frame := w.Frame()
	ps := float64(w.PixelSize())
	if ps < 1 {
		ps = 1
	}

	drawMap(dst, w, frame.Camera, ps, cm)

	for _, n := range w.Scene().NPCs {
		x, y := toCell(n.Pos.Add(spriteCenter).Scale(ps).Add(frame.Camera), cm)
		dst.SetColor(x, y, n.Glyph, n.Color)
	}

	// The character sits inside the map layer, so its on-screen point is
	// its own transform plus the camera's.
	cx, cy := toCell(frame.Character.Add(spriteCenter.Scale(ps)).Add(frame.Camera), cm)
	glyph := facingGlyphs[frame.Facing]
	if glyph == 0 {
		glyph = '@'
	}
	dst.SetColor(cx, cy, glyph, core.ColorBrightWhite)

	drawStatus(dst, w, frame)

	if w.Dialogue().Visible() {
		drawDialogue(dst, w)
	}
}

// toCell converts a screen pixel position to a terminal cell below the status line.
func toCell(p core.Vec2, cm CellMetrics) (int, int) {
	x := int(math.Floor(p.X / float64(cm.W)))
	y := int(math.Floor(p.Y/float64(cm.H))) + 1
	return x, y
}

func drawMap(dst *core.Screen, w *world.World, camera core.Vec2, ps float64, cm CellMetrics) {
	s := w.Scene()
	tile := float64(motion.TileSize)

	for cy := 1; cy < dst.Height(); cy++ {
		sy := float64((cy-1)*cm.H) + float64(cm.H)/2
		my := (sy - camera.Y) / ps
		row := int(math.Floor(my / tile))

		for cx := 0; cx < dst.Width(); cx++ {
			sx := float64(cx*cm.W) + float64(cm.W)/2
			mx := (sx - camera.X) / ps
			col := int(math.Floor(mx / tile))

			t := s.TileAt(col, row)
			dst.SetColor(cx, cy, t.Glyph, t.Color)
		}
	}
}

func drawStatus(dst *core.Screen, w *world.World, f motion.Frame) {
	for x := 0; x < dst.Width(); x++ {
		dst.SetColor(x, 0, ' ', core.ColorDefault)
	}

	left := fmt.Sprintf(" %s ", w.Scene().Title)
	dst.DrawTextColor(0, 0, left, core.ColorBrightYellow)

	state := "idle"
	if f.Walking {
		state = "walking"
	}
	if f.Suspended {
		state = "talking"
	}
	right := fmt.Sprintf("(%.2f, %.2f) %s %s ", f.Position.X, f.Position.Y, f.Facing, state)
	dst.DrawTextColor(dst.Width()-ansi.StringWidth(right), 0, right, core.ColorGray)
}

func drawDialogue(dst *core.Screen, w *world.World) {
	width := dst.Width()
	top := dst.Height() - dialogueRows
	if top < 1 {
		top = 1
	}
	box := core.NewRect(0, top, width, dst.Height()-top)

	for y := box.Y; y < box.Bottom(); y++ {
		for x := box.X; x < box.Right(); x++ {
			dst.SetColor(x, y, ' ', core.ColorDefault)
		}
	}
	dst.DrawBox(box, core.ColorBrightCyan)

	if npc, ok := w.Speaker(); ok {
		dst.DrawTextColor(2, box.Y, " "+npc.Name+" ", npc.Color)
	}

	d := w.Dialogue()
	lines := wrapText(d.Text(), width-4)
	for i, line := range lines {
		y := box.Y + 1 + i
		if y >= box.Bottom()-1 {
			break
		}
		dst.DrawText(2, y, line)
	}

	if !d.Typing() && d.Active() {
		marker := fmt.Sprintf(" %d/%d ▼ ", d.Index(), d.Len())
		dst.DrawTextColor(width-2-ansi.StringWidth(marker), box.Bottom()-1, marker, core.ColorBrightCyan)
	}
}

// wrapText breaks s into lines no wider than width, preferring word breaks.
func wrapText(s string, width int) []string {
	if width < 1 || s == "" {
		return nil
	}
	return strings.Split(ansi.Wrap(s, width, ""), "\n")
}
