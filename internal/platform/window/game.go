// Package window hosts the overworld in a desktop or browser window using
// Ebitengine. Unlike a terminal it sees real key-down and key-up events,
// so held directions map one to one onto the world's held list.
package window

import (
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"

	"github.com/vovakirdan/tui-overworld/internal/motion"
	"github.com/vovakirdan/tui-overworld/internal/world"
)

// ViewW and ViewH are the logical view size in map pixels.
const (
	ViewW = 160
	ViewH = 144
)

// TPS is the fixed update rate.
const TPS = 60

var errQuit = errors.New("window: quit")

var directionKeys = []struct {
	dir  motion.Direction
	keys []ebiten.Key
}{
	{motion.Up, []ebiten.Key{ebiten.KeyArrowUp, ebiten.KeyW}},
	{motion.Down, []ebiten.Key{ebiten.KeyArrowDown, ebiten.KeyS}},
	{motion.Left, []ebiten.Key{ebiten.KeyArrowLeft, ebiten.KeyA}},
	{motion.Right, []ebiten.Key{ebiten.KeyArrowRight, ebiten.KeyD}},
}

var interactKeys = []ebiten.Key{ebiten.KeyE, ebiten.KeyEnter, ebiten.KeySpace}

// Game implements ebiten.Game for one world.
type Game struct {
	world  *world.World
	face   text.Face
	down   map[motion.Direction]bool
	logger *log.Logger
}

// NewGame wraps w for the window host.
func NewGame(w *world.World, logger *log.Logger) *Game {
	if logger == nil {
		logger = log.Default()
	}
	return &Game{
		world:  w,
		face:   text.NewGoXFace(basicfont.Face7x13),
		down:   make(map[motion.Direction]bool),
		logger: logger,
	}
}

// Update reads input and advances the world by one fixed step.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return errQuit
	}

	g.syncHeld(ebiten.IsKeyPressed)

	for _, k := range interactKeys {
		if inpututil.IsKeyJustPressed(k) {
			g.world.Interact()
			break
		}
	}

	g.world.Tick(time.Second / time.Duration(ebiten.TPS()))
	return nil
}

// syncHeld turns key state edges into world Press/Release calls.
func (g *Game) syncHeld(pressed func(ebiten.Key) bool) {
	for _, dk := range directionKeys {
		now := false
		for _, k := range dk.keys {
			if pressed(k) {
				now = true
				break
			}
		}
		switch {
		case now && !g.down[dk.dir]:
			g.world.Press(dk.dir)
		case !now && g.down[dk.dir]:
			g.world.Release(dk.dir)
		}
		g.down[dk.dir] = now
	}
}

// Layout returns the logical screen size: the view scaled by the pixel size.
func (g *Game) Layout(_, _ int) (int, int) {
	ps := max(g.world.PixelSize(), 1)
	return ViewW * ps, ViewH * ps
}

// Run opens the window and blocks until it is closed or Esc is pressed.
func Run(g *Game, title string) error {
	ps := max(g.world.PixelSize(), 1)
	ebiten.SetWindowSize(ViewW*ps, ViewH*ps)
	ebiten.SetWindowTitle(title)
	ebiten.SetTPS(TPS)

	err := ebiten.RunGame(g)
	if errors.Is(err, errQuit) {
		return nil
	}
	return err
}
