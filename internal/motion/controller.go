// Package motion implements the per-frame character movement controller:
// held-direction integration, rectangular bound clamping and the screen-space
// transforms for the character and the camera.
package motion

import (
	"github.com/vovakirdan/tui-overworld/internal/core"
)

// TileSize is the edge length of one map tile in map pixels.
const TileSize = 16

// CharacterSpeed is the distance moved per frame while a direction is held.
const CharacterSpeed = 0.25

// DefaultBounds are the walkable limits of the reference map.
var DefaultBounds = Bounds{
	MinX: -8,
	MaxX: TileSize*11 + 8,
	MinY: -8 + 32,
	MaxY: TileSize * 7,
}

// DefaultCameraOrigin is the unscaled screen point the camera keeps the character at.
var DefaultCameraOrigin = core.Vec2{X: 66, Y: 42}

// Bounds is an inclusive rectangle in map pixels.
type Bounds struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// Clamp restricts p to the bounds, each axis independently.
func (b Bounds) Clamp(p core.Vec2) core.Vec2 {
	if p.X < b.MinX {
		p.X = b.MinX
	}
	if p.X > b.MaxX {
		p.X = b.MaxX
	}
	if p.Y < b.MinY {
		p.Y = b.MinY
	}
	if p.Y > b.MaxY {
		p.Y = b.MaxY
	}
	return p
}

// Contains reports whether p lies inside the bounds.
func (b Bounds) Contains(p core.Vec2) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

// Settings configures a Controller.
type Settings struct {
	Speed        float64
	PixelSize    int
	Bounds       Bounds
	CameraOrigin core.Vec2
}

// DefaultSettings returns the reference movement settings.
func DefaultSettings() Settings {
	return Settings{
		Speed:        CharacterSpeed,
		PixelSize:    3,
		Bounds:       DefaultBounds,
		CameraOrigin: DefaultCameraOrigin,
	}
}

// Gate reports whether movement is currently suspended.
// The dialogue engine satisfies it: movement pauses while a session is active.
type Gate interface {
	Active() bool
}

// Frame is the outcome of one AdvanceFrame call.
type Frame struct {
	Position  core.Vec2
	Facing    Direction
	Walking   bool
	Suspended bool

	// Character is the character's offset inside the map layer, in screen pixels.
	Character core.Vec2
	// Camera is the map layer's offset on screen, in screen pixels.
	Camera core.Vec2
}

// Controller owns the character position and advances it once per frame.
type Controller struct {
	settings Settings
	gate     Gate
	frame    Frame
}

// NewController creates a controller with the character at start (clamped).
// gate may be nil, in which case movement is never suspended.
func NewController(s Settings, start core.Vec2, gate Gate) *Controller {
	c := &Controller{
		settings: s,
		gate:     gate,
		frame:    Frame{Facing: Down},
	}
	c.Teleport(start)
	return c
}

// AdvanceFrame moves the character by the front held direction, clamps it
// and recomputes the render transforms. While the gate is active nothing
// changes and the previous frame is returned with Suspended set.
func (c *Controller) AdvanceFrame(held *Held) Frame {
	if c.gate != nil && c.gate.Active() {
		f := c.frame
		f.Suspended = true
		return f
	}

	pos := c.frame.Position
	dir := None
	if held != nil {
		dir = held.Front()
	}

	switch dir {
	case Right:
		pos.X += c.settings.Speed
	case Left:
		pos.X -= c.settings.Speed
	case Down:
		pos.Y += c.settings.Speed
	case Up:
		pos.Y -= c.settings.Speed
	}

	if dir != None {
		c.frame.Facing = dir
	}
	c.frame.Walking = dir != None
	c.frame.Suspended = false

	c.place(pos)
	return c.frame
}

// Teleport moves the character to p (clamped) without walking.
func (c *Controller) Teleport(p core.Vec2) {
	c.place(p)
}

// SetBounds replaces the walkable bounds and re-clamps the character.
func (c *Controller) SetBounds(b Bounds) {
	c.settings.Bounds = b
	c.place(c.frame.Position)
}

func (c *Controller) place(p core.Vec2) {
	pos := c.settings.Bounds.Clamp(p)
	ps := float64(c.settings.PixelSize)

	c.frame.Position = pos
	c.frame.Character = pos.Scale(ps)
	c.frame.Camera = pos.Scale(ps).Neg().Add(c.settings.CameraOrigin.Scale(ps))
}

// Position returns the current character position.
func (c *Controller) Position() core.Vec2 {
	return c.frame.Position
}

// Frame returns the most recent frame without advancing.
func (c *Controller) Frame() Frame {
	return c.frame
}

// PixelSize returns the configured pixel scale.
func (c *Controller) PixelSize() int {
	return c.settings.PixelSize
}

// Bounds returns the walkable bounds.
func (c *Controller) Bounds() Bounds {
	return c.settings.Bounds
}
