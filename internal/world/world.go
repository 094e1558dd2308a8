// Package world holds the complete state of one overworld session: the
// virtual timers, the dialogue engine, the movement controller, the active
// scene and the story flags. Hosts drive it from a single update goroutine.
package world

import (
	"context"
	"fmt"
	"io"
	"maps"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-overworld/internal/clock"
	"github.com/vovakirdan/tui-overworld/internal/config"
	"github.com/vovakirdan/tui-overworld/internal/core"
	"github.com/vovakirdan/tui-overworld/internal/dialogue"
	"github.com/vovakirdan/tui-overworld/internal/motion"
	"github.com/vovakirdan/tui-overworld/internal/scene"
	"github.com/vovakirdan/tui-overworld/internal/script"
	"github.com/vovakirdan/tui-overworld/internal/storage"
)

// Journal records finished conversations. *storage.Store satisfies it.
type Journal interface {
	RecordConversation(c storage.Conversation) (int64, error)
}

// visitCounter is implemented by journals that can seed visit counts.
type visitCounter interface {
	VisitCount(session, sceneID, npcID string) (int, error)
}

// Options configures a World.
type Options struct {
	Config  config.Config
	Scene   *scene.Scene
	Cue     dialogue.Cue
	Journal Journal // optional
	Session string  // journal session name, "local" when empty
	Logger  *log.Logger
}

// World is one player's overworld. Not safe for concurrent use.
type World struct {
	timers *clock.Timers
	dlg    *dialogue.Engine
	ctrl   *motion.Controller
	held   motion.Held
	frame  motion.Frame

	scene         *scene.Scene
	hooks         map[string]*script.Hook
	defaultBounds motion.Bounds
	radius        float64

	flags   map[string]bool
	visits  map[string]int
	talking *scene.NPC

	journal Journal
	session string
	logger  *log.Logger
}

// New creates a world with the character at the scene's spawn point.
func New(opts Options) (*World, error) {
	if opts.Scene == nil {
		return nil, fmt.Errorf("world: no scene")
	}

	w := &World{
		timers:        clock.New(),
		defaultBounds: opts.Config.MotionSettings().Bounds,
		radius:        opts.Config.Interaction.Radius,
		flags:         make(map[string]bool),
		visits:        make(map[string]int),
		journal:       opts.Journal,
		session:       opts.Session,
		logger:        opts.Logger,
	}
	if w.session == "" {
		w.session = "local"
	}
	if w.logger == nil {
		w.logger = log.New(io.Discard)
	}

	dopts := []dialogue.Option{
		dialogue.WithLogger(w.logger),
		dialogue.WithInterval(opts.Config.CharInterval()),
	}
	if opts.Cue != nil {
		dopts = append(dopts, dialogue.WithCue(opts.Cue))
	}
	w.dlg = dialogue.New(w.timers, dopts...)

	hooks, err := compileHooks(opts.Scene)
	if err != nil {
		return nil, err
	}
	w.scene = opts.Scene
	w.hooks = hooks

	settings := opts.Config.MotionSettings()
	settings.Bounds = opts.Scene.Bounds(w.defaultBounds)
	w.ctrl = motion.NewController(settings, opts.Scene.Spawn, w.dlg)
	w.frame = w.ctrl.Frame()

	return w, nil
}

func compileHooks(s *scene.Scene) (map[string]*script.Hook, error) {
	hooks := make(map[string]*script.Hook)
	for _, n := range s.NPCs {
		if n.OnEnd == "" {
			continue
		}
		h, err := script.Compile(n.OnEnd)
		if err != nil {
			return nil, fmt.Errorf("world: scene %s npc %s: %w", s.ID, n.ID, err)
		}
		hooks[n.ID] = h
	}
	return hooks, nil
}

// Tick advances the virtual clock by dt, firing due reveal steps, then
// advances movement by one frame.
func (w *World) Tick(dt time.Duration) motion.Frame {
	w.timers.Advance(dt)
	return w.AdvanceFrame()
}

// AdvanceFrame runs the movement controller once with the held directions.
func (w *World) AdvanceFrame() motion.Frame {
	w.frame = w.ctrl.AdvanceFrame(&w.held)
	return w.frame
}

// Press marks a direction as held.
func (w *World) Press(d motion.Direction) {
	w.held.Press(d)
}

// Release drops a held direction.
func (w *World) Release(d motion.Direction) {
	w.held.Release(d)
}

// ReleaseAll drops every held direction.
func (w *World) ReleaseAll() {
	w.held.Clear()
}

// StartDialogue begins a dialogue sequence not tied to an NPC.
func (w *World) StartDialogue(lines []string, onEnd func()) {
	w.talking = nil
	w.dlg.Start(lines, onEnd)
}

// Advance advances the active dialogue. No-op when none is active.
func (w *World) Advance() {
	w.dlg.Advance()
}

// Interact advances an active dialogue, or starts a conversation with the
// nearest NPC in reach. Returns false when there was nothing to do.
func (w *World) Interact() bool {
	if w.dlg.Active() {
		w.dlg.Advance()
		return true
	}

	npc, ok := w.scene.NearestNPC(w.ctrl.Position(), w.radius)
	if !ok {
		return false
	}
	lines := npc.Lines(w.flags)
	if len(lines) == 0 {
		w.logger.Debug("npc has nothing to say", "scene", w.scene.ID, "npc", npc.ID)
		return false
	}

	w.talk(npc, lines)
	return true
}

func (w *World) talk(npc *scene.NPC, lines []string) {
	sceneID := w.scene.ID
	count := len(lines)
	w.talking = npc
	w.logger.Debug("conversation started", "scene", sceneID, "npc", npc.ID, "lines", count)

	w.dlg.Start(lines, func() {
		w.talking = nil
		key := sceneID + "/" + npc.ID
		w.visits[key] = w.seedVisits(key, sceneID, npc.ID) + 1

		w.record(sceneID, npc.ID, count, w.dlg.Skips())
		w.runHook(npc, w.visits[key])
	})
}

func (w *World) seedVisits(key, sceneID, npcID string) int {
	if n, ok := w.visits[key]; ok {
		return n
	}
	vc, ok := w.journal.(visitCounter)
	if !ok {
		return 0
	}
	n, err := vc.VisitCount(w.session, sceneID, npcID)
	if err != nil {
		w.logger.Warn("could not read visit count", "npc", npcID, "error", err)
		return 0
	}
	return n
}

func (w *World) record(sceneID, npcID string, lines, skips int) {
	if w.journal == nil {
		return
	}
	_, err := w.journal.RecordConversation(storage.Conversation{
		Session: w.session,
		SceneID: sceneID,
		NPCID:   npcID,
		Lines:   lines,
		Skips:   skips,
	})
	if err != nil {
		w.logger.Warn("could not record conversation", "npc", npcID, "error", err)
	}
}

func (w *World) runHook(npc *scene.NPC, visits int) {
	h, ok := w.hooks[npc.ID]
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), script.Timeout)
	defer cancel()

	res, err := h.Run(ctx, script.Env{NPC: npc.ID, Visits: visits, Flags: w.flags})
	if err != nil {
		w.logger.Warn("on_end hook failed", "npc", npc.ID, "error", err)
		return
	}
	w.flags = res.Flags

	if len(res.Say) > 0 {
		// Follow-up lines belong to the same NPC but do not re-run the hook.
		w.talking = npc
		w.dlg.Start(res.Say, func() { w.talking = nil })
	}
}

// SetScene swaps the active scene, keeping the character where it is
// (clamped into the new bounds). Used for hot reload.
func (w *World) SetScene(s *scene.Scene) error {
	hooks, err := compileHooks(s)
	if err != nil {
		return err
	}
	w.scene = s
	w.hooks = hooks
	w.ctrl.SetBounds(s.Bounds(w.defaultBounds))
	w.frame = w.ctrl.Frame()
	return nil
}

// EnterScene swaps the active scene and places the character at its spawn.
func (w *World) EnterScene(s *scene.Scene) error {
	if err := w.SetScene(s); err != nil {
		return err
	}
	w.ctrl.Teleport(s.Spawn)
	w.frame = w.ctrl.Frame()
	return nil
}

// CharacterPosition returns the character's position in map pixels.
func (w *World) CharacterPosition() core.Vec2 {
	return w.ctrl.Position()
}

// PixelSize returns the screen pixels per map pixel.
func (w *World) PixelSize() int {
	return w.ctrl.PixelSize()
}

// Frame returns the last computed movement frame.
func (w *World) Frame() motion.Frame {
	return w.frame
}

// Dialogue returns the dialogue engine for rendering.
func (w *World) Dialogue() *dialogue.Engine {
	return w.dlg
}

// Speaker returns the NPC in the current conversation, if any.
func (w *World) Speaker() (*scene.NPC, bool) {
	return w.talking, w.talking != nil
}

// Scene returns the active scene.
func (w *World) Scene() *scene.Scene {
	return w.scene
}

// Flags returns a copy of the story flags.
func (w *World) Flags() map[string]bool {
	return maps.Clone(w.flags)
}

// Visits returns how many conversations with an NPC of the active scene finished.
func (w *World) Visits(npcID string) int {
	return w.visits[w.scene.ID+"/"+npcID]
}

// Now returns the virtual time elapsed since the world was created.
func (w *World) Now() time.Duration {
	return w.timers.Now()
}

// Held returns the held direction list.
func (w *World) Held() *motion.Held {
	return &w.held
}
