package main

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/slimeball/common"
	"github.com/milk9111/slimeball/ecs"
	"github.com/milk9111/slimeball/ecs/component"
	"github.com/milk9111/slimeball/ecs/system"
	"github.com/milk9111/slimeball/frame"
	"github.com/milk9111/slimeball/prefabs"
	"github.com/milk9111/slimeball/session"
)

type GameOptions struct {
	SpecName    string
	Script      string
	Debug       bool
	Watch       bool
	LegacyInput bool
}

type Game struct {
	opts GameOptions

	sched    frame.Scheduler
	session  *session.Session
	keyboard *KeyboardSource
	script   *scriptSlot
	watcher  *prefabs.Watcher
	surface  *ScreenSurface

	canvasW, canvasH float64

	paused  bool
	quit    bool
	pauseUI *ebitenui.UI
}

func NewGame(opts GameOptions) (*Game, error) {
	spec, err := loadSpec(opts)
	if err != nil {
		return nil, err
	}

	g := &Game{
		opts:     opts,
		keyboard: NewKeyboardSource(),
		script:   &scriptSlot{},
		surface:  NewScreenSurface(),
	}
	if opts.Script != "" {
		if err := g.script.load(opts.Script); err != nil {
			return nil, err
		}
	}

	tick := frame.NewTickScheduler()
	g.sched = frame.Select(RefreshCandidates(tick)...)

	sess, err := session.New(spec, g.sched, session.Options{
		KeySources: []system.KeySource{g.script},
	})
	if err != nil {
		return nil, err
	}
	g.session = sess
	g.setCanvas(spec)

	if opts.Watch {
		w, err := prefabs.NewWatcher("prefabs", filepath.Join("prefabs", "scripts"))
		if err != nil {
			log.Printf("watch: disabled: %v", err)
		} else {
			g.watcher = w
		}
	}

	g.pauseUI = NewPauseUI(g)
	g.session.Start()
	return g, nil
}

func loadSpec(opts GameOptions) (prefabs.SessionSpec, error) {
	spec, err := prefabs.LoadSessionSpec(opts.SpecName)
	if err != nil {
		return prefabs.SessionSpec{}, err
	}
	if opts.LegacyInput {
		spec.Input.Legacy = true
	}
	return spec, nil
}

func (g *Game) setCanvas(spec prefabs.SessionSpec) {
	g.canvasW = float64(spec.Canvas.Width)
	g.canvasH = float64(spec.Canvas.Height)
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
	}

	g.drainWatcher()

	// keys are read even while paused so releases are not lost
	for _, ev := range g.keyboard.Poll() {
		switch {
		case !ev.Down:
			g.session.KeyUp(ev.Code)
		case ev.Repeat:
			g.session.KeyRepeat(ev.Code)
		default:
			g.session.KeyDown(ev.Code)
		}
	}

	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	switch s := g.sched.(type) {
	case *frame.TickScheduler:
		s.Tick()
	case *frame.TimerScheduler:
		s.Poll()
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.surface.Target(screen)
	g.session.Draw(g.surface)

	ebitenutil.DebugPrint(screen, g.hud())

	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) hud() string {
	var b strings.Builder
	spec := g.session.Spec()
	fmt.Fprintf(&b, "Frames: %d    FPS: %.2f    TPS: %.2f\n", g.session.Frames(), ebiten.ActualFPS(), ebiten.ActualTPS())
	fmt.Fprintf(&b, "%s  A/D move  W jump  Esc pause\n", spec.Name)
	if !g.opts.Debug {
		return b.String()
	}

	if p := g.session.Player(); p != nil {
		pos, vel := p.Position(), p.Velocity()
		fmt.Fprintf(&b, "player px=(%.0f, %.0f) v=(%.2f, %.2f) grounded=%v\n",
			common.ToPixels(pos.X, spec.Scale), common.ToPixels(pos.Y, spec.Scale), vel.X, vel.Y, g.session.Grounded())
	}
	if s := g.session.Shadow(); s != nil {
		pos := s.Position()
		fmt.Fprintf(&b, "shadow px=(%.0f, %.0f)\n", common.ToPixels(pos.X, spec.Scale), common.ToPixels(pos.Y, spec.Scale))
	}
	if ball := g.session.Ball(); ball != nil {
		pos, vel := ball.Position(), ball.Velocity()
		fmt.Fprintf(&b, "ball px=(%.0f, %.0f) v=(%.2f, %.2f) sleeping=%v\n",
			common.ToPixels(pos.X, spec.Scale), common.ToPixels(pos.Y, spec.Scale), vel.X, vel.Y, ball.IsSleeping())
	}
	if g.opts.Script != "" {
		fmt.Fprintf(&b, "script %s frame %d\n", g.opts.Script, g.script.frame())
	}
	return b.String()
}

// drainWatcher applies every file change reported since the last update.
func (g *Game) drainWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case name, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.reload(name)
		case err, ok := <-g.watcher.Errors:
			if ok {
				log.Printf("watch: %v", err)
			}
		default:
			return
		}
	}
}

func (g *Game) reload(name string) {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	switch {
	case base == strings.TrimSuffix(filepath.Base(g.opts.SpecName), filepath.Ext(g.opts.SpecName)):
		if err := g.Reset(); err != nil {
			log.Printf("watch: reload %s: %v", name, err)
			return
		}
		log.Printf("watch: reloaded %s", name)
	case g.opts.Script != "" && base == strings.TrimSuffix(filepath.Base(g.opts.Script), filepath.Ext(g.opts.Script)):
		if err := g.script.load(g.opts.Script); err != nil {
			log.Printf("watch: reload %s: %v", name, err)
			return
		}
		log.Printf("watch: reloaded %s", name)
	}
}

// Reset reloads the spec from disk and rebuilds the scene.
func (g *Game) Reset() error {
	spec, err := loadSpec(g.opts)
	if err != nil {
		return err
	}
	if err := g.session.Reset(spec); err != nil {
		return err
	}
	g.setCanvas(spec)
	return nil
}

func (g *Game) Resume() { g.paused = false }

func (g *Game) Quit() { g.quit = true }

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return g.canvasW, g.canvasH
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

// scriptSlot is a key source whose script can be swapped on reload.
type scriptSlot struct {
	src *system.ScriptSource
}

func (s *scriptSlot) load(name string) error {
	src, err := system.LoadScriptSource(name)
	if err != nil {
		return err
	}
	s.src = src
	return nil
}

func (s *scriptSlot) frame() int {
	if s.src == nil {
		return 0
	}
	return s.src.Frame()
}

func (s *scriptSlot) KeyEvents(w *ecs.World) []component.KeyEvent {
	if s.src == nil {
		return nil
	}
	return s.src.KeyEvents(w)
}
