// Package session builds the slimeball scene and runs its fixed frame loop.
package session

import (
	"errors"
	"fmt"
	"log"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/slimeball/common"
	"github.com/milk9111/slimeball/ecs"
	"github.com/milk9111/slimeball/ecs/component"
	"github.com/milk9111/slimeball/ecs/entity"
	"github.com/milk9111/slimeball/ecs/system"
	"github.com/milk9111/slimeball/frame"
	"github.com/milk9111/slimeball/prefabs"
)

// ErrNoScheduler is returned by New without a frame scheduler.
var ErrNoScheduler = errors.New("session: no frame scheduler")

// Options customizes a Session beyond its spec.
type Options struct {
	// Stepper replaces the physics world's stepper, for tests.
	Stepper system.Stepper
	// KeySources feed key events in addition to KeyDown and KeyUp.
	KeySources []system.KeySource
	// OnFrame runs after every frame with the frame count.
	OnFrame func(frames int)
}

// Session owns the physics world, its bodies and the per-frame systems.
type Session struct {
	spec  prefabs.SessionSpec
	opts  Options
	sched frame.Scheduler

	world     *ecs.World
	physics   *ecs.PhysicsWorld
	systems   *ecs.Scheduler
	debugDraw *system.DebugDraw

	ground ecs.Entity
	player ecs.Entity
	shadow ecs.Entity
	ball   ecs.Entity

	frames  int
	running bool
}

// New builds the scene described by spec. Frames do not run until Start.
func New(spec prefabs.SessionSpec, sched frame.Scheduler, opts Options) (*Session, error) {
	if sched == nil {
		return nil, ErrNoScheduler
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	s := &Session{spec: spec, opts: opts, sched: sched}
	if err := s.build(); err != nil {
		return nil, err
	}
	log.Printf("session: built %s (%s variant)", spec.Name, spec.Variant)
	return s, nil
}

func (s *Session) build() error {
	spec := s.spec

	w := ecs.NewWorld()
	pw := ecs.NewPhysicsWorld(ecs.PhysicsConfig{
		Gravity:   cp.Vector{X: spec.World.Gravity.X, Y: spec.World.Gravity.Y},
		Sleep:     spec.World.Sleep,
		SleepTime: spec.World.SleepTime,
	})
	w.SetPhysicsWorld(pw)

	ground, err := entity.NewGround(w, spec)
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}
	player, err := entity.NewPlayer(w, spec)
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}
	var shadow, ball ecs.Entity
	if spec.TwoBody() {
		if shadow, err = entity.NewShadow(w, spec, player); err != nil {
			return fmt.Errorf("session: %w", err)
		}
		if ball, err = entity.NewBall(w, spec); err != nil {
			return fmt.Errorf("session: %w", err)
		}
	}

	var stepper system.Stepper = pw
	if s.opts.Stepper != nil {
		stepper = s.opts.Stepper
	}

	systems := ecs.NewScheduler(
		system.NewInputSystem(s.opts.KeySources...),
		system.NewPlayerControllerSystem(),
	)
	if spec.TwoBody() {
		systems.Add(system.NewShadowSyncSystem())
	}
	systems.Add(system.NewPhysicsSystem(stepper, system.StepConfig{
		Dt:                 spec.TimeStep(),
		VelocityIterations: spec.Step.VelocityIterations,
		PositionIterations: spec.Step.PositionIterations,
	}))
	systems.Add(system.NewClearForcesSystem(stepper))

	s.world = w
	s.physics = pw
	s.systems = systems
	s.debugDraw = system.NewDebugDraw(system.DebugDrawConfig{
		Scale:         spec.Scale,
		FillAlpha:     spec.DebugDraw.FillAlpha,
		LineThickness: spec.DebugDraw.LineThickness,
		Flags:         system.DebugDrawFlags(spec.DebugDraw.Flags),
	})
	s.ground, s.player, s.shadow, s.ball = ground, player, shadow, ball
	return nil
}

// Start schedules the first frame. Every frame schedules the next one.
func (s *Session) Start() {
	if s.running {
		return
	}
	s.running = true
	s.sched.ScheduleFrame(s.Frame)
}

// Frame runs one frame and schedules the next.
func (s *Session) Frame() {
	s.Update()
	s.sched.ScheduleFrame(s.Frame)
}

// Update runs one frame without rescheduling: input, shadow sync, one
// fixed step and clearing of forces. Drawing happens separately through
// Draw.
func (s *Session) Update() {
	s.systems.Update(s.world)
	s.frames++
	if s.opts.OnFrame != nil {
		s.opts.OnFrame(s.frames)
	}
}

// Running reports whether Start has been called.
func (s *Session) Running() bool { return s.running }

// Draw runs the debug-draw pass onto surface.
func (s *Session) Draw(surface system.Surface) {
	s.debugDraw.Draw(s.physics.Space(), surface)
}

// Reset rebuilds the scene from spec, keeping the scheduler and the running
// frame loop.
func (s *Session) Reset(spec prefabs.SessionSpec) error {
	if err := spec.Validate(); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	prev := s.spec
	s.spec = spec
	if err := s.build(); err != nil {
		s.spec = prev
		return err
	}
	s.frames = 0
	log.Printf("session: reset to %s (%s variant)", spec.Name, spec.Variant)
	return nil
}

// KeyDown delivers a key-down event to the next frame.
func (s *Session) KeyDown(code common.KeyCode) {
	s.world.Events().Push(ecs.Event{Type: ecs.EventKeyDown, Data: component.KeyEvent{Code: code, Down: true}})
}

// KeyRepeat delivers an auto-repeated key-down event to the next frame.
func (s *Session) KeyRepeat(code common.KeyCode) {
	s.world.Events().Push(ecs.Event{Type: ecs.EventKeyDown, Data: component.KeyEvent{Code: code, Down: true, Repeat: true}})
}

// KeyUp delivers a key-up event to the next frame.
func (s *Session) KeyUp(code common.KeyCode) {
	s.world.Events().Push(ecs.Event{Type: ecs.EventKeyUp, Data: component.KeyEvent{Code: code}})
}

// Spec returns the spec the scene was last built from.
func (s *Session) Spec() prefabs.SessionSpec { return s.spec }

// Frames returns how many frames ran since New or the last Reset.
func (s *Session) Frames() int { return s.frames }

// World returns the entity world.
func (s *Session) World() *ecs.World { return s.world }

// Physics returns the physics world backing the scene.
func (s *Session) Physics() *ecs.PhysicsWorld { return s.physics }

// Ground returns the static ground body.
func (s *Session) Ground() *cp.Body { return s.body(s.ground) }

// Player returns the half-circle player body.
func (s *Session) Player() *cp.Body { return s.body(s.player) }

// Shadow returns the kinematic mirror, or nil in the single variant.
func (s *Session) Shadow() *cp.Body { return s.body(s.shadow) }

// Ball returns the ball, or nil in the single variant.
func (s *Session) Ball() *cp.Body { return s.body(s.ball) }

// Grounded reports whether the player touches the ground.
func (s *Session) Grounded() bool {
	pc, ok := ecs.Get(s.world, s.player, component.PlayerCollisionComponent.Kind())
	return ok && pc.Grounded()
}

func (s *Session) body(e ecs.Entity) *cp.Body {
	if !e.Valid() {
		return nil
	}
	pb, ok := ecs.Get(s.world, e, component.PhysicsBodyComponent.Kind())
	if !ok {
		return nil
	}
	return pb.Body
}
