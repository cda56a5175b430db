package system

import (
	"image/color"
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/slimeball/common"
	"github.com/milk9111/slimeball/ecs"
	"github.com/milk9111/slimeball/ecs/component"
	"github.com/milk9111/slimeball/ecs/entity"
	"github.com/milk9111/slimeball/prefabs"
)

const eps = 1e-9

type stepCall struct {
	dt       float64
	vel, pos int
}

type recordingStepper struct {
	steps  []stepCall
	clears int
}

func (r *recordingStepper) Step(dt float64, vel, pos int) {
	r.steps = append(r.steps, stepCall{dt: dt, vel: vel, pos: pos})
}

func (r *recordingStepper) ClearForces() { r.clears++ }

type playerFixture struct {
	w      *ecs.World
	player ecs.Entity
	body   *cp.Body
	input  *InputSystem
	ctrl   *PlayerControllerSystem
}

func newPlayerFixture(t *testing.T, mutate func(*prefabs.SessionSpec)) *playerFixture {
	t.Helper()
	spec := prefabs.DefaultSessionSpec()
	if mutate != nil {
		mutate(&spec)
	}
	w := ecs.NewWorld()
	w.SetPhysicsWorld(ecs.NewPhysicsWorld(ecs.PhysicsConfig{
		Gravity: cp.Vector{X: spec.World.Gravity.X, Y: spec.World.Gravity.Y},
	}))
	if _, err := entity.NewGround(w, spec); err != nil {
		t.Fatalf("ground: %v", err)
	}
	player, err := entity.NewPlayer(w, spec)
	if err != nil {
		t.Fatalf("player: %v", err)
	}
	pb, _ := ecs.Get(w, player, component.PhysicsBodyComponent.Kind())
	return &playerFixture{
		w:      w,
		player: player,
		body:   pb.Body,
		input:  NewInputSystem(),
		ctrl:   NewPlayerControllerSystem(),
	}
}

func (f *playerFixture) feed(events ...component.KeyEvent) {
	for _, ev := range events {
		typ := ecs.EventKeyUp
		if ev.Down {
			typ = ecs.EventKeyDown
		}
		f.w.Events().Push(ecs.Event{Type: typ, Data: ev})
	}
	f.input.Update(f.w)
	f.ctrl.Update(f.w)
}

func down(code common.KeyCode) component.KeyEvent {
	return component.KeyEvent{Code: code, Down: true}
}

func repeat(code common.KeyCode) component.KeyEvent {
	return component.KeyEvent{Code: code, Down: true, Repeat: true}
}

func up(code common.KeyCode) component.KeyEvent {
	return component.KeyEvent{Code: code}
}

func legacy(spec *prefabs.SessionSpec) { spec.Input.Legacy = true }

func TestPhysicsSystemStepsOncePerUpdate(t *testing.T) {
	w := ecs.NewWorld()
	rec := &recordingStepper{}
	sched := ecs.NewScheduler(
		NewPhysicsSystem(rec, StepConfig{Dt: 1.0 / 60, VelocityIterations: 8, PositionIterations: 3}),
		NewClearForcesSystem(rec),
	)

	for i := 0; i < 5; i++ {
		sched.Update(w)
	}

	if len(rec.steps) != 5 {
		t.Fatalf("expected 5 steps, got %d", len(rec.steps))
	}
	for i, s := range rec.steps {
		if s != (stepCall{dt: 1.0 / 60, vel: 8, pos: 3}) {
			t.Fatalf("step %d: unexpected arguments %+v", i, s)
		}
	}
	if rec.clears != 5 {
		t.Fatalf("expected forces cleared 5 times, got %d", rec.clears)
	}
}

func TestPhysicsSystemSyncsTransforms(t *testing.T) {
	f := newPlayerFixture(t, nil)
	ps := NewPhysicsSystem(f.w.PhysicsWorld(), StepConfig{Dt: 1.0 / 60, VelocityIterations: 8, PositionIterations: 3})
	// positions integrate before velocities, so a body at rest moves on the second step
	ps.Update(f.w)
	ps.Update(f.w)

	tr, _ := ecs.Get(f.w, f.player, component.TransformComponent.Kind())
	pos := f.body.Position()
	if tr.X != pos.X || tr.Y != pos.Y {
		t.Fatalf("transform (%v, %v) does not match body %v", tr.X, tr.Y, pos)
	}
	if pos.Y <= 200.0/30 {
		t.Fatalf("player should fall under gravity, y=%v", pos.Y)
	}
}

func TestMovementKeys(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*prefabs.SessionSpec)
		frames [][]component.KeyEvent
		wantVX float64
	}{
		{"legacy_d", legacy, [][]component.KeyEvent{{down(common.KeyD)}}, 10},
		{"legacy_a", legacy, [][]component.KeyEvent{{down(common.KeyA)}}, -10},
		{"legacy_release", legacy, [][]component.KeyEvent{{down(common.KeyD)}, {up(common.KeyD)}}, 0},
		// releasing D stops the player although A is still held
		{"legacy_release_with_opposite_held", legacy, [][]component.KeyEvent{{down(common.KeyA)}, {down(common.KeyD)}, {up(common.KeyD)}}, 0},
		{"held_d", nil, [][]component.KeyEvent{{down(common.KeyD)}}, 10},
		{"held_a", nil, [][]component.KeyEvent{{down(common.KeyA)}}, -10},
		{"held_release", nil, [][]component.KeyEvent{{down(common.KeyD)}, {up(common.KeyD)}}, 0},
		{"held_release_with_opposite_held", nil, [][]component.KeyEvent{{down(common.KeyA)}, {down(common.KeyD)}, {up(common.KeyD)}}, -10},
		{"held_most_recent_wins", nil, [][]component.KeyEvent{{down(common.KeyD), down(common.KeyA)}}, -10},
		{"held_repeat_keeps_order", nil, [][]component.KeyEvent{{down(common.KeyD)}, {down(common.KeyA)}, {repeat(common.KeyD)}}, -10},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f := newPlayerFixture(t, c.mutate)
			for _, events := range c.frames {
				f.body.SetVelocity(f.body.Velocity().X, 5)
				f.feed(events...)
			}
			vel := f.body.Velocity()
			if math.Abs(vel.X-c.wantVX) > eps {
				t.Fatalf("expected vx=%v, got %v", c.wantVX, vel.X)
			}
			if math.Abs(vel.Y-5) > eps {
				t.Fatalf("vertical velocity should be kept, got %v", vel.Y)
			}
		})
	}
}

func TestHeldKeyKeepsVelocityAcrossFrames(t *testing.T) {
	f := newPlayerFixture(t, nil)
	f.feed(down(common.KeyD))
	f.body.SetVelocity(2, 0)
	// no new events; the held key drives velocity again
	f.feed()
	if vx := f.body.Velocity().X; math.Abs(vx-10) > eps {
		t.Fatalf("expected vx=10 while D is held, got %v", vx)
	}
}

func TestReleaseZeroesOnce(t *testing.T) {
	f := newPlayerFixture(t, nil)
	f.feed(down(common.KeyD))
	f.feed(up(common.KeyD))
	f.body.SetVelocity(3, 0)
	f.feed()
	if vx := f.body.Velocity().X; math.Abs(vx-3) > eps {
		t.Fatalf("idle frames should not touch vx, got %v", vx)
	}
}

func TestJumpImpulse(t *testing.T) {
	cases := []struct {
		name     string
		mutate   func(*prefabs.SessionSpec)
		grounded bool
		events   []component.KeyEvent
		jumps    float64
	}{
		{"legacy_single", legacy, false, []component.KeyEvent{down(common.KeyW)}, 1},
		{"legacy_repeats_all_jump", legacy, false, []component.KeyEvent{down(common.KeyW), repeat(common.KeyW), repeat(common.KeyW)}, 3},
		{"held_airborne_blocked", nil, false, []component.KeyEvent{down(common.KeyW)}, 0},
		{"held_grounded", nil, true, []component.KeyEvent{down(common.KeyW)}, 1},
		{"held_one_per_frame", nil, true, []component.KeyEvent{down(common.KeyW), repeat(common.KeyW)}, 1},
		{"held_ungated", func(s *prefabs.SessionSpec) { s.Input.JumpRequiresGround = false }, false, []component.KeyEvent{down(common.KeyW)}, 1},
		{"key_up_ignored", legacy, false, []component.KeyEvent{up(common.KeyW)}, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f := newPlayerFixture(t, c.mutate)
			if c.grounded {
				pc, _ := ecs.Get(f.w, f.player, component.PlayerCollisionComponent.Kind())
				pc.GroundContacts = 1
			}
			f.body.SetVelocity(0, 0)
			f.feed(c.events...)

			want := -12 * c.jumps / f.body.Mass()
			vel := f.body.Velocity()
			if math.Abs(vel.Y-want) > 1e-6 {
				t.Fatalf("expected vy=%v, got %v", want, vel.Y)
			}
			if math.Abs(vel.X) > 1e-6 || math.Abs(f.body.AngularVelocity()) > 1e-6 {
				t.Fatalf("impulse at the centre of mass should not add vx or spin: vx=%v w=%v", vel.X, f.body.AngularVelocity())
			}
		})
	}
}

func TestUnknownKeysIgnored(t *testing.T) {
	for _, mode := range []struct {
		name   string
		mutate func(*prefabs.SessionSpec)
	}{{"legacy", legacy}, {"held", nil}} {
		t.Run(mode.name, func(t *testing.T) {
			f := newPlayerFixture(t, mode.mutate)
			f.body.SetVelocity(1, 2)
			f.feed(down(83), up(83), down(32))
			if f.body.Velocity() != (cp.Vector{X: 1, Y: 2}) {
				t.Fatalf("unknown keys changed velocity to %v", f.body.Velocity())
			}
		})
	}
}

func TestShadowSync(t *testing.T) {
	spec, err := prefabs.LoadSessionSpec("slimeball_shadow")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	w := ecs.NewWorld()
	w.SetPhysicsWorld(ecs.NewPhysicsWorld(ecs.PhysicsConfig{Gravity: cp.Vector{Y: 15}}))
	player, err := entity.NewPlayer(w, spec)
	if err != nil {
		t.Fatalf("player: %v", err)
	}
	shadow, err := entity.NewShadow(w, spec, player)
	if err != nil {
		t.Fatalf("shadow: %v", err)
	}
	pb, _ := ecs.Get(w, player, component.PhysicsBodyComponent.Kind())
	sb, _ := ecs.Get(w, shadow, component.PhysicsBodyComponent.Kind())

	pb.Body.SetPosition(cp.Vector{X: 3, Y: 4})
	pb.Body.SetAngle(0.25)
	pb.Body.SetVelocity(5, -6)

	NewShadowSyncSystem().Update(w)

	want := pb.Body.Position()
	if got := sb.Body.Position(); math.Abs(got.X-want.X) > 1e-9 || math.Abs(got.Y-want.Y) > 1e-9 {
		t.Fatalf("position not mirrored: %v vs %v", got, want)
	}
	if sb.Body.Angle() != 0.25 {
		t.Fatalf("angle not mirrored: %v", sb.Body.Angle())
	}
	if sb.Body.Velocity() != (cp.Vector{X: 5, Y: -6}) {
		t.Fatalf("velocity not mirrored: %v", sb.Body.Velocity())
	}
}

func TestInputSystemOrdersWorldEventsBeforeSources(t *testing.T) {
	f := newPlayerFixture(t, nil)
	f.input.AddSource(staticSource{down(common.KeyA)})
	f.w.Events().Push(ecs.Event{Type: ecs.EventKeyDown, Data: down(common.KeyD)})
	f.input.Update(f.w)

	in, _ := ecs.Get(f.w, f.player, component.InputComponent.Kind())
	if len(in.Pending) != 2 || in.Pending[0].Code != common.KeyD || in.Pending[1].Code != common.KeyA {
		t.Fatalf("unexpected pending order %+v", in.Pending)
	}
}

type staticSource []component.KeyEvent

func (s staticSource) KeyEvents(*ecs.World) []component.KeyEvent { return s }

func TestScriptSource(t *testing.T) {
	src := []byte(`
if frame == 0 {
	engine.press("D")
} else if frame == 1 {
	engine.release("D")
	engine.press("w")
	engine.press("Q")
}
`)
	s, err := NewScriptSource("test", src)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	w := ecs.NewWorld()

	first := s.KeyEvents(w)
	if len(first) != 1 || first[0] != down(common.KeyD) {
		t.Fatalf("frame 0: unexpected events %+v", first)
	}
	second := s.KeyEvents(w)
	if len(second) != 2 || second[0] != up(common.KeyD) || second[1] != down(common.KeyW) {
		t.Fatalf("frame 1: unexpected events %+v", second)
	}
	if got := s.KeyEvents(w); len(got) != 0 {
		t.Fatalf("frame 2: expected no events, got %+v", got)
	}
	if s.Frame() != 3 {
		t.Fatalf("expected 3 frames, got %d", s.Frame())
	}
}

func TestScriptSourceDisablesAfterError(t *testing.T) {
	s, err := NewScriptSource("broken", []byte("f := frame\nf()"))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	w := ecs.NewWorld()
	if got := s.KeyEvents(w); got != nil {
		t.Fatalf("expected nil on error, got %+v", got)
	}
	if !s.disabled {
		t.Fatalf("script should be disabled after a runtime error")
	}
}

func TestScriptSourceCompileError(t *testing.T) {
	if _, err := NewScriptSource("bad", []byte(`if {`)); err == nil {
		t.Fatalf("expected compile error")
	}
}

func TestEmbeddedAutopilotLoads(t *testing.T) {
	s, err := LoadScriptSource("autopilot")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	events := s.KeyEvents(ecs.NewWorld())
	if len(events) != 1 || events[0] != down(common.KeyD) {
		t.Fatalf("autopilot frame 0: unexpected events %+v", events)
	}
}

type recordedLine struct {
	x0, y0, x1, y1, width float32
	clr                   color.NRGBA
}

type recordingSurface struct {
	lines []recordedLine
	fills [][]float32
	fillC []color.NRGBA
}

func (r *recordingSurface) StrokeLine(x0, y0, x1, y1, width float32, clr color.Color) {
	r.lines = append(r.lines, recordedLine{x0, y0, x1, y1, width, color.NRGBAModel.Convert(clr).(color.NRGBA)})
}

func (r *recordingSurface) FillPolygon(points []float32, clr color.Color) {
	r.fills = append(r.fills, append([]float32(nil), points...))
	r.fillC = append(r.fillC, color.NRGBAModel.Convert(clr).(color.NRGBA))
}

func TestDebugDrawScalesAndBlends(t *testing.T) {
	space := cp.NewSpace()
	body := cp.NewStaticBody()
	body.SetPosition(cp.Vector{X: 1, Y: 1})
	space.AddBody(body)
	space.AddShape(cp.NewBox(body, 1, 1, 0))

	surf := &recordingSurface{}
	dd := NewDebugDraw(DebugDrawConfig{
		Scale:         30,
		FillAlpha:     0.3,
		LineThickness: 1,
		Flags:         DebugDrawFlags([]string{prefabs.DrawShapes, prefabs.DrawJoints}),
	})
	dd.Draw(space, surf)

	if len(surf.fills) != 1 {
		t.Fatalf("expected one filled polygon, got %d", len(surf.fills))
	}
	if len(surf.fills[0]) != 8 {
		t.Fatalf("expected 4 points, got %d values", len(surf.fills[0]))
	}
	for _, v := range surf.fills[0] {
		if math.Abs(float64(v)-15) > 1e-3 && math.Abs(float64(v)-45) > 1e-3 {
			t.Fatalf("box corner %v not scaled to 15 or 45 pixels", v)
		}
	}
	alpha := float32(0.3)
	if want := uint8(alpha * 255); surf.fillC[0].A != want {
		t.Fatalf("expected fill alpha %d, got %d", want, surf.fillC[0].A)
	}
	if len(surf.lines) != 4 {
		t.Fatalf("expected 4 outline segments, got %d", len(surf.lines))
	}
	for _, l := range surf.lines {
		if l.clr.A != 255 || l.width != 1 {
			t.Fatalf("outline should be opaque and 1px, got alpha %d width %v", l.clr.A, l.width)
		}
	}
}

func TestDebugDrawFlags(t *testing.T) {
	cases := []struct {
		names []string
		want  uint
	}{
		{[]string{"shapes", "joints"}, cp.DRAW_SHAPES | cp.DRAW_CONSTRAINTS},
		{[]string{"collision_points"}, cp.DRAW_COLLISION_POINTS},
		{[]string{"SHAPES", "bogus"}, cp.DRAW_SHAPES},
		{nil, 0},
	}
	for _, c := range cases {
		if got := DebugDrawFlags(c.names); got != c.want {
			t.Fatalf("%v: expected %d, got %d", c.names, c.want, got)
		}
	}
}
