package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/slimeball/common"
	"github.com/milk9111/slimeball/ecs"
	"github.com/milk9111/slimeball/ecs/component"
)

// PlayerControllerSystem applies pending key events to the player body.
type PlayerControllerSystem struct{}

func NewPlayerControllerSystem() *PlayerControllerSystem {
	return &PlayerControllerSystem{}
}

func (p *PlayerControllerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	entities := w.Query(
		component.PlayerTagComponent.Kind(),
		component.InputComponent.Kind(),
		component.PhysicsBodyComponent.Kind(),
		component.PlayerControllerComponent.Kind(),
	)
	for _, e := range entities {
		input, ok := ecs.Get(w, e, component.InputComponent.Kind())
		if !ok {
			continue
		}
		bodyComp, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		if !ok || bodyComp.Body == nil {
			continue
		}
		ctrl, ok := ecs.Get(w, e, component.PlayerControllerComponent.Kind())
		if !ok {
			continue
		}

		if ctrl.Legacy {
			applyLegacy(bodyComp.Body, ctrl, input)
			continue
		}
		collision, _ := ecs.Get(w, e, component.PlayerCollisionComponent.Kind())
		applyHeld(bodyComp.Body, ctrl, input, collision)
	}
}

// applyLegacy reacts to each event on its own. Releasing A or D always
// stops horizontal motion, even while the opposite key is still held, and
// every W key-down jumps.
func applyLegacy(body *cp.Body, ctrl *component.PlayerController, input *component.Input) {
	for _, ev := range input.Pending {
		vel := body.Velocity()
		switch {
		case ev.Down && ev.Code == common.KeyW:
			jump(body, ctrl.JumpImpulse)
		case ev.Down && ev.Code == common.KeyD:
			body.Activate()
			body.SetVelocity(ctrl.MoveSpeed, vel.Y)
		case ev.Down && ev.Code == common.KeyA:
			body.Activate()
			body.SetVelocity(-ctrl.MoveSpeed, vel.Y)
		case !ev.Down && (ev.Code == common.KeyD || ev.Code == common.KeyA):
			body.Activate()
			body.SetVelocity(0, vel.Y)
		}
	}
	input.Pending = input.Pending[:0]
}

// applyHeld tracks the held movement keys and drives horizontal velocity
// from the most recently pressed one. At most one jump fires per frame.
func applyHeld(body *cp.Body, ctrl *component.PlayerController, input *component.Input, collision *component.PlayerCollision) {
	for _, ev := range input.Pending {
		switch ev.Code {
		case common.KeyW:
			if ev.Down {
				input.JumpRequests++
			}
		case common.KeyD, common.KeyA:
			if !ev.Down {
				input.Release(ev.Code)
			} else if !ev.Repeat {
				input.Press(ev.Code)
			}
		}
	}
	input.Pending = input.Pending[:0]

	vel := body.Velocity()
	if dir := input.Direction(); dir != 0 {
		body.Activate()
		body.SetVelocity(dir*ctrl.MoveSpeed, vel.Y)
		input.WasMoving = true
	} else if input.WasMoving {
		body.Activate()
		body.SetVelocity(0, vel.Y)
		input.WasMoving = false
	}

	if input.JumpRequests > 0 {
		input.JumpRequests = 0
		if !ctrl.JumpRequiresGround || collision.Grounded() {
			jump(body, ctrl.JumpImpulse)
		}
	}
}

// jump applies an upward impulse at the body's centre of mass.
func jump(body *cp.Body, impulse float64) {
	body.Activate()
	center := body.LocalToWorld(body.CenterOfGravity())
	body.ApplyImpulseAtWorldPoint(cp.Vector{X: 0, Y: -impulse}, center)
}
