package system

import (
	"github.com/milk9111/slimeball/ecs"
	"github.com/milk9111/slimeball/ecs/component"
)

// Stepper advances a physics simulation. ecs.PhysicsWorld implements it.
type Stepper interface {
	Step(dt float64, velocityIterations, positionIterations int)
	ClearForces()
}

// StepConfig is the fixed step taken once per frame.
type StepConfig struct {
	Dt                 float64
	VelocityIterations int
	PositionIterations int
}

// PhysicsSystem takes exactly one fixed step per update, independent of
// wall-clock time, then copies body poses into transforms.
type PhysicsSystem struct {
	stepper Stepper
	cfg     StepConfig
}

func NewPhysicsSystem(stepper Stepper, cfg StepConfig) *PhysicsSystem {
	return &PhysicsSystem{stepper: stepper, cfg: cfg}
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || ps.stepper == nil || w == nil {
		return
	}
	ps.stepper.Step(ps.cfg.Dt, ps.cfg.VelocityIterations, ps.cfg.PositionIterations)
	syncTransforms(w)
}

func syncTransforms(w *ecs.World) {
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(),
		func(e ecs.Entity, body *component.PhysicsBody, t *component.Transform) {
			if body.Body == nil {
				return
			}
			pos := body.Body.Position()
			t.X = pos.X
			t.Y = pos.Y
			t.Rotation = body.Body.Angle()
		})
}

// ClearForcesSystem zeroes forces accumulated during the frame.
type ClearForcesSystem struct {
	stepper Stepper
}

func NewClearForcesSystem(stepper Stepper) *ClearForcesSystem {
	return &ClearForcesSystem{stepper: stepper}
}

func (c *ClearForcesSystem) Update(w *ecs.World) {
	if c == nil || c.stepper == nil {
		return
	}
	c.stepper.ClearForces()
}
