package entity

import (
	"fmt"

	"github.com/milk9111/slimeball/ecs"
	"github.com/milk9111/slimeball/ecs/component"
	"github.com/milk9111/slimeball/prefabs"
)

// NewGround adds the static ground box centred on the bottom edge of the
// canvas.
func NewGround(w *ecs.World, spec prefabs.SessionSpec) (ecs.Entity, error) {
	pw := w.PhysicsWorld()
	if pw == nil {
		return 0, fmt.Errorf("ground: %w", ErrNoPhysicsWorld)
	}

	e := ecs.CreateEntity(w)
	x, y := canvasPoint(float64(spec.Canvas.Width)/2, float64(spec.Canvas.Height), spec.Scale)

	body := &component.PhysicsBody{
		Role:       component.RoleGround,
		HalfWidth:  spec.Ground.Width / spec.Scale / 2,
		HalfHeight: spec.Ground.Height / spec.Scale / 2,
		Density:    spec.Ground.Density,
		Friction:   spec.Ground.Friction,
		Elasticity: spec.Ground.Restitution,
		Static:     true,
	}
	pw.AddBody(e, x, y, body)

	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), body); err != nil {
		return 0, fmt.Errorf("ground: add physics body: %w", err)
	}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y}); err != nil {
		return 0, fmt.Errorf("ground: add transform: %w", err)
	}
	if err := ecs.Add(w, e, component.GroundTagComponent.Kind(), &component.GroundTag{}); err != nil {
		return 0, fmt.Errorf("ground: add tag: %w", err)
	}
	return e, nil
}
