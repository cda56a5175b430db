package entity

import (
	"fmt"

	"github.com/milk9111/slimeball/ecs"
	"github.com/milk9111/slimeball/ecs/component"
	"github.com/milk9111/slimeball/prefabs"
)

// NewBall adds the bouncy ball. Its density-derived mass is replaced by
// the session spec's mass once the shape is attached.
func NewBall(w *ecs.World, spec prefabs.SessionSpec) (ecs.Entity, error) {
	pw := w.PhysicsWorld()
	if pw == nil {
		return 0, fmt.Errorf("ball: %w", ErrNoPhysicsWorld)
	}

	e := ecs.CreateEntity(w)
	x, y := canvasPoint(
		float64(spec.Canvas.Width)/2+spec.Ball.Offset.X,
		float64(spec.Canvas.Height)/2+spec.Ball.Offset.Y,
		spec.Scale,
	)

	body := &component.PhysicsBody{
		Role:       component.RoleBall,
		Radius:     spec.Ball.Radius / spec.Scale,
		Density:    spec.Ball.Density,
		Friction:   spec.Ball.Friction,
		Elasticity: spec.Ball.Restitution,
	}
	pw.AddBody(e, x, y, body)
	ecs.OverrideMass(body.Body, spec.Ball.Mass)

	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), body); err != nil {
		return 0, fmt.Errorf("ball: add physics body: %w", err)
	}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y}); err != nil {
		return 0, fmt.Errorf("ball: add transform: %w", err)
	}
	if err := ecs.Add(w, e, component.BallTagComponent.Kind(), &component.BallTag{}); err != nil {
		return 0, fmt.Errorf("ball: add tag: %w", err)
	}
	return e, nil
}
