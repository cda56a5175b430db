package entity

import (
	"fmt"

	"github.com/milk9111/slimeball/ecs"
	"github.com/milk9111/slimeball/ecs/component"
	"github.com/milk9111/slimeball/prefabs"
)

// NewPlayer adds the half-circle player with its input, controller and
// ground-contact state.
func NewPlayer(w *ecs.World, spec prefabs.SessionSpec) (ecs.Entity, error) {
	pw := w.PhysicsWorld()
	if pw == nil {
		return 0, fmt.Errorf("player: %w", ErrNoPhysicsWorld)
	}

	e := ecs.CreateEntity(w)
	x, y := canvasPoint(
		float64(spec.Canvas.Width)/2+spec.Player.Offset.X,
		float64(spec.Canvas.Height)/2+spec.Player.Offset.Y,
		spec.Scale,
	)

	body := &component.PhysicsBody{
		Role:     component.RolePlayer,
		Vertices: ArcVertices(spec.Player.ArcStart, spec.Player.ArcEnd, spec.Player.ArcStep, spec.Player.Radius),
		Density:  spec.Player.Density,
		// frictionless so it slides along the ground
		Friction: spec.Player.Friction,
	}
	pw.AddBody(e, x, y, body)
	if spec.Player.FixedRotation {
		ecs.LockRotation(body.Body)
	}
	if spec.Player.ZeroDamping {
		ecs.DisableDamping(body.Body)
	}

	collision := &component.PlayerCollision{}
	pw.SetContactState(e, collision)

	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), body); err != nil {
		return 0, fmt.Errorf("player: add physics body: %w", err)
	}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y}); err != nil {
		return 0, fmt.Errorf("player: add transform: %w", err)
	}
	if err := ecs.Add(w, e, component.PlayerCollisionComponent.Kind(), collision); err != nil {
		return 0, fmt.Errorf("player: add collision: %w", err)
	}
	if err := ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{}); err != nil {
		return 0, fmt.Errorf("player: add input: %w", err)
	}
	controller := &component.PlayerController{
		MoveSpeed:          spec.Input.MoveSpeed,
		JumpImpulse:        spec.Input.JumpImpulse,
		Legacy:             spec.Input.Legacy,
		JumpRequiresGround: spec.Input.JumpRequiresGround,
	}
	if err := ecs.Add(w, e, component.PlayerControllerComponent.Kind(), controller); err != nil {
		return 0, fmt.Errorf("player: add controller: %w", err)
	}
	if err := ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{}); err != nil {
		return 0, fmt.Errorf("player: add tag: %w", err)
	}
	return e, nil
}

// NewShadow adds a kinematic copy of the player's shape that mirrors the
// player's pose every frame.
func NewShadow(w *ecs.World, spec prefabs.SessionSpec, player ecs.Entity) (ecs.Entity, error) {
	pw := w.PhysicsWorld()
	if pw == nil {
		return 0, fmt.Errorf("shadow: %w", ErrNoPhysicsWorld)
	}
	src, ok := ecs.Get(w, player, component.PhysicsBodyComponent.Kind())
	if !ok || src.Body == nil {
		return 0, fmt.Errorf("shadow: player %s has no body", player)
	}

	e := ecs.CreateEntity(w)
	pos := src.Body.Position()
	body := &component.PhysicsBody{
		Role:      component.RoleShadow,
		Vertices:  append(src.Vertices[:0:0], src.Vertices...),
		Friction:  src.Friction,
		Kinematic: true,
	}
	pw.AddBody(e, pos.X, pos.Y, body)

	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), body); err != nil {
		return 0, fmt.Errorf("shadow: add physics body: %w", err)
	}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: pos.X, Y: pos.Y}); err != nil {
		return 0, fmt.Errorf("shadow: add transform: %w", err)
	}
	if err := ecs.Add(w, e, component.ShadowTagComponent.Kind(), &component.ShadowTag{}); err != nil {
		return 0, fmt.Errorf("shadow: add tag: %w", err)
	}
	return e, nil
}
