package system

import (
	"github.com/milk9111/slimeball/ecs"
	"github.com/milk9111/slimeball/ecs/component"
)

// ShadowSyncSystem copies the player's pose and velocities onto every
// shadow body before the step.
type ShadowSyncSystem struct{}

func NewShadowSyncSystem() *ShadowSyncSystem {
	return &ShadowSyncSystem{}
}

func (s *ShadowSyncSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	player, ok := w.First(component.PlayerTagComponent.Kind())
	if !ok {
		return
	}
	src, ok := ecs.Get(w, player, component.PhysicsBodyComponent.Kind())
	if !ok || src.Body == nil {
		return
	}

	for _, e := range w.Query(component.ShadowTagComponent.Kind(), component.PhysicsBodyComponent.Kind()) {
		dst, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		if !ok || dst.Body == nil {
			continue
		}
		dst.Body.SetPosition(src.Body.Position())
		dst.Body.SetAngle(src.Body.Angle())
		dst.Body.SetVelocityVector(src.Body.Velocity())
		dst.Body.SetAngularVelocity(src.Body.AngularVelocity())
	}
}
