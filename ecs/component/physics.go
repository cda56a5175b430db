package component

import "github.com/jakecoffman/cp"

// BodyRole identifies what a physics body represents in the scene.
type BodyRole int

const (
	RoleGround BodyRole = iota + 1
	RolePlayer
	RoleShadow
	RoleBall
)

func (r BodyRole) String() string {
	switch r {
	case RoleGround:
		return "ground"
	case RolePlayer:
		return "player"
	case RoleShadow:
		return "shadow"
	case RoleBall:
		return "ball"
	default:
		return "unknown"
	}
}

// PhysicsBody stores Chipmunk2D runtime handles and the collider
// configuration they were built from. Lengths are in simulation units.
type PhysicsBody struct {
	Body  *cp.Body
	Shape *cp.Shape
	Role  BodyRole

	// HalfWidth and HalfHeight describe box colliders.
	HalfWidth  float64
	HalfHeight float64
	// Radius describes circle colliders.
	Radius float64
	// Vertices describe polygon colliders in body space.
	Vertices []cp.Vector

	Density    float64
	Friction   float64
	Elasticity float64
	Static     bool
	Kinematic  bool
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()
