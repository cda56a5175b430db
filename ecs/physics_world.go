package ecs

import (
	"log"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/slimeball/ecs/component"
)

const (
	collisionTypeGround cp.CollisionType = iota + 1
	collisionTypePlayer
	collisionTypeShadow
	collisionTypeBall
)

// Collision categories. The player and its shadow share a category and a
// group so they never collide with each other.
const (
	CategoryGround uint = 1 << iota
	CategoryPlayer
	CategoryBall
)

const playerGroup uint = 1

// defaultSleepTime is how long a body must idle before it sleeps.
const defaultSleepTime = 0.5

// PhysicsConfig configures a PhysicsWorld at creation.
type PhysicsConfig struct {
	Gravity cp.Vector
	// Sleep lets idle bodies fall asleep.
	Sleep bool
	// SleepTime overrides defaultSleepTime when positive.
	SleepTime float64
}

// PhysicsWorld owns the Chipmunk space and maps shapes back to entities.
type PhysicsWorld struct {
	space         *cp.Space
	gravity       cp.Vector
	handlersReady bool

	shapeToEntity map[*cp.Shape]Entity
	contactStates map[Entity]*component.PlayerCollision

	steps              int
	positionIterations int
}

// NewPhysicsWorld creates an empty physics world.
func NewPhysicsWorld(cfg PhysicsConfig) *PhysicsWorld {
	space := cp.NewSpace()
	space.SetGravity(cfg.Gravity)
	if cfg.Sleep {
		space.SleepTimeThreshold = defaultSleepTime
		if cfg.SleepTime > 0 {
			space.SleepTimeThreshold = cfg.SleepTime
		}
	}

	pw := &PhysicsWorld{
		space:         space,
		gravity:       cfg.Gravity,
		shapeToEntity: make(map[*cp.Shape]Entity),
		contactStates: make(map[Entity]*component.PlayerCollision),
	}
	pw.setupHandlers()
	return pw
}

// Space returns the underlying Chipmunk space.
func (pw *PhysicsWorld) Space() *cp.Space {
	if pw == nil {
		return nil
	}
	return pw.space
}

// Gravity returns the gravity the world was created with.
func (pw *PhysicsWorld) Gravity() cp.Vector {
	if pw == nil {
		return cp.Vector{}
	}
	return pw.gravity
}

// Steps returns how many times Step has run.
func (pw *PhysicsWorld) Steps() int {
	if pw == nil {
		return 0
	}
	return pw.steps
}

// Step advances the simulation by dt. Chipmunk resolves velocity and
// position in a single iterative solver, so velocityIterations sets the
// solver iteration count and positionIterations is only recorded.
func (pw *PhysicsWorld) Step(dt float64, velocityIterations, positionIterations int) {
	if pw == nil || pw.space == nil {
		return
	}
	if velocityIterations > 0 {
		pw.space.Iterations = uint(velocityIterations)
	}
	pw.positionIterations = positionIterations
	pw.space.Step(dt)
	pw.steps++
}

// ClearForces zeroes accumulated force and torque on every awake body.
// Setting a force wakes the body, so sleeping bodies and bodies with
// nothing accumulated are left alone.
func (pw *PhysicsWorld) ClearForces() {
	if pw == nil || pw.space == nil {
		return
	}
	pw.space.EachBody(func(body *cp.Body) {
		if body.IsSleeping() || (body.Force() == cp.Vector{} && body.Torque() == 0) {
			return
		}
		body.SetForce(cp.Vector{})
		body.SetTorque(0)
	})
}

// SetContactState registers the collision state updated by ground contacts
// of e's shapes.
func (pw *PhysicsWorld) SetContactState(e Entity, state *component.PlayerCollision) {
	if pw == nil || !e.Valid() {
		return
	}
	if state == nil {
		delete(pw.contactStates, e)
		return
	}
	pw.contactStates[e] = state
}

// EntityForShape returns the entity that owns shape.
func (pw *PhysicsWorld) EntityForShape(shape *cp.Shape) (Entity, bool) {
	if pw == nil {
		return 0, false
	}
	e, ok := pw.shapeToEntity[shape]
	return e, ok
}

// AddBody creates the Chipmunk body and shape described by pb at (x, y)
// and registers the shape for e. Dynamic bodies take their mass from the
// shape density.
func (pw *PhysicsWorld) AddBody(e Entity, x, y float64, pb *component.PhysicsBody) *component.PhysicsBody {
	if pw == nil || pw.space == nil || pb == nil {
		return pb
	}

	var body *cp.Body
	switch {
	case pb.Static:
		body = cp.NewStaticBody()
	case pb.Kinematic:
		body = cp.NewKinematicBody()
	default:
		body = cp.NewBody(0, 0)
	}
	body.SetPosition(cp.Vector{X: x, Y: y})
	body.UserData = e
	pw.space.AddBody(body)

	var shape *cp.Shape
	switch {
	case len(pb.Vertices) > 0:
		shape = cp.NewPolyShapeRaw(body, len(pb.Vertices), pb.Vertices, 0)
	case pb.Radius > 0:
		shape = cp.NewCircle(body, pb.Radius, cp.Vector{})
	default:
		shape = cp.NewBox(body, pb.HalfWidth*2, pb.HalfHeight*2, 0)
	}
	shape.SetFriction(pb.Friction)
	shape.SetElasticity(pb.Elasticity)
	if !pb.Static && !pb.Kinematic && pb.Density > 0 {
		shape.SetDensity(pb.Density)
	}
	shape.SetCollisionType(collisionTypeFor(pb.Role))
	shape.SetFilter(filterFor(pb.Role))
	if pb.Role == component.RoleShadow {
		// the shadow overlaps the player and must not push other bodies
		shape.SetSensor(true)
	}
	pw.space.AddShape(shape)
	pw.shapeToEntity[shape] = e

	log.Printf("physics: added %s body for entity %s at (%.2f, %.2f)", pb.Role, e, x, y)

	pb.Body = body
	pb.Shape = shape
	return pb
}

// OverrideMass replaces the density-derived mass of a dynamic body.
func OverrideMass(body *cp.Body, mass float64) {
	if body == nil || mass <= 0 || body.GetType() != cp.BODY_DYNAMIC {
		return
	}
	body.SetMass(mass)
}

// LockRotation gives a dynamic body infinite moment.
func LockRotation(body *cp.Body) {
	if body == nil || body.GetType() != cp.BODY_DYNAMIC {
		return
	}
	body.SetMoment(math.Inf(1))
	body.SetAngularVelocity(0)
}

// DisableDamping integrates body velocity without space damping.
func DisableDamping(body *cp.Body) {
	if body == nil {
		return
	}
	body.SetVelocityUpdateFunc(func(b *cp.Body, gravity cp.Vector, damping float64, dt float64) {
		cp.BodyUpdateVelocity(b, gravity, 1, dt)
	})
}

func collisionTypeFor(role component.BodyRole) cp.CollisionType {
	switch role {
	case component.RoleGround:
		return collisionTypeGround
	case component.RolePlayer:
		return collisionTypePlayer
	case component.RoleShadow:
		return collisionTypeShadow
	case component.RoleBall:
		return collisionTypeBall
	default:
		return 0
	}
}

func filterFor(role component.BodyRole) cp.ShapeFilter {
	switch role {
	case component.RoleGround:
		return cp.NewShapeFilter(cp.NO_GROUP, CategoryGround, cp.ALL_CATEGORIES)
	case component.RolePlayer, component.RoleShadow:
		return cp.NewShapeFilter(playerGroup, CategoryPlayer, CategoryGround|CategoryBall)
	case component.RoleBall:
		return cp.NewShapeFilter(cp.NO_GROUP, CategoryBall, CategoryGround|CategoryPlayer|CategoryBall)
	default:
		return cp.SHAPE_FILTER_ALL
	}
}

func (pw *PhysicsWorld) setupHandlers() {
	if pw == nil || pw.handlersReady || pw.space == nil {
		return
	}

	groundHandler := pw.space.NewCollisionHandler(collisionTypePlayer, collisionTypeGround)
	groundHandler.UserData = pw
	groundHandler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		if state := contactStateFor(arb, userData); state != nil {
			state.GroundContacts++
		}
		return true
	}
	groundHandler.SeparateFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) {
		if state := contactStateFor(arb, userData); state != nil && state.GroundContacts > 0 {
			state.GroundContacts--
		}
	}

	// Chipmunk multiplies elasticities. Ball contacts use the larger one
	// instead: the approach speed is recorded before the solver runs and the
	// missing bounce is added on the first contact.
	for _, other := range []cp.CollisionType{collisionTypeGround, collisionTypePlayer} {
		bounce := pw.space.NewCollisionHandler(collisionTypeBall, other)
		bounce.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
			if arb.IsFirstContact() {
				arb.UserData = normalVelocity(arb)
			}
			return true
		}
		bounce.PostSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) {
			vn, ok := arb.UserData.(float64)
			if !ok || !arb.IsFirstContact() {
				return
			}
			arb.UserData = nil
			a, b := arb.Shapes()
			applyBounce(arb, mixedRestitution(a.Elasticity(), b.Elasticity())-a.Elasticity()*b.Elasticity(), vn)
		}
	}

	pw.handlersReady = true
}

func mixedRestitution(a, b float64) float64 {
	return math.Max(a, b)
}

// normalVelocity is the relative velocity of the first contact point
// along the arbiter normal. Negative while the shapes approach.
func normalVelocity(arb *cp.Arbiter) float64 {
	set := arb.ContactPointSet()
	if set.Count == 0 {
		return 0
	}
	bodyA, bodyB := arb.Bodies()
	pt := set.Points[0]
	rel := bodyB.VelocityAtWorldPoint(pt.PointB).Sub(bodyA.VelocityAtWorldPoint(pt.PointA))
	return rel.Dot(arb.Normal())
}

// applyBounce adds the bounce that restitution extra would have given an
// approach at normal velocity vn, split by inverse mass.
func applyBounce(arb *cp.Arbiter, extra, vn float64) {
	if extra <= 0 || vn >= 0 {
		return
	}
	bodyA, bodyB := arb.Bodies()
	invA, invB := inverseMass(bodyA), inverseMass(bodyB)
	if invA+invB == 0 {
		return
	}
	n := arb.Normal()
	j := -extra * vn / (invA + invB)
	if invA > 0 {
		bodyA.SetVelocityVector(bodyA.Velocity().Sub(n.Mult(j * invA)))
	}
	if invB > 0 {
		bodyB.SetVelocityVector(bodyB.Velocity().Add(n.Mult(j * invB)))
	}
}

func inverseMass(body *cp.Body) float64 {
	if body == nil || body.GetType() != cp.BODY_DYNAMIC || body.Mass() <= 0 || math.IsInf(body.Mass(), 1) {
		return 0
	}
	return 1 / body.Mass()
}

func contactStateFor(arb *cp.Arbiter, userData interface{}) *component.PlayerCollision {
	world, ok := userData.(*PhysicsWorld)
	if !ok || world == nil {
		return nil
	}
	shapeA, shapeB := arb.Shapes()
	if e, ok := world.shapeToEntity[shapeA]; ok {
		if st := world.contactStates[e]; st != nil {
			return st
		}
	}
	if e, ok := world.shapeToEntity[shapeB]; ok {
		return world.contactStates[e]
	}
	return nil
}
