package component

// PlayerCollision stores per-player collision state derived from physics contacts.
type PlayerCollision struct {
	// GroundContacts counts live contacts between the player and the ground.
	GroundContacts int
}

func (pc *PlayerCollision) Grounded() bool {
	return pc != nil && pc.GroundContacts > 0
}

var PlayerCollisionComponent = NewComponent[PlayerCollision]()
