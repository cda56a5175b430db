package component

// PlayerController holds the tuning applied to key events.
type PlayerController struct {
	MoveSpeed   float64
	JumpImpulse float64
	// Legacy applies each key event on its own: releasing either movement
	// key stops the player even if the other is still held, and jumps are
	// never gated.
	Legacy bool
	// JumpRequiresGround gates the jump impulse on ground contact. Ignored
	// in legacy mode.
	JumpRequiresGround bool
}

var PlayerControllerComponent = NewComponent[PlayerController]()
