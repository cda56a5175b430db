package component

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

// ShadowTag marks the kinematic body that mirrors the player.
type ShadowTag struct{}

var ShadowTagComponent = NewComponent[ShadowTag]()

type BallTag struct{}

var BallTagComponent = NewComponent[BallTag]()

type GroundTag struct{}

var GroundTagComponent = NewComponent[GroundTag]()
