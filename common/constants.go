package common

import "time"

const (
	// Scale is pixels per simulation unit.
	Scale = 30.0

	CanvasWidth  = 600
	CanvasHeight = 400

	GravityX = 0.0
	// GravityY is positive because the screen Y axis grows downward.
	GravityY = 15.0

	TPS = 60

	VelocityIterations = 8
	PositionIterations = 3

	MoveSpeed   = 10.0
	JumpImpulse = 12.0
)

// FrameDelay is the nominal time between two frames.
const FrameDelay = time.Second / TPS

// TimeStep is the fixed simulation step in seconds.
const TimeStep = 1.0 / TPS
