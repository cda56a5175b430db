package component

// Transform mirrors a body's pose after each step, in simulation units.
type Transform struct {
	X        float64
	Y        float64
	Rotation float64
}

var TransformComponent = NewComponent[Transform]()
