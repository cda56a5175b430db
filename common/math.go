package common

import "math"

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// ToSim converts a pixel length to simulation units at the given scale.
func ToSim(px, scale float64) float64 {
	return px / scale
}

// ToPixels converts a simulation length to pixels at the given scale.
func ToPixels(units, scale float64) float64 {
	return units * scale
}
