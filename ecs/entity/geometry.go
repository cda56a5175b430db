package entity

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/slimeball/common"
)

// ArcVertices samples a circle of radius r from start to end degrees
// inclusive, every step degrees.
func ArcVertices(start, end, step, r float64) []cp.Vector {
	if step <= 0 || end < start {
		return nil
	}
	n := int(math.Floor((end-start)/step+1e-9)) + 1
	verts := make([]cp.Vector, 0, n)
	for i := 0; i < n; i++ {
		rad := common.DegToRad(start + float64(i)*step)
		verts = append(verts, cp.Vector{X: math.Cos(rad) * r, Y: math.Sin(rad) * r})
	}
	return verts
}

// canvasPoint converts a pixel position relative to the canvas origin into
// simulation units.
func canvasPoint(px, py, scale float64) (float64, float64) {
	return common.ToSim(px, scale), common.ToSim(py, scale)
}
