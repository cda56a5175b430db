package system

import (
	"image/color"
	"math"
	"strings"

	"github.com/jakecoffman/cp"
	"golang.org/x/image/colornames"
)

const (
	debugCircleSegments = 24
	debugDotSize        = 4
)

// Surface is what the debug drawer paints on. Coordinates are pixels.
type Surface interface {
	StrokeLine(x0, y0, x1, y1, width float32, clr color.Color)
	// FillPolygon fills a convex polygon given as x, y pairs.
	FillPolygon(points []float32, clr color.Color)
}

// DebugDrawConfig mirrors the usual debug-draw settings: pixels per unit,
// alpha for shape interiors, outline width and what to draw.
type DebugDrawConfig struct {
	Scale         float64
	FillAlpha     float64
	LineThickness float64
	Flags         uint
}

// DebugDrawFlags converts flag names to cp draw flags. Unknown names are
// ignored.
func DebugDrawFlags(names []string) uint {
	var flags uint
	for _, n := range names {
		switch strings.ToLower(n) {
		case "shapes":
			flags |= cp.DRAW_SHAPES
		case "joints":
			flags |= cp.DRAW_CONSTRAINTS
		case "collision_points":
			flags |= cp.DRAW_COLLISION_POINTS
		}
	}
	return flags
}

// DebugDraw renders every shape and joint of a space.
type DebugDraw struct {
	cfg DebugDrawConfig
}

func NewDebugDraw(cfg DebugDrawConfig) *DebugDraw {
	if cfg.Scale <= 0 {
		cfg.Scale = 1
	}
	if cfg.LineThickness <= 0 {
		cfg.LineThickness = 1
	}
	return &DebugDraw{cfg: cfg}
}

func (d *DebugDraw) Config() DebugDrawConfig {
	return d.cfg
}

// Draw paints space onto surface. The surface is not cleared first.
func (d *DebugDraw) Draw(space *cp.Space, surface Surface) {
	if d == nil || space == nil || surface == nil {
		return
	}
	cp.DrawSpace(space, &physicsDebugDrawer{cfg: d.cfg, surface: surface})
}

type physicsDebugDrawer struct {
	cfg     DebugDrawConfig
	surface Surface
}

func (d *physicsDebugDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	if radius <= 0 {
		return
	}
	points := circlePoints(pos, radius)
	d.fillPolygon(points, fill)
	d.strokePolygon(points, fill)
	end := cp.Vector{X: pos.X + math.Cos(angle)*radius, Y: pos.Y + math.Sin(angle)*radius}
	d.drawLine(pos, end, fill)
}

func (d *physicsDebugDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, fill)
}

func (d *physicsDebugDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, fill)
	if radius > 0 {
		d.strokePolygon(circlePoints(a, radius), fill)
		d.strokePolygon(circlePoints(b, radius), fill)
	}
}

func (d *physicsDebugDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count <= 0 {
		return
	}
	d.fillPolygon(verts[:count], fill)
	d.strokePolygon(verts[:count], fill)
}

func (d *physicsDebugDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	if size <= 0 {
		size = debugDotSize
	}
	// dots are sized in pixels already
	half := size / 2 / d.cfg.Scale
	d.drawLine(cp.Vector{X: pos.X - half, Y: pos.Y}, cp.Vector{X: pos.X + half, Y: pos.Y}, fill)
	d.drawLine(cp.Vector{X: pos.X, Y: pos.Y - half}, cp.Vector{X: pos.X, Y: pos.Y + half}, fill)
}

func (d *physicsDebugDrawer) Flags() uint {
	return d.cfg.Flags
}

func (d *physicsDebugDrawer) OutlineColor() cp.FColor {
	return toFColor(colornames.White)
}

func (d *physicsDebugDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	if shape == nil || shape.Body() == nil {
		return toFColor(colornames.White)
	}
	body := shape.Body()
	switch {
	case shape.Sensor():
		return toFColor(colornames.Gold)
	case body.GetType() == cp.BODY_STATIC:
		return toFColor(colornames.Palegreen)
	case body.GetType() == cp.BODY_KINEMATIC:
		return toFColor(colornames.Lightsteelblue)
	case body.IsSleeping():
		return toFColor(colornames.Darkgray)
	default:
		return toFColor(colornames.Lightpink)
	}
}

func (d *physicsDebugDrawer) ConstraintColor() cp.FColor {
	return toFColor(colornames.Mediumturquoise)
}

func (d *physicsDebugDrawer) CollisionPointColor() cp.FColor {
	return toFColor(colornames.Red)
}

func (d *physicsDebugDrawer) Data() interface{} {
	return nil
}

func (d *physicsDebugDrawer) drawLine(a, b cp.Vector, c cp.FColor) {
	x1, y1 := d.toScreen(a)
	x2, y2 := d.toScreen(b)
	d.surface.StrokeLine(x1, y1, x2, y2, float32(d.cfg.LineThickness), toNRGBA(c, 1))
}

func (d *physicsDebugDrawer) strokePolygon(verts []cp.Vector, c cp.FColor) {
	for i := range verts {
		d.drawLine(verts[i], verts[(i+1)%len(verts)], c)
	}
}

func (d *physicsDebugDrawer) fillPolygon(verts []cp.Vector, c cp.FColor) {
	if len(verts) < 3 {
		return
	}
	points := make([]float32, 0, len(verts)*2)
	for _, v := range verts {
		x, y := d.toScreen(v)
		points = append(points, x, y)
	}
	d.surface.FillPolygon(points, toNRGBA(c, d.cfg.FillAlpha))
}

func (d *physicsDebugDrawer) toScreen(v cp.Vector) (float32, float32) {
	return float32(v.X * d.cfg.Scale), float32(v.Y * d.cfg.Scale)
}

func circlePoints(center cp.Vector, radius float64) []cp.Vector {
	points := make([]cp.Vector, 0, debugCircleSegments)
	for i := 0; i < debugCircleSegments; i++ {
		t := (2 * math.Pi) * (float64(i) / float64(debugCircleSegments))
		points = append(points, cp.Vector{X: center.X + math.Cos(t)*radius, Y: center.Y + math.Sin(t)*radius})
	}
	return points
}

func toFColor(c color.RGBA) cp.FColor {
	return cp.FColor{R: float32(c.R) / 255, G: float32(c.G) / 255, B: float32(c.B) / 255, A: float32(c.A) / 255}
}

// toNRGBA converts c and replaces its alpha.
func toNRGBA(c cp.FColor, alpha float64) color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(float32(alpha)) * 255),
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
