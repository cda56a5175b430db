package prefabs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/milk9111/slimeball/common"
	"gopkg.in/yaml.v3"
)

// ErrInvalidSpec is returned when a session spec fails validation.
var ErrInvalidSpec = errors.New("prefabs: invalid spec")

const (
	VariantSingle = "single"
	VariantShadow = "shadow"
)

const (
	DrawShapes          = "shapes"
	DrawJoints          = "joints"
	DrawCollisionPoints = "collision_points"
)

type Vec2Spec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type CanvasSpec struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type WorldSpec struct {
	Gravity Vec2Spec `yaml:"gravity"`
	Sleep   bool     `yaml:"sleep"`
	// SleepTime is the idle time in seconds before a body sleeps.
	SleepTime float64 `yaml:"sleep_time"`
}

type StepSpec struct {
	TPS                int `yaml:"tps"`
	VelocityIterations int `yaml:"velocity_iterations"`
	PositionIterations int `yaml:"position_iterations"`
}

// GroundSpec sizes are in pixels.
type GroundSpec struct {
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	Density     float64 `yaml:"density"`
	Friction    float64 `yaml:"friction"`
	Restitution float64 `yaml:"restitution"`
}

// PlayerSpec describes the half-circle player. The arc is sampled in
// degrees on a circle of Radius simulation units.
type PlayerSpec struct {
	ArcStart      float64  `yaml:"arc_start"`
	ArcEnd        float64  `yaml:"arc_end"`
	ArcStep       float64  `yaml:"arc_step"`
	Radius        float64  `yaml:"radius"`
	Density       float64  `yaml:"density"`
	Friction      float64  `yaml:"friction"`
	Offset        Vec2Spec `yaml:"offset"`
	FixedRotation bool     `yaml:"fixed_rotation"`
	ZeroDamping   bool     `yaml:"zero_damping"`
}

// BallSpec sizes are in pixels.
type BallSpec struct {
	Radius      float64  `yaml:"radius"`
	Density     float64  `yaml:"density"`
	Friction    float64  `yaml:"friction"`
	Restitution float64  `yaml:"restitution"`
	Mass        float64  `yaml:"mass"`
	Offset      Vec2Spec `yaml:"offset"`
}

type InputSpec struct {
	MoveSpeed          float64 `yaml:"move_speed"`
	JumpImpulse        float64 `yaml:"jump_impulse"`
	Legacy             bool    `yaml:"legacy"`
	JumpRequiresGround bool    `yaml:"jump_requires_ground"`
}

type DebugDrawSpec struct {
	FillAlpha     float64  `yaml:"fill_alpha"`
	LineThickness float64  `yaml:"line_thickness"`
	Flags         []string `yaml:"flags"`
}

// SessionSpec is everything a World Session is built from.
type SessionSpec struct {
	Name      string        `yaml:"name"`
	Variant   string        `yaml:"variant"`
	Scale     float64       `yaml:"scale"`
	Canvas    CanvasSpec    `yaml:"canvas"`
	World     WorldSpec     `yaml:"world"`
	Step      StepSpec      `yaml:"step"`
	Ground    GroundSpec    `yaml:"ground"`
	Player    PlayerSpec    `yaml:"player"`
	Ball      BallSpec      `yaml:"ball"`
	Input     InputSpec     `yaml:"input"`
	DebugDraw DebugDrawSpec `yaml:"debug_draw"`
}

// DefaultSessionSpec returns the single-body session.
func DefaultSessionSpec() SessionSpec {
	return SessionSpec{
		Name:    "slimeball",
		Variant: VariantSingle,
		Scale:   common.Scale,
		Canvas:  CanvasSpec{Width: common.CanvasWidth, Height: common.CanvasHeight},
		World: WorldSpec{
			Gravity: Vec2Spec{X: common.GravityX, Y: common.GravityY},
			Sleep:   true,
		},
		Step: StepSpec{
			TPS:                common.TPS,
			VelocityIterations: common.VelocityIterations,
			PositionIterations: common.PositionIterations,
		},
		Ground: GroundSpec{Width: 600, Height: 10, Density: 1, Friction: 0.5, Restitution: 0},
		Player: PlayerSpec{ArcStart: 180, ArcEnd: 360, ArcStep: 2, Radius: 1, Density: 1, Friction: 0},
		Ball:   BallSpec{Radius: 20, Density: 1, Friction: 0.5, Restitution: 1, Mass: 500},
		Input: InputSpec{
			MoveSpeed:          common.MoveSpeed,
			JumpImpulse:        common.JumpImpulse,
			JumpRequiresGround: true,
		},
		DebugDraw: DebugDrawSpec{FillAlpha: 0.3, LineThickness: 1, Flags: []string{DrawShapes, DrawJoints}},
	}
}

// TwoBody reports whether the session has a shadow and a ball.
func (s SessionSpec) TwoBody() bool {
	return s.Variant == VariantShadow
}

// TimeStep is the fixed step in seconds.
func (s SessionSpec) TimeStep() float64 {
	return 1.0 / float64(s.Step.TPS)
}

// Validate reports the first problem that would make the session unusable.
func (s SessionSpec) Validate() error {
	switch {
	case s.Variant != VariantSingle && s.Variant != VariantShadow:
		return fmt.Errorf("%w: unknown variant %q", ErrInvalidSpec, s.Variant)
	case s.Scale <= 0:
		return fmt.Errorf("%w: scale must be positive, got %v", ErrInvalidSpec, s.Scale)
	case s.Canvas.Width <= 0 || s.Canvas.Height <= 0:
		return fmt.Errorf("%w: canvas must be positive, got %dx%d", ErrInvalidSpec, s.Canvas.Width, s.Canvas.Height)
	case s.Step.TPS <= 0:
		return fmt.Errorf("%w: tps must be positive, got %d", ErrInvalidSpec, s.Step.TPS)
	case s.Step.VelocityIterations <= 0 || s.Step.PositionIterations <= 0:
		return fmt.Errorf("%w: solver iterations must be positive", ErrInvalidSpec)
	case s.Ground.Width <= 0 || s.Ground.Height <= 0:
		return fmt.Errorf("%w: ground size must be positive", ErrInvalidSpec)
	case s.Player.ArcStep <= 0 || s.Player.ArcEnd <= s.Player.ArcStart || s.Player.Radius <= 0:
		return fmt.Errorf("%w: player arc must be increasing with a positive step and radius", ErrInvalidSpec)
	case s.TwoBody() && (s.Ball.Radius <= 0 || s.Ball.Mass <= 0):
		return fmt.Errorf("%w: ball radius and mass must be positive", ErrInvalidSpec)
	}
	for _, f := range s.DebugDraw.Flags {
		switch strings.ToLower(f) {
		case DrawShapes, DrawJoints, DrawCollisionPoints:
		default:
			return fmt.Errorf("%w: unknown debug draw flag %q", ErrInvalidSpec, f)
		}
	}
	return nil
}

// ParseSessionSpec decodes data over the defaults and validates the result.
func ParseSessionSpec(data []byte) (SessionSpec, error) {
	spec := DefaultSessionSpec()
	// flags listed in the file replace the defaults
	spec.DebugDraw.Flags = nil
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return SessionSpec{}, fmt.Errorf("prefabs: unmarshal session: %w", err)
	}
	if len(spec.DebugDraw.Flags) == 0 {
		spec.DebugDraw.Flags = []string{DrawShapes, DrawJoints}
	}
	if err := spec.Validate(); err != nil {
		return SessionSpec{}, err
	}
	return spec, nil
}

// LoadSessionSpec loads and validates a session spec by file name.
func LoadSessionSpec(name string) (SessionSpec, error) {
	data, err := Load(name)
	if err != nil {
		return SessionSpec{}, fmt.Errorf("prefabs: load %s: %w", name, err)
	}
	spec, err := ParseSessionSpec(data)
	if err != nil {
		return SessionSpec{}, fmt.Errorf("prefabs: %s: %w", name, err)
	}
	return spec, nil
}
