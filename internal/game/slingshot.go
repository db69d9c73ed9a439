package game

import (
	"math"

	"github.com/playmatatu/snooker/internal/config"
)

// Slingshot is the aiming constraint between the cue ball and the dragged pointer.
type Slingshot struct {
	Anchor Vec2 `json:"anchor"`
	End    Vec2 `json:"end"`
}

// SlingshotEnd halves the pointer's offset from the anchor and caps it at maxLength.
func SlingshotEnd(anchor, pointer Vec2, maxLength float64) Vec2 {
	offset := pointer.Minus(anchor).Times(0.5)
	return anchor.Plus(offset.ClampLength(maxLength))
}

// ComputeStrikeForce converts a released slingshot into the force applied to
// the cue ball. The force points from the end back through the anchor, and
// each component is limited so a full pull cannot launch the ball off the table.
func ComputeStrikeForce(s Slingshot, t config.Tuning) Vec2 {
	pull := s.Anchor.Minus(s.End)
	magnitude := pull.Magnitude() * t.ForceScale
	return Vec2{
		X: clampFloat(pull.X*magnitude*t.ForceComponentScale, -t.MaxForceComponent, t.MaxForceComponent),
		Y: clampFloat(pull.Y*magnitude*t.ForceComponentScale, -t.MaxForceComponent, t.MaxForceComponent),
	}
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
