package game

import (
	"math"

	"github.com/playmatatu/snooker/internal/physics"
)

// TeleporterZone is one end of the teleporter pair.
type TeleporterZone struct {
	Index        int            `json:"index"`
	Position     Vec2           `json:"position"`
	SensorRadius float64        `json:"sensor_radius"`
	MarkerRadius float64        `json:"marker_radius"`
	Body         physics.BodyID `json:"-"`
}

// TeleporterPair is two sensors orbiting the table centre, 180 degrees apart.
// A ball entering one zone reappears at the other.
type TeleporterPair struct {
	Center   Vec2
	Orbit    float64
	Cooldown int
	Zones    [2]TeleporterZone
}

// NewTeleporterPair creates the pair and adds both sensors to the world.
func NewTeleporterPair(w World, center Vec2, orbit float64, cooldown int) *TeleporterPair {
	tp := &TeleporterPair{Center: center, Orbit: orbit, Cooldown: cooldown}
	for k := range tp.Zones {
		z := &tp.Zones[k]
		z.Index = k
		z.SensorRadius = TeleporterSensorRadius
		z.MarkerRadius = TeleporterMarkerRadius
		z.Position = tp.zonePosition(k, 0)
		z.Body = w.AddBody(physics.BodySpec{
			Label:    LabelTeleporter,
			Owner:    uint64(k),
			Shape:    physics.Circle(TeleporterSensorRadius),
			Position: z.Position,
			Static:   true,
			Sensor:   true,
		})
	}
	return tp
}

// zonePosition places zone k at (frame + 180k) degrees on the orbit.
func (tp *TeleporterPair) zonePosition(k, frame int) Vec2 {
	deg := float64(frame + 180*k)
	rad := deg * math.Pi / 180
	return Vec2{
		X: tp.Center.X + tp.Orbit*math.Cos(rad),
		Y: tp.Center.Y + tp.Orbit*math.Sin(rad),
	}
}

// Advance moves both zones to their position for the given frame.
func (tp *TeleporterPair) Advance(w World, frame int) {
	for k := range tp.Zones {
		z := &tp.Zones[k]
		z.Position = tp.zonePosition(k, frame)
		w.SetPosition(z.Body, z.Position)
	}
}

// Relocate moves a ball that entered zone entered to the other zone. Balls
// still cooling down from a previous jump stay put.
func (tp *TeleporterPair) Relocate(w World, b *Ball, entered int) bool {
	if b.TeleportCooldown != 0 {
		return false
	}
	target := tp.Zones[1-entered].Position
	w.SetPosition(b.Body, target)
	b.TeleportCooldown = tp.Cooldown
	return true
}
