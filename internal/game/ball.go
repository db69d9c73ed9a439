package game

import (
	"fmt"
	"log"

	"github.com/playmatatu/snooker/internal/config"
	"github.com/playmatatu/snooker/internal/physics"
)

// EntityID identifies a ball for the lifetime of a session. It is stored as
// the Owner of the ball's physics body.
type EntityID uint64

// BallKind is the closed set of ball roles.
type BallKind uint8

const (
	KindCue BallKind = iota + 1
	KindRed
	KindColored
)

// Label returns the physics body label for the kind.
func (k BallKind) Label() string {
	switch k {
	case KindCue:
		return LabelCue
	case KindRed:
		return LabelRed
	case KindColored:
		return LabelColored
	}
	panic(fmt.Sprintf("unknown ball kind %d", k))
}

func (k BallKind) String() string {
	switch k {
	case KindCue:
		return "cue"
	case KindRed:
		return "red"
	case KindColored:
		return "colored"
	}
	return "unknown"
}

func kindFromLabel(label string) (BallKind, bool) {
	switch label {
	case LabelCue:
		return KindCue, true
	case LabelRed:
		return KindRed, true
	case LabelColored:
		return KindColored, true
	}
	return 0, false
}

// ColorSpec is the colour identity a ball is created with.
type ColorSpec struct {
	Name         string
	Color        RGB
	CatalogIndex int // -1 unless the ball is a colored ball
}

// Ball is a ball on the table.
type Ball struct {
	ID               EntityID
	Kind             BallKind
	ColorName        string
	Color            RGB
	CatalogIndex     int
	Body             physics.BodyID
	Position         Vec2
	PrevPosition     Vec2
	Speed            float64 // pixels per millisecond
	TeleportCooldown int
	Grabbed          bool
}

// SyncFromPhysics pulls the body position into the ball and derives its speed.
// dt is the frame length in milliseconds.
func (b *Ball) SyncFromPhysics(w World, dt float64) {
	pos, ok := w.Position(b.Body)
	if !ok {
		panic(fmt.Sprintf("ball %d (%s) has no physics body %d", b.ID, b.Kind, b.Body))
	}
	b.PrevPosition = b.Position
	b.Position = pos
	if dt > 0 {
		b.Speed = b.Position.Distance(b.PrevPosition) / dt
	}
}

// ClampToTable moves a ball that drifted outside the table back just inside
// it, per axis. It returns true when the ball was moved.
func (b *Ball) ClampToTable(w World, t *Table) bool {
	outer := t.Bounds.Inset(-ClampTolerance)
	inner := t.Bounds.Inset(ClampInset)

	pos := b.Position
	moved := false
	if pos.X < outer.MinX {
		pos.X = inner.MinX
		moved = true
	} else if pos.X > outer.MaxX {
		pos.X = inner.MaxX
		moved = true
	}
	if pos.Y < outer.MinY {
		pos.Y = inner.MinY
		moved = true
	} else if pos.Y > outer.MaxY {
		pos.Y = inner.MaxY
		moved = true
	}

	if !moved {
		return false
	}
	log.Printf("[TABLE] ball out of bounds: %s ball %d at (%.1f, %.1f), moved to (%.1f, %.1f)",
		b.Kind, b.ID, b.Position.X, b.Position.Y, pos.X, pos.Y)
	w.SetPosition(b.Body, pos)
	b.Position = pos
	return true
}

// TickTeleportCooldown counts the teleport cooldown down by one frame.
func (b *Ball) TickTeleportCooldown() {
	if b.TeleportCooldown > 0 {
		b.TeleportCooldown--
	}
}

func ballSpec(id EntityID, kind BallKind, pos Vec2, t config.Tuning) physics.BodySpec {
	return physics.BodySpec{
		Label:       kind.Label(),
		Owner:       uint64(id),
		Shape:       physics.Circle(BallRadius),
		Position:    pos,
		Friction:    t.BallFriction,
		Restitution: t.BallRestitution,
		AirDrag:     t.AirDrag,
	}
}
