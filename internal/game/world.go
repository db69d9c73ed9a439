package game

import "github.com/playmatatu/snooker/internal/physics"

// World is the subset of the physics engine a session drives. *physics.World
// satisfies it; tests substitute a scripted fake.
type World interface {
	AddBody(spec physics.BodySpec) physics.BodyID
	RemoveBody(id physics.BodyID)
	SetPosition(id physics.BodyID, pos Vec2)
	Position(id physics.BodyID) (Vec2, bool)
	ApplyForce(id physics.BodyID, at, force Vec2)
	Step(dt float64) []physics.CollisionPair
}

var _ World = (*physics.World)(nil)
