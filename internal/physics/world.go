package physics

import (
	"math"
	"sort"
)

// BaseDelta is the frame length, in milliseconds, that velocities are expressed against.
const BaseDelta = 1000.0 / 60.0

const (
	DefaultDensity = 0.001
	maxSubsteps    = 16
)

// BodyID identifies a body inside one World.
type BodyID uint64

// BodySpec describes a body to add to the world. Owner is an opaque id the
// caller uses to map a body back to its own entities.
type BodySpec struct {
	Label       string
	Owner       uint64
	Shape       Shape
	Position    Vec2
	Static      bool
	Sensor      bool
	Friction    float64
	Restitution float64
	AirDrag     float64
	Density     float64
}

// Body is a rigid body. Velocity is in pixels per BaseDelta.
type Body struct {
	ID BodyID
	BodySpec
	Velocity Vec2
	Force    Vec2
	Mass     float64
	invMass  float64
}

// Contact is one side of a collision pair.
type Contact struct {
	Body  BodyID `json:"body"`
	Label string `json:"label"`
	Owner uint64 `json:"owner"`
}

// CollisionPair reports two bodies that started touching during a step.
type CollisionPair struct {
	A Contact `json:"a"`
	B Contact `json:"b"`
}

type pairKey struct {
	a, b BodyID
}

func makePairKey(a, b BodyID) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a, b}
}

// World is a 2D rigid-body world. It is not safe for concurrent use.
type World struct {
	bodies map[BodyID]*Body
	order  []BodyID
	nextID BodyID
	active map[pairKey]struct{}
}

// NewWorld creates an empty world with no gravity.
func NewWorld() *World {
	return &World{
		bodies: make(map[BodyID]*Body),
		active: make(map[pairKey]struct{}),
	}
}

// AddBody inserts a body and returns its id. Polygon bodies are always static.
func (w *World) AddBody(spec BodySpec) BodyID {
	w.nextID++
	id := w.nextID

	if spec.Shape.Kind == ShapePolygon {
		spec.Static = true
	}
	if spec.Density <= 0 {
		spec.Density = DefaultDensity
	}

	b := &Body{ID: id, BodySpec: spec}
	if !spec.Static {
		b.Mass = spec.Shape.Area() * spec.Density
		if b.Mass > 0 {
			b.invMass = 1 / b.Mass
		}
	}

	w.bodies[id] = b
	w.order = append(w.order, id)
	return id
}

// RemoveBody deletes a body. Removing an unknown id is a no-op.
func (w *World) RemoveBody(id BodyID) {
	if _, ok := w.bodies[id]; !ok {
		return
	}
	delete(w.bodies, id)
	for i, o := range w.order {
		if o == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	for k := range w.active {
		if k.a == id || k.b == id {
			delete(w.active, k)
		}
	}
}

// SetPosition teleports a body. Its velocity is kept.
func (w *World) SetPosition(id BodyID, pos Vec2) {
	if b, ok := w.bodies[id]; ok {
		b.Position = pos
	}
}

func (w *World) Position(id BodyID) (Vec2, bool) {
	b, ok := w.bodies[id]
	if !ok {
		return Vec2{}, false
	}
	return b.Position, true
}

func (w *World) Velocity(id BodyID) (Vec2, bool) {
	b, ok := w.bodies[id]
	if !ok {
		return Vec2{}, false
	}
	return b.Velocity, true
}

func (w *World) SetVelocity(id BodyID, v Vec2) {
	if b, ok := w.bodies[id]; ok && !b.Static {
		b.Velocity = v
	}
}

// ApplyForce accumulates a force on a dynamic body for the next step.
// The application point is accepted for API symmetry; bodies do not rotate.
func (w *World) ApplyForce(id BodyID, at, force Vec2) {
	b, ok := w.bodies[id]
	if !ok || b.Static {
		return
	}
	b.Force = b.Force.Plus(force)
}

// Body returns a copy of the body state.
func (w *World) Body(id BodyID) (Body, bool) {
	b, ok := w.bodies[id]
	if !ok {
		return Body{}, false
	}
	return *b, true
}

// BodyCount returns the number of bodies in the world.
func (w *World) BodyCount() int {
	return len(w.bodies)
}

// Step advances the world by dt milliseconds and returns the pairs that
// started touching during this step.
func (w *World) Step(dt float64) []CollisionPair {
	scale := dt / BaseDelta
	dynamic := make([]*Body, 0, len(w.order))
	var maxTravel float64
	minRadius := math.Inf(1)

	for _, id := range w.order {
		b := w.bodies[id]
		if b.Static {
			continue
		}
		b.Velocity = b.Velocity.Times(1 - b.AirDrag*scale)
		if b.invMass > 0 && !b.Force.IsZero() {
			b.Velocity = b.Velocity.Plus(b.Force.Times(b.invMass * dt * dt))
		}
		b.Force = Vec2{}
		dynamic = append(dynamic, b)

		if travel := b.Velocity.Magnitude() * scale; travel > maxTravel {
			maxTravel = travel
		}
		if r := b.Shape.boundingRadius(); r > 0 && r < minRadius {
			minRadius = r
		}
	}

	substeps := 1
	if maxTravel > 0 && !math.IsInf(minRadius, 1) {
		substeps = int(math.Ceil(maxTravel / (minRadius / 3)))
		if substeps < 1 {
			substeps = 1
		}
		if substeps > maxSubsteps {
			substeps = maxSubsteps
		}
	}

	touching := make(map[pairKey]struct{})
	sub := scale / float64(substeps)
	for s := 0; s < substeps; s++ {
		for _, b := range dynamic {
			b.Position = b.Position.Plus(b.Velocity.Times(sub))
		}
		w.detect(dynamic, touching)
	}

	var started []CollisionPair
	for k := range touching {
		if _, ok := w.active[k]; ok {
			continue
		}
		a, b := w.bodies[k.a], w.bodies[k.b]
		started = append(started, CollisionPair{
			A: Contact{Body: a.ID, Label: a.Label, Owner: a.Owner},
			B: Contact{Body: b.ID, Label: b.Label, Owner: b.Owner},
		})
	}
	sort.Slice(started, func(i, j int) bool {
		if started[i].A.Body != started[j].A.Body {
			return started[i].A.Body < started[j].A.Body
		}
		return started[i].B.Body < started[j].B.Body
	})

	w.active = touching
	return started
}

// detect records every touching pair that involves at least one dynamic body
// and resolves the solid ones.
func (w *World) detect(dynamic []*Body, touching map[pairKey]struct{}) {
	for _, a := range dynamic {
		for _, id := range w.order {
			b := w.bodies[id]
			if a == b {
				continue
			}
			// dynamic-dynamic pairs are visited twice; handle them once
			if !b.Static && b.ID < a.ID {
				continue
			}
			if !boundsTouch(a, b) {
				continue
			}
			m, ok := overlap(a, b)
			if !ok {
				continue
			}
			touching[makePairKey(a.ID, b.ID)] = struct{}{}
			if a.Sensor || b.Sensor {
				continue
			}
			resolve(a, b, m)
		}
	}
}

func boundsTouch(a, b *Body) bool {
	reach := a.Shape.boundingRadius() + b.Shape.boundingRadius()
	return a.Position.Minus(b.Position).MagnitudeSquared() <= reach*reach
}
