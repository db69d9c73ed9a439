package game

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/playmatatu/snooker/internal/config"
	"github.com/playmatatu/snooker/internal/physics"
)

type fakeBody struct {
	spec physics.BodySpec
	pos  Vec2
}

type appliedForce struct {
	body  physics.BodyID
	at    Vec2
	force Vec2
}

// fakeWorld stores bodies without simulating them. Tests queue the collision
// pairs the next Step should report.
type fakeWorld struct {
	bodies  map[physics.BodyID]*fakeBody
	next    physics.BodyID
	pending []physics.CollisionPair
	forces  []appliedForce
	steps   int
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{bodies: make(map[physics.BodyID]*fakeBody)}
}

func (f *fakeWorld) AddBody(spec physics.BodySpec) physics.BodyID {
	f.next++
	f.bodies[f.next] = &fakeBody{spec: spec, pos: spec.Position}
	return f.next
}

func (f *fakeWorld) RemoveBody(id physics.BodyID) {
	delete(f.bodies, id)
}

func (f *fakeWorld) SetPosition(id physics.BodyID, pos Vec2) {
	if b, ok := f.bodies[id]; ok {
		b.pos = pos
	}
}

func (f *fakeWorld) Position(id physics.BodyID) (Vec2, bool) {
	b, ok := f.bodies[id]
	if !ok {
		return Vec2{}, false
	}
	return b.pos, true
}

func (f *fakeWorld) ApplyForce(id physics.BodyID, at, force Vec2) {
	f.forces = append(f.forces, appliedForce{body: id, at: at, force: force})
}

func (f *fakeWorld) Step(dt float64) []physics.CollisionPair {
	f.steps++
	out := f.pending
	f.pending = nil
	return out
}

func (f *fakeWorld) contact(id physics.BodyID) physics.Contact {
	b := f.bodies[id]
	return physics.Contact{Body: id, Label: b.spec.Label, Owner: b.spec.Owner}
}

// touch queues a collision-start between two bodies for the next Step.
func (f *fakeWorld) touch(a, b physics.BodyID) {
	f.pending = append(f.pending, physics.CollisionPair{A: f.contact(a), B: f.contact(b)})
}

func (f *fakeWorld) hasBody(id physics.BodyID) bool {
	_, ok := f.bodies[id]
	return ok
}

func newTestSession(t *testing.T, mode LayoutMode) (*Session, *fakeWorld) {
	t.Helper()
	w := newFakeWorld()
	s, err := NewSession(w, Options{Tuning: config.DefaultTuning(), Layout: mode, Seed: 42})
	require.NoError(t, err)
	s.DrainEvents()
	return s, w
}

func idle(at Vec2) PointerInput {
	return PointerInput{Position: at}
}

func press(at Vec2) PointerInput {
	return PointerInput{Position: at, Pressed: true}
}

// placeCue puts the cue ball at p and returns it.
func placeCue(t *testing.T, s *Session, p Vec2) *Ball {
	t.Helper()
	s.Step(press(p), FrameMillis)
	s.Step(PointerInput{Position: p, Released: true}, FrameMillis)
	require.NotNil(t, s.Cue)
	require.Equal(t, PhaseGaming, s.Phase)
	return s.Cue
}
