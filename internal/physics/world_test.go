package physics

import (
	"math"
	"testing"
)

const testRadius = 13.5

// Helper to create a ball body with the table's ball material.
func addBall(w *World, owner uint64, x, y float64) BodyID {
	return w.AddBody(BodySpec{
		Label:       "ball",
		Owner:       owner,
		Shape:       Circle(testRadius),
		Position:    NewVec2(x, y),
		Restitution: 1,
	})
}

func stepN(w *World, n int) []CollisionPair {
	var all []CollisionPair
	for i := 0; i < n; i++ {
		all = append(all, w.Step(BaseDelta)...)
	}
	return all
}

func TestBallMovesInDirectionOfVelocity(t *testing.T) {
	w := NewWorld()
	id := addBall(w, 1, 100, 100)
	w.SetVelocity(id, NewVec2(2, 0))

	stepN(w, 10)

	pos, _ := w.Position(id)
	if math.Abs(pos.X-120) > 1e-6 || pos.Y != 100 {
		t.Errorf("Ball at (%.2f, %.2f), expected (120, 100)", pos.X, pos.Y)
	}
}

func TestAirDragSlowsBall(t *testing.T) {
	w := NewWorld()
	id := w.AddBody(BodySpec{Shape: Circle(testRadius), Position: NewVec2(0, 0), AirDrag: 0.005})
	w.SetVelocity(id, NewVec2(1, 0))

	stepN(w, 100)

	v, _ := w.Velocity(id)
	expected := math.Pow(0.995, 100)
	if math.Abs(v.X-expected) > 1e-9 {
		t.Errorf("Velocity after drag = %.6f, expected %.6f", v.X, expected)
	}
}

func TestApplyForceScalesWithMass(t *testing.T) {
	w := NewWorld()
	id := addBall(w, 1, 0, 0)
	body, _ := w.Body(id)

	w.ApplyForce(id, NewVec2(0, 0), NewVec2(0.001, 0))
	w.Step(BaseDelta)

	v, _ := w.Velocity(id)
	expected := 0.001 / body.Mass * BaseDelta * BaseDelta
	if math.Abs(v.X-expected) > 1e-9 {
		t.Errorf("Velocity after force = %.6f, expected %.6f", v.X, expected)
	}

	// Force is consumed by one step.
	w.Step(BaseDelta)
	v2, _ := w.Velocity(id)
	if math.Abs(v2.X-expected) > 1e-9 {
		t.Errorf("Force applied twice: velocity %.6f", v2.X)
	}
}

func TestHeadOnCollisionTransfersMomentum(t *testing.T) {
	w := NewWorld()
	cue := addBall(w, 1, 100, 300)
	target := addBall(w, 2, 160, 300)
	w.SetVelocity(cue, NewVec2(3, 0))

	pairs := stepN(w, 30)

	vc, _ := w.Velocity(cue)
	vt, _ := w.Velocity(target)
	if math.Abs(vc.X) > 0.01 {
		t.Errorf("Cue ball should stop after elastic head-on hit, vx=%.3f", vc.X)
	}
	if math.Abs(vt.X-3) > 0.01 {
		t.Errorf("Target should take the cue ball's speed, vx=%.3f", vt.X)
	}
	if len(pairs) != 1 {
		t.Fatalf("Expected one collision start, got %d", len(pairs))
	}
	if pairs[0].A.Owner != 1 || pairs[0].B.Owner != 2 {
		t.Errorf("Unexpected pair owners %d/%d", pairs[0].A.Owner, pairs[0].B.Owner)
	}
}

func TestBallBouncesOffStaticWall(t *testing.T) {
	w := NewWorld()
	w.AddBody(BodySpec{Label: "wall", Shape: Rectangle(20, 400), Position: NewVec2(300, 300), Static: true})
	id := addBall(w, 1, 250, 300)
	w.SetVelocity(id, NewVec2(4, 0))

	stepN(w, 20)

	v, _ := w.Velocity(id)
	pos, _ := w.Position(id)
	if v.X >= 0 {
		t.Errorf("Ball should move left after the wall, vx=%.3f", v.X)
	}
	if pos.X > 290-testRadius+0.5 {
		t.Errorf("Ball penetrated the wall: x=%.2f", pos.X)
	}
}

func TestSensorReportsWithoutResponse(t *testing.T) {
	w := NewWorld()
	w.AddBody(BodySpec{Label: "pocket", Owner: 4, Shape: Circle(5), Position: NewVec2(200, 100), Static: true, Sensor: true})
	id := addBall(w, 9, 170, 100)
	w.SetVelocity(id, NewVec2(2, 0))

	pairs := stepN(w, 10)

	v, _ := w.Velocity(id)
	if v.X != 2 {
		t.Errorf("Sensor changed ball velocity: %.3f", v.X)
	}
	if len(pairs) != 1 {
		t.Fatalf("Expected one sensor start, got %d", len(pairs))
	}
	labels := pairs[0].A.Label + "/" + pairs[0].B.Label
	if labels != "pocket/ball" {
		t.Errorf("Unexpected labels %s", labels)
	}
}

func TestCollisionStartReportedOncePerContact(t *testing.T) {
	w := NewWorld()
	w.AddBody(BodySpec{Label: "zone", Shape: Circle(15), Position: NewVec2(0, 0), Static: true, Sensor: true})
	addBall(w, 1, 10, 0)

	first := w.Step(BaseDelta)
	second := w.Step(BaseDelta)

	if len(first) != 1 {
		t.Errorf("Expected a start on first overlap, got %d", len(first))
	}
	if len(second) != 0 {
		t.Errorf("Resting contact reported again: %d pairs", len(second))
	}
}

func TestRemovedBodyLeavesActiveSet(t *testing.T) {
	w := NewWorld()
	w.AddBody(BodySpec{Label: "zone", Shape: Circle(15), Position: NewVec2(0, 0), Static: true, Sensor: true})
	ball := addBall(w, 1, 10, 0)
	w.Step(BaseDelta)

	w.RemoveBody(ball)
	if _, ok := w.Position(ball); ok {
		t.Errorf("Removed body still has a position")
	}
	if len(w.Step(BaseDelta)) != 0 {
		t.Errorf("Removed body produced a collision")
	}

	again := addBall(w, 2, 10, 0)
	pairs := w.Step(BaseDelta)
	if len(pairs) != 1 || pairs[0].B.Body != again {
		t.Errorf("New body at the same spot should start a contact, got %+v", pairs)
	}
}

func TestSetPositionKeepsVelocity(t *testing.T) {
	w := NewWorld()
	id := addBall(w, 1, 0, 0)
	w.SetVelocity(id, NewVec2(1, 1))

	w.SetPosition(id, NewVec2(500, 500))

	v, _ := w.Velocity(id)
	if !v.IsEqualTo(NewVec2(1, 1)) {
		t.Errorf("Velocity changed on teleport: %+v", v)
	}
}

func TestFastBallDoesNotTunnelThroughCushion(t *testing.T) {
	w := NewWorld()
	w.AddBody(BodySpec{Label: "cushion", Shape: Trapezoid(400, 20, 0.1, 0), Position: NewVec2(300, 300), Static: true})
	id := addBall(w, 1, 300, 200)
	w.SetVelocity(id, NewVec2(0, 30))

	stepN(w, 10)

	pos, _ := w.Position(id)
	if pos.Y > 300 {
		t.Errorf("Ball tunnelled through the cushion: y=%.2f", pos.Y)
	}
}

func TestTrapezoidShape(t *testing.T) {
	s := Trapezoid(100, 20, 0.1, 0)
	if len(s.Vertices) != 4 {
		t.Fatalf("Expected 4 vertices, got %d", len(s.Vertices))
	}
	// bottom 100 wide, top 90 wide
	expected := (100.0 + 90.0) / 2 * 20
	if math.Abs(s.Area()-expected) > 1e-6 {
		t.Errorf("Trapezoid area = %.3f, expected %.3f", s.Area(), expected)
	}

	rotated := Trapezoid(100, 20, 0.1, math.Pi/2)
	if math.Abs(rotated.Area()-expected) > 1e-6 {
		t.Errorf("Rotation changed area: %.3f", rotated.Area())
	}
}

func TestVec2Operations(t *testing.T) {
	v := NewVec2(3, 4)
	if v.Magnitude() != 5 {
		t.Errorf("Magnitude = %.3f", v.Magnitude())
	}
	if c := v.ClampLength(2.5); math.Abs(c.Magnitude()-2.5) > 1e-9 {
		t.Errorf("ClampLength = %.3f", c.Magnitude())
	}
	if v.ClampLength(10) != v {
		t.Errorf("ClampLength changed a short vector")
	}
	r := NewVec2(1, 0).Rotate(math.Pi / 2)
	if math.Abs(r.X) > 1e-9 || math.Abs(r.Y-1) > 1e-9 {
		t.Errorf("Rotate = (%.3f, %.3f)", r.X, r.Y)
	}
}
