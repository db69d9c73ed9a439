package physics

import "math"

// manifold describes how two bodies overlap. Normal points from A towards B.
type manifold struct {
	normal Vec2
	depth  float64
}

// overlap tests two bodies for contact. Polygon-polygon pairs never touch:
// polygons are always static and static pairs are skipped before this point.
func overlap(a, b *Body) (manifold, bool) {
	switch {
	case a.Shape.Kind == ShapeCircle && b.Shape.Kind == ShapeCircle:
		return circleCircle(a.Position, a.Shape.Radius, b.Position, b.Shape.Radius)
	case a.Shape.Kind == ShapeCircle && b.Shape.Kind == ShapePolygon:
		m, ok := circlePolygon(a.Position, a.Shape.Radius, b.Position, b.Shape.WorldVertices(b.Position))
		m.normal = m.normal.Invert()
		return m, ok
	case a.Shape.Kind == ShapePolygon && b.Shape.Kind == ShapeCircle:
		return circlePolygon(b.Position, b.Shape.Radius, a.Position, a.Shape.WorldVertices(a.Position))
	}
	return manifold{}, false
}

func circleCircle(pa Vec2, ra float64, pb Vec2, rb float64) (manifold, bool) {
	delta := pb.Minus(pa)
	distSq := delta.MagnitudeSquared()
	sum := ra + rb
	if distSq >= sum*sum {
		return manifold{}, false
	}
	dist := math.Sqrt(distSq)
	if dist == 0 {
		return manifold{normal: Vec2{X: 1}, depth: sum}, true
	}
	return manifold{normal: delta.Times(1 / dist), depth: sum - dist}, true
}

// circlePolygon returns a manifold whose normal points from the polygon towards the circle.
func circlePolygon(c Vec2, r float64, centre Vec2, verts []Vec2) (manifold, bool) {
	n := len(verts)
	if n < 2 {
		return manifold{}, false
	}

	inside := pointInConvexPolygon(c, verts)
	best := math.Inf(1)
	var bestPoint Vec2
	var bestEdge int
	for i := 0; i < n; i++ {
		p := closestPointOnSegment(c, verts[i], verts[(i+1)%n])
		if d := c.Minus(p).MagnitudeSquared(); d < best {
			best = d
			bestPoint = p
			bestEdge = i
		}
	}
	dist := math.Sqrt(best)

	if inside {
		normal := outwardNormal(verts[bestEdge], verts[(bestEdge+1)%n], centre)
		return manifold{normal: normal, depth: r + dist}, true
	}
	if dist >= r {
		return manifold{}, false
	}
	if dist == 0 {
		normal := outwardNormal(verts[bestEdge], verts[(bestEdge+1)%n], centre)
		return manifold{normal: normal, depth: r}, true
	}
	return manifold{normal: c.Minus(bestPoint).Times(1 / dist), depth: r - dist}, true
}

// resolve separates two touching solid bodies and exchanges momentum along the
// contact normal. The tangential component is kept, scaled by the pair friction.
func resolve(a, b *Body, m manifold) {
	totalInv := a.invMass + b.invMass
	if totalInv == 0 {
		return
	}

	correction := m.normal.Times(m.depth / totalInv)
	a.Position = a.Position.Minus(correction.Times(a.invMass))
	b.Position = b.Position.Plus(correction.Times(b.invMass))

	relative := b.Velocity.Minus(a.Velocity)
	closing := relative.Dot(m.normal)
	if closing >= 0 {
		return
	}

	restitution := math.Max(a.Restitution, b.Restitution)
	j := -(1 + restitution) * closing / totalInv
	impulse := m.normal.Times(j)
	a.Velocity = a.Velocity.Minus(impulse.Times(a.invMass))
	b.Velocity = b.Velocity.Plus(impulse.Times(b.invMass))

	friction := math.Min(a.Friction, b.Friction)
	if friction <= 0 {
		return
	}
	tangent := m.normal.RightNormal()
	rt := b.Velocity.Minus(a.Velocity).Dot(tangent)
	jt := clamp(-rt/totalInv, -friction*j, friction*j)
	ti := tangent.Times(jt)
	a.Velocity = a.Velocity.Minus(ti.Times(a.invMass))
	b.Velocity = b.Velocity.Plus(ti.Times(b.invMass))
}
