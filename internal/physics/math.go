package physics

import "math"

// closestPointOnSegment returns the point on segment a-b nearest to p.
func closestPointOnSegment(p, a, b Vec2) Vec2 {
	ab := b.Minus(a)
	lenSq := ab.MagnitudeSquared()
	if lenSq == 0 {
		return a
	}
	t := p.Minus(a).Dot(ab) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return a.Plus(ab.Times(t))
}

// pointInConvexPolygon reports whether p lies strictly inside the polygon.
// Vertex winding may be either direction.
func pointInConvexPolygon(p Vec2, verts []Vec2) bool {
	n := len(verts)
	if n < 3 {
		return false
	}
	sign := 0
	for i := 0; i < n; i++ {
		a, b := verts[i], verts[(i+1)%n]
		c := b.Minus(a).Cross(p.Minus(a))
		switch {
		case c > 0:
			if sign < 0 {
				return false
			}
			sign = 1
		case c < 0:
			if sign > 0 {
				return false
			}
			sign = -1
		default:
			return false
		}
	}
	return true
}

// outwardNormal returns the unit normal of edge a-b pointing away from the polygon centre.
func outwardNormal(a, b, centre Vec2) Vec2 {
	n := b.Minus(a).LeftNormal().Normalize()
	if n.Dot(a.Minus(centre)) < 0 {
		return n.Invert()
	}
	return n
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
