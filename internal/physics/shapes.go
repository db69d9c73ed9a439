package physics

import "math"

// ShapeKind distinguishes the collision geometries the engine understands.
type ShapeKind uint8

const (
	ShapeCircle ShapeKind = iota + 1
	ShapePolygon
)

// Shape is a collision geometry in body-local coordinates. Polygons are convex
// and centred on their centroid, so the body position is the centre of mass.
type Shape struct {
	Kind     ShapeKind `json:"kind"`
	Radius   float64   `json:"radius,omitempty"`
	Vertices []Vec2    `json:"vertices,omitempty"`
}

// Circle returns a circle shape.
func Circle(radius float64) Shape {
	return Shape{Kind: ShapeCircle, Radius: radius}
}

// Rectangle returns an axis-aligned box centred on the body.
func Rectangle(width, height float64) Shape {
	hw, hh := width/2, height/2
	return Shape{Kind: ShapePolygon, Vertices: []Vec2{
		{-hw, -hh}, {hw, -hh}, {hw, hh}, {-hw, hh},
	}}
}

// Trapezoid builds a trapezoid whose bottom edge has the given width. A positive
// slope narrows the top edge, a negative slope widens it. The shape is rotated
// by angle (radians) about its centroid.
func Trapezoid(width, height, slope, angle float64) Shape {
	slope *= 0.5
	roof := (1 - slope*2) * width
	x1 := width * slope
	x2 := x1 + roof
	x3 := x2 + x1

	var verts []Vec2
	if slope < 0.5 {
		verts = []Vec2{{0, 0}, {x1, -height}, {x2, -height}, {x3, 0}}
	} else {
		verts = []Vec2{{0, 0}, {x2, -height}, {x3, 0}}
	}
	return Polygon(verts).Rotated(angle)
}

// Polygon returns a convex polygon re-centred on its centroid.
func Polygon(verts []Vec2) Shape {
	c := centroid(verts)
	local := make([]Vec2, len(verts))
	for i, v := range verts {
		local[i] = v.Minus(c)
	}
	return Shape{Kind: ShapePolygon, Vertices: local}
}

// Rotated returns a copy of the shape rotated about the local origin.
func (s Shape) Rotated(angle float64) Shape {
	if s.Kind != ShapePolygon || angle == 0 {
		return s
	}
	out := Shape{Kind: s.Kind, Radius: s.Radius, Vertices: make([]Vec2, len(s.Vertices))}
	for i, v := range s.Vertices {
		out.Vertices[i] = v.Rotate(angle)
	}
	return out
}

// Area returns the shape area in square pixels.
func (s Shape) Area() float64 {
	if s.Kind == ShapeCircle {
		return math.Pi * s.Radius * s.Radius
	}
	var a float64
	n := len(s.Vertices)
	for i := 0; i < n; i++ {
		a += s.Vertices[i].Cross(s.Vertices[(i+1)%n])
	}
	return math.Abs(a) / 2
}

// WorldVertices returns polygon vertices translated to the given position.
func (s Shape) WorldVertices(pos Vec2) []Vec2 {
	out := make([]Vec2, len(s.Vertices))
	for i, v := range s.Vertices {
		out[i] = v.Plus(pos)
	}
	return out
}

// boundingRadius is the radius of the smallest origin-centred circle covering the shape.
func (s Shape) boundingRadius() float64 {
	if s.Kind == ShapeCircle {
		return s.Radius
	}
	var r float64
	for _, v := range s.Vertices {
		if m := v.Magnitude(); m > r {
			r = m
		}
	}
	return r
}

func centroid(verts []Vec2) Vec2 {
	var area, cx, cy float64
	n := len(verts)
	for i := 0; i < n; i++ {
		a, b := verts[i], verts[(i+1)%n]
		cross := a.Cross(b)
		area += cross
		cx += (a.X + b.X) * cross
		cy += (a.Y + b.Y) * cross
	}
	if area == 0 {
		var sum Vec2
		for _, v := range verts {
			sum = sum.Plus(v)
		}
		return sum.Times(1 / float64(n))
	}
	area *= 0.5
	return Vec2{X: cx / (6 * area), Y: cy / (6 * area)}
}
