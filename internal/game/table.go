package game

import (
	"fmt"
	"math"

	"github.com/playmatatu/snooker/internal/physics"
)

// Rect is an axis-aligned rectangle.
type Rect struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// Inset shrinks the rectangle by d on every side. A negative d grows it.
func (r Rect) Inset(d float64) Rect {
	return Rect{MinX: r.MinX + d, MinY: r.MinY + d, MaxX: r.MaxX - d, MaxY: r.MaxY - d}
}

// Contains reports whether p lies strictly inside the rectangle.
func (r Rect) Contains(p Vec2) bool {
	return p.X > r.MinX && p.X < r.MaxX && p.Y > r.MinY && p.Y < r.MaxY
}

func (r Rect) Width() float64  { return r.MaxX - r.MinX }
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Pocket is a pocket sensor plus its drawn size.
type Pocket struct {
	Index        int            `json:"index"`
	Position     Vec2           `json:"position"`
	SensorRadius float64        `json:"sensor_radius"`
	VisualRadius float64        `json:"visual_radius"`
	Body         physics.BodyID `json:"-"`
}

// StaticPart is a simulated rail piece: wall, gold edge or cushion.
type StaticPart struct {
	Name     string         `json:"name"`
	Label    string         `json:"label"`
	Position Vec2           `json:"position"`
	Vertices []Vec2         `json:"vertices"`
	Body     physics.BodyID `json:"-"`

	shape physics.Shape
}

// Decoration is drawn but never simulated.
type Decoration struct {
	Name     string  `json:"name"`
	Center   Vec2    `json:"center"`
	Radius   float64 `json:"radius,omitempty"`
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
	Circular bool    `json:"circular"`
}

// Table is the static table geometry. It is built once per session.
type Table struct {
	Center      Vec2         `json:"center"`
	Bounds      Rect         `json:"bounds"`
	Pockets     []Pocket     `json:"pockets"`
	Parts       []StaticPart `json:"parts"`
	Decorations []Decoration `json:"decorations"`
}

// NewTable builds the 1000x500 table centred on the canvas.
func NewTable() *Table {
	cx, cy := TableCenterX, TableCenterY
	hw, hh := TableWidth/2, TableHeight/2
	t := &Table{
		Center: Vec2{X: cx, Y: cy},
		Bounds: Rect{MinX: cx - hw, MinY: cy - hh, MaxX: cx + hw, MaxY: cy + hh},
	}

	// Walls sit just outside the cloth.
	ww := WallThickness
	t.addPart("wall_top", LabelWall, cx, cy-hh-ww/2, physics.Rectangle(TableWidth-60, ww))
	t.addPart("wall_bottom", LabelWall, cx, cy+hh+ww/2, physics.Rectangle(TableWidth-60, ww))
	t.addPart("wall_left", LabelWall, cx-hw-ww/2, cy, physics.Rectangle(ww, TableHeight-60))
	t.addPart("wall_right", LabelWall, cx+hw+ww/2, cy, physics.Rectangle(ww, TableHeight-60))

	// Gold edge pieces at both ends of every wall.
	horizontal := physics.Rectangle(EdgeLength, ww)
	vertical := physics.Rectangle(ww, EdgeLength)
	t.addPart("edge_top_1", LabelWall, cx-hw+30, cy-hh-ww/2, horizontal)
	t.addPart("edge_top_2", LabelWall, cx+hw-30, cy-hh-ww/2, horizontal)
	t.addPart("edge_bottom_1", LabelWall, cx-hw+30, cy+hh+ww/2, horizontal)
	t.addPart("edge_bottom_2", LabelWall, cx+hw-30, cy+hh+ww/2, horizontal)
	t.addPart("edge_left_1", LabelWall, cx-hw-ww/2, cy-hh+30, vertical)
	t.addPart("edge_left_2", LabelWall, cx-hw-ww/2, cy+hh-30, vertical)
	t.addPart("edge_right_1", LabelWall, cx+hw+ww/2, cy-hh+30, vertical)
	t.addPart("edge_right_2", LabelWall, cx+hw+ww/2, cy+hh-30, vertical)

	// Cushions: the narrow face of each trapezoid points into the table.
	cd := CushionDepth
	length := hw - 90
	const offset = 5.0
	t.addPart("cushion_left", LabelCushion, cx-hw+cd/2, cy,
		physics.Trapezoid(length+38, cd, CushionSlope, math.Pi/2))
	t.addPart("cushion_right", LabelCushion, cx+hw-cd/2, cy,
		physics.Trapezoid(length+38, cd, CushionSlope, -math.Pi/2))
	t.addPart("cushion_top_1", LabelCushion, cx-hw/2+offset, cy-hh+cd/2,
		physics.Trapezoid(length+5, cd, -CushionSlope, 0))
	t.addPart("cushion_top_2", LabelCushion, cx+hw/2-offset, cy-hh+cd/2,
		physics.Trapezoid(length+5, cd, -CushionSlope, 0))
	t.addPart("cushion_bottom_1", LabelCushion, cx-hw/2+offset, cy+hh-cd/2,
		physics.Trapezoid(length+5, cd, -CushionSlope, math.Pi))
	t.addPart("cushion_bottom_2", LabelCushion, cx+hw/2-offset, cy+hh-cd/2,
		physics.Trapezoid(length+5, cd, -CushionSlope, math.Pi))

	pocketPositions := []Vec2{
		{X: cx - hw + 20, Y: cy - hh + 20},
		{X: cx, Y: cy - hh + 10},
		{X: cx + hw - 20, Y: cy - hh + 20},
		{X: cx - hw + 20, Y: cy + hh - 20},
		{X: cx, Y: cy + hh - 10},
		{X: cx + hw - 20, Y: cy + hh - 20},
	}
	for i, p := range pocketPositions {
		t.Pockets = append(t.Pockets, Pocket{
			Index:        i,
			Position:     p,
			SensorRadius: PocketSensorRadius,
			VisualRadius: PocketVisualRadius,
		})
	}

	for i, c := range []Vec2{
		{X: cx - hw + 9, Y: cy - hh + 9},
		{X: cx + hw - 9, Y: cy - hh + 9},
		{X: cx - hw + 9, Y: cy + hh - 9},
		{X: cx + hw - 9, Y: cy + hh - 9},
	} {
		t.Decorations = append(t.Decorations, Decoration{
			Name: fmt.Sprintf("corner_%d", i+1), Center: c, Radius: CornerRadius, Circular: true,
		})
	}

	markingX := TableWidth / 2.5
	t.Decorations = append(t.Decorations,
		Decoration{Name: "baulk_d_outer", Center: Vec2{X: markingX, Y: cy}, Radius: 100, Circular: true},
		Decoration{Name: "baulk_d_inner", Center: Vec2{X: markingX, Y: cy}, Radius: 95, Circular: true},
		Decoration{Name: "baulk_line", Center: Vec2{X: markingX, Y: cy}, Width: 5, Height: TableHeight},
		Decoration{Name: "baulk_mask", Center: Vec2{X: markingX + 72.6, Y: cy}, Width: CanvasWidth / 10, Height: CanvasHeight / 2},
	)

	return t
}

func (t *Table) addPart(name, label string, x, y float64, shape physics.Shape) {
	pos := Vec2{X: x, Y: y}
	t.Parts = append(t.Parts, StaticPart{
		Name:     name,
		Label:    label,
		Position: pos,
		Vertices: shape.WorldVertices(pos),
		shape:    shape,
	})
}

// Install adds the rails and pocket sensors to the world.
func (t *Table) Install(w World) {
	for i := range t.Parts {
		p := &t.Parts[i]
		p.Body = w.AddBody(physics.BodySpec{
			Label:       p.Label,
			Owner:       uint64(i),
			Shape:       p.shape,
			Position:    p.Position,
			Static:      true,
			Restitution: 1,
		})
	}
	for i := range t.Pockets {
		p := &t.Pockets[i]
		p.Body = w.AddBody(physics.BodySpec{
			Label:    LabelPocket,
			Owner:    uint64(p.Index),
			Shape:    physics.Circle(p.SensorRadius),
			Position: p.Position,
			Static:   true,
			Sensor:   true,
		})
	}
}

// SpawnRect is the area random layouts draw from.
func (t *Table) SpawnRect() Rect {
	return t.Bounds.Inset(SpawnInset)
}

// PlacementRect is where the player may put the cue ball.
func (t *Table) PlacementRect() Rect {
	return t.Bounds.Inset(PlacementInset)
}

// NearPocket reports whether p is within the spawn clearance of any pocket.
func (t *Table) NearPocket(p Vec2) bool {
	for _, pocket := range t.Pockets {
		if p.Distance(pocket.Position) <= PocketClearance {
			return true
		}
	}
	return false
}
