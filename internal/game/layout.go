package game

import "fmt"

// LayoutMode selects how PlaceBalls racks the table.
type LayoutMode string

const (
	LayoutStarting  LayoutMode = "starting"
	LayoutRandomRed LayoutMode = "randomRed"
	LayoutRandomAll LayoutMode = "randomAll"
)

// ParseLayoutMode validates a layout mode name.
func ParseLayoutMode(s string) (LayoutMode, error) {
	switch m := LayoutMode(s); m {
	case LayoutStarting, LayoutRandomRed, LayoutRandomAll:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidLayoutMode, s)
}

// PlaceBalls clears every ball and racks the table for mode. Random modes
// guarantee that no two balls overlap and that no ball spawns within
// PocketClearance of a pocket. If the table runs out of room the balls placed
// so far are kept and ErrLayoutUnsatisfiable is returned.
func PlaceBalls(s *Session, mode LayoutMode) error {
	if _, err := ParseLayoutMode(string(mode)); err != nil {
		return err
	}
	s.clearBalls()

	switch mode {
	case LayoutStarting:
		placeTriangle(s)
		placeColoredOnSpots(s)
	case LayoutRandomRed:
		placeColoredOnSpots(s)
		if err := placeRandomly(s, KindRed, RedCount); err != nil {
			return err
		}
	case LayoutRandomAll:
		if err := placeRandomly(s, KindRed, RedCount); err != nil {
			return err
		}
		if err := placeRandomly(s, KindColored, CatalogSize()); err != nil {
			return err
		}
	}
	return nil
}

// placeTriangle racks the reds in five rows, the apex nearest the baulk end.
func placeTriangle(s *Session) {
	for i := 1; i <= 5; i++ {
		for j := 1; j <= i; j++ {
			fi, fj := float64(i), float64(j)
			pos := Vec2{
				X: CanvasWidth/1.5 + fi*BallDiameter*0.9,
				Y: CanvasHeight/2 + fj*BallDiameter - BallRadius*fi - BallRadius,
			}
			s.createBall(pos, redColor, KindRed)
		}
	}
}

func placeColoredOnSpots(s *Session) {
	for i := range catalog {
		s.createBall(catalog[i].Position, catalogColor(i), KindColored)
	}
}

// placeRandomly adds count balls of kind at free random spots. Colored ball i
// always takes catalog entry i.
func placeRandomly(s *Session, kind BallKind, count int) error {
	for i := 0; i < count; i++ {
		pos, ok := findFreeSpot(s)
		if !ok {
			return fmt.Errorf("placing %s ball %d of %d: %w", kind, i+1, count, ErrLayoutUnsatisfiable)
		}
		color := redColor
		if kind == KindColored {
			color = catalogColor(i)
		}
		s.createBall(pos, color, kind)
	}
	return nil
}

// findFreeSpot draws uniform points from the spawn rectangle until one is
// clear. After PlacementAttempts misses it scans a grid of the same rectangle.
func findFreeSpot(s *Session) (Vec2, bool) {
	r := s.Table.SpawnRect()
	attempts := s.tuning.PlacementAttempts
	if attempts <= 0 {
		attempts = 1
	}

	for n := 0; n < attempts; n++ {
		p := Vec2{
			X: r.MinX + s.rng.Float64()*r.Width(),
			Y: r.MinY + s.rng.Float64()*r.Height(),
		}
		if spawnable(s, p) {
			return p, true
		}
	}

	step := BallDiameter + 1
	for y := r.MinY; y <= r.MaxY; y += step {
		for x := r.MinX; x <= r.MaxX; x += step {
			p := Vec2{X: x, Y: y}
			if spawnable(s, p) {
				return p, true
			}
		}
	}
	return Vec2{}, false
}

func spawnable(s *Session, p Vec2) bool {
	return s.clearOfBalls(p) && !s.Table.NearPocket(p)
}
