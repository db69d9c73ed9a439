package main

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/playmatatu/snooker/internal/game"
)

const statusRows = 2

var (
	clothStyle  = tcell.StyleDefault.Background(tcell.NewRGBColor(20, 110, 50))
	railStyle   = tcell.StyleDefault.Background(tcell.NewRGBColor(90, 50, 20))
	pocketStyle = tcell.StyleDefault.Background(tcell.ColorBlack)
	textStyle   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
)

// viewport maps canvas pixels onto terminal cells. The last rows are kept
// for the status line.
type viewport struct {
	cols, rows int
	sx, sy     float64
}

func newViewport(width, height int) viewport {
	rows := height - statusRows
	if rows < 1 {
		rows = 1
	}
	if width < 1 {
		width = 1
	}
	return viewport{
		cols: width,
		rows: rows,
		sx:   float64(width) / game.CanvasWidth,
		sy:   float64(rows) / game.CanvasHeight,
	}
}

// toCanvas returns the canvas point at the centre of cell (x, y).
func (v viewport) toCanvas(x, y int) game.Vec2 {
	return game.Vec2{X: (float64(x) + 0.5) / v.sx, Y: (float64(y) + 0.5) / v.sy}
}

func (v viewport) toCell(p game.Vec2) (int, int) {
	return int(p.X * v.sx), int(p.Y * v.sy)
}

// pressAt is the canvas point for a button press on cell (x, y). A cell is
// wider than the cue ball's grab radius, so a press on the cue ball's cell
// lands on the ball itself.
func (v viewport) pressAt(x, y int, snap game.Snapshot) game.Vec2 {
	for _, b := range snap.Balls {
		if b.Kind != game.KindCue.String() {
			continue
		}
		if cx, cy := v.toCell(b.Position); cx == x && cy == y {
			return b.Position
		}
	}
	return v.toCanvas(x, y)
}

// fillCircle paints every cell whose centre lies inside the circle, or the
// centre cell when the circle is smaller than a cell.
func (a *app) fillCircle(center game.Vec2, radius float64, ch rune, style tcell.Style) {
	x0, y0 := a.view.toCell(game.Vec2{X: center.X - radius, Y: center.Y - radius})
	x1, y1 := a.view.toCell(game.Vec2{X: center.X + radius, Y: center.Y + radius})
	painted := false
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if a.view.toCanvas(x, y).Distance(center) <= radius {
				a.screen.SetContent(x, y, ch, nil, style)
				painted = true
			}
		}
	}
	if !painted {
		cx, cy := a.view.toCell(center)
		a.screen.SetContent(cx, cy, ch, nil, style)
	}
}

func (a *app) drawLine(from, to game.Vec2, ch rune, style tcell.Style) {
	steps := int(math.Max(1, from.Distance(to)/2))
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		p := game.Vec2{X: from.X + (to.X-from.X)*t, Y: from.Y + (to.Y-from.Y)*t}
		x, y := a.view.toCell(p)
		a.screen.SetContent(x, y, ch, nil, style)
	}
}

func (a *app) drawTable(t *game.Table) {
	if t == nil {
		return
	}
	outer := t.Bounds
	outer.MinX -= game.WallThickness
	outer.MinY -= game.WallThickness
	outer.MaxX += game.WallThickness
	outer.MaxY += game.WallThickness

	for y := 0; y < a.view.rows; y++ {
		for x := 0; x < a.view.cols; x++ {
			p := a.view.toCanvas(x, y)
			switch {
			case t.Bounds.Contains(p):
				a.screen.SetContent(x, y, ' ', nil, clothStyle)
			case outer.Contains(p):
				a.screen.SetContent(x, y, ' ', nil, railStyle)
			}
		}
	}
	for _, pocket := range t.Pockets {
		a.fillCircle(pocket.Position, pocket.VisualRadius, ' ', pocketStyle)
	}
}

func ballStyle(rgb game.RGB) tcell.Style {
	c := tcell.NewRGBColor(int32(rgb[0]), int32(rgb[1]), int32(rgb[2]))
	return clothStyle.Foreground(c)
}

func statusText(snap game.Snapshot) string {
	switch snap.Phase {
	case game.PhasePlacing:
		return "Please place cue ball."
	case game.PhaseGaming:
		return "Drag the cueball backwards and release!"
	}
	return ""
}

func (a *app) drawText(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		a.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func (a *app) draw(snap game.Snapshot, message string) {
	a.screen.Clear()

	a.drawTable(snap.Table)

	teleStyle := clothStyle.Foreground(tcell.ColorAqua)
	for _, z := range snap.Teleporters {
		a.fillCircle(z.Position, z.MarkerRadius, '░', teleStyle)
	}

	for _, b := range snap.Balls {
		a.fillCircle(b.Position, game.BallRadius, '█', ballStyle(b.RGB))
	}

	if snap.Slingshot != nil {
		a.drawLine(snap.Slingshot.Anchor, snap.Slingshot.End, '•', clothStyle.Foreground(tcell.ColorWhite))
	}

	if snap.Placement != nil {
		ghost := clothStyle.Foreground(tcell.ColorRed)
		if snap.Placement.Valid {
			ghost = clothStyle.Foreground(tcell.ColorWhite)
		}
		a.fillCircle(snap.Placement.Candidate, game.BallRadius, '○', ghost)
	}

	row := a.view.rows
	a.drawText(0, row, fmt.Sprintf("Score: %d  Best: %d  Reds: %d  Layout: %s", snap.Score, snap.BestScore, snap.RedsLeft, snap.Layout), textStyle)
	a.drawText(0, row+1, statusText(snap)+"  [1/2/3] layout  [q] quit", textStyle)
	if message != "" {
		a.drawText(a.view.cols-len([]rune(message))-1, row, message, textStyle.Foreground(tcell.ColorYellow))
	}

	a.screen.Show()
}
