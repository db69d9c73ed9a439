package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playmatatu/snooker/internal/game"
)

func TestViewportRoundTrip(t *testing.T) {
	v := newViewport(80, 24)
	assert.Equal(t, 22, v.rows)

	for _, cell := range [][2]int{{0, 0}, {10, 9}, {79, 21}} {
		x, y := v.toCell(v.toCanvas(cell[0], cell[1]))
		assert.Equal(t, cell, [2]int{x, y})
	}
}

func TestPressOnCueCellGrabsCueBall(t *testing.T) {
	v := newViewport(80, 24)
	cue := game.Vec2{X: 176, Y: 328}
	snap := game.Snapshot{Balls: []game.BallView{
		{ID: 1, Kind: game.KindRed.String(), Position: game.Vec2{X: 600, Y: 400}},
		{ID: 2, Kind: game.KindCue.String(), Position: cue},
	}}

	x, y := v.toCell(cue)
	require.Equal(t, 10, x)
	require.Equal(t, 9, y)
	require.Greater(t, v.toCanvas(x, y).Distance(cue), game.BallRadius, "cell centre alone misses the ball")

	assert.Equal(t, cue, v.pressAt(x, y, snap))
	assert.Equal(t, v.toCanvas(x+1, y), v.pressAt(x+1, y, snap))

	// Only the cue ball attracts presses.
	rx, ry := v.toCell(game.Vec2{X: 600, Y: 400})
	assert.Equal(t, v.toCanvas(rx, ry), v.pressAt(rx, ry, snap))
}

func TestPressWithoutCueBallUsesCellCentre(t *testing.T) {
	v := newViewport(80, 24)
	assert.Equal(t, v.toCanvas(3, 4), v.pressAt(3, 4, game.Snapshot{}))
}
