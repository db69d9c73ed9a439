package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playmatatu/snooker/internal/physics"
)

func TestClassifyPairIgnoresOrder(t *testing.T) {
	pocket := physics.Contact{Body: 1, Label: LabelPocket}
	red := physics.Contact{Body: 2, Label: LabelRed, Owner: 9}

	for _, p := range []physics.CollisionPair{{A: pocket, B: red}, {A: red, B: pocket}} {
		c := ClassifyPair(p)
		assert.Equal(t, PairPocketRed, c.Kind)
		assert.Equal(t, red, c.Ball)
		assert.Equal(t, pocket, c.Fixture)
	}

	tests := []struct {
		a, b string
		want PairKind
	}{
		{LabelPocket, LabelCue, PairPocketCue},
		{LabelColored, LabelPocket, PairPocketColored},
		{LabelTeleporter, LabelRed, PairTeleporterBall},
		{LabelCue, LabelTeleporter, PairTeleporterBall},
		{LabelRed, LabelColored, PairIgnored},
		{LabelCushion, LabelCue, PairIgnored},
		{LabelWall, LabelPocket, PairIgnored},
	}
	for _, tt := range tests {
		got := ClassifyPair(physics.CollisionPair{A: physics.Contact{Label: tt.a}, B: physics.Contact{Label: tt.b}})
		assert.Equal(t, tt.want, got.Kind, "%s + %s", tt.a, tt.b)
	}
}

func TestPocketedRedIsRemovedForGood(t *testing.T) {
	s, w := newTestSession(t, LayoutStarting)
	red := s.Reds[4]
	s.ColoredStreak = 1

	w.touch(red.Body, s.Table.Pockets[2].Body)
	s.Step(idle(Vec2{}), FrameMillis)

	assert.Len(t, s.Reds, 14)
	assert.NotContains(t, s.Reds, red)
	assert.False(t, w.hasBody(red.Body))
	_, ok := s.Lookup(red.ID)
	assert.False(t, ok)
	assert.Equal(t, 1, s.Score)
	assert.Equal(t, 0, s.ColoredStreak)

	events := s.DrainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventPocket, events[0].Type)
	assert.Equal(t, "red", events[0].Kind)
	assert.Equal(t, 1, events[0].Points)
	assert.Equal(t, 1, events[0].Score)
}

func TestRedsOnlyEverDecrease(t *testing.T) {
	s, w := newTestSession(t, LayoutStarting)
	prev := len(s.Reds)
	for len(s.Reds) > 0 {
		w.touch(s.Table.Pockets[0].Body, s.Reds[0].Body)
		s.Step(idle(Vec2{}), FrameMillis)
		require.Equal(t, prev-1, len(s.Reds))
		prev = len(s.Reds)
	}
	assert.Equal(t, RedCount, s.Score)
	assert.Len(t, s.Colored, 6)
}

func TestPocketedColoredRespawnsWithSameIdentity(t *testing.T) {
	s, w := newTestSession(t, LayoutStarting)
	blue := s.Colored[3]
	require.Equal(t, "Blue", blue.ColorName)
	w.SetPosition(blue.Body, Vec2{X: 1180, Y: 170})
	s.Step(idle(Vec2{}), FrameMillis)

	w.touch(s.Table.Pockets[2].Body, blue.Body)
	s.Step(idle(Vec2{}), FrameMillis)

	require.Len(t, s.Colored, 6)
	respawned := s.Colored[3]
	assert.NotEqual(t, blue.ID, respawned.ID)
	assert.Equal(t, "Blue", respawned.ColorName)
	assert.Equal(t, RGB{30, 60, 90}, respawned.Color)
	assert.Equal(t, 3, respawned.CatalogIndex)
	assert.Equal(t, Vec2{X: 700, Y: 400}, respawned.Position)
	assert.False(t, w.hasBody(blue.Body))
	assert.True(t, w.hasBody(respawned.Body))
	assert.Equal(t, 5, s.Score)
	assert.Equal(t, 1, s.ColoredStreak)

	for i, b := range s.Colored {
		assert.Equal(t, catalog[i].Name, b.ColorName)
	}
}

func TestPocketedColoredMatchesByIdentityNotSlot(t *testing.T) {
	s, w := newTestSession(t, LayoutStarting)

	// Reverse the slots so slot order no longer follows the catalog.
	for i, j := 0, len(s.Colored)-1; i < j; i, j = i+1, j-1 {
		s.Colored[i], s.Colored[j] = s.Colored[j], s.Colored[i]
	}
	before := append([]*Ball(nil), s.Colored...)
	blue := s.Colored[2]
	require.Equal(t, "Blue", blue.ColorName)
	require.Equal(t, 3, blue.CatalogIndex)

	w.touch(s.Table.Pockets[4].Body, blue.Body)
	s.Step(idle(Vec2{}), FrameMillis)

	require.Len(t, s.Colored, 6)
	respawned := s.Colored[2]
	assert.NotEqual(t, blue.ID, respawned.ID)
	assert.Equal(t, "Blue", respawned.ColorName)
	assert.Equal(t, 3, respawned.CatalogIndex)
	assert.Equal(t, catalog[3].Position, respawned.Position)
	assert.Equal(t, catalog[3].Points, s.Score)
	for i, b := range s.Colored {
		if i == 2 {
			continue
		}
		assert.Same(t, before[i], b, "slot %d", i)
	}

	events := s.DrainEvents()
	require.NotEmpty(t, events)
	assert.Equal(t, EventPocket, events[0].Type)
	assert.Equal(t, blue.ID, events[0].BallID)
	assert.Equal(t, "Blue", events[0].Color)
}

func TestTwoColoredInARowIsAFoul(t *testing.T) {
	s, w := newTestSession(t, LayoutStarting)

	w.touch(s.Table.Pockets[0].Body, s.Colored[0].Body)
	s.Step(idle(Vec2{}), FrameMillis)
	assert.Equal(t, 1, s.ColoredStreak)

	w.touch(s.Table.Pockets[1].Body, s.Colored[5].Body)
	s.Step(idle(Vec2{}), FrameMillis)

	assert.Equal(t, 0, s.ColoredStreak)
	assert.Equal(t, 2+7, s.Score, "fouls carry no penalty")

	var fouls int
	for _, e := range s.DrainEvents() {
		if e.Type == EventFoul {
			fouls++
			assert.Equal(t, FoulStreak, e.Streak)
		}
	}
	assert.Equal(t, 1, fouls)
}

func TestRedBreaksColoredStreak(t *testing.T) {
	s, w := newTestSession(t, LayoutStarting)

	w.touch(s.Table.Pockets[0].Body, s.Colored[0].Body)
	s.Step(idle(Vec2{}), FrameMillis)
	w.touch(s.Table.Pockets[0].Body, s.Reds[0].Body)
	s.Step(idle(Vec2{}), FrameMillis)
	w.touch(s.Table.Pockets[0].Body, s.Colored[1].Body)
	s.Step(idle(Vec2{}), FrameMillis)

	assert.Equal(t, 1, s.ColoredStreak)
	assert.Equal(t, 2+1+3, s.Score)
	for _, e := range s.DrainEvents() {
		assert.NotEqual(t, EventFoul, e.Type)
	}
}

func TestBallInTwoPocketsScoresOnce(t *testing.T) {
	s, w := newTestSession(t, LayoutStarting)
	red := s.Reds[0]

	w.touch(s.Table.Pockets[0].Body, red.Body)
	w.touch(red.Body, s.Table.Pockets[1].Body)
	w.touch(s.Teleporters.Zones[0].Body, red.Body)
	s.Step(idle(Vec2{}), FrameMillis)

	assert.Equal(t, 1, s.Score)
	assert.Len(t, s.Reds, 14)
}

func TestPocketedCueReturnsToPlacing(t *testing.T) {
	s, w := newTestSession(t, LayoutStarting)
	cue := placeCue(t, s, Vec2{X: 300, Y: 300})
	s.Score = 4

	w.touch(s.Table.Pockets[3].Body, cue.Body)
	s.Step(idle(Vec2{X: 500, Y: 500}), FrameMillis)

	assert.Nil(t, s.Cue)
	assert.Equal(t, PhasePlacing, s.Phase)
	assert.False(t, w.hasBody(cue.Body))
	assert.Equal(t, 4, s.Score)
	assert.Len(t, s.Balls(), 21)
}

func TestTeleportRoundTripAndCooldown(t *testing.T) {
	s, w := newTestSession(t, LayoutStarting)
	red := s.Reds[0]
	tp := s.Teleporters

	target := tp.Zones[1].Position
	w.touch(tp.Zones[0].Body, red.Body)
	s.Step(idle(Vec2{}), FrameMillis)

	pos, _ := w.Position(red.Body)
	assert.Equal(t, target, pos)
	assert.Equal(t, target, red.Position)
	// Set to 10 on arrival, then ticked once by the same frame.
	assert.Equal(t, tp.Cooldown-1, red.TeleportCooldown)

	// Arriving in the other zone does not bounce the ball straight back.
	w.touch(tp.Zones[1].Body, red.Body)
	s.Step(idle(Vec2{}), FrameMillis)
	pos, _ = w.Position(red.Body)
	assert.Equal(t, target, pos)

	for red.TeleportCooldown > 0 {
		s.Step(idle(Vec2{}), FrameMillis)
	}

	back := tp.Zones[0].Position
	w.touch(red.Body, tp.Zones[1].Body)
	s.Step(idle(Vec2{}), FrameMillis)
	pos, _ = w.Position(red.Body)
	assert.Equal(t, back, pos)

	var teleports int
	for _, e := range s.DrainEvents() {
		if e.Type == EventTeleport {
			teleports++
		}
	}
	assert.Equal(t, 2, teleports)
}

func TestTeleporterRelocateHonoursCooldown(t *testing.T) {
	w := newFakeWorld()
	tp := NewTeleporterPair(w, Vec2{X: 700, Y: 400}, 100, 10)
	b := &Ball{Body: w.AddBody(physics.BodySpec{Label: LabelRed}), TeleportCooldown: 3}

	assert.False(t, tp.Relocate(w, b, 0))
	assert.Equal(t, 3, b.TeleportCooldown)

	b.TeleportCooldown = 0
	assert.True(t, tp.Relocate(w, b, 1))
	pos, _ := w.Position(b.Body)
	assert.Equal(t, tp.Zones[0].Position, pos)
	assert.Equal(t, 10, b.TeleportCooldown)
}

func TestTeleporterZonesOrbitOpposite(t *testing.T) {
	w := newFakeWorld()
	center := Vec2{X: 700, Y: 400}
	tp := NewTeleporterPair(w, center, 100, 10)

	for _, frame := range []int{0, 1, 45, 90, 270, 359} {
		tp.Advance(w, frame)
		a, b := tp.Zones[0].Position, tp.Zones[1].Position
		assert.InDelta(t, 100, a.Distance(center), 1e-9)
		assert.InDelta(t, 200, a.Distance(b), 1e-9, "frame %d", frame)
		pos, _ := w.Position(tp.Zones[0].Body)
		assert.Equal(t, a, pos)
	}

	tp.Advance(w, 90)
	assert.InDelta(t, 700, tp.Zones[0].Position.X, 1e-9)
	assert.InDelta(t, 500, tp.Zones[0].Position.Y, 1e-9)
}

func TestUnknownBallIsAProgrammingError(t *testing.T) {
	s, _ := newTestSession(t, LayoutStarting)
	pairs := []physics.CollisionPair{{
		A: physics.Contact{Body: 999, Label: LabelRed, Owner: 999},
		B: physics.Contact{Body: s.Table.Pockets[0].Body, Label: LabelPocket},
	}}

	assert.Panics(t, func() { ResolveCollisions(s, pairs) })
}

func TestIgnoredPairsChangeNothing(t *testing.T) {
	s, w := newTestSession(t, LayoutStarting)
	w.touch(s.Reds[0].Body, s.Reds[1].Body)
	w.touch(s.Table.Parts[0].Body, s.Colored[0].Body)

	s.Step(idle(Vec2{}), FrameMillis)

	assert.Len(t, s.Reds, 15)
	assert.Equal(t, 0, s.Score)
	assert.Empty(t, s.DrainEvents())
}
