package game

import (
	"fmt"
	"log"

	"github.com/playmatatu/snooker/internal/physics"
)

// PairKind is the meaning of a collision-start pair.
type PairKind uint8

const (
	PairIgnored PairKind = iota
	PairPocketCue
	PairPocketColored
	PairPocketRed
	PairTeleporterBall
)

func (k PairKind) String() string {
	switch k {
	case PairPocketCue:
		return "pocket+cue"
	case PairPocketColored:
		return "pocket+colored"
	case PairPocketRed:
		return "pocket+red"
	case PairTeleporterBall:
		return "teleporter+ball"
	}
	return "ignored"
}

// ClassifiedPair is a pair split into the ball side and the fixture side.
type ClassifiedPair struct {
	Kind    PairKind
	Ball    physics.Contact
	Fixture physics.Contact
}

// ClassifyPair decides which handler, if any, a pair belongs to. The order of
// A and B does not matter.
func ClassifyPair(p physics.CollisionPair) ClassifiedPair {
	fixture, ball := p.A, p.B
	if _, isBall := kindFromLabel(fixture.Label); isBall {
		fixture, ball = ball, fixture
	}
	kind, isBall := kindFromLabel(ball.Label)
	if !isBall {
		return ClassifiedPair{Kind: PairIgnored}
	}

	c := ClassifiedPair{Ball: ball, Fixture: fixture}
	switch fixture.Label {
	case LabelPocket:
		switch kind {
		case KindCue:
			c.Kind = PairPocketCue
		case KindColored:
			c.Kind = PairPocketColored
		case KindRed:
			c.Kind = PairPocketRed
		}
	case LabelTeleporter:
		c.Kind = PairTeleporterBall
	default:
		c.Kind = PairIgnored
	}
	return c
}

// ResolveCollisions applies the rules for every pair that started touching
// this frame. A pair whose ball was already removed earlier in the same pass
// is skipped, so a ball touching two pockets at once only scores once.
func ResolveCollisions(s *Session, pairs []physics.CollisionPair) {
	removed := make(map[EntityID]bool)

	for _, p := range pairs {
		c := ClassifyPair(p)
		if c.Kind == PairIgnored {
			continue
		}

		id := EntityID(c.Ball.Owner)
		if removed[id] {
			continue
		}
		ball, ok := s.arena[id]
		if !ok {
			panic(fmt.Sprintf("collision %s references unknown ball %d (body %d)", c.Kind, id, c.Ball.Body))
		}

		switch c.Kind {
		case PairPocketCue:
			pocketCue(s, ball)
			removed[id] = true
		case PairPocketColored:
			pocketColored(s, ball)
			removed[id] = true
		case PairPocketRed:
			pocketRed(s, ball)
			removed[id] = true
		case PairTeleporterBall:
			zone := int(c.Fixture.Owner)
			if zone < 0 || zone >= len(s.Teleporters.Zones) {
				panic(fmt.Sprintf("teleporter zone %d out of range", zone))
			}
			if s.Teleporters.Relocate(s.world, ball, zone) {
				target := s.Teleporters.Zones[1-zone].Position
				s.emit(Event{Type: EventTeleport, BallID: ball.ID, Kind: ball.Kind.String(), Color: ball.ColorName, Zone: zone, Position: &target})
			}
		}
	}
}

func pocketCue(s *Session, cue *Ball) {
	log.Printf("[COLLISION] Cue ball pocketed")
	s.destroyBall(cue)
	if s.Cue == cue {
		s.Cue = nil
	}
	s.Slingshot = nil
	s.Phase = PhasePlacing
	s.emit(Event{Type: EventPocket, BallID: cue.ID, Kind: KindCue.String(), Color: cue.ColorName})
}

func pocketColored(s *Session, ball *Ball) {
	slot := -1
	for i, b := range s.Colored {
		if b.ColorName == ball.ColorName {
			slot = i
			break
		}
	}
	if slot < 0 {
		panic(fmt.Sprintf("pocketed colored ball %q is not on the table", ball.ColorName))
	}

	entry := catalog[ball.CatalogIndex]
	s.destroyBall(ball)
	s.Colored[slot] = s.newBall(entry.Position, catalogColor(ball.CatalogIndex), KindColored)

	s.addScore(entry.Points)
	s.ColoredStreak++
	log.Printf("[COLLISION] %s ball pocketed, +%d points (score %d)", entry.Name, entry.Points, s.Score)
	s.emit(Event{Type: EventPocket, BallID: ball.ID, Kind: KindColored.String(), Color: entry.Name, Points: entry.Points, Streak: s.ColoredStreak})

	if s.ColoredStreak >= FoulStreak {
		log.Printf("[GAME] Foul: %d colored balls pocketed consecutively", s.ColoredStreak)
		s.emit(Event{Type: EventFoul, Streak: s.ColoredStreak})
		s.ColoredStreak = 0
	}
}

func pocketRed(s *Session, ball *Ball) {
	idx := -1
	for i, b := range s.Reds {
		if b == ball {
			idx = i
			break
		}
	}
	if idx < 0 {
		panic(fmt.Sprintf("pocketed red ball %d is not on the table", ball.ID))
	}

	s.destroyBall(ball)
	s.Reds = append(s.Reds[:idx], s.Reds[idx+1:]...)
	s.addScore(RedPoints)
	s.ColoredStreak = 0
	log.Printf("[COLLISION] Red ball pocketed, +%d point (score %d, %d reds left)", RedPoints, s.Score, len(s.Reds))
	s.emit(Event{Type: EventPocket, BallID: ball.ID, Kind: KindRed.String(), Color: ball.ColorName, Points: RedPoints})
}
