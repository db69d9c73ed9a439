package game

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/playmatatu/snooker/internal/config"
)

var (
	ErrInvalidLayoutMode   = errors.New("invalid layout mode")
	ErrLayoutUnsatisfiable = errors.New("no free spot left on the table")
)

// PointerInput is the pointer state sampled once per frame. Pressed is the
// current button level; Released is set when a release happened since the
// previous frame.
type PointerInput struct {
	Position Vec2 `json:"position"`
	Pressed  bool `json:"pressed"`
	Released bool `json:"released"`
}

// Placement is the cue-ball ghost shown while placing.
type Placement struct {
	Candidate Vec2 `json:"candidate"`
	Valid     bool `json:"valid"`
}

// Options configures a new session.
type Options struct {
	Tuning config.Tuning
	Layout LayoutMode
	Seed   int64 // 0 picks a time-based seed
}

// Session is one table: the balls, the rules and the physics bodies that back
// them. It is not safe for concurrent use; Room serialises access.
type Session struct {
	world       World
	tuning      config.Tuning
	Table       *Table
	Teleporters *TeleporterPair

	Reds    []*Ball
	Colored []*Ball
	Cue     *Ball
	arena   map[EntityID]*Ball
	nextID  EntityID

	Phase         Phase
	Score         int
	BestScore     int
	ColoredStreak int
	Slingshot     *Slingshot
	Placement     *Placement
	Layout        LayoutMode
	Frame         int
	Strikes       int

	rng    *rand.Rand
	events []Event
}

// NewSession builds the table and teleporters in w and racks the requested layout.
func NewSession(w World, opts Options) (*Session, error) {
	if opts.Tuning == (config.Tuning{}) {
		opts.Tuning = config.DefaultTuning()
	}
	if opts.Layout == "" {
		opts.Layout = LayoutStarting
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	s := &Session{
		world:  w,
		tuning: opts.Tuning,
		Table:  NewTable(),
		arena:  make(map[EntityID]*Ball),
		Phase:  PhasePlacing,
		rng:    rand.New(rand.NewSource(seed)),
	}
	s.Table.Install(w)
	s.Teleporters = NewTeleporterPair(w, s.Table.Center, opts.Tuning.TeleporterOrbit, opts.Tuning.TeleporterCooldown)

	if err := s.SelectLayout(opts.Layout); err != nil {
		return s, err
	}
	return s, nil
}

// Tuning returns the constants the session was built with.
func (s *Session) Tuning() config.Tuning {
	return s.tuning
}

// Balls returns every ball on the table: reds, then coloreds, then the cue ball.
func (s *Session) Balls() []*Ball {
	out := make([]*Ball, 0, len(s.Reds)+len(s.Colored)+1)
	out = append(out, s.Reds...)
	out = append(out, s.Colored...)
	if s.Cue != nil {
		out = append(out, s.Cue)
	}
	return out
}

// Lookup returns the ball with the given entity id.
func (s *Session) Lookup(id EntityID) (*Ball, bool) {
	b, ok := s.arena[id]
	return b, ok
}

// newBall creates a physics body and registers the ball in the arena only.
func (s *Session) newBall(pos Vec2, color ColorSpec, kind BallKind) *Ball {
	s.nextID++
	b := &Ball{
		ID:           s.nextID,
		Kind:         kind,
		ColorName:    color.Name,
		Color:        color.Color,
		CatalogIndex: color.CatalogIndex,
		Position:     pos,
		PrevPosition: pos,
	}
	b.Body = s.world.AddBody(ballSpec(b.ID, kind, pos, s.tuning))
	s.arena[b.ID] = b
	return b
}

// createBall spawns a ball and appends it to the collection for its kind.
func (s *Session) createBall(pos Vec2, color ColorSpec, kind BallKind) *Ball {
	b := s.newBall(pos, color, kind)
	switch kind {
	case KindCue:
		s.Cue = b
	case KindRed:
		s.Reds = append(s.Reds, b)
	case KindColored:
		s.Colored = append(s.Colored, b)
	}
	return b
}

// destroyBall removes a ball's body and arena entry. Collections are left to the caller.
func (s *Session) destroyBall(b *Ball) {
	s.world.RemoveBody(b.Body)
	delete(s.arena, b.ID)
}

// clearBalls removes every ball from the world and the collections.
func (s *Session) clearBalls() {
	for _, b := range s.Balls() {
		s.destroyBall(b)
	}
	s.Reds = nil
	s.Colored = nil
	s.Cue = nil
}

// SelectLayout re-racks the table and restarts scoring. Any phase may call it.
func (s *Session) SelectLayout(mode LayoutMode) error {
	if _, err := ParseLayoutMode(string(mode)); err != nil {
		return err
	}
	err := PlaceBalls(s, mode)
	s.Phase = PhasePlacing
	s.Score = 0
	s.ColoredStreak = 0
	s.Slingshot = nil
	s.Placement = nil
	s.Layout = mode
	s.emit(Event{Type: EventLayout, Mode: string(mode)})
	if err != nil {
		log.Printf("[GAME] Layout %s incomplete: %v", mode, err)
		return fmt.Errorf("layout %s: %w", mode, err)
	}
	log.Printf("[GAME] Layout %s placed: %d reds, %d colored", mode, len(s.Reds), len(s.Colored))
	return nil
}

// CanPlaceCue reports whether the cue ball may be placed at p.
func (s *Session) CanPlaceCue(p Vec2) bool {
	if !s.Table.PlacementRect().Contains(p) {
		return false
	}
	return s.clearOfBalls(p)
}

// clearOfBalls reports whether p is more than a ball diameter from every red and colored ball.
func (s *Session) clearOfBalls(p Vec2) bool {
	for _, b := range s.Reds {
		if p.Distance(b.Position) <= BallDiameter {
			return false
		}
	}
	for _, b := range s.Colored {
		if p.Distance(b.Position) <= BallDiameter {
			return false
		}
	}
	return true
}

// Step advances the session by one frame of dt milliseconds.
func (s *Session) Step(in PointerInput, dt float64) {
	pairs := s.world.Step(dt)
	ResolveCollisions(s, pairs)

	for _, b := range s.Balls() {
		b.SyncFromPhysics(s.world, dt)
		if b.ClampToTable(s.world, s.Table) {
			pos := b.Position
			s.emit(Event{Type: EventOutOfBounds, BallID: b.ID, Kind: b.Kind.String(), Position: &pos})
		}
		b.TickTeleportCooldown()
	}

	s.Frame++
	s.Teleporters.Advance(s.world, s.Frame)

	switch s.Phase {
	case PhasePlacing:
		s.updatePlacing(in)
	case PhaseGaming:
		s.updateGaming(in)
	case PhaseGameOver:
	}

	if in.Released {
		s.release()
	}
}

func (s *Session) updatePlacing(in PointerInput) {
	valid := s.CanPlaceCue(in.Position)
	s.Placement = &Placement{Candidate: in.Position, Valid: valid}
	if !valid || !in.Pressed {
		return
	}

	cue := s.createBall(in.Position, cueColor, KindCue)
	s.Phase = PhaseGaming
	s.Placement = nil
	pos := cue.Position
	s.emit(Event{Type: EventCuePlaced, BallID: cue.ID, Kind: KindCue.String(), Position: &pos})
	log.Printf("[GAME] Cue ball placed at (%.1f, %.1f)", pos.X, pos.Y)
}

func (s *Session) updateGaming(in PointerInput) {
	cue := s.Cue
	if cue == nil {
		return
	}
	if in.Pressed && in.Position.Distance(cue.Position) < BallRadius {
		cue.Grabbed = true
	}
	if cue.Speed < s.tuning.StillSpeed && cue.Grabbed && in.Pressed {
		anchor := cue.Position
		s.Slingshot = &Slingshot{
			Anchor: anchor,
			End:    SlingshotEnd(anchor, in.Position, s.tuning.SlingshotMaxLength),
		}
	}
}

// release fires the slingshot, if any, and lets go of the cue ball.
func (s *Session) release() {
	if s.Cue != nil && s.Slingshot != nil {
		force := ComputeStrikeForce(*s.Slingshot, s.tuning)
		s.world.ApplyForce(s.Cue.Body, s.Cue.Position, force)
		s.Strikes++
		s.emit(Event{Type: EventStrike, BallID: s.Cue.ID, Kind: KindCue.String(), Force: &force})
	}
	if s.Cue != nil {
		s.Cue.Grabbed = false
	}
	s.Slingshot = nil
}

func (s *Session) addScore(points int) {
	s.Score += points
	if s.Score > s.BestScore {
		s.BestScore = s.Score
	}
}
