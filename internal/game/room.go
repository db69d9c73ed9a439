package game

import (
	"context"
	"log"
	"sync"
	"time"
)

// Broadcaster delivers room output to connected clients.
type Broadcaster interface {
	BroadcastSnapshot(sessionID string, snap Snapshot)
	BroadcastEvents(sessionID string, events []Event)
	SessionEnded(sessionID string, notice RelayMessage)
}

// EventSink receives every batch of events a room produces, after the room
// lock is released.
type EventSink func(r *Room, events []Event)

// pointerLatch keeps the latest pointer state between ticks. Press and
// release edges stay set until the next tick samples them, so a click shorter
// than one frame is not lost.
type pointerLatch struct {
	position Vec2
	pressed  bool
	pressHit bool
	released bool
}

// Room runs one session on a ticker.
type Room struct {
	ID         string
	PlayerName string
	CreatedAt  time.Time

	session *Session
	mu      sync.Mutex // guards session

	input   pointerLatch
	inputMu sync.Mutex

	lastActive   time.Time
	lastActiveMu sync.RWMutex

	tickRate      int
	snapshotEvery int
	broadcaster   Broadcaster
	sink          EventSink

	cancel context.CancelFunc
	done   chan struct{}
}

// RoomOptions configures the loop of a room.
type RoomOptions struct {
	PlayerName    string
	TickRate      int
	SnapshotEvery int
	Broadcaster   Broadcaster
	Sink          EventSink
}

func NewRoom(id string, session *Session, opts RoomOptions) *Room {
	if opts.TickRate <= 0 {
		opts.TickRate = 60
	}
	if opts.SnapshotEvery <= 0 {
		opts.SnapshotEvery = 1
	}
	now := time.Now()
	return &Room{
		ID:            id,
		PlayerName:    opts.PlayerName,
		CreatedAt:     now,
		session:       session,
		lastActive:    now,
		tickRate:      opts.TickRate,
		snapshotEvery: opts.SnapshotEvery,
		broadcaster:   opts.Broadcaster,
		sink:          opts.Sink,
		done:          make(chan struct{}),
	}
}

// Start launches the game loop. It stops when ctx is cancelled or Stop is called.
func (r *Room) Start(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(ctx)
	go func() {
		r.gameLoop(ctx)
		close(r.done)
	}()
}

// Stop ends the game loop and waits for it to exit.
func (r *Room) Stop() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
}

// Done returns a channel that closes when the room's game loop exits.
func (r *Room) Done() <-chan struct{} {
	return r.done
}

func (r *Room) gameLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Second / time.Duration(r.tickRate))
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.tick()
		case <-ctx.Done():
			return
		}
	}
}

// tick advances the session one frame and ships the results.
func (r *Room) tick() {
	in := r.sampleInput()
	dt := 1000.0 / float64(r.tickRate)

	r.mu.Lock()
	r.session.Step(in, dt)
	events := r.session.DrainEvents()
	var snap *Snapshot
	if r.session.Frame%r.snapshotEvery == 0 || len(events) > 0 {
		s := r.session.Snapshot()
		snap = &s
	}
	r.mu.Unlock()

	r.publish(events, snap)
}

func (r *Room) publish(events []Event, snap *Snapshot) {
	if len(events) > 0 {
		if r.sink != nil {
			r.sink(r, events)
		}
		if r.broadcaster != nil {
			r.broadcaster.BroadcastEvents(r.ID, events)
		}
	}
	if snap != nil && r.broadcaster != nil {
		r.broadcaster.BroadcastSnapshot(r.ID, *snap)
	}
}

// Pointer latches a pointer sample from a client.
func (r *Room) Pointer(pos Vec2, pressed bool) {
	r.inputMu.Lock()
	if pressed && !r.input.pressed {
		r.input.pressHit = true
	}
	if !pressed && r.input.pressed {
		r.input.released = true
	}
	r.input.position = pos
	r.input.pressed = pressed
	r.inputMu.Unlock()
	r.Touch()
}

func (r *Room) sampleInput() PointerInput {
	r.inputMu.Lock()
	defer r.inputMu.Unlock()
	in := PointerInput{
		Position: r.input.position,
		Pressed:  r.input.pressed || r.input.pressHit,
		Released: r.input.released,
	}
	r.input.pressHit = false
	r.input.released = false
	return in
}

// SelectLayout re-racks the table between two frames.
func (r *Room) SelectLayout(mode LayoutMode) (Snapshot, error) {
	r.Touch()
	r.mu.Lock()
	err := r.session.SelectLayout(mode)
	events := r.session.DrainEvents()
	snap := r.session.Snapshot()
	r.mu.Unlock()

	if err != nil {
		log.Printf("[ROOM] %s: layout %s failed: %v", r.ID, mode, err)
	}
	r.publish(events, &snap)
	return snap, err
}

// Snapshot returns the current dynamic state.
func (r *Room) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session.Snapshot()
}

// FullSnapshot returns the current state including table geometry.
func (r *Room) FullSnapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session.FullSnapshot()
}

// RunStats are the figures recorded when a session ends.
type RunStats struct {
	Layout    LayoutMode
	Score     int
	BestScore int
	Strikes   int
	RedsLeft  int
}

// Stats returns the current run figures.
func (r *Room) Stats() RunStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return RunStats{
		Layout:    r.session.Layout,
		Score:     r.session.Score,
		BestScore: r.session.BestScore,
		Strikes:   r.session.Strikes,
		RedsLeft:  len(r.session.Reds),
	}
}

// Touch marks the room as active now.
func (r *Room) Touch() {
	r.lastActiveMu.Lock()
	r.lastActive = time.Now()
	r.lastActiveMu.Unlock()
}

// LastActive returns the time of the last player input.
func (r *Room) LastActive() time.Time {
	r.lastActiveMu.RLock()
	defer r.lastActiveMu.RUnlock()
	return r.lastActive
}
