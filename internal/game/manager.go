package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/playmatatu/snooker/internal/config"
	"github.com/playmatatu/snooker/internal/physics"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrTooManySessions = errors.New("too many active sessions")
)

// EventsChannel is the Redis pub/sub channel carrying RelayMessages.
const EventsChannel = "snooker_events"

// Relay message types.
const (
	RelayEvents       = "events"
	RelaySessionEnded = "session_ended"
)

// RelayMessage is published on EventsChannel.
type RelayMessage struct {
	Type      string        `json:"type"`
	SessionID string        `json:"session_id"`
	Events    []Event       `json:"events,omitempty"`
	Status    SessionStatus `json:"status,omitempty"`
	Reason    string        `json:"reason,omitempty"`
	Score     int           `json:"score,omitempty"`
	BestScore int           `json:"best_score,omitempty"`
}

// SessionInfo summarises a live session for listings.
type SessionInfo struct {
	ID         string     `json:"session_id"`
	PlayerName string     `json:"player_name"`
	Layout     LayoutMode `json:"layout"`
	Phase      Phase      `json:"phase"`
	Score      int        `json:"score"`
	BestScore  int        `json:"best_score"`
	RedsLeft   int        `json:"reds_left"`
	CreatedAt  time.Time  `json:"created_at"`
	LastActive time.Time  `json:"last_active"`
}

// SessionManager hosts every live room
type SessionManager struct {
	rooms       map[string]*Room // keyed by session ID
	rdb         *redis.Client
	db          *sqlx.DB
	config      *config.Config
	store       *Store
	leaderboard *Leaderboard
	idle        *idleTracker
	broadcaster Broadcaster
	publishFn   func(RelayMessage) bool
	ctx         context.Context
	mu          sync.RWMutex
}

var (
	// Global session manager instance
	Manager *SessionManager
)

// InitializeManager initializes the global session manager with Redis, DB and config
func InitializeManager(ctx context.Context, db *sqlx.DB, rdb *redis.Client, cfg *config.Config) {
	Manager = NewSessionManager(ctx, db, rdb, cfg)
}

// NewSessionManager creates a session manager. db and rdb may be nil.
func NewSessionManager(ctx context.Context, db *sqlx.DB, rdb *redis.Client, cfg *config.Config) *SessionManager {
	sm := &SessionManager{
		rooms:       make(map[string]*Room),
		rdb:         rdb,
		db:          db,
		config:      cfg,
		store:       NewStore(db),
		leaderboard: NewLeaderboard(rdb),
		idle:        newIdleTracker(rdb),
		ctx:         ctx,
	}
	sm.publishFn = sm.publish
	return sm
}

// SetBroadcaster sets where rooms created from now on send their output.
func (sm *SessionManager) SetBroadcaster(b Broadcaster) {
	sm.mu.Lock()
	sm.broadcaster = b
	sm.mu.Unlock()
}

// UpdateConfig applies fn to the live config under the manager lock. Sessions
// created afterwards see the change; running rooms keep their settings.
func (sm *SessionManager) UpdateConfig(fn func(cfg *config.Config)) {
	sm.mu.Lock()
	fn(sm.config)
	sm.mu.Unlock()
}

// Config returns a copy of the live config.
func (sm *SessionManager) Config() config.Config {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return *sm.config
}

func (sm *SessionManager) Store() *Store {
	return sm.store
}

func (sm *SessionManager) Leaderboard() *Leaderboard {
	return sm.leaderboard
}

// CreateSession builds a new table, racks it and starts its room.
func (sm *SessionManager) CreateSession(playerName string, mode LayoutMode) (*Room, error) {
	if mode == "" {
		mode = LayoutStarting
	}
	if _, err := ParseLayoutMode(string(mode)); err != nil {
		return nil, err
	}

	sm.mu.Lock()
	if limit := sm.config.MaxSessions; limit > 0 && len(sm.rooms) >= limit {
		active := len(sm.rooms)
		sm.mu.Unlock()
		log.Printf("[GAME] Refusing new session: %d/%d active", active, limit)
		return nil, ErrTooManySessions
	}

	id := uuid.NewString()
	session, err := NewSession(physics.NewWorld(), Options{Tuning: sm.config.Tuning, Layout: mode})
	if err != nil {
		sm.mu.Unlock()
		return nil, fmt.Errorf("create session: %w", err)
	}
	session.DrainEvents()

	room := NewRoom(id, session, RoomOptions{
		PlayerName:    playerName,
		TickRate:      sm.config.TickRate,
		SnapshotEvery: sm.config.SnapshotEveryFrames,
		Broadcaster:   sm.broadcaster,
		Sink:          sm.handleEvents,
	})
	sm.rooms[id] = room
	active := len(sm.rooms)
	idle := time.Duration(sm.config.SessionIdleMinutes) * time.Minute
	sm.mu.Unlock()

	sm.store.CreateSession(id, playerName, mode)
	sm.idle.schedule(sm.ctx, id, room.LastActive().Add(idle))
	room.Start(sm.ctx)

	log.Printf("[GAME] Session %s created for %q (layout=%s, active=%d)", id, playerName, mode, active)
	return room, nil
}

// GetRoom retrieves a live room by session ID
func (sm *SessionManager) GetRoom(id string) (*Room, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	room, exists := sm.rooms[id]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return room, nil
}

// EndSession stops a room, records the run and updates the leaderboard.
func (sm *SessionManager) EndSession(id string, status SessionStatus, reason string) error {
	return sm.endSession(id, status, reason, false)
}

// endSession ends one room. The session_ended notice goes out over Redis so
// every instance closes its sockets; local clients are told directly when the
// publish fails or when notifyLocal is set.
func (sm *SessionManager) endSession(id string, status SessionStatus, reason string, notifyLocal bool) error {
	sm.mu.Lock()
	room, exists := sm.rooms[id]
	if !exists {
		sm.mu.Unlock()
		return ErrSessionNotFound
	}
	delete(sm.rooms, id)
	broadcaster := sm.broadcaster
	sm.mu.Unlock()

	room.Stop()
	stats := room.Stats()

	sm.store.FinishSession(id, status, reason, stats.Layout, stats.Score, stats.BestScore, stats.Strikes, stats.RedsLeft)
	if err := sm.leaderboard.Submit(sm.ctx, room.PlayerName, stats.BestScore); err != nil {
		log.Printf("[GAME] Leaderboard update failed for session %s: %v", id, err)
	}
	sm.idle.cancel(sm.ctx, id)

	notice := RelayMessage{
		Type:      RelaySessionEnded,
		SessionID: id,
		Status:    status,
		Reason:    reason,
		Score:     stats.Score,
		BestScore: stats.BestScore,
	}
	published := sm.publishFn(notice)
	if (notifyLocal || !published) && broadcaster != nil {
		broadcaster.SessionEnded(id, notice)
	}

	log.Printf("[GAME] Session %s ended: status=%s reason=%s best=%d", id, status, reason, stats.BestScore)
	return nil
}

// ListSessions returns the live sessions, oldest first.
func (sm *SessionManager) ListSessions() []SessionInfo {
	sm.mu.RLock()
	rooms := make([]*Room, 0, len(sm.rooms))
	for _, r := range sm.rooms {
		rooms = append(rooms, r)
	}
	sm.mu.RUnlock()

	out := make([]SessionInfo, 0, len(rooms))
	for _, r := range rooms {
		snap := r.Snapshot()
		out = append(out, SessionInfo{
			ID:         r.ID,
			PlayerName: r.PlayerName,
			Layout:     snap.Layout,
			Phase:      snap.Phase,
			Score:      snap.Score,
			BestScore:  snap.BestScore,
			RedsLeft:   snap.RedsLeft,
			CreatedAt:  r.CreatedAt,
			LastActive: r.LastActive(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// ActiveCount returns the number of live sessions
func (sm *SessionManager) ActiveCount() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.rooms)
}

// Shutdown ends every live session. The relay subscriber may already be gone,
// so local clients are notified directly.
func (sm *SessionManager) Shutdown() {
	sm.mu.RLock()
	ids := make([]string, 0, len(sm.rooms))
	for id := range sm.rooms {
		ids = append(ids, id)
	}
	sm.mu.RUnlock()

	for _, id := range ids {
		if err := sm.endSession(id, StatusEnded, "shutdown", true); err != nil && !errors.Is(err, ErrSessionNotFound) {
			log.Printf("[GAME] Failed to end session %s on shutdown: %v", id, err)
		}
	}
	log.Printf("[GAME] Shutdown complete, %d sessions ended", len(ids))
}

func (sm *SessionManager) idleTimeout() time.Duration {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return time.Duration(sm.config.SessionIdleMinutes) * time.Minute
}

// handleEvents is the sink every room drains its events into.
func (sm *SessionManager) handleEvents(r *Room, events []Event) {
	sm.store.RecordEvents(r.ID, events)
	sm.publish(RelayMessage{Type: RelayEvents, SessionID: r.ID, Events: events})
}

// publish sends msg on EventsChannel. It reports whether Redis took the message.
func (sm *SessionManager) publish(msg RelayMessage) bool {
	if sm.rdb == nil {
		return false
	}
	b, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[REDIS] Failed to marshal %s message for session %s: %v", msg.Type, msg.SessionID, err)
		return false
	}
	if err := sm.rdb.Publish(sm.ctx, EventsChannel, b).Err(); err != nil {
		log.Printf("[REDIS] Publish %s failed for session %s: %v", msg.Type, msg.SessionID, err)
		return false
	}
	return true
}
