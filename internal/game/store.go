package game

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"

	"github.com/playmatatu/snooker/internal/models"
)

// ErrHistoryUnavailable is returned by history queries when no database is configured.
var ErrHistoryUnavailable = errors.New("history unavailable: no database configured")

// Store persists session runs, strikes and scoring events. A Store with a nil
// DB accepts every write and drops it.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Enabled reports whether writes reach a database.
func (st *Store) Enabled() bool {
	return st != nil && st.db != nil
}

// SessionHistory is everything recorded for one session.
type SessionHistory struct {
	Session models.SessionRecord  `json:"session"`
	Strikes []models.StrikeRecord `json:"strikes"`
	Events  []models.EventRecord  `json:"events"`
}

// CreateSession inserts the session row. Best-effort: errors are logged and returned.
func (st *Store) CreateSession(sessionID, playerName string, layout LayoutMode) error {
	if !st.Enabled() {
		return nil
	}
	_, err := st.db.Exec(`INSERT INTO snooker_sessions (session_id, player_name, layout, status, created_at) VALUES ($1,$2,$3,$4,NOW())`,
		sessionID, playerName, string(layout), string(StatusActive))
	if err != nil {
		log.Printf("[DB] Failed to create session row %s: %v", sessionID, err)
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// RecordEvents writes strikes to snooker_strikes and scoring/rule events to
// snooker_events. Placement, layout and clamp events are not persisted.
func (st *Store) RecordEvents(sessionID string, events []Event) {
	if !st.Enabled() {
		return
	}
	for _, e := range events {
		switch e.Type {
		case EventStrike:
			st.recordStrike(sessionID, e)
		case EventPocket, EventFoul, EventTeleport:
			st.recordEvent(sessionID, e)
		}
	}
}

func (st *Store) recordStrike(sessionID string, e Event) {
	if e.Force == nil {
		return
	}
	_, err := st.db.Exec(`INSERT INTO snooker_strikes (session_id, frame, force_x, force_y, created_at) VALUES ($1,$2,$3,$4,NOW())`,
		sessionID, e.Frame, e.Force.X, e.Force.Y)
	if err != nil {
		log.Printf("[DB] Failed to record strike for session %s: %v", sessionID, err)
	}
}

func (st *Store) recordEvent(sessionID string, e Event) {
	details, err := json.Marshal(e)
	if err != nil {
		log.Printf("[DB] Failed to marshal event for session %s: %v", sessionID, err)
		details = []byte("{}")
	}
	_, err = st.db.Exec(`INSERT INTO snooker_events (session_id, frame, event_type, ball_kind, color, points, score, details, created_at) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NOW())`,
		sessionID, e.Frame, string(e.Type), nullString(e.Kind), nullString(e.Color), e.Points, e.Score, details)
	if err != nil {
		log.Printf("[DB] Failed to record %s event for session %s: %v", e.Type, sessionID, err)
	}
}

// FinishSession stores the final figures of a session run.
func (st *Store) FinishSession(sessionID string, status SessionStatus, reason string, layout LayoutMode, score, best, strikes, redsLeft int) {
	if !st.Enabled() {
		return
	}
	_, err := st.db.Exec(`
		UPDATE snooker_sessions
		SET status=$1, end_reason=$2, layout=$3, score=$4, best_score=$5, strikes=$6, reds_left=$7, ended_at=NOW()
		WHERE session_id=$8
	`, string(status), reason, string(layout), score, best, strikes, redsLeft, sessionID)
	if err != nil {
		log.Printf("[DB] Failed to finish session %s: %v", sessionID, err)
		return
	}
	log.Printf("[DB] Session %s finished: status=%s best=%d strikes=%d", sessionID, status, best, strikes)
}

// History loads a session row with its strikes and events in frame order.
func (st *Store) History(sessionID string) (*SessionHistory, error) {
	if !st.Enabled() {
		return nil, ErrHistoryUnavailable
	}

	var h SessionHistory
	err := st.db.Get(&h.Session, `
		SELECT id, session_id, player_name, layout, status, score, best_score, strikes, reds_left, end_reason, created_at, ended_at
		FROM snooker_sessions WHERE session_id=$1
	`, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}

	if err := st.db.Select(&h.Strikes, `
		SELECT id, session_id, frame, force_x, force_y, created_at
		FROM snooker_strikes WHERE session_id=$1 ORDER BY frame, id
	`, sessionID); err != nil {
		return nil, fmt.Errorf("load strikes for %s: %w", sessionID, err)
	}

	if err := st.db.Select(&h.Events, `
		SELECT id, session_id, frame, event_type, ball_kind, color, points, score, details, created_at
		FROM snooker_events WHERE session_id=$1 ORDER BY frame, id
	`, sessionID); err != nil {
		return nil, fmt.Errorf("load events for %s: %w", sessionID, err)
	}

	return &h, nil
}

// RecentSessions lists session rows, newest first.
func (st *Store) RecentSessions(limit, offset int) ([]models.SessionRecord, error) {
	if !st.Enabled() {
		return nil, ErrHistoryUnavailable
	}
	var rows []models.SessionRecord
	err := st.db.Select(&rows, `
		SELECT id, session_id, player_name, layout, status, score, best_score, strikes, reds_left, end_reason, created_at, ended_at
		FROM snooker_sessions
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	return rows, err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
