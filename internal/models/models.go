package models

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/lib/pq"
)

// SessionRecord represents one hosted snooker session
type SessionRecord struct {
	ID         int            `db:"id" json:"id"`
	SessionID  string         `db:"session_id" json:"session_id"`
	PlayerName string         `db:"player_name" json:"player_name"`
	Layout     string         `db:"layout" json:"layout"`
	Status     string         `db:"status" json:"status"`
	Score      int            `db:"score" json:"score"`
	BestScore  int            `db:"best_score" json:"best_score"`
	Strikes    int            `db:"strikes" json:"strikes"`
	RedsLeft   int            `db:"reds_left" json:"reds_left"`
	EndReason  sql.NullString `db:"end_reason" json:"end_reason,omitempty"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
	EndedAt    sql.NullTime   `db:"ended_at" json:"ended_at,omitempty"`
}

// StrikeRecord is a single cue strike
type StrikeRecord struct {
	ID        int       `db:"id" json:"id"`
	SessionID string    `db:"session_id" json:"session_id"`
	Frame     int       `db:"frame" json:"frame"`
	ForceX    float64   `db:"force_x" json:"force_x"`
	ForceY    float64   `db:"force_y" json:"force_y"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// EventRecord is a scoring or rule event (pocket, foul, teleport)
type EventRecord struct {
	ID        int             `db:"id" json:"id"`
	SessionID string          `db:"session_id" json:"session_id"`
	Frame     int             `db:"frame" json:"frame"`
	EventType string          `db:"event_type" json:"event_type"`
	BallKind  sql.NullString  `db:"ball_kind" json:"ball_kind,omitempty"`
	Color     sql.NullString  `db:"color" json:"color,omitempty"`
	Points    int             `db:"points" json:"points"`
	Score     int             `db:"score" json:"score"`
	Details   json.RawMessage `db:"details" json:"details,omitempty"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// LeaderboardEntry is one row of the best-score table
type LeaderboardEntry struct {
	Rank       int    `json:"rank"`
	PlayerName string `json:"player_name"`
	Score      int    `json:"score"`
}

// AdminAccount represents an operator allowed to use the admin API
type AdminAccount struct {
	Username     string         `db:"username" json:"username"`
	DisplayName  string         `db:"display_name" json:"display_name"`
	PasswordHash string         `db:"password_hash" json:"-"`
	Roles        pq.StringArray `db:"roles" json:"roles"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// AdminAudit is one entry of the admin audit log
type AdminAudit struct {
	ID            int             `db:"id" json:"id"`
	AdminUsername string          `db:"admin_username" json:"admin_username"`
	IP            string          `db:"ip" json:"ip"`
	Route         string          `db:"route" json:"route"`
	Action        string          `db:"action" json:"action"`
	Details       json.RawMessage `db:"details" json:"details"`
	Success       bool            `db:"success" json:"success"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

// RuntimeConfig is an operator override for a config value
type RuntimeConfig struct {
	Key         string         `db:"key" json:"key"`
	Value       string         `db:"value" json:"value"`
	ValueType   string         `db:"value_type" json:"value_type"`
	Description sql.NullString `db:"description" json:"description,omitempty"`
	UpdatedBy   sql.NullString `db:"updated_by" json:"updated_by,omitempty"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}
