package game

// Phase is the player-facing game phase.
type Phase string

const (
	PhasePlacing  Phase = "placing"
	PhaseGaming   Phase = "gaming"
	PhaseGameOver Phase = "gameOver" // reserved, nothing transitions here yet
)

// SessionStatus represents the lifecycle of a hosted session
type SessionStatus string

const (
	StatusActive  SessionStatus = "ACTIVE"
	StatusEnded   SessionStatus = "ENDED"
	StatusExpired SessionStatus = "EXPIRED"
)
