package game

// EventType names a gameplay event.
type EventType string

const (
	EventPocket      EventType = "pocket"
	EventTeleport    EventType = "teleport"
	EventFoul        EventType = "foul"
	EventStrike      EventType = "strike"
	EventCuePlaced   EventType = "cue_placed"
	EventLayout      EventType = "layout"
	EventOutOfBounds EventType = "out_of_bounds"
)

// Event is something notable that happened during a frame. Only the fields
// relevant to Type are set.
type Event struct {
	Type     EventType `json:"type"`
	Frame    int       `json:"frame"`
	BallID   EntityID  `json:"ball_id,omitempty"`
	Kind     string    `json:"kind,omitempty"`
	Color    string    `json:"color,omitempty"`
	Points   int       `json:"points,omitempty"`
	Score    int       `json:"score"`
	Zone     int       `json:"zone,omitempty"`
	Position *Vec2     `json:"position,omitempty"`
	Force    *Vec2     `json:"force,omitempty"`
	Mode     string    `json:"mode,omitempty"`
	Streak   int       `json:"streak,omitempty"`
}

func (s *Session) emit(e Event) {
	e.Frame = s.Frame
	e.Score = s.Score
	s.events = append(s.events, e)
}

// DrainEvents returns and clears the events recorded since the last call.
func (s *Session) DrainEvents() []Event {
	out := s.events
	s.events = nil
	return out
}
