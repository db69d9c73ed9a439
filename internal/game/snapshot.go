package game

// BallView is the render state of one ball.
type BallView struct {
	ID       EntityID `json:"id"`
	Kind     string   `json:"kind"`
	Color    string   `json:"color"`
	RGB      RGB      `json:"rgb"`
	Position Vec2     `json:"position"`
	Speed    float64  `json:"speed"`
	Grabbed  bool     `json:"grabbed,omitempty"`
}

// Snapshot is a copy of everything a renderer needs for one frame. Table is
// only filled by FullSnapshot; the geometry never changes during a session.
type Snapshot struct {
	Frame         int              `json:"frame"`
	Phase         Phase            `json:"phase"`
	Layout        LayoutMode       `json:"layout"`
	Score         int              `json:"score"`
	BestScore     int              `json:"best_score"`
	ColoredStreak int              `json:"colored_streak"`
	RedsLeft      int              `json:"reds_left"`
	Balls         []BallView       `json:"balls"`
	Teleporters   []TeleporterZone `json:"teleporters"`
	Slingshot     *Slingshot       `json:"slingshot,omitempty"`
	Placement     *Placement       `json:"placement,omitempty"`
	Table         *Table           `json:"table,omitempty"`
}

// Snapshot copies the dynamic state of the session.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Frame:         s.Frame,
		Phase:         s.Phase,
		Layout:        s.Layout,
		Score:         s.Score,
		BestScore:     s.BestScore,
		ColoredStreak: s.ColoredStreak,
		RedsLeft:      len(s.Reds),
		Teleporters:   append([]TeleporterZone(nil), s.Teleporters.Zones[:]...),
	}

	for _, b := range s.Balls() {
		snap.Balls = append(snap.Balls, BallView{
			ID:       b.ID,
			Kind:     b.Kind.String(),
			Color:    b.ColorName,
			RGB:      b.Color,
			Position: b.Position,
			Speed:    b.Speed,
			Grabbed:  b.Grabbed,
		})
	}
	if s.Slingshot != nil {
		sl := *s.Slingshot
		snap.Slingshot = &sl
	}
	if s.Placement != nil {
		p := *s.Placement
		snap.Placement = &p
	}
	return snap
}

// FullSnapshot is Snapshot plus the static table geometry.
func (s *Session) FullSnapshot() Snapshot {
	snap := s.Snapshot()
	snap.Table = s.Table
	return snap
}
