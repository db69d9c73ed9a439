package main

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// soundBoard plays short sine tones. Every method is a no-op until init succeeds.
type soundBoard struct {
	mu    sync.Mutex
	ready bool
}

func newSoundBoard() *soundBoard {
	return &soundBoard{}
}

func (s *soundBoard) init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return err
	}
	s.ready = true
	return nil
}

func (s *soundBoard) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ready {
		speaker.Close()
		s.ready = false
	}
}

func (s *soundBoard) tone(freq int, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return
	}
	sine, err := generators.SineTone(sampleRate, float64(freq))
	if err != nil {
		return
	}
	speaker.Play(beep.Take(sampleRate.N(d), sine))
}

// pocket rises in pitch with the value of the ball.
func (s *soundBoard) pocket(points int) {
	s.tone(440+points*60, 120*time.Millisecond)
}

func (s *soundBoard) strike() {
	s.tone(880, 40*time.Millisecond)
}

func (s *soundBoard) foul() {
	s.tone(180, 250*time.Millisecond)
}

func (s *soundBoard) teleport() {
	s.tone(1320, 60*time.Millisecond)
}
