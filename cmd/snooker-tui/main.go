package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/playmatatu/snooker/internal/config"
	"github.com/playmatatu/snooker/internal/game"
	"github.com/playmatatu/snooker/internal/physics"
)

const frameInterval = 16 * time.Millisecond // ~60 FPS

// table is the local game.Broadcaster: it keeps the latest snapshot for the
// render loop and turns events into sounds.
type table struct {
	mu      sync.Mutex
	snap    game.Snapshot
	message string
	sound   *soundBoard
}

func (t *table) BroadcastSnapshot(_ string, snap game.Snapshot) {
	t.mu.Lock()
	geometry := t.snap.Table
	t.snap = snap
	if t.snap.Table == nil {
		t.snap.Table = geometry
	}
	t.mu.Unlock()
}

func (t *table) BroadcastEvents(_ string, events []game.Event) {
	for _, e := range events {
		switch e.Type {
		case game.EventPocket:
			t.sound.pocket(e.Points)
			if e.Kind == game.KindCue.String() {
				t.setMessage("Cue ball pocketed")
			} else {
				t.setMessage(fmt.Sprintf("%s potted, +%d", e.Color, e.Points))
			}
		case game.EventFoul:
			t.sound.foul()
			t.setMessage(fmt.Sprintf("Foul: %d colored balls in a row", e.Streak))
		case game.EventStrike:
			t.sound.strike()
		case game.EventTeleport:
			t.sound.teleport()
		}
	}
}

func (t *table) SessionEnded(string, game.RelayMessage) {}

func (t *table) setMessage(msg string) {
	t.mu.Lock()
	t.message = msg
	t.mu.Unlock()
}

func (t *table) current() (game.Snapshot, string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snap, t.message
}

type app struct {
	screen tcell.Screen
	room   *game.Room
	table  *table
	view   viewport
	held   bool // button 1 was down on the last mouse event
}

func main() {
	layout := flag.String("layout", string(game.LayoutStarting), "initial layout: starting, randomRed or randomAll")
	logFile := flag.String("log", "", "write logs to this file")
	flag.Parse()

	// The screen owns the terminal; logs go to a file or nowhere.
	log.SetOutput(io.Discard)
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	mode, err := game.ParseLayoutMode(*layout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	cfg := config.Load()

	session, err := game.NewSession(physics.NewWorld(), game.Options{Tuning: cfg.Tuning, Layout: mode})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to rack table: %v\n", err)
		os.Exit(1)
	}
	session.DrainEvents()

	sound := newSoundBoard()
	if err := sound.init(); err != nil {
		// Non-fatal, the table plays silently
		log.Printf("Audio initialization failed: %v", err)
	}
	defer sound.close()

	t := &table{snap: session.FullSnapshot(), sound: sound}
	room := game.NewRoom("local", session, game.RoomOptions{
		PlayerName:  "local",
		TickRate:    cfg.TickRate,
		Broadcaster: t,
	})

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	screen.EnableMouse()
	screen.HideCursor()

	a := &app{screen: screen, room: room, table: t}
	a.view = newViewport(screen.Size())

	ctx, cancel := context.WithCancel(context.Background())
	room.Start(ctx)

	a.run()

	cancel()
	room.Stop()
	screen.Fini()

	stats := room.Stats()
	fmt.Printf("Best score: %d (%d strikes)\n", stats.BestScore, stats.Strikes)
}

func (a *app) run() {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !a.handleInput(ev) {
				return
			}
		case <-ticker.C:
			snap, msg := a.table.current()
			a.draw(snap, msg)
		}
	}
}

func (a *app) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() != tcell.KeyRune {
			return true
		}
		switch ev.Rune() {
		case 'q':
			return false
		case '1':
			a.selectLayout(game.LayoutStarting)
		case '2':
			a.selectLayout(game.LayoutRandomRed)
		case '3':
			a.selectLayout(game.LayoutRandomAll)
		}

	case *tcell.EventMouse:
		x, y := ev.Position()
		pressed := ev.Buttons()&tcell.Button1 != 0
		pos := a.view.toCanvas(x, y)
		if pressed && !a.held {
			snap, _ := a.table.current()
			pos = a.view.pressAt(x, y, snap)
		}
		a.held = pressed
		a.room.Pointer(pos, pressed)

	case *tcell.EventResize:
		a.view = newViewport(a.screen.Size())
		a.screen.Sync()
	}
	return true
}

func (a *app) selectLayout(mode game.LayoutMode) {
	if _, err := a.room.SelectLayout(mode); err != nil {
		a.table.setMessage(err.Error())
		return
	}
	a.table.setMessage("Layout: " + string(mode))
}
