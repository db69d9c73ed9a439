package handlers

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playmatatu/snooker/internal/config"
	"github.com/playmatatu/snooker/internal/game"
	"github.com/playmatatu/snooker/internal/models"
)

func TestApplyRuntimeConfigWhileSessionsAreCreated(t *testing.T) {
	cfg := &config.Config{
		TickRate:            60,
		SnapshotEveryFrames: 2,
		MaxSessions:         4,
		SessionIdleMinutes:  15,
		Tuning:              config.DefaultTuning(),
	}
	game.InitializeManager(context.Background(), nil, nil, cfg)
	t.Cleanup(game.Manager.Shutdown)

	overrides := []models.RuntimeConfig{
		{Key: "air_drag", Value: "0.01"},
		{Key: "max_sessions", Value: "500"},
		{Key: "unknown_key", Value: "1"},
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			assert.Equal(t, 2, applyRuntimeConfig(overrides))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			room, err := game.Manager.CreateSession("p", game.LayoutStarting)
			if !assert.NoError(t, err) {
				return
			}
			assert.NoError(t, game.Manager.EndSession(room.ID, game.StatusEnded, "player"))
		}
	}()
	wg.Wait()

	live := game.Manager.Config()
	assert.Equal(t, 500, live.MaxSessions)
	assert.InDelta(t, 0.01, live.Tuning.AirDrag, 1e-9)
	require.Equal(t, 0, game.Manager.ActiveCount())
}
