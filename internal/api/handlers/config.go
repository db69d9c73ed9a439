package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/playmatatu/snooker/internal/config"
	"github.com/playmatatu/snooker/internal/game"
)

// GetConfig returns the table constants a client needs to render and aim
func GetConfig(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		live := *cfg
		if game.Manager != nil {
			live = game.Manager.Config()
		}
		c.JSON(http.StatusOK, gin.H{
			"canvas_width":         game.CanvasWidth,
			"canvas_height":        game.CanvasHeight,
			"ball_radius":          game.BallRadius,
			"tick_rate":            live.TickRate,
			"snapshot_every":       live.SnapshotEveryFrames,
			"slingshot_max_length": live.Tuning.SlingshotMaxLength,
			"layout_modes":         []game.LayoutMode{game.LayoutStarting, game.LayoutRandomRed, game.LayoutRandomAll},
			"session_idle_minutes": live.SessionIdleMinutes,
		})
	}
}
