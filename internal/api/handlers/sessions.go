package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/playmatatu/snooker/internal/config"
	"github.com/playmatatu/snooker/internal/game"
	"github.com/playmatatu/snooker/internal/middleware"
)

// CreateSession racks a new table and returns its player token
func CreateSession(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Mode       string `json:"mode"`
			PlayerName string `json:"player_name"`
		}
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
				return
			}
		}

		name := sanitizePlayerName(req.PlayerName)
		if name == "" {
			name = generateDisplayName()
		}

		room, err := game.Manager.CreateSession(name, game.LayoutMode(req.Mode))
		if err != nil {
			switch {
			case errors.Is(err, game.ErrInvalidLayoutMode):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			case errors.Is(err, game.ErrTooManySessions):
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Too many active sessions, try again later"})
			default:
				log.Printf("[GAME] Failed to create session: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
			}
			return
		}

		token, err := middleware.IssuePlayerToken(cfg, room.ID, name)
		if err != nil {
			log.Printf("[GAME] Failed to sign token for session %s: %v", room.ID, err)
			game.Manager.EndSession(room.ID, game.StatusEnded, "token_error")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.Header("X-Session-ID", room.ID)
		c.JSON(http.StatusCreated, gin.H{
			"session_id":  room.ID,
			"player_name": name,
			"token":       token,
			"ws_url":      "/api/v1/sessions/" + room.ID + "/ws?token=" + token,
			"snapshot":    room.FullSnapshot(),
		})
	}
}

// GetSession returns the current snapshot of a live session
func GetSession(c *gin.Context) {
	room, err := game.Manager.GetRoom(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	if c.Query("full") == "true" {
		c.JSON(http.StatusOK, room.FullSnapshot())
		return
	}
	c.JSON(http.StatusOK, room.Snapshot())
}

// SelectLayout re-racks a session
func SelectLayout(c *gin.Context) {
	var req struct {
		Mode string `json:"mode" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Mode is required"})
		return
	}

	mode, err := game.ParseLayoutMode(req.Mode)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room, err := game.Manager.GetRoom(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	snap, err := room.SelectLayout(mode)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "snapshot": snap})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// EndSession lets the player close their own session
func EndSession(c *gin.Context) {
	id := c.Param("id")
	if err := game.Manager.EndSession(id, game.StatusEnded, "player"); err != nil {
		if errors.Is(err, game.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}
		log.Printf("[GAME] Failed to end session %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to end session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GetSessionHistory returns the recorded strikes and scoring events of a session
func GetSessionHistory(c *gin.Context) {
	id := c.Param("id")
	history, err := game.Manager.Store().History(id)
	if err != nil {
		switch {
		case errors.Is(err, game.ErrHistoryUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "History is not available"})
		case errors.Is(err, game.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		default:
			log.Printf("[DB] Failed to load history for %s: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load history"})
		}
		return
	}
	c.JSON(http.StatusOK, history)
}

// GetLeaderboard returns the best scores
func GetLeaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	entries, err := game.Manager.Leaderboard().Top(c.Request.Context(), limit)
	if err != nil {
		log.Printf("[REDIS] Failed to read leaderboard: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read leaderboard"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries, "limit": limit})
}

// GetCatalog returns the colored balls with their spots and values
func GetCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"colored":    game.Catalog(),
		"red_points": game.RedPoints,
		"red_count":  game.RedCount,
	})
}
