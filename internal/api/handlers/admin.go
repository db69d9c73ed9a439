package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/playmatatu/snooker/internal/admin"
	"github.com/playmatatu/snooker/internal/config"
	"github.com/playmatatu/snooker/internal/game"
	"github.com/playmatatu/snooker/internal/middleware"
)

// AdminLogin validates username/password and issues an admin bearer token
func AdminLogin(db *sqlx.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Admin accounts need a database"})
			return
		}

		var req struct {
			Username string `json:"username" binding:"required"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}

		username := strings.TrimSpace(req.Username)
		password := strings.TrimSpace(req.Password)

		account, err := admin.ValidateAdminCredentials(db, username, password)
		if err != nil {
			log.Printf("[ADMIN] Login failed for username %s: %v", username, err)
			admin.LogAdminAction(db, username, c.ClientIP(), "/api/v1/admin/login", "login", map[string]interface{}{"username": username}, false)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		token, err := middleware.IssueAdminToken(cfg, account.Username)
		if err != nil {
			log.Printf("[ADMIN] Failed to sign token for %s: %v", username, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		admin.LogAdminAction(db, username, c.ClientIP(), "/api/v1/admin/login", "login", map[string]interface{}{"username": username}, true)
		c.JSON(http.StatusOK, gin.H{"token": token, "username": account.Username, "display_name": account.DisplayName})
	}
}

// AdminMe returns the authenticated admin
func AdminMe() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"username": c.GetString("admin_username")})
	}
}

// GetAdminSessions lists live sessions
func GetAdminSessions(c *gin.Context) {
	sessions := game.Manager.ListSessions()
	c.Header("X-Active-Sessions", strconv.Itoa(len(sessions)))
	c.JSON(http.StatusOK, gin.H{"sessions": sessions, "total": len(sessions)})
}

// GetAdminSessionRecords returns recorded sessions, newest first
func GetAdminSessionRecords(c *gin.Context) {
	limit, offset := pageParams(c, 25, 200)

	rows, err := game.Manager.Store().RecentSessions(limit, offset)
	if err != nil {
		if errors.Is(err, game.ErrHistoryUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "History is not available"})
			return
		}
		log.Printf("[ADMIN] Failed to fetch session records: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sessions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": rows, "limit": limit, "offset": offset})
}

// AdminEndSession force-closes a live session
func AdminEndSession(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminUsername := c.GetString("admin_username")
		id := c.Param("id")
		route := "/api/v1/admin/sessions/" + id

		err := game.Manager.EndSession(id, game.StatusEnded, "admin")
		if err != nil {
			admin.LogAdminAction(db, adminUsername, c.ClientIP(), route, "end_session", map[string]interface{}{"session_id": id, "error": err.Error()}, false)
			if errors.Is(err, game.ErrSessionNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to end session"})
			return
		}

		admin.LogAdminAction(db, adminUsername, c.ClientIP(), route, "end_session", map[string]interface{}{"session_id": id}, true)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// AdminResetLeaderboard clears every leaderboard entry
func AdminResetLeaderboard(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminUsername := c.GetString("admin_username")

		if err := game.Manager.Leaderboard().Reset(c.Request.Context()); err != nil {
			log.Printf("[ADMIN] Failed to reset leaderboard: %v", err)
			admin.LogAdminAction(db, adminUsername, c.ClientIP(), "/api/v1/admin/leaderboard", "reset_leaderboard", nil, false)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset leaderboard"})
			return
		}

		admin.LogAdminAction(db, adminUsername, c.ClientIP(), "/api/v1/admin/leaderboard", "reset_leaderboard", nil, true)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
