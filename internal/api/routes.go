package api

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/playmatatu/snooker/internal/api/handlers"
	"github.com/playmatatu/snooker/internal/config"
	"github.com/playmatatu/snooker/internal/middleware"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, db *sqlx.DB, rdb *redis.Client, cfg *config.Config) {
	router.Use(middleware.CORSMiddleware(cfg))

	if cfg.Environment != "production" {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
			c.Next()
		})
		log.Println("[DEV MODE] no-cache headers enabled for all routes")
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck)
		v1.GET("/config", handlers.GetConfig(cfg))
		v1.GET("/catalog", handlers.GetCatalog)
		v1.GET("/leaderboard", handlers.GetLeaderboard)

		sessions := v1.Group("/sessions")
		{
			sessions.POST("", handlers.CreateSession(cfg))
			sessions.GET("/:id", handlers.GetSession)
			sessions.GET("/:id/history", handlers.GetSessionHistory)
			sessions.GET("/:id/ws", middleware.WebSocketCORSCheck(cfg), handlers.HandleSessionWebSocket(rdb, cfg))
			sessions.POST("/:id/layout", middleware.PlayerAuth(cfg), handlers.SelectLayout)
			sessions.DELETE("/:id", middleware.PlayerAuth(cfg), handlers.EndSession)
		}

		v1.POST("/admin/login", handlers.AdminLogin(db, cfg))

		adminGroup := v1.Group("/admin")
		adminGroup.Use(middleware.AdminAuth(cfg))
		{
			adminGroup.GET("/me", handlers.AdminMe())
			adminGroup.GET("/sessions", handlers.GetAdminSessions)
			adminGroup.GET("/sessions/records", handlers.GetAdminSessionRecords)
			adminGroup.DELETE("/sessions/:id", handlers.AdminEndSession(db))
			adminGroup.DELETE("/leaderboard", handlers.AdminResetLeaderboard(db))
			adminGroup.GET("/audit", handlers.GetAdminAuditLogs(db))
			adminGroup.GET("/config", handlers.GetAdminRuntimeConfig(db))
			adminGroup.PUT("/config/:key", handlers.UpdateAdminRuntimeConfig(db))
		}
	}
}
