package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/playmatatu/snooker/internal/config"
	"github.com/playmatatu/snooker/internal/ws"
)

// HandleSessionWebSocket streams snapshots and events for one session and
// accepts pointer input from its controller
func HandleSessionWebSocket(rdb *redis.Client, cfg *config.Config) gin.HandlerFunc {
	ws.SetRedisClient(rdb, cfg)
	return ws.HandleWebSocket
}
