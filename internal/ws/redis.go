package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/playmatatu/snooker/internal/config"
	"github.com/playmatatu/snooker/internal/game"
)

var rdbClient *redis.Client
var wsConfig *config.Config

// SetRedisClient configures the package. r may be nil.
func SetRedisClient(r *redis.Client, cfg *config.Config) {
	rdbClient = r
	wsConfig = cfg
}

// StartEventSubscriber subscribes to the session events channel and forwards
// lifecycle notices to the hub. Gameplay events reach local clients directly
// through the hub and are left to other subscribers.
func StartEventSubscriber(ctx context.Context) {
	if rdbClient == nil {
		log.Println("[WS] Redis client not set; event subscriber not started")
		return
	}

	pubsub := rdbClient.Subscribe(ctx, game.EventsChannel)
	ch := pubsub.Channel()
	go func() {
		defer pubsub.Close()
		log.Printf("[WS] %s subscriber started", game.EventsChannel)
		for {
			select {
			case <-ctx.Done():
				log.Printf("[WS] %s subscriber stopping", game.EventsChannel)
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				handleRelay(GameHub, msg.Payload)
			}
		}
	}()
}

// handleRelay dispatches one relay payload.
func handleRelay(h *Hub, payload string) {
	var msg game.RelayMessage
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		log.Printf("[WS] invalid relay payload: %v", err)
		return
	}

	switch msg.Type {
	case game.RelaySessionEnded:
		log.Printf("[WS] session %s ended (status=%s reason=%s, room_size=%d)", msg.SessionID, msg.Status, msg.Reason, h.RoomSize(msg.SessionID))
		h.SessionEnded(msg.SessionID, msg)
	case game.RelayEvents:
	default:
		log.Printf("[WS] unknown relay type: %s", msg.Type)
	}
}
