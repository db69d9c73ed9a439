package game

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const idleKey = "session_idle"

// idleTracker holds the idle deadline of every session, in a Redis sorted set
// scored by unix seconds or in a map when Redis is absent.
type idleTracker struct {
	rdb *redis.Client

	mu    sync.Mutex
	local map[string]time.Time
}

func newIdleTracker(rdb *redis.Client) *idleTracker {
	return &idleTracker{rdb: rdb, local: make(map[string]time.Time)}
}

func (it *idleTracker) schedule(ctx context.Context, id string, deadline time.Time) {
	if it.rdb != nil {
		if err := it.rdb.ZAdd(ctx, idleKey, redis.Z{Score: float64(deadline.Unix()), Member: id}).Err(); err != nil {
			log.Printf("[IDLE] Failed to schedule session %s: %v", id, err)
		}
		return
	}
	it.mu.Lock()
	it.local[id] = deadline
	it.mu.Unlock()
}

func (it *idleTracker) cancel(ctx context.Context, id string) {
	if it.rdb != nil {
		it.rdb.ZRem(ctx, idleKey, id)
		return
	}
	it.mu.Lock()
	delete(it.local, id)
	it.mu.Unlock()
}

// due removes and returns every session whose deadline is at or before now.
func (it *idleTracker) due(ctx context.Context, now time.Time) ([]string, error) {
	if it.rdb != nil {
		members, err := it.rdb.ZRangeByScore(ctx, idleKey, &redis.ZRangeBy{Min: "-inf", Max: fmt.Sprintf("%d", now.Unix())}).Result()
		if err != nil {
			return nil, err
		}
		out := make([]string, 0, len(members))
		for _, m := range members {
			// Another instance may have claimed it already.
			if removed, _ := it.rdb.ZRem(ctx, idleKey, m).Result(); removed > 0 {
				out = append(out, m)
			}
		}
		return out, nil
	}

	it.mu.Lock()
	defer it.mu.Unlock()
	var out []string
	for id, deadline := range it.local {
		if !deadline.After(now) {
			out = append(out, id)
			delete(it.local, id)
		}
	}
	return out, nil
}

// StartIdleWorker starts a background worker that expires sessions nobody has
// touched for SESSION_IDLE_MINUTES.
func StartIdleWorker(ctx context.Context, sm *SessionManager) {
	if sm == nil || sm.config == nil {
		log.Println("[IDLE] Manager or config missing; idle worker not started")
		return
	}

	poll := time.Duration(sm.config.IdleWorkerPollSeconds) * time.Second
	if poll <= 0 {
		poll = 30 * time.Second
	}

	log.Printf("[IDLE] Idle worker started (poll=%s timeout=%s)", poll, sm.idleTimeout())
	go func() {
		ticker := time.NewTicker(poll)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Println("[IDLE] Idle worker stopping")
				return
			case <-ticker.C:
				sm.expireIdle(time.Now())
			}
		}
	}()
}

// expireIdle ends every due session that is still idle and reschedules the
// ones that saw input since they were scheduled.
func (sm *SessionManager) expireIdle(now time.Time) int {
	ids, err := sm.idle.due(sm.ctx, now)
	if err != nil {
		log.Printf("[IDLE] Failed to fetch idle sessions: %v", err)
		return 0
	}

	expired := 0
	for _, id := range ids {
		room, err := sm.GetRoom(id)
		if err != nil {
			// Already ended.
			continue
		}
		deadline := room.LastActive().Add(sm.idleTimeout())
		if deadline.After(now) {
			sm.idle.schedule(sm.ctx, id, deadline)
			continue
		}
		log.Printf("[IDLE] Expiring session %s (last active %s)", id, room.LastActive().Format(time.RFC3339))
		if err := sm.EndSession(id, StatusExpired, "idle"); err != nil {
			log.Printf("[IDLE] Failed to expire session %s: %v", id, err)
			continue
		}
		expired++
	}
	return expired
}
