package game

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/playmatatu/snooker/internal/models"
)

const (
	leaderboardKey = "snooker:leaderboard"
	anonymousName  = "anonymous"
)

// Leaderboard keeps the best score per player name. It uses a Redis sorted
// set when a client is available and a map otherwise.
type Leaderboard struct {
	rdb *redis.Client

	mu    sync.Mutex
	local map[string]int
}

func NewLeaderboard(rdb *redis.Client) *Leaderboard {
	return &Leaderboard{rdb: rdb, local: make(map[string]int)}
}

// Submit records score for player if it beats their previous best.
func (lb *Leaderboard) Submit(ctx context.Context, player string, score int) error {
	if player == "" {
		player = anonymousName
	}
	if score <= 0 {
		return nil
	}

	if lb.rdb != nil {
		err := lb.rdb.ZAddGT(ctx, leaderboardKey, redis.Z{Score: float64(score), Member: player}).Err()
		if err != nil {
			log.Printf("[REDIS] Failed to submit leaderboard score for %s: %v", player, err)
			return fmt.Errorf("submit score: %w", err)
		}
		return nil
	}

	lb.mu.Lock()
	if score > lb.local[player] {
		lb.local[player] = score
	}
	lb.mu.Unlock()
	return nil
}

// Top returns the best limit entries, highest first.
func (lb *Leaderboard) Top(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	if lb.rdb != nil {
		zs, err := lb.rdb.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1)).Result()
		if err != nil {
			return nil, fmt.Errorf("read leaderboard: %w", err)
		}
		out := make([]models.LeaderboardEntry, 0, len(zs))
		for i, z := range zs {
			name, _ := z.Member.(string)
			out = append(out, models.LeaderboardEntry{Rank: i + 1, PlayerName: name, Score: int(z.Score)})
		}
		return out, nil
	}

	lb.mu.Lock()
	out := make([]models.LeaderboardEntry, 0, len(lb.local))
	for name, score := range lb.local {
		out = append(out, models.LeaderboardEntry{PlayerName: name, Score: score})
	}
	lb.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].PlayerName < out[j].PlayerName
	})
	if len(out) > limit {
		out = out[:limit]
	}
	for i := range out {
		out[i].Rank = i + 1
	}
	return out, nil
}

// Reset clears every entry.
func (lb *Leaderboard) Reset(ctx context.Context) error {
	if lb.rdb != nil {
		if err := lb.rdb.Del(ctx, leaderboardKey).Err(); err != nil {
			return fmt.Errorf("reset leaderboard: %w", err)
		}
		return nil
	}
	lb.mu.Lock()
	lb.local = make(map[string]int)
	lb.mu.Unlock()
	return nil
}
