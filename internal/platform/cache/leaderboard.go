package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"codeclub/internal/domain/model"

	"github.com/redis/go-redis/v9"
)

const leaderboardKey = "leaderboard:v1"

// LeaderboardCache is a cache-aside store for the computed leaderboard.
type LeaderboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewLeaderboardCache(client *redis.Client, ttl time.Duration) *LeaderboardCache {
	return &LeaderboardCache{client: client, ttl: ttl}
}

// Get returns the cached entries, or (nil, false, nil) on a miss.
func (c *LeaderboardCache) Get(ctx context.Context) ([]model.LeaderboardEntry, bool, error) {
	raw, err := c.client.Get(ctx, leaderboardKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("LeaderboardCache.Get: %w", err)
	}
	var entries []model.LeaderboardEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false, fmt.Errorf("LeaderboardCache.Get: decode: %w", err)
	}
	return entries, true, nil
}

func (c *LeaderboardCache) Set(ctx context.Context, entries []model.LeaderboardEntry) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("LeaderboardCache.Set: encode: %w", err)
	}
	if err := c.client.Set(ctx, leaderboardKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("LeaderboardCache.Set: %w", err)
	}
	return nil
}

// Invalidate drops the cached leaderboard; called after any result or
// adjustment write.
func (c *LeaderboardCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, leaderboardKey).Err(); err != nil {
		return fmt.Errorf("LeaderboardCache.Invalidate: %w", err)
	}
	return nil
}
