package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Dosada05/arena/models"
	"github.com/redis/go-redis/v9"
)

const leaderboardKeyPrefix = "arena:leaderboard:"

// LeaderboardCache хранит готовые срезы лидерборда по лимиту.
type LeaderboardCache interface {
	// Get возвращает ok=false при промахе.
	Get(ctx context.Context, limit int) ([]*models.LeaderboardEntry, bool, error)
	Set(ctx context.Context, limit int, entries []*models.LeaderboardEntry) error
	Invalidate(ctx context.Context) error
}

type redisLeaderboardCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisLeaderboardCache(ctx context.Context, url string, ttl time.Duration) (LeaderboardCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return &redisLeaderboardCache{rdb: rdb, ttl: ttl}, nil
}

func (c *redisLeaderboardCache) Get(ctx context.Context, limit int) ([]*models.LeaderboardEntry, bool, error) {
	raw, err := c.rdb.Get(ctx, leaderboardKeyPrefix+strconv.Itoa(limit)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get leaderboard: %w", err)
	}
	var entries []*models.LeaderboardEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false, fmt.Errorf("decode cached leaderboard: %w", err)
	}
	return entries, true, nil
}

func (c *redisLeaderboardCache) Set(ctx context.Context, limit int, entries []*models.LeaderboardEntry) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode leaderboard: %w", err)
	}
	if err := c.rdb.Set(ctx, leaderboardKeyPrefix+strconv.Itoa(limit), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set leaderboard: %w", err)
	}
	return nil
}

func (c *redisLeaderboardCache) Invalidate(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, leaderboardKeyPrefix+"*", 100).Iterator()
	keys := make([]string, 0)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan leaderboard keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

type noopLeaderboardCache struct{}

// NewNoopLeaderboardCache используется, когда REDIS_URL не задан.
func NewNoopLeaderboardCache() LeaderboardCache { return noopLeaderboardCache{} }

func (noopLeaderboardCache) Get(context.Context, int) ([]*models.LeaderboardEntry, bool, error) {
	return nil, false, nil
}
func (noopLeaderboardCache) Set(context.Context, int, []*models.LeaderboardEntry) error { return nil }
func (noopLeaderboardCache) Invalidate(context.Context) error                          { return nil }
