package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const leaderboardKey = "leaderboard:solved"

// LeaderboardCache ranks users by total puzzles solved via a Redis ZSET.
type LeaderboardCache interface {
	SetSolved(ctx context.Context, userID string, totalSolved int) error
	GetTop(ctx context.Context, limit int) ([]LeaderboardEntry, error)
	GetRank(ctx context.Context, userID string) (int64, error)
}

// LeaderboardEntry is a single leaderboard row.
type LeaderboardEntry struct {
	UserID string `json:"userId"`
	Solved int    `json:"solved"`
	Rank   int    `json:"rank"`
}

type leaderboardCache struct {
	client *redis.Client
}

// NewLeaderboardCache creates a Redis-backed leaderboard.
func NewLeaderboardCache(client *redis.Client) LeaderboardCache {
	return &leaderboardCache{client: client}
}

func (c *leaderboardCache) SetSolved(ctx context.Context, userID string, totalSolved int) error {
	return c.client.ZAdd(ctx, leaderboardKey, redis.Z{
		Score:  float64(totalSolved),
		Member: userID,
	}).Err()
}

func (c *leaderboardCache) GetTop(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	results, err := c.client.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	entries := make([]LeaderboardEntry, 0, len(results))
	for i, z := range results {
		userID, _ := z.Member.(string)
		entries = append(entries, LeaderboardEntry{
			UserID: userID,
			Solved: int(z.Score),
			Rank:   i + 1,
		})
	}
	return entries, nil
}

func (c *leaderboardCache) GetRank(ctx context.Context, userID string) (int64, error) {
	rank, err := c.client.ZRevRank(ctx, leaderboardKey, userID).Result()
	if err == redis.Nil {
		return -1, nil
	}
	if err != nil {
		return -1, err
	}
	return rank + 1, nil
}
