package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/5hiel/artistic-minds-sub000/internal/model"
)

// SessionCache holds per-user ephemeral state: the active session context,
// the rolling behavioral pattern, and recommendations awaiting completion.
type SessionCache interface {
	SetSession(ctx context.Context, session *model.SessionContext) error
	GetSession(ctx context.Context, userID string) (*model.SessionContext, error)
	EndSession(ctx context.Context, userID string) error

	SetPattern(ctx context.Context, userID string, pattern *model.BehavioralPattern) error
	GetPattern(ctx context.Context, userID string) (*model.BehavioralPattern, error)

	SetPending(ctx context.Context, rec *model.PuzzleRecommendation) error
	GetPending(ctx context.Context, userID, recommendationID string) (*model.PuzzleRecommendation, error)
	DeletePending(ctx context.Context, userID, recommendationID string) error
}

type sessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionCache creates a Redis-backed session cache.
func NewSessionCache(client *redis.Client) SessionCache {
	return &sessionCache{
		client: client,
		ttl:    24 * time.Hour,
	}
}

func (c *sessionCache) sessionKey(userID string) string {
	return fmt.Sprintf("user:%s:session", userID)
}

func (c *sessionCache) patternKey(userID string) string {
	return fmt.Sprintf("user:%s:pattern", userID)
}

func (c *sessionCache) pendingKey(userID string) string {
	return fmt.Sprintf("user:%s:pending", userID)
}

func (c *sessionCache) SetSession(ctx context.Context, session *model.SessionContext) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.sessionKey(session.UserID), data, c.ttl).Err()
}

func (c *sessionCache) GetSession(ctx context.Context, userID string) (*model.SessionContext, error) {
	data, err := c.client.Get(ctx, c.sessionKey(userID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var session model.SessionContext
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *sessionCache) EndSession(ctx context.Context, userID string) error {
	return c.client.Del(ctx, c.sessionKey(userID)).Err()
}

func (c *sessionCache) SetPattern(ctx context.Context, userID string, pattern *model.BehavioralPattern) error {
	data, err := json.Marshal(pattern)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.patternKey(userID), data, c.ttl).Err()
}

func (c *sessionCache) GetPattern(ctx context.Context, userID string) (*model.BehavioralPattern, error) {
	data, err := c.client.Get(ctx, c.patternKey(userID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var pattern model.BehavioralPattern
	if err := json.Unmarshal([]byte(data), &pattern); err != nil {
		return nil, err
	}
	return &pattern, nil
}

func (c *sessionCache) SetPending(ctx context.Context, rec *model.PuzzleRecommendation) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return c.client.HSet(ctx, c.pendingKey(rec.UserID), rec.ID, data).Err()
}

func (c *sessionCache) GetPending(ctx context.Context, userID, recommendationID string) (*model.PuzzleRecommendation, error) {
	data, err := c.client.HGet(ctx, c.pendingKey(userID), recommendationID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var rec model.PuzzleRecommendation
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *sessionCache) DeletePending(ctx context.Context, userID, recommendationID string) error {
	return c.client.HDel(ctx, c.pendingKey(userID), recommendationID).Err()
}
