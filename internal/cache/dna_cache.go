package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/5hiel/artistic-minds-sub000/internal/model"
)

// DNACache stores PuzzleDNA by semantic key so structurally identical
// puzzles skip re-analysis and share discovered-field smoothing.
type DNACache interface {
	Get(ctx context.Context, key string) (*model.PuzzleDNA, error)
	Set(ctx context.Context, dna *model.PuzzleDNA) error
}

type dnaCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDNACache creates a Redis-backed DNA cache.
func NewDNACache(client *redis.Client) DNACache {
	return &dnaCache{
		client: client,
		ttl:    7 * 24 * time.Hour,
	}
}

func (c *dnaCache) key(semanticKey string) string {
	return fmt.Sprintf("dna:%s", semanticKey)
}

func (c *dnaCache) Get(ctx context.Context, key string) (*model.PuzzleDNA, error) {
	data, err := c.client.Get(ctx, c.key(key)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var dna model.PuzzleDNA
	if err := json.Unmarshal([]byte(data), &dna); err != nil {
		return nil, err
	}
	return &dna, nil
}

func (c *dnaCache) Set(ctx context.Context, dna *model.PuzzleDNA) error {
	data, err := json.Marshal(dna)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(dna.Key), data, c.ttl).Err()
}
