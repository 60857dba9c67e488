package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/5hiel/artistic-minds-sub000/internal/model"
)

func TestMemoryDNACache_MissReturnsNil(t *testing.T) {
	c := NewMemoryDNACache()
	dna, err := c.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, dna)
}

func TestMemoryDNACache_ReadsAreCopies(t *testing.T) {
	c := NewMemoryDNACache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, &model.PuzzleDNA{Key: "k", DiscoveredDifficulty: 0.5}))

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	got.DiscoveredDifficulty = 0.9

	again, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, 0.5, again.DiscoveredDifficulty, "mutating a read must not leak into the cache")
}

func TestMemorySessionCache_PendingLifecycle(t *testing.T) {
	c := NewMemorySessionCache()
	ctx := context.Background()

	rec := &model.PuzzleRecommendation{ID: "r1", UserID: "u1"}
	require.NoError(t, c.SetPending(ctx, rec))

	got, err := c.GetPending(ctx, "u1", "r1")
	require.NoError(t, err)
	require.NotNil(t, got)

	require.NoError(t, c.DeletePending(ctx, "u1", "r1"))
	got, err = c.GetPending(ctx, "u1", "r1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryLeaderboard_Ordering(t *testing.T) {
	c := NewMemoryLeaderboardCache()
	ctx := context.Background()

	require.NoError(t, c.SetSolved(ctx, "alice", 30))
	require.NoError(t, c.SetSolved(ctx, "bob", 50))
	require.NoError(t, c.SetSolved(ctx, "carol", 10))

	top, err := c.GetTop(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "bob", top[0].UserID)
	assert.Equal(t, 1, top[0].Rank)
	assert.Equal(t, "alice", top[1].UserID)

	rank, err := c.GetRank(ctx, "carol")
	require.NoError(t, err)
	assert.Equal(t, int64(3), rank)

	rank, err = c.GetRank(ctx, "ghost")
	require.NoError(t, err)
	assert.Equal(t, int64(-1), rank)
}
