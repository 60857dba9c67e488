package cache

import (
	"context"
	"sort"
	"sync"

	"github.com/5hiel/artistic-minds-sub000/internal/model"
)

// In-memory implementations back the simulation harness and tests. They
// mirror the Redis semantics (nil on miss, value copies on read).

// MemoryDNACache is an in-process DNACache.
type MemoryDNACache struct {
	mu   sync.RWMutex
	dnas map[string]model.PuzzleDNA
}

// NewMemoryDNACache creates an empty in-memory DNA cache.
func NewMemoryDNACache() *MemoryDNACache {
	return &MemoryDNACache{dnas: make(map[string]model.PuzzleDNA)}
}

func (c *MemoryDNACache) Get(ctx context.Context, key string) (*model.PuzzleDNA, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	dna, ok := c.dnas[key]
	if !ok {
		return nil, nil
	}
	cp := dna
	return &cp, nil
}

func (c *MemoryDNACache) Set(ctx context.Context, dna *model.PuzzleDNA) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dnas[dna.Key] = *dna
	return nil
}

// MemorySessionCache is an in-process SessionCache.
type MemorySessionCache struct {
	mu       sync.RWMutex
	sessions map[string]model.SessionContext
	patterns map[string]model.BehavioralPattern
	pending  map[string]map[string]model.PuzzleRecommendation
}

// NewMemorySessionCache creates an empty in-memory session cache.
func NewMemorySessionCache() *MemorySessionCache {
	return &MemorySessionCache{
		sessions: make(map[string]model.SessionContext),
		patterns: make(map[string]model.BehavioralPattern),
		pending:  make(map[string]map[string]model.PuzzleRecommendation),
	}
}

func (c *MemorySessionCache) SetSession(ctx context.Context, session *model.SessionContext) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[session.UserID] = *session
	return nil
}

func (c *MemorySessionCache) GetSession(ctx context.Context, userID string) (*model.SessionContext, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.sessions[userID]
	if !ok {
		return nil, nil
	}
	cp := s
	return &cp, nil
}

func (c *MemorySessionCache) EndSession(ctx context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, userID)
	return nil
}

func (c *MemorySessionCache) SetPattern(ctx context.Context, userID string, pattern *model.BehavioralPattern) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *pattern
	cp.Entries = append([]model.OutcomeSnapshot(nil), pattern.Entries...)
	c.patterns[userID] = cp
	return nil
}

func (c *MemorySessionCache) GetPattern(ctx context.Context, userID string) (*model.BehavioralPattern, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.patterns[userID]
	if !ok {
		return nil, nil
	}
	cp := p
	cp.Entries = append([]model.OutcomeSnapshot(nil), p.Entries...)
	return &cp, nil
}

func (c *MemorySessionCache) SetPending(ctx context.Context, rec *model.PuzzleRecommendation) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending[rec.UserID] == nil {
		c.pending[rec.UserID] = make(map[string]model.PuzzleRecommendation)
	}
	c.pending[rec.UserID][rec.ID] = *rec
	return nil
}

func (c *MemorySessionCache) GetPending(ctx context.Context, userID, recommendationID string) (*model.PuzzleRecommendation, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rec, ok := c.pending[userID][recommendationID]
	if !ok {
		return nil, nil
	}
	cp := rec
	return &cp, nil
}

func (c *MemorySessionCache) DeletePending(ctx context.Context, userID, recommendationID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending[userID], recommendationID)
	return nil
}

// MemoryLeaderboardCache is an in-process LeaderboardCache.
type MemoryLeaderboardCache struct {
	mu     sync.RWMutex
	solved map[string]int
}

// NewMemoryLeaderboardCache creates an empty in-memory leaderboard.
func NewMemoryLeaderboardCache() *MemoryLeaderboardCache {
	return &MemoryLeaderboardCache{solved: make(map[string]int)}
}

func (c *MemoryLeaderboardCache) SetSolved(ctx context.Context, userID string, totalSolved int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.solved[userID] = totalSolved
	return nil
}

func (c *MemoryLeaderboardCache) GetTop(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entries := make([]LeaderboardEntry, 0, len(c.solved))
	for id, n := range c.solved {
		entries = append(entries, LeaderboardEntry{UserID: id, Solved: n})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Solved != entries[j].Solved {
			return entries[i].Solved > entries[j].Solved
		}
		return entries[i].UserID < entries[j].UserID
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

func (c *MemoryLeaderboardCache) GetRank(ctx context.Context, userID string) (int64, error) {
	top, _ := c.GetTop(ctx, 0)
	for _, e := range top {
		if e.UserID == userID {
			return int64(e.Rank), nil
		}
	}
	return -1, nil
}
