package repository

import (
	"context"
	"sync"

	"github.com/5hiel/artistic-minds-sub000/internal/model"
)

// MemoryProfileRepo is an in-memory ProfileRepo used by the simulation
// harness and tests.
type MemoryProfileRepo struct {
	mu       sync.RWMutex
	profiles map[string]*model.UserProfile
}

// NewMemoryProfileRepo creates an empty in-memory repository.
func NewMemoryProfileRepo() *MemoryProfileRepo {
	return &MemoryProfileRepo{profiles: make(map[string]*model.UserProfile)}
}

func (r *MemoryProfileRepo) Load(ctx context.Context, userID string) (*model.UserProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[userID]
	if !ok {
		return nil, nil
	}
	return p.Clone(), nil
}

func (r *MemoryProfileRepo) Save(ctx context.Context, profile *model.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[profile.UserID] = profile.Clone()
	return nil
}
