package puzzle

import (
	"math/rand"
	"sync"
	"time"
)

// lockedRand serializes access to a rand.Rand. The candidate generator
// runs pool slots concurrently and often maps several slots to the same
// provider, so a provider's RNG must survive concurrent Generate calls.
type lockedRand struct {
	mu  sync.Mutex
	src *rand.Rand
}

func newLockedRand() *lockedRand {
	return &lockedRand{src: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (r *lockedRand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.Intn(n)
}

func (r *lockedRand) Perm(n int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.Perm(n)
}

func (r *lockedRand) Shuffle(n int, swap func(i, j int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.src.Shuffle(n, swap)
}
