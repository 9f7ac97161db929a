package commands

import (
	"math/rand/v2"
	"sync"
)

// intner draws dice rolls. Handlers run concurrently, so implementations
// must be safe for concurrent use.
type intner interface {
	IntN(n int) int
}

// globalRand uses the package-level source.
type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// lockedRand serializes access to a seeded *rand.Rand.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}

func newIntner(r *rand.Rand) intner {
	if r == nil {
		return globalRand{}
	}
	return &lockedRand{r: r}
}
