package command

import (
	"math/rand/v2"
	"sync"
)

// SafeRand guards a *rand.Rand for use from the many reader goroutines
// that call into the dispatcher concurrently (one per connection). The
// tick loop owns its own unguarded source since it is single-threaded;
// this wrapper exists only for command handlers like flee that need a
// roll outside the tick.
type SafeRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSafeRand wraps rng for concurrent use.
func NewSafeRand(rng *rand.Rand) *SafeRand {
	return &SafeRand{rng: rng}
}

// Use runs fn with exclusive access to the underlying source.
func (s *SafeRand) Use(fn func(rng *rand.Rand)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.rng)
}
