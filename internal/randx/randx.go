// Package randx provides a seedable random source that is safe to share
// between request goroutines.
package randx

import (
	"math/rand"
	"sync"
	"time"
)

// Source picks uniformly in [0, n).
type Source interface {
	Intn(n int) int
}

type lockedSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

// New returns a Source seeded with seed. Equal seeds give equal sequences.
func New(seed int64) Source {
	return &lockedSource{r: rand.New(rand.NewSource(seed))}
}

// NewFromTime returns a Source seeded from the wall clock.
func NewFromTime() Source {
	return New(time.Now().UnixNano())
}

func (s *lockedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Intn(n)
}

// Pick returns a random element of items. It panics on an empty slice.
func Pick[T any](src Source, items []T) T {
	return items[src.Intn(len(items))]
}

// Sample returns up to n distinct elements of items in random order. items
// is not modified.
func Sample[T any](src Source, items []T, n int) []T {
	pool := append([]T(nil), items...)
	if n > len(pool) {
		n = len(pool)
	}
	if n < 0 {
		n = 0
	}
	for i := 0; i < n; i++ {
		j := i + src.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n]
}

// Fixed always returns the same index, clamped to n-1. Useful in tests.
type Fixed int

func (f Fixed) Intn(n int) int {
	if int(f) >= n {
		return n - 1
	}
	return int(f)
}
