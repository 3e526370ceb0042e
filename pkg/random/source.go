// Package random isolates every non-deterministic choice behind a seedable source.
package random

import (
	"math/rand"
	"sync"
	"time"
)

// Source is the randomness the placeholder logic draws from
type Source interface {
	// Float64 returns a value in [0, 1)
	Float64() float64
	// Intn returns a value in [0, n); n must be positive
	Intn(n int) int
}

// Locked is a Source safe for concurrent use
type Locked struct {
	mu sync.Mutex
	r  *rand.Rand
}

// New returns a Source seeded with seed, or with the clock when seed is 0
func New(seed int64) *Locked {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Locked{r: rand.New(rand.NewSource(seed))}
}

func (l *Locked) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

func (l *Locked) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

// Pick returns a uniformly chosen element of items
func Pick[T any](src Source, items []T) (T, bool) {
	var zero T
	if len(items) == 0 {
		return zero, false
	}
	return items[src.Intn(len(items))], true
}

// Fixed always returns the same values; useful in tests
type Fixed struct {
	F float64
	I int
}

func (f Fixed) Float64() float64 { return f.F }

func (f Fixed) Intn(n int) int {
	if f.I >= n {
		return n - 1
	}
	return f.I
}
