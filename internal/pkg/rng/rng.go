// Package rng provides the random source threaded through every stochastic
// game operation, so that customer sampling, offer draws and quest picks can
// be replayed in tests.
package rng

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

// Source yields uniformly distributed floats in [0, 1).
type Source interface {
	Next() float64
}

// mathSource adapts math/rand to Source. math/rand.Rand is not safe for
// concurrent use, so draws are serialised.
type mathSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewSeeded returns a deterministic Source for the given seed.
func NewSeeded(seed int64) Source {
	return &mathSource{r: rand.New(rand.NewSource(seed))}
}

// New returns a Source seeded from the wall clock.
func New() Source {
	return NewSeeded(time.Now().UnixNano())
}

// Next returns the next float in [0, 1).
func (s *mathSource) Next() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

// Sequence replays a fixed list of draws, cycling when exhausted.
// An empty Sequence always returns 0.
type Sequence struct {
	values []float64
	pos    int
}

// NewSequence creates a Sequence over the given draws.
// Values outside [0, 1) are clamped into range.
func NewSequence(values ...float64) *Sequence {
	clamped := make([]float64, len(values))
	for i, v := range values {
		clamped[i] = clampUnit(v)
	}
	return &Sequence{values: clamped}
}

// Next returns the next value of the sequence.
func (s *Sequence) Next() float64 {
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.pos%len(s.values)]
	s.pos++
	return v
}

// Draws returns how many values have been consumed so far.
func (s *Sequence) Draws() int {
	return s.pos
}

// IntRange returns an integer in [min, max] inclusive.
func IntRange(src Source, min, max int) int {
	if max <= min {
		return min
	}
	n := min + int(math.Floor(src.Next()*float64(max-min+1)))
	if n > max {
		n = max
	}
	return n
}

// Index returns an index in [0, n). n must be positive.
func Index(src Source, n int) int {
	if n <= 1 {
		return 0
	}
	return IntRange(src, 0, n-1)
}

// Pick returns a uniformly chosen element of items. items must be non-empty.
func Pick[T any](src Source, items []T) T {
	return items[Index(src, len(items))]
}

// Chance reports whether a draw falls below p.
func Chance(src Source, p float64) bool {
	return src.Next() < p
}

// Between returns a float in [lo, hi).
func Between(src Source, lo, hi float64) float64 {
	return lo + src.Next()*(hi-lo)
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v >= 1 {
		return math.Nextafter(1, 0)
	}
	return v
}
