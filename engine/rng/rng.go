// Package rng provides the single seedable random source a run draws from.
// Every draw is counted so the exact source state can be saved and restored.
package rng

import (
	"math/rand"

	"github.com/google/uuid"
)

// countingSource wraps a rand.Source and counts Int63 calls. It deliberately
// does not implement rand.Source64, so every value rand.Rand produces is
// derived from Int63 and the count is an exact replay position.
type countingSource struct {
	src rand.Source
	n   int64
}

func (c *countingSource) Int63() int64 {
	c.n++
	return c.src.Int63()
}

func (c *countingSource) Seed(seed int64) {
	c.src.Seed(seed)
	c.n = 0
}

// RNG wraps math/rand.Rand with deterministic position tracking.
// Position advances with every value drawn from the source, enabling save/restore.
type RNG struct {
	seed int64
	cs   *countingSource
	src  *rand.Rand
}

// New creates a new deterministic RNG from a seed.
func New(seed int64) *RNG {
	cs := &countingSource{src: rand.NewSource(seed)}
	return &RNG{
		seed: seed,
		cs:   cs,
		src:  rand.New(cs),
	}
}

// Restore creates an RNG and advances it to the given position.
// This reproduces the exact RNG state for save/load.
func Restore(seed int64, position int64) *RNG {
	r := New(seed)
	for i := int64(0); i < position; i++ {
		r.cs.Int63()
	}
	return r
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Position returns the number of source values consumed since creation.
func (r *RNG) Position() int64 {
	return r.cs.n
}

// Intn returns a random integer in [0, n). n must be positive.
func (r *RNG) Intn(n int) int {
	return r.src.Intn(n)
}

// Range returns a random integer in [lo, hi].
func (r *RNG) Range(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.src.Intn(hi-lo+1)
}

// Float64 returns a random float in [0.0, 1.0).
func (r *RNG) Float64() float64 {
	return r.src.Float64()
}

// Chance reports whether a roll in [0,1) lands under p.
func (r *RNG) Chance(p float64) bool {
	return r.src.Float64() < p
}

// WeightedSelect returns an index chosen by weighted random selection.
// weights must be non-empty with all positive values.
func (r *RNG) WeightedSelect(weights []int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	roll := r.src.Intn(total)
	cumulative := 0
	for i, w := range weights {
		cumulative += w
		if roll < cumulative {
			return i
		}
	}
	return len(weights) - 1
}

// Read fills p with random bytes from the seeded source. It never fails.
func (r *RNG) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r.src.Int63() >> 7)
	}
	return len(p), nil
}

// NewID returns a version 4 UUID drawn from the seeded source, so ids are
// reproducible for a given seed and position.
func (r *RNG) NewID() string {
	id, err := uuid.NewRandomFromReader(r)
	if err != nil {
		// Read never fails; keep the zero UUID rather than panic.
		return uuid.Nil.String()
	}
	return id.String()
}

// Shuffle permutes s in place using the seeded source.
func Shuffle[T any](r *RNG, s []T) {
	r.src.Shuffle(len(s), func(i, j int) {
		s[i], s[j] = s[j], s[i]
	})
}

// Pick returns a uniformly chosen element of s. s must be non-empty.
func Pick[T any](r *RNG, s []T) T {
	return s[r.src.Intn(len(s))]
}
