// Package rng provides the seedable random stream used by map generation.
package rng

import (
	"fmt"
	"math/rand/v2"
)

// RNG wraps a PCG source so its state can be captured and restored.
type RNG struct {
	src *rand.PCG
	r   *rand.Rand
}

// New creates a deterministic RNG using the provided seed.
func New(seed uint64) *RNG {
	src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	return &RNG{src: src, r: rand.New(src)}
}

// Intn returns a uniform int in [0, n). It returns 0 when n <= 0.
func (r *RNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return r.r.IntN(n)
}

// Uint64 returns a uniform 64-bit value.
func (r *RNG) Uint64() uint64 {
	return r.r.Uint64()
}

// Reseed resets the stream as if freshly created with seed.
func (r *RNG) Reseed(seed uint64) {
	r.src.Seed(seed, seed^0x9e3779b97f4a7c15)
}

// State captures the current position in the stream.
func (r *RNG) State() State {
	b, err := r.src.MarshalBinary()
	if err != nil {
		panic(fmt.Sprintf("rng: marshal state: %v", err))
	}
	return State(b)
}

// Restore rewinds the stream to a captured state.
func (r *RNG) Restore(s State) error {
	if err := r.src.UnmarshalBinary(s); err != nil {
		return fmt.Errorf("restore rng state: %w", err)
	}
	return nil
}

// State is an opaque snapshot of an RNG.
type State []byte
