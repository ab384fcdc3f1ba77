/*
Package random
File: random.go
Description:
    The randomness abstraction used by the simulation.
    Every roll in the game (prices, travel events, police, raids) goes
    through a Source so that a fixed Source gives a fixed game.
*/

package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// Source is the randomness provider for the simulation.
type Source interface {
	// Intn returns a random int in [0, n). n is always > 0.
	Intn(n int) int
}

// Range returns a random int in [lo, hi).
// A degenerate range (hi <= lo) returns lo without consuming a draw.
func Range(src Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + src.Intn(hi-lo)
}

// Chance rolls a percentage: true with probability percent/100.
func Chance(src Source, percent int) bool {
	return src.Intn(100) < percent
}

// Seeded wraps a math/rand generator.
type Seeded struct {
	rng *rand.Rand
}

// NewSeeded returns a Source that replays the same rolls for the same seed.
func NewSeeded(seed int64) *Seeded {
	return &Seeded{rng: rand.New(rand.NewSource(seed))}
}

func (s *Seeded) Intn(n int) int {
	return s.rng.Intn(n)
}

// NewSeed generates a seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}
