package vegrand

import (
	"hash/fnv"
	"math"
	"math/rand"
)

// Source is a deterministic pseudo-random stream used for shape generation.
// The same seed always produces the same sequence, so the same species
// configuration always yields the same geometry. A Source is never shared
// between concurrent generation calls; each call owns its own instance.
type Source struct {
	rng *rand.Rand
}

// SeedFor derives a 64-bit seed from a stable hash of the species identifier
// combined with an instance-specific sub-seed.
func SeedFor(species string, subSeed uint64) int64 {
	h := fnv.New64a()
	h.Write([]byte(species))
	return int64(h.Sum64() ^ subSeed)
}

// New creates a Source from an explicit seed.
func New(seed int64) *Source {
	return &Source{rng: rand.New(rand.NewSource(seed))}
}

// NewForSpecies creates a Source seeded from the species identifier and sub-seed.
func NewForSpecies(species string, subSeed uint64) *Source {
	return New(SeedFor(species, subSeed))
}

// FloatRange returns a float32 uniformly distributed in [min, max).
// If max <= min the lower bound is returned without consuming the stream.
func (s *Source) FloatRange(min, max float32) float32 {
	if max <= min {
		return min
	}
	return min + s.rng.Float32()*(max-min)
}

// IntRange returns an int uniformly distributed in [min, max] inclusive.
func (s *Source) IntRange(min, max int) int {
	if max <= min {
		return min
	}
	return min + s.rng.Intn(max-min+1)
}

// Angle returns an angle in radians uniformly distributed in [0, 2*pi).
func (s *Source) Angle() float32 {
	return s.FloatRange(0, 2*math.Pi)
}
