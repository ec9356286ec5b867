package sim

import (
	"hash/fnv"
	"math/rand"
)

// DefaultSeed is used when no seed is configured.
const DefaultSeed = "zephyrax"

// DeterministicSeedValue derives a stable seed for one RNG stream from the
// root seed and a label.
func DeterministicSeedValue(rootSeed, label string) int64 {
	hasher := fnv.New64a()
	hasher.Write([]byte(rootSeed))
	hasher.Write([]byte{0})
	hasher.Write([]byte(label))
	sum := hasher.Sum64()
	if sum == 0 {
		sum = 1
	}
	return int64(sum)
}

// NewDeterministicRNG returns an RNG seeded from rootSeed and label.
func NewDeterministicRNG(rootSeed, label string) *rand.Rand {
	if rootSeed == "" {
		rootSeed = DefaultSeed
	}
	return rand.New(rand.NewSource(DeterministicSeedValue(rootSeed, label)))
}
