package weather

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"time"
)

// RandomSource supplies the integer draws behind region rolls and thunder.
type RandomSource interface {
	// IntN returns a value in [0,n).
	IntN(n int) int
}

// NewSeededSource returns a reproducible source for a given seed.
func NewSeededSource(seed int64) RandomSource {
	// Non-cryptographic PRNG is intentional for deterministic simulation behavior.
	// #nosec G404
	return rand.New(rand.NewPCG(seedWord(seed, "region"), seedWord(seed, "thunder")))
}

// NewSource returns a source seeded from the wall clock.
func NewSource() RandomSource {
	return NewSeededSource(time.Now().UnixNano())
}

func seedWord(seed int64, salt string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(fmt.Sprintf("%d:%s", seed, salt)))
	return h.Sum64()
}

func rollDice(src RandomSource, n int) int {
	if n <= 0 {
		return 0
	}
	return src.IntN(n)
}

// rollPercent draws uniformly from 1..100.
func rollPercent(src RandomSource) int {
	return rollDice(src, 100) + 1
}
