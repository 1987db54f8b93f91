package generic

import (
	"math/rand"
	"time"
)

// =============================================================================
// RANDOM SOURCE - Injectable randomness
// =============================================================================

// Source supplies the randomness used by the synthesizer: uniform draws for
// jitter factors and permutations for category ordering. *rand.Rand
// satisfies it; tests substitute fixed sequences so the arithmetic can be
// asserted exactly.
type Source interface {
	Float64() float64
	Shuffle(n int, swap func(i, j int))
}

// NewSource returns a time-seeded production source. Runs are intentionally
// non-reproducible: the output should look organic, not repeat.
func NewSource() Source {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Jitter draws a multiplicative factor 1 + U(-1,1)*spread from the source.
func Jitter(src Source, spread float64) float64 {
	return 1 + (src.Float64()*2-1)*spread
}
