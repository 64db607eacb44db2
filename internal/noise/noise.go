// Package noise corrupts binary patterns by flipping a fixed fraction of
// their units at uniformly random, distinct positions.
package noise

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/nvandessel/hopfield/internal/pattern"
)

// FlipCount returns floor(fraction * n), the number of units Flip inverts.
func FlipCount(n int, fraction float64) (int, error) {
	if math.IsNaN(fraction) || fraction < 0 || fraction > 1 {
		return 0, fmt.Errorf("fraction %v: %w", fraction, pattern.ErrInvalidNoiseFraction)
	}
	return int(math.Floor(fraction * float64(n))), nil
}

// Flip returns a copy of p with exactly floor(fraction * len(p)) distinct
// positions inverted. Positions are drawn without replacement from rng; a
// nil rng falls back to a time-seeded source. p is never mutated.
func Flip(p pattern.Pattern, fraction float64, rng *rand.Rand) (pattern.Pattern, error) {
	k, err := FlipCount(len(p), fraction)
	if err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	out := p.Clone()
	for _, idx := range Positions(len(p), k, rng) {
		out[idx] = out[idx].Flip()
	}
	return out, nil
}

// Positions draws k distinct indices from [0, n) using a partial
// Fisher-Yates shuffle. k must not exceed n.
func Positions(n, k int, rng *rand.Rand) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	for i := 0; i < k; i++ {
		j := i + rng.Intn(n-i)
		idx[i], idx[j] = idx[j], idx[i]
	}
	return idx[:k]
}
