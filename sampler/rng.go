/*
Package sampler implements Gibbs sampling over the 21-state Potts model:
full-sweep and single-position resampling for CD/PCD, and tree-guided
mutation for TreeCD.
*/
package sampler

import (
	"math"
	"math/rand"
)

// RNG wraps a *rand.Rand so every sampler call is reproducible from an
// explicit seed rather than depending on package-level math/rand state,
// which would make two objective evaluations in the same process
// interfere with each other's randomness.
type RNG struct {
	r *rand.Rand
}

// New returns an RNG seeded with seed.
func New(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewSource(seed))}
}

// Float64 returns a pseudo-random number in [0,1).
func (s *RNG) Float64() float64 {
	return s.r.Float64()
}

// Intn returns a pseudo-random number in [0,n).
func (s *RNG) Intn(n int) int {
	return s.r.Intn(n)
}

// Gumbel draws a sample from the standard Gumbel distribution, used by
// CategoricalFromLogits for the Gumbel-max sampling trick.
func (s *RNG) Gumbel() float64 {
	u := s.r.Float64()
	// guard against log(0): Float64 returns [0,1), so u can be exactly 0.
	for u == 0 {
		u = s.r.Float64()
	}
	return -math.Log(-math.Log(u))
}
