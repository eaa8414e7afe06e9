package msa

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// WeightsUniform returns a weight of 1 for every sequence (no redundancy
// reduction).
func WeightsUniform(m *MSA) []float64 {
	w := make([]float64, m.Nrow)
	for i := range w {
		w[i] = 1
	}
	return w
}

// WeightsSimple returns the standard redundancy-reduction weighting: the
// weight of sequence s is 1/|{t : identity(s,t) >= threshold}|, where
// identity is fractional pairwise identity computed over the columns where
// at least one of the two sequences is non-gap (a gap-gap pair never counts
// for or against identity). threshold is typically 0.8.
//
// The all-pairs identity matrix is computed row-parallel with an errgroup,
// since it is the O(Nrow^2 * Ncol) dominant cost for large alignments.
func WeightsSimple(ctx context.Context, m *MSA, threshold float64) ([]float64, error) {
	n := m.Nrow
	neighborCounts := make([]int, n)

	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	rowsPerWorker := (n + workers - 1) / workers
	for start := 0; start < n; start += rowsPerWorker {
		start := start
		end := start + rowsPerWorker
		if end > n {
			end = n
		}
		g.Go(func() error {
			for s := start; s < end; s++ {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				count := 0
				for t := 0; t < n; t++ {
					if fractionalIdentity(m.Data[s], m.Data[t]) >= threshold {
						count++
					}
				}
				neighborCounts[s] = count
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	weights := make([]float64, n)
	for s := 0; s < n; s++ {
		weights[s] = 1.0 / float64(neighborCounts[s])
	}
	return weights, nil
}

// fractionalIdentity returns the fraction of columns where a and b agree,
// out of the columns where at least one of a, b is non-gap. Two all-gap
// sequences compared over zero such columns are defined as identical.
func fractionalIdentity(a, b []uint8) float64 {
	matches, compared := 0, 0
	for i := range a {
		if a[i] == 20 && b[i] == 20 {
			continue
		}
		compared++
		if a[i] == b[i] {
			matches++
		}
	}
	if compared == 0 {
		return 1
	}
	return float64(matches) / float64(compared)
}

// Neff returns the effective sequence count, the sum of per-sequence
// weights.
func Neff(weights []float64) float64 {
	var total float64
	for _, w := range weights {
		total += w
	}
	return total
}
