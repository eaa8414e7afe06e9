package triplets

import "sort"

// Pair is an unordered column pair with its Frobenius coupling score,
// as produced by package score.
type Pair struct {
	I, J  int
	Score float64
}

// PickTriples selects the nTriplets highest-scoring pairs from pairs, then
// extends each to a triple by choosing the column (other than i and j)
// whose single-column score (columnScore, typically the sum of Frobenius
// scores to every other column) is largest, as a proxy for "most
// informative third column." Reconstructed picking strategy: see the
// package doc comment.
func PickTriples(pairs []Pair, columnScore []float64, nTriplets int) [][3]int {
	sorted := append([]Pair(nil), pairs...)
	sort.Slice(sorted, func(a, b int) bool { return sorted[a].Score > sorted[b].Score })

	if nTriplets > len(sorted) {
		nTriplets = len(sorted)
	}

	out := make([][3]int, 0, nTriplets)
	for _, p := range sorted[:nTriplets] {
		k := bestThirdColumn(p.I, p.J, columnScore)
		if k < 0 {
			continue
		}
		out = append(out, [3]int{p.I, p.J, k})
	}
	return out
}

func bestThirdColumn(i, j int, columnScore []float64) int {
	best, bestScore := -1, 0.0
	for k, s := range columnScore {
		if k == i || k == j {
			continue
		}
		if best == -1 || s > bestScore {
			best, bestScore = k, s
		}
	}
	return best
}
