package triplets

import (
	"bufio"
	"fmt"
	"io"
	"sort"
)

// Write reports every triplet potential, sorted by descending score, one
// per line as "i\tj\tk\ta\tb\tc\tscore" with score in %.8e, preceded by a
// "# <count>" header line. Mirrors write_triplets.
func Write(w io.Writer, ts []Triplet) error {
	sorted := append([]Triplet(nil), ts...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })

	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "# %d\n", len(sorted)); err != nil {
		return err
	}
	for _, t := range sorted {
		c := t.Coords()
		if _, err := fmt.Fprintf(bw, "%d\t%d\t%d\t%d\t%d\t%d\t%.8e\n", c[0], c[1], c[2], c[3], c[4], c[5], t.Score); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteSum reports, for every distinct (i,j,k) triple, the sum of its
// per-state scores (squared first when squared is true), sorted by
// descending sum. Mirrors write_sum_triplets.
func WriteSum(w io.Writer, ts []Triplet, squared bool) error {
	type key struct{ i, j, k int }
	sums := make(map[key]float64)
	order := make([]key, 0)
	for _, t := range ts {
		k := key{t.I, t.J, t.K}
		if _, ok := sums[k]; !ok {
			order = append(order, k)
		}
		score := t.Score
		if squared {
			score *= score
		}
		sums[k] += score
	}

	sort.Slice(order, func(a, b int) bool { return sums[order[a]] > sums[order[b]] })

	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "# %d\n", len(order)); err != nil {
		return err
	}
	for _, k := range order {
		if _, err := fmt.Fprintf(bw, "%d\t%d\t%d\t%.8e\n", k.i, k.j, k.k, sums[k]); err != nil {
			return err
		}
	}
	return bw.Flush()
}
