/*
Package counts converts the weighted, pseudocounted frequencies produced by
package msa into the pseudocount-weighted count arrays c1/c2 that every
objfun variant evaluates its likelihood and gradient against. The only
transformation performed here is Neff-scaling and gap zeroing; all
smoothing already happened in package msa.
*/
package counts

// Counts holds the weighted count arrays consumed by package objfun.
// C1 has shape [Ncol][21], C2 has shape [Ncol][Ncol][21][21]. The gap
// entries are zeroed on both: c1[:,20] == 0 and c2[:,:,:,20] == c2[:,:,20,:]
// == 0. This mirrors the model invariant that the gap state carries no
// single or pairwise potential contribution; it must not be inferred
// in proportion to a generally sparse and alignment-tool-dependent
// gap frequency.
type Counts struct {
	Ncol int
	Neff float64
	C1   [][]float64
	C2   [][][][]float64
}

// FromMSAData computes raw weighted counts directly from encoded alignment
// rows (no pseudocounts, no normalization by Neff), then zeroes every
// gap-state entry. Used by objfun.CD to count both the real input
// alignment and its Gibbs-sampled counterpart on the same footing: CD's
// gradient is sample counts minus real counts, and mixing in pseudocounts
// on one side but not the other would bias it.
func FromMSAData(data [][]uint8, weights []float64, ncol int) Counts {
	c1 := make([][]float64, ncol)
	for i := range c1 {
		c1[i] = make([]float64, 21)
	}
	c2 := make([][][][]float64, ncol)
	for i := range c2 {
		c2[i] = make([][][]float64, ncol)
		for j := range c2[i] {
			c2[i][j] = make([][]float64, 21)
			for a := range c2[i][j] {
				c2[i][j][a] = make([]float64, 21)
			}
		}
	}

	var neff float64
	for s, row := range data {
		ws := weights[s]
		neff += ws
		for i := 0; i < ncol; i++ {
			c1[i][row[i]] += ws
		}
		for i := 0; i < ncol; i++ {
			for j := 0; j < ncol; j++ {
				c2[i][j][row[i]][row[j]] += ws
			}
		}
	}

	for i := 0; i < ncol; i++ {
		c1[i][20] = 0
		for j := 0; j < ncol; j++ {
			for a := 0; a < 21; a++ {
				c2[i][j][a][20] = 0
				c2[i][j][20][a] = 0
			}
		}
	}

	return Counts{Ncol: ncol, Neff: neff, C1: c1, C2: c2}
}

// FromFrequencies scales f1/f2 (as produced by msa.Frequencies) by neff and
// zeroes every gap-state entry.
func FromFrequencies(f1 [][]float64, f2 [][][][]float64, neff float64) Counts {
	L := len(f1)
	c1 := make([][]float64, L)
	for i := 0; i < L; i++ {
		c1[i] = make([]float64, 21)
		for a := 0; a < 20; a++ {
			c1[i][a] = f1[i][a] * neff
		}
		c1[i][20] = 0
	}

	c2 := make([][][][]float64, L)
	for i := 0; i < L; i++ {
		c2[i] = make([][][]float64, L)
		for j := 0; j < L; j++ {
			c2[i][j] = make([][]float64, 21)
			for a := 0; a < 21; a++ {
				c2[i][j][a] = make([]float64, 21)
			}
			for a := 0; a < 20; a++ {
				for b := 0; b < 20; b++ {
					c2[i][j][a][b] = f2[i][j][a][b] * neff
				}
			}
		}
	}

	return Counts{Ncol: L, Neff: neff, C1: c1, C2: c2}
}
