package msa

import "math"

// Centering derives the per-column centering vector c_v[i][a] used by
// package regularize: the mean-subtracted log single-site frequency,
//
//	c_v[i][a] = log(f1[i][a]) - mean_b log(f1[i][b])
//
// over the 20 amino acid states. This is also the natural v-initialization
// point (a zero-coupling model reproducing the observed single-site
// marginals exactly has v[i][a] == c_v[i][a]), so objfun packages that
// support "init from single-site frequencies" read this same vector.
func Centering(f1 [][]float64) [][20]float64 {
	L := len(f1)
	c := make([][20]float64, L)
	const floor = 1e-10
	for i := 0; i < L; i++ {
		var logSum float64
		var logs [20]float64
		for a := 0; a < 20; a++ {
			f := f1[i][a]
			if f < floor {
				f = floor
			}
			logs[a] = math.Log(f)
			logSum += logs[a]
		}
		mean := logSum / 20.0
		for a := 0; a < 20; a++ {
			c[i][a] = logs[a] - mean
		}
	}
	return c
}
