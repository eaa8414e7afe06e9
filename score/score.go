/*
Package score turns pair couplings into a contact-prediction matrix:
Frobenius norm of each column pair's amino-acid coupling block, Average
Product Correction (APC) to strip the rank-one background, and an optional
entropy/variance-based local correction fit by least squares.
*/
package score

import (
	"math"

	"github.com/susannvorberg/ccmgo/potts"
)

// Matrix is a dense L×L score matrix, row-major.
type Matrix [][]float64

// NewMatrix allocates a zeroed L×L matrix.
func NewMatrix(ncol int) Matrix {
	m := make(Matrix, ncol)
	for i := range m {
		m[i] = make([]float64, ncol)
	}
	return m
}

// Frobenius computes S[i,j] = sqrt(sum_{a,b=0..19} w[i,j,a,b]^2), the L2
// norm of the 20x20 amino-acid sub-block of each pair's coupling tensor.
// The gap state (index 20) is excluded. S[i,i] is always 0.
func Frobenius(w potts.Pair, ncol int) Matrix {
	s := NewMatrix(ncol)
	for i := 0; i < ncol; i++ {
		for j := 0; j < ncol; j++ {
			if i == j {
				continue
			}
			var sum float64
			for a := 0; a < 20; a++ {
				for b := 0; b < 20; b++ {
					v := w.At(i, j, a, b, ncol)
					sum += v * v
				}
			}
			s[i][j] = math.Sqrt(sum)
		}
	}
	return s
}

// APC applies the Average Product Correction to a symmetric score matrix:
//
//	S'[i,j] = S[i,j] - (Si· * S·j) / S··
//
// where Si·/S·j are row/column means and S·· is the grand mean, each taken
// over the full LxL matrix (diagonal included, per the spec's worked
// example).
func APC(s Matrix) Matrix {
	ncol := len(s)
	out := NewMatrix(ncol)
	if ncol == 0 {
		return out
	}

	rowMean := make([]float64, ncol)
	var grandSum float64
	for i := 0; i < ncol; i++ {
		var rowSum float64
		for j := 0; j < ncol; j++ {
			rowSum += s[i][j]
		}
		rowMean[i] = rowSum / float64(ncol)
		grandSum += rowSum
	}
	grandMean := grandSum / float64(ncol*ncol)

	colMean := make([]float64, ncol)
	for j := 0; j < ncol; j++ {
		var colSum float64
		for i := 0; i < ncol; i++ {
			colSum += s[i][j]
		}
		colMean[j] = colSum / float64(ncol)
	}

	for i := 0; i < ncol; i++ {
		for j := 0; j < ncol; j++ {
			if grandMean == 0 {
				out[i][j] = s[i][j]
				continue
			}
			out[i][j] = s[i][j] - (rowMean[i]*colMean[j])/grandMean
		}
	}
	return out
}
