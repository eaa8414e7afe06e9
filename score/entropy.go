package score

import "math"

// EntropyMode selects how the per-column, per-state weight u[i,a] driving
// the entropy correction is built.
type EntropyMode int

const (
	// Variance builds u[i,a] = N * f1[i,a] * (1 - f1[i,a]), N = sqrt(Neff)/lambda_w.
	Variance EntropyMode = iota
	// Entropy builds u[i,a] = f1[i,a] * log2(f1[i,a]).
	Entropy
)

// ScaleMode selects how the least-squares scaling factor eta, and the
// matrices it relates, are accumulated: element-wise squared, or
// element-wise linear (square-root summed).
type ScaleMode int

const (
	// Squared fits eta against sum-of-squares matrices (M = Frobenius^2,
	// U = sum of the outer-product entries).
	Squared ScaleMode = iota
	// Linear fits eta against sqrt-summed matrices (M = Frobenius itself,
	// U = sqrt of the outer-product sum).
	Linear
)

// columnWeights builds u[i,a] for a = 0..nrStates-1 (nrStates is 20 or 21)
// per EntropyMode.
func columnWeights(f1 [][]float64, ncol, nrStates int, neff, lambdaW float64, mode EntropyMode) [][]float64 {
	u := make([][]float64, ncol)
	n := math.Sqrt(neff) / lambdaW
	for i := 0; i < ncol; i++ {
		u[i] = make([]float64, nrStates)
		for a := 0; a < nrStates; a++ {
			f := f1[i][a]
			switch mode {
			case Variance:
				u[i][a] = n * f * (1 - f)
			case Entropy:
				if f <= 0 {
					u[i][a] = 0
					continue
				}
				u[i][a] = f * math.Log2(f)
			}
		}
	}
	return u
}

// pairOuterSquaredSum returns sum_{a,b} (u[i][a]*u[j][b])^2 for one (i,j)
// pair, the per-entry term the Squared fit's denominator accumulates over
// every (i,j,a,b), per compute_scaling_factor's `denominator = sum(uij *
// uij)` (a flat sum over the whole 4-index array, not a per-pair sum
// squared again).
func pairOuterSquaredSum(u []float64, uj []float64) float64 {
	var sum float64
	for _, ua := range u {
		for _, ub := range uj {
			o := ua * ub
			sum += o * o
		}
	}
	return sum
}

// pairOuterSum returns sum_{a,b} u[i][a]*u[j][b] for one (i,j) pair --
// compute_scaling_factor's `squared_sum_entropy`, the plain (unsquared)
// sum used both as the numerator's entropy factor and, scaled by eta, as
// the correction term subtracted from the Frobenius score. Despite the
// "Squared" mode name, this per-pair quantity is never itself squared;
// only the couplings side (m[i][j]) and the denominator are.
func pairOuterSum(u []float64, uj []float64) float64 {
	var sum float64
	for _, ua := range u {
		for _, ub := range uj {
			sum += ua * ub
		}
	}
	return sum
}

// EntropyCorrection computes the local entropy/variance correction and
// fits its least-squares scaling eta against the Frobenius matrix frob
// (S[i,j] = sqrt(sum w[i,j,a,b]^2)), then returns the corrected score
// S_corr[i,j] = M[i,j] - eta*U[i,j] together with eta itself. The fit
// sums run over the full LxL matrix including the diagonal (the diagonal
// contributes 0 to M since w[i,i] is always 0), matching
// compute_scaling_factor/compute_local_correction; only the returned
// corrected matrix has its diagonal forced to 0.
//
// nrStates is 20 (amino acids only) or 21 (amino acids plus gap); f1 must
// have at least nrStates columns per row.
func EntropyCorrection(frob Matrix, f1 [][]float64, ncol int, neff, lambdaW float64, mode EntropyMode, scaleMode ScaleMode, nrStates int) (corrected Matrix, eta float64) {
	u := columnWeights(f1, ncol, nrStates, neff, lambdaW, mode)

	m := NewMatrix(ncol)
	uu := NewMatrix(ncol)
	var numerator, denominator float64

	for i := 0; i < ncol; i++ {
		for j := 0; j < ncol; j++ {
			switch scaleMode {
			case Squared:
				msq := frob[i][j] * frob[i][j]
				usum := pairOuterSum(u[i], u[j])
				m[i][j] = msq
				uu[i][j] = usum
				numerator += msq * usum
				denominator += pairOuterSquaredSum(u[i], u[j])
			case Linear:
				uSum := pairOuterSum(u[i], u[j])
				uRoot := 0.0
				if uSum > 0 {
					uRoot = math.Sqrt(uSum)
				}
				m[i][j] = frob[i][j]
				uu[i][j] = uRoot
				numerator += frob[i][j] * uRoot
				denominator += uRoot * uRoot
			}
		}
	}

	if denominator != 0 {
		eta = numerator / denominator
	}

	corrected = NewMatrix(ncol)
	for i := 0; i < ncol; i++ {
		for j := 0; j < ncol; j++ {
			if i == j {
				continue
			}
			corrected[i][j] = m[i][j] - eta*uu[i][j]
		}
	}
	return corrected, eta
}
