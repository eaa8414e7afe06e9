/*
Package regularize implements the L2 regularizer Omega(v, w) and its
gradient, shared by every objfun variant.
*/
package regularize

import "github.com/susannvorberg/ccmgo/potts"

// L2 is the standard L2 regularizer: lambda_v on single potentials
// (optionally centered on Center), lambda_w on pair potentials. LambdaPair
// is expected to already be lambda_w_base*(Ncol-1) (see NewL2); TreeCD
// halves it again per spec, which callers do by constructing with
// NewL2(..., true).
type L2 struct {
	LambdaSingle float64
	LambdaPair   float64
	// Center holds the per-column centering vector for single potentials,
	// shape [Ncol][20]; nil means center at zero.
	Center [][20]float64
}

// NewL2 builds an L2 regularizer. lambdaSingle applies directly to v;
// lambdaPairBase is scaled by (ncol-1) per spec, then halved again when
// halveForTreeCD is true, so TreeCD's pair weight is half of CD/PLL's.
func NewL2(lambdaSingle, lambdaPairBase float64, ncol int, center [][20]float64, halveForTreeCD bool) L2 {
	lambdaPair := lambdaPairBase * float64(ncol-1)
	if halveForTreeCD {
		lambdaPair /= 2
	}
	return L2{LambdaSingle: lambdaSingle, LambdaPair: lambdaPair, Center: center}
}

// Evaluate returns Omega(v, w) and accumulates its gradient into gv, gw
// (both must already be allocated to v's/w's shape; this adds to, rather
// than overwrites, their contents, so objfun variants can evaluate their
// own gradient first and then add the regularizer's contribution).
func (r L2) Evaluate(v potts.Single, w potts.Pair, ncol int, gv potts.Single, gw potts.Pair) float64 {
	var omega float64

	for i := 0; i < ncol; i++ {
		for a := 0; a < 20; a++ {
			center := 0.0
			if r.Center != nil {
				center = r.Center[i][a]
			}
			d := v.At(i, a) - center
			omega += r.LambdaSingle * d * d
			gv[i*20+a] += 2 * r.LambdaSingle * d
		}
	}

	for i := 0; i < ncol; i++ {
		for j := 0; j < ncol; j++ {
			if i == j {
				continue
			}
			for a := 0; a < 21; a++ {
				for b := 0; b < 21; b++ {
					wv := w.At(i, j, a, b, ncol)
					omega += r.LambdaPair * wv * wv
					idx := ((i*ncol+j)*21+a)*21 + b
					gw[idx] += 2 * r.LambdaPair * wv
				}
			}
		}
	}

	return omega
}
