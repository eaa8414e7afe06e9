package objfun

import (
	"github.com/susannvorberg/ccmgo/msa"
	"github.com/susannvorberg/ccmgo/potts"
	"github.com/susannvorberg/ccmgo/regularize"
)

// PLL is the pseudo-likelihood objective: for every sequence and every
// column i, it scores log P(x_i | x_{-i}) under the current model and
// accumulates the negative weighted sum (plus an L2 penalty) as fx, with
// the matching gradient.
type PLL struct {
	MSA     *msa.MSA
	Weights []float64
	Reg     regularize.L2
	Packing potts.PLLPacking
}

// NewPLL builds a PLL objective over m with per-sequence weights and
// regularizer reg.
func NewPLL(m *msa.MSA, weights []float64, reg regularize.L2) *PLL {
	return &PLL{MSA: m, Weights: weights, Reg: reg, Packing: potts.NewPLLPacking(m.Ncol)}
}

// NVar returns the flat-vector length this objective expects.
func (p *PLL) NVar() int { return p.Packing.NVar() }

// InitFromCentering returns a starting vector with single potentials set to
// center (typically msa.Centering's output) and couplings at zero,
// matching the "zero-coupling model reproduces the observed marginals"
// initialization point used when no raw-parameter file is supplied.
func (p *PLL) InitFromCentering(center [][20]float64) []float64 {
	ncol := p.MSA.Ncol
	v := potts.NewSingle(ncol)
	for i := 0; i < ncol; i++ {
		for a := 0; a < 20; a++ {
			v.Set(i, a, center[i][a])
		}
	}
	w := potts.NewPair(ncol)
	return p.Packing.Pack(v, w)
}

// Finalize unpacks x into a Params; the single potentials keep their
// ncol x 20 shape, with no gap column.
func (p *PLL) Finalize(x []float64) potts.Params {
	v, w := p.Packing.Unpack(x)
	return potts.Params{Ncol: p.MSA.Ncol, Single: v, Pair: w}
}

// Evaluate computes the penalized negative pseudo-log-likelihood and its
// gradient at x.
func (p *PLL) Evaluate(x []float64) (float64, []float64, error) {
	ncol := p.MSA.Ncol
	v, w := p.Packing.Unpack(x)
	gv := potts.NewSingle(ncol)
	gw := potts.NewPair(ncol)

	var fx float64
	for s, seq := range p.MSA.Data {
		ws := p.Weights[s]
		for i := 0; i < ncol; i++ {
			var logits [21]float64
			for a := 0; a < 20; a++ {
				logits[a] = v.At(i, a)
			}
			for j := 0; j < ncol; j++ {
				if j == i {
					continue
				}
				b := int(seq[j])
				for a := 0; a < 21; a++ {
					logits[a] += w.At(i, j, a, b, ncol)
				}
			}

			observed := seq[i]
			fx -= ws * logSoftmax21At(logits, observed)

			probs := softmax21(logits)
			for a := 0; a < 20; a++ {
				indicator := 0.0
				if uint8(a) == observed {
					indicator = 1
				}
				gv[i*20+a] -= ws * (indicator - probs[a])
			}

			for j := 0; j < ncol; j++ {
				if j == i {
					continue
				}
				b := int(seq[j])
				for a := 0; a < 21; a++ {
					indicator := 0.0
					if uint8(a) == observed {
						indicator = 1
					}
					gw.Set(i, j, a, b, ncol, gw.At(i, j, a, b, ncol)-ws*(indicator-probs[a]))
				}
			}
		}
	}

	symmetrizePairGradient(gw, ncol)
	fx += p.Reg.Evaluate(v, w, ncol, gv, gw)
	zeroGapGradients(gw, ncol)

	return fx, p.Packing.Pack(gv, gw), nil
}

// symmetrizePairGradient folds each pair's two independently accumulated
// contributions together: the outer loop over column i in Evaluate only
// ever updates gw[i,j,*,*] from column i's own conditional, never from
// column j's -- so gw[i,j,a,b] and gw[j,i,b,a] disagree until this step
// sums them and writes the same total back into both, matching the
// w[i,j,a,b] == w[j,i,b,a] invariant the packed representation requires.
func symmetrizePairGradient(gw potts.Pair, ncol int) {
	for i := 0; i < ncol; i++ {
		for j := i + 1; j < ncol; j++ {
			for a := 0; a < 21; a++ {
				for b := 0; b < 21; b++ {
					total := gw.At(i, j, a, b, ncol) + gw.At(j, i, b, a, ncol)
					gw.Set(i, j, a, b, ncol, total)
					gw.Set(j, i, b, a, ncol, total)
				}
			}
		}
	}
}

// zeroGapGradients forces the gap-state gradient entries to 0, matching
// every objective variant's convention that the gap state carries no
// potential and so must never accumulate a nonzero update.
func zeroGapGradients(gw potts.Pair, ncol int) {
	for i := 0; i < ncol; i++ {
		for j := 0; j < ncol; j++ {
			for a := 0; a < 21; a++ {
				gw.Set(i, j, a, 20, ncol, 0)
				gw.Set(i, j, 20, a, ncol, 0)
			}
		}
	}
}
