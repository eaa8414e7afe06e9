package objfun

import (
	"github.com/susannvorberg/ccmgo/msa"
	"github.com/susannvorberg/ccmgo/potts"
	"github.com/susannvorberg/ccmgo/regularize"
)

// TripletPLL is the triplet-restricted pseudo-likelihood: identical to PLL
// except that only column pairs named in ActivePairs contribute (and are
// fitted); couplings for every other pair are held at zero throughout.
// This is a supplemented feature: spec.md names "triplet-pll" as a CLI
// objective but original_source/ only retrieved the report writer (package
// triplets), not the objective itself, so the restriction mechanism here
// (a pair mask applied to an otherwise ordinary PLL) is a reconstruction
// of the documented intent -- fit couplings only for a pre-selected,
// small set of column triples -- rather than a transcription.
type TripletPLL struct {
	MSA         *msa.MSA
	Weights     []float64
	Reg         regularize.L2
	Packing     potts.PLLPacking
	ActivePairs map[[2]int]bool
}

// NewTripletPLL builds a TripletPLL objective active on exactly the column
// pairs in activePairs (each pair must be listed in both orders, (i,j) and
// (j,i), since couplings are addressed by ordered pair).
func NewTripletPLL(m *msa.MSA, weights []float64, reg regularize.L2, activePairs map[[2]int]bool) *TripletPLL {
	return &TripletPLL{
		MSA:         m,
		Weights:     weights,
		Reg:         reg,
		Packing:     potts.NewPLLPacking(m.Ncol),
		ActivePairs: activePairs,
	}
}

// ActivePairsFromTriples builds the ActivePairs set implied by a list of
// (i,j,k) column triples: every one of a triple's three constituent pairs,
// in both orders.
func ActivePairsFromTriples(triples [][3]int) map[[2]int]bool {
	active := make(map[[2]int]bool)
	for _, t := range triples {
		i, j, k := t[0], t[1], t[2]
		for _, pair := range [][2]int{{i, j}, {j, i}, {i, k}, {k, i}, {j, k}, {k, j}} {
			active[pair] = true
		}
	}
	return active
}

// NVar returns the flat-vector length this objective expects.
func (t *TripletPLL) NVar() int { return t.Packing.NVar() }

// Finalize unpacks x into a Params.
func (t *TripletPLL) Finalize(x []float64) potts.Params {
	v, w := t.Packing.Unpack(x)
	return potts.Params{Ncol: t.MSA.Ncol, Single: v, Pair: w}
}

// Evaluate computes the penalized negative pseudo-log-likelihood and its
// gradient at x, using only couplings between active column pairs.
func (t *TripletPLL) Evaluate(x []float64) (float64, []float64, error) {
	ncol := t.MSA.Ncol
	v, w := t.Packing.Unpack(x)
	gv := potts.NewSingle(ncol)
	gw := potts.NewPair(ncol)

	var fx float64
	for s, seq := range t.MSA.Data {
		ws := t.Weights[s]
		for i := 0; i < ncol; i++ {
			var logits [21]float64
			for a := 0; a < 20; a++ {
				logits[a] = v.At(i, a)
			}
			for j := 0; j < ncol; j++ {
				if j == i || !t.ActivePairs[[2]int{i, j}] {
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
				if j == i || !t.ActivePairs[[2]int{i, j}] {
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
	fx += t.Reg.Evaluate(v, w, ncol, gv, gw)
	zeroGapGradients(gw, ncol)

	// force every inactive pair's coupling gradient to zero,
	// so an optimizer never drifts a non-selected pair away from 0.
	for i := 0; i < ncol; i++ {
		for j := 0; j < ncol; j++ {
			if i == j || t.ActivePairs[[2]int{i, j}] {
				continue
			}
			for a := 0; a < 21; a++ {
				for b := 0; b < 21; b++ {
					gw.Set(i, j, a, b, ncol, 0)
				}
			}
		}
	}

	return fx, t.Packing.Pack(gv, gw), nil
}
