package objfun

import (
	"github.com/susannvorberg/ccmgo/counts"
	"github.com/susannvorberg/ccmgo/phylo"
	"github.com/susannvorberg/ccmgo/potts"
	"github.com/susannvorberg/ccmgo/regularize"
	"github.com/susannvorberg/ccmgo/sampler"
)

// TreeCD is the tree-guided contrastive divergence objective: rather than
// Gibbs-sampling the real alignment's rows directly, it mutates a single
// common-ancestor sequence down a (rerooted) phylogeny and uses the
// resulting leaf sequences as the synthetic alignment. Its gradient has
// the same "sample counts minus real counts" shape as CD.
type TreeCD struct {
	Ncol         int
	Counts       counts.Counts
	Reg          regularize.L2
	Packing      potts.CDPacking
	RNG          *sampler.RNG
	Tree         *phylo.Tree // already rerooted so ID0 clades are direct children of the root
	Seq0         []uint8
	MutationRate float64
	Weights      []float64 // one weight per leaf, in sampler.MutateAlongTree's breadth-first leaf order
}

// NewTreeCD builds a TreeCD objective. tree must already be rerooted (see
// phylo.Tree.Reroot) so its root's children are the alignment's original
// top-level clades.
func NewTreeCD(ncol int, c counts.Counts, reg regularize.L2, rng *sampler.RNG,
	tree *phylo.Tree, seq0 []uint8, mutationRate float64, weights []float64) *TreeCD {
	return &TreeCD{
		Ncol:         ncol,
		Counts:       c,
		Reg:          reg,
		Packing:      potts.NewCDPacking(ncol),
		RNG:          rng,
		Tree:         tree,
		Seq0:         seq0,
		MutationRate: mutationRate,
		Weights:      weights,
	}
}

// NVar returns the flat-vector length this objective expects.
func (t *TreeCD) NVar() int { return t.Packing.NVar() }

// Finalize unpacks x into a Params.
func (t *TreeCD) Finalize(x []float64) potts.Params {
	v, w := t.Packing.Unpack(x)
	return potts.Params{Ncol: t.Ncol, Single: v, Pair: w}
}

// Evaluate mutates Seq0 down Tree under x, collects the leaf sequences,
// and returns (leaf counts - real counts) plus the regularizer's gradient.
// fx is always -1, for the same reason as CD.
func (t *TreeCD) Evaluate(x []float64) (float64, []float64, error) {
	ncol := t.Ncol
	v, w := t.Packing.Unpack(x)

	leaves, err := sampler.MutateAlongTree(t.RNG, v, w, ncol, t.Tree, t.Seq0, t.MutationRate)
	if err != nil {
		return 0, nil, err
	}

	weights := t.Weights
	if len(weights) != len(leaves) {
		weights = make([]float64, len(leaves))
		for i := range weights {
			weights[i] = 1
		}
	}
	sampleCounts := counts.FromMSAData(leaves, weights, ncol)

	gv := potts.NewSingle(ncol)
	gw := potts.NewPair(ncol)
	for i := 0; i < ncol; i++ {
		for a := 0; a < 20; a++ {
			gv[i*20+a] = sampleCounts.C1[i][a] - t.Counts.C1[i][a]
		}
	}
	for i := 0; i < ncol; i++ {
		for j := 0; j < ncol; j++ {
			for a := 0; a < 21; a++ {
				for b := 0; b < 21; b++ {
					d := sampleCounts.C2[i][j][a][b] - t.Counts.C2[i][j][a][b]
					gw.Set(i, j, a, b, ncol, d)
				}
			}
		}
	}

	t.Reg.Evaluate(v, w, ncol, gv, gw)

	zeroGapGradients(gw, ncol)
	for i := 0; i < ncol; i++ {
		for a := 0; a < 21; a++ {
			for b := 0; b < 21; b++ {
				gw.Set(i, i, a, b, ncol, 0)
			}
		}
	}

	return -1, t.Packing.Pack(gv, gw), nil
}
