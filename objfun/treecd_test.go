package objfun_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/susannvorberg/ccmgo/counts"
	"github.com/susannvorberg/ccmgo/objfun"
	"github.com/susannvorberg/ccmgo/phylo"
	"github.com/susannvorberg/ccmgo/potts"
	"github.com/susannvorberg/ccmgo/regularize"
	"github.com/susannvorberg/ccmgo/sampler"
)

func TestTreeCDDegenerateStarTreeMatchesRepeatedAncestor(t *testing.T) {
	ncol := 3
	tree := phylo.NewStarTree(4, 0, "root") // zero branch length: no mutation at all
	seq0 := []uint8{0, 1, 2}

	leafData := make([][]uint8, 4)
	weights := make([]float64, 4)
	for i := range leafData {
		leafData[i] = append([]uint8(nil), seq0...)
		weights[i] = 1
	}
	c := counts.FromMSAData(leafData, weights, ncol)

	reg := regularize.NewL2(0.1, 0.05, ncol, nil, true)
	rng := sampler.New(5)
	tcd := objfun.NewTreeCD(ncol, c, reg, rng, tree, seq0, 20, weights)

	packing := potts.NewCDPacking(ncol)
	x := make([]float64, packing.NVar())

	fx, grad, err := tcd.Evaluate(x)
	require.NoError(t, err)
	require.Equal(t, -1.0, fx)

	// zero branch lengths => every leaf is an exact copy of seq0, whose
	// counts exactly match c, so only the (zero, since x==0) regularizer
	// gradient should survive.
	for _, g := range grad {
		require.InDelta(t, 0, g, 1e-9)
	}
}
