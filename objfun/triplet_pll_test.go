package objfun_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/susannvorberg/ccmgo/msa"
	"github.com/susannvorberg/ccmgo/objfun"
	"github.com/susannvorberg/ccmgo/potts"
	"github.com/susannvorberg/ccmgo/regularize"
)

func TestTripletPLLZeroesInactivePairGradient(t *testing.T) {
	m := smallMSA(t)
	weights := msa.WeightsUniform(m)
	reg := regularize.NewL2(0.1, 0.1, m.Ncol, nil, false)

	// Only column pair (0,1) is active; (0,2)/(1,2) are excluded from fitting.
	tpll := objfun.NewTripletPLL(m, weights, reg, map[[2]int]bool{
		{0, 1}: true,
		{1, 0}: true,
	})

	x := make([]float64, tpll.NVar())
	for i := range x {
		x[i] = 0.01 * float64(i%7-3)
	}

	_, grad, err := tpll.Evaluate(x)
	require.NoError(t, err)

	params := tpll.Finalize(grad)
	ncol := m.Ncol
	for i := 0; i < ncol; i++ {
		for j := 0; j < ncol; j++ {
			if i == j {
				continue
			}
			active := (i == 0 && j == 1) || (i == 1 && j == 0)
			for a := 0; a < 21; a++ {
				for b := 0; b < 21; b++ {
					g := params.Pair.At(i, j, a, b, ncol)
					if !active {
						require.Equal(t, 0.0, g, "inactive pair (%d,%d,%d,%d) should have zero gradient", i, j, a, b)
					}
				}
			}
		}
	}
}

func TestTripletPLLGradientMatchesNumericalGradientOnActivePairs(t *testing.T) {
	m := smallMSA(t)
	weights := msa.WeightsUniform(m)
	reg := regularize.NewL2(0.1, 0.1, m.Ncol, nil, false)

	tpll := objfun.NewTripletPLL(m, weights, reg, map[[2]int]bool{
		{0, 1}: true,
		{1, 0}: true,
	})

	x := make([]float64, tpll.NVar())
	for i := range x {
		x[i] = 0.01 * float64(i%11-5)
	}

	_, grad, err := tpll.Evaluate(x)
	require.NoError(t, err)

	const h = 1e-5
	for _, idx := range []int{0, 1, 20} {
		xPlus := append([]float64(nil), x...)
		xMinus := append([]float64(nil), x...)
		xPlus[idx] += h
		xMinus[idx] -= h
		fxPlus, _, err := tpll.Evaluate(xPlus)
		require.NoError(t, err)
		fxMinus, _, err := tpll.Evaluate(xMinus)
		require.NoError(t, err)
		numeric := (fxPlus - fxMinus) / (2 * h)
		require.InDelta(t, numeric, grad[idx], 1e-3, "index %d", idx)
	}
}

func TestTripletPLLGradientIsSymmetricOnActivePair(t *testing.T) {
	m := smallMSA(t)
	weights := msa.WeightsUniform(m)
	reg := regularize.NewL2(0.1, 0.1, m.Ncol, nil, false)

	tpll := objfun.NewTripletPLL(m, weights, reg, map[[2]int]bool{
		{0, 1}: true,
		{1, 0}: true,
	})

	x := make([]float64, tpll.NVar())
	for i := range x {
		x[i] = 0.01 * float64(i%11-5)
	}

	_, grad, err := tpll.Evaluate(x)
	require.NoError(t, err)

	packing := potts.NewPLLPacking(m.Ncol)
	gw := potts.Pair(packing.PairGradSlice(grad))
	ncol := m.Ncol
	for a := 0; a < 21; a++ {
		for b := 0; b < 21; b++ {
			require.InDelta(t, gw.At(0, 1, a, b, ncol), gw.At(1, 0, b, a, ncol), 1e-12, "a=%d b=%d", a, b)
		}
	}
}

func TestActivePairsFromTriplesCoversAllThreePairsBothOrders(t *testing.T) {
	active := objfun.ActivePairsFromTriples([][3]int{{2, 5, 9}})
	for _, pair := range [][2]int{{2, 5}, {5, 2}, {2, 9}, {9, 2}, {5, 9}, {9, 5}} {
		require.True(t, active[pair])
	}
	require.False(t, active[[2]int{2, 2}])
}
