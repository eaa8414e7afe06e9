package regularize_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/susannvorberg/ccmgo/potts"
	"github.com/susannvorberg/ccmgo/regularize"
)

func TestNewL2ScalesLambdaPairByNcolMinusOne(t *testing.T) {
	r := regularize.NewL2(0.01, 0.2, 5, nil, false)
	require.InDelta(t, 0.2*4, r.LambdaPair, 1e-12)
}

func TestNewL2HalvesForTreeCD(t *testing.T) {
	r := regularize.NewL2(0.01, 0.2, 5, nil, true)
	require.InDelta(t, 0.2*4/2, r.LambdaPair, 1e-12)
}

func TestEvaluateMatchesAnalyticGradientNumerically(t *testing.T) {
	ncol := 3
	v := potts.NewSingle(ncol)
	w := potts.NewPair(ncol)
	for i := 0; i < ncol*20; i++ {
		v[i] = 0.1 * float64(i%7-3)
	}
	for i := range w {
		w[i] = 0.05 * float64(i%5-2)
	}

	r := regularize.NewL2(0.5, 0.1, ncol, nil, false)

	eval := func(v potts.Single, w potts.Pair) float64 {
		gv := potts.NewSingle(ncol)
		gw := potts.NewPair(ncol)
		return r.Evaluate(v, w, ncol, gv, gw)
	}

	gv := potts.NewSingle(ncol)
	gw := potts.NewPair(ncol)
	r.Evaluate(v, w, ncol, gv, gw)

	const h = 1e-6
	for i := 0; i < len(v); i++ {
		vPlus := append(potts.Single(nil), v...)
		vMinus := append(potts.Single(nil), v...)
		vPlus[i] += h
		vMinus[i] -= h
		numeric := (eval(vPlus, w) - eval(vMinus, w)) / (2 * h)
		require.InDelta(t, numeric, gv[i], 1e-4, "single index %d", i)
	}

	for idx := 0; idx < len(w); idx++ {
		i, j := idx/(ncol*21*21), (idx/(21*21))%ncol
		if i == j {
			continue
		}
		wPlus := append(potts.Pair(nil), w...)
		wMinus := append(potts.Pair(nil), w...)
		wPlus[idx] += h
		wMinus[idx] -= h
		numeric := (eval(v, wPlus) - eval(v, wMinus)) / (2 * h)
		require.InDelta(t, numeric, gw[idx], 1e-3, "pair index %d", idx)
	}
}

func TestEvaluateCentersSinglePotentials(t *testing.T) {
	ncol := 1
	v := potts.NewSingle(ncol)
	w := potts.NewPair(ncol)
	center := make([][20]float64, ncol)
	for a := 0; a < 20; a++ {
		center[0][a] = 1.0
		v[a] = 1.0
	}

	r := regularize.NewL2(0.5, 0.1, ncol, center, false)
	gv := potts.NewSingle(ncol)
	gw := potts.NewPair(ncol)
	omega := r.Evaluate(v, w, ncol, gv, gw)

	require.InDelta(t, 0, omega, 1e-12)
	for a := 0; a < 20; a++ {
		require.InDelta(t, 0, gv[a], 1e-12)
	}
}
