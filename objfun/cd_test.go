package objfun_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/susannvorberg/ccmgo/counts"
	"github.com/susannvorberg/ccmgo/msa"
	"github.com/susannvorberg/ccmgo/objfun"
	"github.com/susannvorberg/ccmgo/potts"
	"github.com/susannvorberg/ccmgo/regularize"
	"github.com/susannvorberg/ccmgo/sampler"
)

func TestCDWithZeroGibbsStepsReturnsOnlyRegularizerGradient(t *testing.T) {
	m, err := msa.ReadFasta(strings.NewReader(">s1\nAC\n>s2\nAG\n"))
	require.NoError(t, err)
	weights := msa.WeightsUniform(m)
	f1, f2, err := msa.Frequencies(m, weights, msa.FrequencyOptions{Mode: msa.PseudocountNone})
	require.NoError(t, err)
	c := counts.FromFrequencies(f1, f2, msa.Neff(weights))

	reg := regularize.NewL2(0.1, 0.1, m.Ncol, nil, false)
	rng := sampler.New(1)
	cd := objfun.NewCD(m, weights, c, reg, rng, 0, 0, false, false)

	packing := potts.NewCDPacking(m.Ncol)
	x := make([]float64, packing.NVar())

	fx, grad, err := cd.Evaluate(x)
	require.NoError(t, err)
	require.Equal(t, -1.0, fx)

	// with gibbs_steps=0 the sampled alignment is an exact copy of the
	// real one, so sample counts == real counts and only the
	// (zero, since x == 0 and center == nil) regularizer gradient survives.
	for _, g := range grad {
		require.InDelta(t, 0, g, 1e-9)
	}
}

func TestCDGradientIsNonzeroAfterGibbsSampling(t *testing.T) {
	m, err := msa.ReadFasta(strings.NewReader(">s1\nAC\n>s2\nAG\n>s3\nCC\n"))
	require.NoError(t, err)
	weights := msa.WeightsUniform(m)
	f1, f2, err := msa.Frequencies(m, weights, msa.FrequencyOptions{Mode: msa.PseudocountNone})
	require.NoError(t, err)
	c := counts.FromFrequencies(f1, f2, msa.Neff(weights))

	reg := regularize.NewL2(0.1, 0.1, m.Ncol, nil, false)
	rng := sampler.New(1)
	cd := objfun.NewCD(m, weights, c, reg, rng, 5, 0, false, false)

	packing := potts.NewCDPacking(m.Ncol)
	x := make([]float64, packing.NVar())
	for i := range x {
		x[i] = 0.2 * float64(i%5-2)
	}

	_, grad, err := cd.Evaluate(x)
	require.NoError(t, err)

	var anyNonzero bool
	for _, g := range grad {
		if g != 0 {
			anyNonzero = true
			break
		}
	}
	require.True(t, anyNonzero)
}

func TestCDZeroesDiagonalPairGradient(t *testing.T) {
	m, err := msa.ReadFasta(strings.NewReader(">s1\nAC\n>s2\nAG\n"))
	require.NoError(t, err)
	weights := msa.WeightsUniform(m)
	f1, f2, err := msa.Frequencies(m, weights, msa.FrequencyOptions{Mode: msa.PseudocountNone})
	require.NoError(t, err)
	c := counts.FromFrequencies(f1, f2, msa.Neff(weights))

	reg := regularize.NewL2(0.1, 0.1, m.Ncol, nil, false)
	rng := sampler.New(2)
	cd := objfun.NewCD(m, weights, c, reg, rng, 1, 0, false, false)

	packing := potts.NewCDPacking(m.Ncol)
	x := make([]float64, packing.NVar())
	_, grad, err := cd.Evaluate(x)
	require.NoError(t, err)

	_, gw := packing.Unpack(grad)
	for i := 0; i < m.Ncol; i++ {
		for a := 0; a < 21; a++ {
			for b := 0; b < 21; b++ {
				require.Equal(t, 0.0, gw.At(i, i, a, b, m.Ncol))
			}
		}
	}
}
