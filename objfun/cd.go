package objfun

import (
	"log/slog"
	"math"

	"github.com/susannvorberg/ccmgo/counts"
	"github.com/susannvorberg/ccmgo/msa"
	"github.com/susannvorberg/ccmgo/potts"
	"github.com/susannvorberg/ccmgo/regularize"
	"github.com/susannvorberg/ccmgo/sampler"
)

// CD is the contrastive divergence objective: it Gibbs-samples a synthetic
// alignment under the current model and returns the difference between the
// synthetic alignment's weighted counts and the real alignment's weighted
// counts as the gradient. It has no tractable likelihood, so Evaluate
// always reports fx == -1 (a sentinel, not a usable objective value),
// matching ContrastiveDivergence.evaluate's "return -1, g".
type CD struct {
	Ncol    int
	Counts  counts.Counts
	Reg     regularize.L2
	Packing potts.CDPacking
	RNG     *sampler.RNG

	// GibbsSteps is the number of full sweeps per evaluation when
	// PLLSampling is false.
	GibbsSteps int
	// Persistent keeps the sampled chain across Evaluate calls (PCD)
	// instead of reinitializing it from the real alignment every time.
	Persistent bool
	// PLLSampling resamples a single random column per evaluation instead
	// of a full sweep, matching the pll=True flavor of ContrastiveDivergence
	// used to drive a cheaper persistent chain.
	PLLSampling bool

	origData    [][]uint8
	origWeights []float64
	nSamples    int

	sampledData    [][]uint8
	sampledWeights []float64
}

// NewCD builds a CD objective. nSamples == 0 (or < len(m.Data)) samples
// exactly the real alignment's rows; otherwise the real alignment is tiled
// to approximately nSamples rows (see initSampleAlignment).
func NewCD(m *msa.MSA, weights []float64, c counts.Counts, reg regularize.L2, rng *sampler.RNG,
	gibbsSteps, nSamples int, persistent, pllSampling bool) *CD {
	cd := &CD{
		Ncol:        m.Ncol,
		Counts:      c,
		Reg:         reg,
		Packing:     potts.NewCDPacking(m.Ncol),
		RNG:         rng,
		GibbsSteps:  gibbsSteps,
		Persistent:  persistent,
		PLLSampling: pllSampling,
		origData:    m.Data,
		origWeights: weights,
		nSamples:    nSamples,
	}
	cd.initSampleAlignment()
	return cd
}

// initSampleAlignment resets the sampled chain to a copy of the real
// alignment (for nSamples <= nrow), or to nSamples/nrow whole tilings of
// it with weights scaled down by the same factor so total Neff is
// preserved (spec.md replaces the original's floor-integer-division
// tiling with this same whole-tiling scheme, computed consistently rather
// than truncated from a float).
func (cd *CD) initSampleAlignment() {
	nrow := len(cd.origData)
	if cd.nSamples == 0 || cd.nSamples < nrow {
		cd.sampledData = make([][]uint8, nrow)
		cd.sampledWeights = make([]float64, nrow)
		for i, row := range cd.origData {
			cp := make([]uint8, len(row))
			copy(cp, row)
			cd.sampledData[i] = cp
			cd.sampledWeights[i] = cd.origWeights[i]
		}
		return
	}

	reps := cd.nSamples / nrow
	if reps < 1 {
		reps = 1
	}
	cd.sampledData = make([][]uint8, 0, reps*nrow)
	cd.sampledWeights = make([]float64, 0, reps*nrow)
	for r := 0; r < reps; r++ {
		for i, row := range cd.origData {
			cp := make([]uint8, len(row))
			copy(cp, row)
			cd.sampledData = append(cd.sampledData, cp)
			cd.sampledWeights = append(cd.sampledWeights, cd.origWeights[i]/float64(reps))
		}
	}
}

// NVar returns the flat-vector length this objective expects.
func (cd *CD) NVar() int { return cd.Packing.NVar() }

// SampledData returns the current synthetic alignment (the last Evaluate's
// Gibbs-sampled rows, or the real alignment's rows if Evaluate has never
// run), for debug dumping.
func (cd *CD) SampledData() [][]uint8 { return cd.sampledData }

// InitFromCentering returns a starting vector with single potentials set to
// center and couplings at zero.
func (cd *CD) InitFromCentering(center [][20]float64) []float64 {
	v := potts.NewSingle(cd.Ncol)
	for i := 0; i < cd.Ncol; i++ {
		for a := 0; a < 20; a++ {
			v.Set(i, a, center[i][a])
		}
	}
	return cd.Packing.Pack(v, potts.NewPair(cd.Ncol))
}

// Finalize unpacks x into a Params.
func (cd *CD) Finalize(x []float64) potts.Params {
	v, w := cd.Packing.Unpack(x)
	return potts.Params{Ncol: cd.Ncol, Single: v, Pair: w}
}

// Evaluate Gibbs-samples a synthetic alignment under x and returns
// (sample counts - real counts) plus the regularizer's gradient; fx is
// always -1.
func (cd *CD) Evaluate(x []float64) (float64, []float64, error) {
	ncol := cd.Ncol
	v, w := cd.Packing.Unpack(x)

	if !cd.Persistent {
		cd.initSampleAlignment()
	}
	if cd.PLLSampling {
		sampler.SamplePositionInSequences(cd.RNG, v, w, ncol, cd.sampledData)
	} else {
		sampler.GibbsSampleSequences(cd.RNG, v, w, ncol, cd.sampledData, cd.GibbsSteps)
	}

	sampleCounts := counts.FromMSAData(cd.sampledData, cd.sampledWeights, ncol)
	for i := 0; i < ncol; i++ {
		var sampleSum, realSum float64
		for a := 0; a < 20; a++ {
			sampleSum += sampleCounts.C1[i][a]
			realSum += cd.Counts.C1[i][a]
		}
		if math.Abs(sampleSum-realSum) > 1e-5 {
			slog.Warn("cd: sampled and real single counts disagree", "column", i, "sample", sampleSum, "real", realSum)
		}
	}

	gv := potts.NewSingle(ncol)
	gw := potts.NewPair(ncol)
	for i := 0; i < ncol; i++ {
		for a := 0; a < 20; a++ {
			gv[i*20+a] = sampleCounts.C1[i][a] - cd.Counts.C1[i][a]
		}
	}
	for i := 0; i < ncol; i++ {
		for j := 0; j < ncol; j++ {
			for a := 0; a < 21; a++ {
				for b := 0; b < 21; b++ {
					d := sampleCounts.C2[i][j][a][b] - cd.Counts.C2[i][j][a][b]
					gw.Set(i, j, a, b, ncol, d)
				}
			}
		}
	}

	cd.Reg.Evaluate(v, w, ncol, gv, gw)

	zeroGapGradients(gw, ncol)
	for i := 0; i < ncol; i++ {
		for a := 0; a < 21; a++ {
			for b := 0; b < 21; b++ {
				gw.Set(i, i, a, b, ncol, 0)
			}
		}
	}

	return -1, cd.Packing.Pack(gv, gw), nil
}
