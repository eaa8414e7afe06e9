package sampler

import "github.com/susannvorberg/ccmgo/potts"

// conditionalLogits returns the unnormalized log-probability of each of the
// 21 states at column i of seq, given every other column's current value:
//
//	logit[a] = v[i][a] + sum_{j != i} w[i][j][a][seq[j]]
//
// with v[i][20] implicitly 0 (the gap state carries no single potential).
func conditionalLogits(v potts.Single, w potts.Pair, ncol int, seq []uint8, i int) [21]float64 {
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
	return logits
}

// CategoricalFromLogits draws a state in [0,21) from the distribution
// proportional to exp(logits), using the Gumbel-max trick: argmax of
// logits[a] + Gumbel noise is distributed exactly as softmax(logits),
// without ever computing the normalizing constant.
func CategoricalFromLogits(rng *RNG, logits [21]float64) uint8 {
	best, bestScore := 0, logits[0]+rng.Gumbel()
	for a := 1; a < 21; a++ {
		score := logits[a] + rng.Gumbel()
		if score > bestScore {
			best, bestScore = a, score
		}
	}
	return uint8(best)
}

// ResampleColumn draws a new value for column i of seq in place, conditioned
// on every other column's current value.
func ResampleColumn(rng *RNG, v potts.Single, w potts.Pair, ncol int, seq []uint8, i int) {
	logits := conditionalLogits(v, w, ncol, seq, i)
	seq[i] = CategoricalFromLogits(rng, logits)
}

// GibbsSweep resamples every column of seq once, in column order, each draw
// conditioned on the others' current (possibly already-resampled-this-sweep)
// values.
func GibbsSweep(rng *RNG, v potts.Single, w potts.Pair, ncol int, seq []uint8) {
	for i := 0; i < ncol; i++ {
		ResampleColumn(rng, v, w, ncol, seq, i)
	}
}

// GibbsSampleSequences runs steps full Gibbs sweeps over every sequence in
// msa (modified in place), mirroring gibbs_sample_sequences: one Gibbs step
// corresponds to resampling every position of every sequence once.
func GibbsSampleSequences(rng *RNG, v potts.Single, w potts.Pair, ncol int, msa [][]uint8, steps int) {
	for s := 0; s < steps; s++ {
		for _, seq := range msa {
			GibbsSweep(rng, v, w, ncol, seq)
		}
	}
}

// SamplePositionInSequences resamples a single, randomly chosen column
// across every sequence in msa (modified in place), mirroring
// sample_position_in_sequences: the cheaper single-column-update Markov
// chain step used by the PLL-flavored CD variant so successive evaluate()
// calls advance a persistent chain by one column rather than a full sweep.
func SamplePositionInSequences(rng *RNG, v potts.Single, w potts.Pair, ncol int, msa [][]uint8) {
	i := rng.Intn(ncol)
	for _, seq := range msa {
		ResampleColumn(rng, v, w, ncol, seq, i)
	}
}
