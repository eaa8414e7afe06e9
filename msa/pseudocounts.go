package msa

import (
	"github.com/susannvorberg/ccmgo/align/matrix"
	"github.com/susannvorberg/ccmgo/ccmerr"
)

// PseudocountMode selects how empirical frequencies are regularized before
// being handed to package counts.
type PseudocountMode int

const (
	// PseudocountNone leaves the empirical frequencies untouched.
	PseudocountNone PseudocountMode = iota
	// PseudocountConstant mixes in a uniform 1/20 background over the 20
	// amino acid states.
	PseudocountConstant
	// PseudocountSubstitutionMatrix mixes in a substitution-matrix-derived
	// background (see blosumConditional).
	PseudocountSubstitutionMatrix
)

// FrequencyOptions configures Frequencies.
type FrequencyOptions struct {
	Mode PseudocountMode
	// N is the pseudocount mass added to each column/pair; mixing weight is
	// tau = N/(N+Neff). Defaults to 1 if Mode != PseudocountNone and N <= 0.
	N float64
	// SubMat is required when Mode == PseudocountSubstitutionMatrix; use
	// BLOSUM62 unless a caller has a more specific matrix.
	SubMat *matrix.SubstitutionMatrix
}

// Frequencies computes weighted single and pair empirical frequencies for m
// under weights, then applies the configured pseudocount scheme. f1 has
// shape [Ncol][21], f2 has shape [Ncol][Ncol][21][21]; the gap row/column
// entries are the raw observed gap frequency and are never touched by
// pseudocount mixing (pseudocounts redistribute mass only among the 20
// amino acid states, matching the convention that gaps are missing data
// rather than a 21st amino acid to be smoothed).
func Frequencies(m *MSA, weights []float64, opts FrequencyOptions) (f1 [][]float64, f2 [][][][]float64, err error) {
	if len(weights) != m.Nrow {
		return nil, nil, ccmerr.NewInputError("weights length %d does not match %d sequences", len(weights), m.Nrow)
	}
	neff := Neff(weights)
	if neff <= 0 {
		return nil, nil, ccmerr.NewInputError("effective sequence count is zero")
	}

	L := m.Ncol
	f1 = make([][]float64, L)
	for i := range f1 {
		f1[i] = make([]float64, 21)
	}
	for s := 0; s < m.Nrow; s++ {
		w := weights[s]
		row := m.Data[s]
		for i := 0; i < L; i++ {
			f1[i][row[i]] += w
		}
	}
	for i := 0; i < L; i++ {
		for a := 0; a < 21; a++ {
			f1[i][a] /= neff
		}
	}

	f2 = make([][][][]float64, L)
	for i := range f2 {
		f2[i] = make([][][]float64, L)
		for j := range f2[i] {
			f2[i][j] = make([][]float64, 21)
			for a := range f2[i][j] {
				f2[i][j][a] = make([]float64, 21)
			}
		}
	}
	for s := 0; s < m.Nrow; s++ {
		w := weights[s]
		row := m.Data[s]
		for i := 0; i < L; i++ {
			for j := 0; j < L; j++ {
				f2[i][j][row[i]][row[j]] += w
			}
		}
	}
	for i := 0; i < L; i++ {
		for j := 0; j < L; j++ {
			for a := 0; a < 21; a++ {
				for b := 0; b < 21; b++ {
					f2[i][j][a][b] /= neff
				}
			}
		}
	}

	if opts.Mode == PseudocountNone {
		return f1, f2, nil
	}

	n := opts.N
	if n <= 0 {
		n = 1
	}

	var qmat [20][20]float64
	switch opts.Mode {
	case PseudocountConstant:
		for b := 0; b < 20; b++ {
			for a := 0; a < 20; a++ {
				qmat[b][a] = 1.0 / 20.0
			}
		}
	case PseudocountSubstitutionMatrix:
		sm := opts.SubMat
		if sm == nil {
			sm = BLOSUM62
		}
		qmat = blosumConditional(sm)
	default:
		return nil, nil, ccmerr.NewConfigError("unknown pseudocount mode %v", opts.Mode)
	}

	g1 := make([][20]float64, L)
	for i := 0; i < L; i++ {
		for a := 0; a < 20; a++ {
			var sum float64
			for b := 0; b < 20; b++ {
				sum += f1[i][b] * qmat[b][a]
			}
			g1[i][a] = sum
		}
	}
	for i := 0; i < L; i++ {
		for a := 0; a < 20; a++ {
			f1[i][a] = (neff*f1[i][a] + n*g1[i][a]) / (neff + n)
		}
	}

	for i := 0; i < L; i++ {
		for j := 0; j < L; j++ {
			if i == j {
				continue
			}
			var g2 [20][20]float64
			for a := 0; a < 20; a++ {
				for b := 0; b < 20; b++ {
					var sum float64
					for c := 0; c < 20; c++ {
						for d := 0; d < 20; d++ {
							sum += f2[i][j][c][d] * qmat[c][a] * qmat[d][b]
						}
					}
					g2[a][b] = sum
				}
			}
			for a := 0; a < 20; a++ {
				for b := 0; b < 20; b++ {
					f2[i][j][a][b] = (neff*f2[i][j][a][b] + n*g2[a][b]) / (neff + n)
				}
			}
		}
	}

	return f1, f2, nil
}
