package msa

import (
	"math"

	"github.com/susannvorberg/ccmgo/align/matrix"
	"github.com/susannvorberg/ccmgo/alphabet"
)

// blosum62Order is the symbol order the standard NCBI BLOSUM62 table is
// transcribed in below. It need not match alphabet.Potts21's order; lookups
// go through blosum62Alphabet.Encode rather than relying on index agreement.
var blosum62Order = []string{
	"A", "R", "N", "D", "C", "Q", "E", "G", "H", "I",
	"L", "K", "M", "F", "P", "S", "T", "W", "Y", "V",
}

var blosum62Alphabet = alphabet.NewAlphabet(blosum62Order)

// blosum62Scores is the BLOSUM62 log-odds substitution matrix in half-bit
// units (score = round(2*log2(q_ab/(p_a*p_b)))), transcribed from the
// standard NCBI table.
var blosum62Scores = [][]int{
	{4, -1, -2, -2, 0, -1, -1, 0, -2, -1, -1, -1, -1, -2, -1, 1, 0, -3, -2, 0},
	{-1, 5, 0, -2, -3, 1, 0, -2, 0, -3, -2, 2, -1, -3, -2, -1, -1, -3, -2, -3},
	{-2, 0, 6, 1, -3, 0, 0, 0, 1, -3, -3, 0, -2, -3, -2, 1, 0, -4, -2, -3},
	{-2, -2, 1, 6, -3, 0, 2, -1, -1, -3, -4, -1, -3, -3, -1, 0, -1, -4, -3, -3},
	{0, -3, -3, -3, 9, -3, -4, -3, -3, -1, -1, -3, -1, -2, -3, -1, -1, -2, -2, -1},
	{-1, 1, 0, 0, -3, 5, 2, -2, 0, -3, -2, 1, 0, -3, -1, 0, -1, -2, -1, -2},
	{-1, 0, 0, 2, -4, 2, 5, -2, 0, -3, -3, 1, -2, -3, -1, 0, -1, -3, -2, -2},
	{0, -2, 0, -1, -3, -2, -2, 6, -2, -4, -4, -2, -3, -3, -2, 0, -2, -2, -3, -3},
	{-2, 0, 1, -1, -3, 0, 0, -2, 8, -3, -3, -1, -2, -1, -2, -1, -2, -2, 2, -3},
	{-1, -3, -3, -3, -1, -3, -3, -4, -3, 4, 2, -3, 1, 0, -3, -2, -1, -3, -1, 3},
	{-1, -2, -3, -4, -1, -2, -3, -4, -3, 2, 4, -2, 2, 0, -3, -2, -1, -2, -1, 1},
	{-1, 2, 0, -1, -3, 1, 1, -2, -1, -3, -2, 5, -1, -3, -1, 0, -1, -3, -2, -2},
	{-1, -1, -2, -3, -1, 0, -2, -3, -2, 1, 2, -1, 5, 0, -2, -1, -1, -1, -1, 1},
	{-2, -3, -3, -3, -2, -3, -3, -3, -1, 0, 0, -3, 0, 6, -4, -2, -2, 1, 3, -1},
	{-1, -2, -2, -1, -3, -1, -1, -2, -2, -3, -3, -1, -2, -4, 7, -1, -1, -4, -3, -2},
	{1, -1, 1, 0, -1, 0, 0, 0, -1, -2, -2, 0, -1, -2, -1, 4, 1, -3, -2, -2},
	{0, -1, 0, -1, -1, -1, -1, -2, -2, -1, -1, -1, -1, -2, -1, 1, 5, -2, -2, 0},
	{-3, -3, -4, -4, -2, -2, -3, -2, -2, -3, -2, -3, -1, 1, -4, -3, -2, 11, 2, -3},
	{-2, -2, -2, -3, -2, -1, -2, -3, 2, -1, -1, -2, -1, 3, -3, -2, -2, 2, 7, -1},
	{0, -3, -3, -3, -1, -2, -2, -3, -3, 3, 1, -2, 1, -1, -2, -2, 0, -3, -1, 4},
}

// BLOSUM62 is the BLOSUM62 substitution matrix, defined over the 20 canonical
// amino acids in the order of blosum62Order (not Potts21's order; callers
// must index through its own alphabets rather than assuming index agreement
// with alphabet.Potts21).
var BLOSUM62, _ = matrix.NewSubstitutionMatrix(blosum62Alphabet, blosum62Alphabet, blosum62Scores)

// blosumConditional returns a 20x20 table (indexed by Potts21 code, both
// axes) of conditional substitution probabilities P(a|b) derived from sm by
// exponentiating its half-bit log-odds scores against a uniform background,
// then normalizing each column to sum to 1. This is the "g matrix" used to
// turn a substitution matrix into a pseudocount source: the expected
// identity-preserving residue given a uniform prior.
func blosumConditional(sm *matrix.SubstitutionMatrix) [20][20]float64 {
	var qmat [20][20]float64
	bg := 1.0 / 20.0
	for b := 0; b < 20; b++ {
		symB := alphabet.Potts21.Symbols()[b]
		bIdx, err := blosum62Alphabet.Encode(symB)
		if err != nil {
			continue
		}
		var colSum float64
		var raw [20]float64
		for a := 0; a < 20; a++ {
			symA := alphabet.Potts21.Symbols()[a]
			aIdx, err := blosum62Alphabet.Encode(symA)
			if err != nil {
				continue
			}
			score := sm.ScoreByIndex(aIdx, bIdx)
			raw[a] = bg * math.Exp2(float64(score)/2.0)
			colSum += raw[a]
		}
		for a := 0; a < 20; a++ {
			if colSum > 0 {
				qmat[b][a] = raw[a] / colSum
			}
		}
	}
	return qmat
}
