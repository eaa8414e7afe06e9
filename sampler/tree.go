package sampler

import (
	"math"

	"github.com/susannvorberg/ccmgo/phylo"
	"github.com/susannvorberg/ccmgo/potts"
)

// GenerateAncestorSequence samples the common-ancestor sequence for TreeCD
// from a poly-alanine starting sequence (all columns set to state 0),
// running gibbsSteps full Gibbs sweeps under (v, w). Mirrors get_seq0_mrf.
func GenerateAncestorSequence(rng *RNG, v potts.Single, w potts.Pair, ncol, gibbsSteps int) []uint8 {
	seq := make([]uint8, ncol)
	msa := [][]uint8{seq}
	GibbsSampleSequences(rng, v, w, ncol, msa, gibbsSteps)
	return seq
}

// MutateAlongTree walks t breadth-first from the root (set to seq0),
// mutating a copy of each node's sequence along its branch before handing
// it to its children, and returns the sequences collected at every leaf, in
// the order phylo.Tree.BFS's leaves appear.
//
// Branch mutation is reconstructed, not transcribed: the original
// implementation's per-branch mutation step is a compiled extension not
// present in the retrieved source. The reconstruction applies
// round(branchLength*mutationRate) single-column Gibbs resamples (a
// whole-number count of independent per-column substitution events scaled
// by the branch's evolutionary distance), which reproduces the two
// documented properties of the original routine: zero-length branches
// produce an identical copy of the parent, and longer branches accumulate
// more substitutions in expectation.
func MutateAlongTree(rng *RNG, v potts.Single, w potts.Pair, ncol int, t *phylo.Tree, seq0 []uint8, mutationRate float64) ([][]uint8, error) {
	order, err := t.BFS()
	if err != nil {
		return nil, err
	}

	seqOf := make(map[*phylo.Node][]uint8, len(order))
	seqOf[t.Root] = seq0

	var leaves [][]uint8
	for _, n := range order {
		if _, ok := seqOf[n]; !ok {
			// BFS order guarantees every non-root node's parent assigned
			// its sequence on an earlier iteration.
			continue
		}
		if n.IsLeaf() {
			leaves = append(leaves, seqOf[n])
			continue
		}
		for _, child := range n.Children {
			childSeq := make([]uint8, ncol)
			copy(childSeq, seqOf[n])
			steps := int(math.Round(child.BranchLength * mutationRate))
			for k := 0; k < steps; k++ {
				i := rng.Intn(ncol)
				ResampleColumn(rng, v, w, ncol, childSeq, i)
			}
			seqOf[child] = childSeq
		}
	}

	return leaves, nil
}
