package phylo

import (
	"fmt"
	"math"
)

// NewStarTree builds a depth-1 star topology with nseqs leaves, each a
// direct child of the root over a branch of length depth. Mirrors
// create_star_tree; used for TreeCD's degenerate-tree edge case, where
// every leaf mutates independently from the ancestor with no shared
// intermediate history.
func NewStarTree(nseqs int, depth float64, rootName string) *Tree {
	root := &Node{Name: rootName, BranchLength: 0}
	for i := 0; i < nseqs; i++ {
		root.Children = append(root.Children, &Node{
			Name:         fmt.Sprintf("C%d", i),
			BranchLength: depth,
		})
	}
	return &Tree{Root: root}
}

// NewBinaryTree builds a balanced binary topology with the smallest power
// of two leaves >= nseqs, total root-to-leaf depth equal to depth, and
// internal nodes named by appending "A"/"B" to their parent's name.
// Mirrors create_binary_tree.
func NewBinaryTree(nseqs int, depth float64, rootName string) *Tree {
	splits := int(math.Ceil(math.Log2(float64(nseqs))))
	if splits < 0 {
		splits = 0
	}
	depthPerClade := depth
	if splits > 0 {
		depthPerClade = depth / float64(splits)
	}

	var fill func(parent *Node, remaining int)
	fill = func(parent *Node, remaining int) {
		if remaining == 0 {
			return
		}
		c1 := &Node{Name: parent.Name + "A", BranchLength: depthPerClade}
		c2 := &Node{Name: parent.Name + "B", BranchLength: depthPerClade}
		fill(c1, remaining-1)
		fill(c2, remaining-1)
		parent.Children = []*Node{c1, c2}
	}

	root := &Node{Name: rootName, BranchLength: 0}
	fill(root, splits)
	return &Tree{Root: root}
}
