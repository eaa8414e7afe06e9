/*
Package phylo represents phylogenetic tree topologies and flattens them
into breadth-first order for package sampler's tree-guided mutation, and
for package objfun's TreeCD. Trees can be parsed from Newick, or built
synthetically (star, binary) for testing and for TreeCD's degenerate-tree
edge case.
*/
package phylo

import (
	"fmt"

	"github.com/katalvlaran/lvlath/graph"
)

// Node is one vertex of a rooted tree: a named leaf (a sequence) or an
// internal ancestor, reached from its parent over a branch of BranchLength
// substitution-model time units.
type Node struct {
	Name         string
	BranchLength float64
	Children     []*Node
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Tree is a rooted phylogenetic tree.
type Tree struct {
	Root *Node
}

// Leaves returns every leaf node in n's subtree, in the order a depth-first
// walk encounters them.
func (n *Node) Leaves() []*Node {
	if n.IsLeaf() {
		return []*Node{n}
	}
	var out []*Node
	for _, c := range n.Children {
		out = append(out, c.Leaves()...)
	}
	return out
}

// BFS returns every node in t reachable from the root, in breadth-first
// order (root first), by building an lvlath directed graph over the tree's
// parent/child edges and running its BFS traversal. This mirrors
// bfs_iterator's "visit clade, then all its descendants level by level"
// semantics.
func (t *Tree) BFS() ([]*Node, error) {
	g := graph.NewGraph(true, false)
	idOf := map[*Node]string{}
	nodeOf := map[string]*Node{}

	counter := 0
	var assignIDs func(n *Node)
	assignIDs = func(n *Node) {
		id := n.Name
		if id == "" || nodeOf[id] != nil {
			id = fmt.Sprintf("__node%d", counter)
			counter++
		}
		idOf[n] = id
		nodeOf[id] = n
		g.AddVertex(&graph.Vertex{ID: id})
		for _, c := range n.Children {
			assignIDs(c)
		}
	}
	assignIDs(t.Root)

	var addEdges func(n *Node)
	addEdges = func(n *Node) {
		for _, c := range n.Children {
			g.AddEdge(idOf[n], idOf[c], 1)
			addEdges(c)
		}
	}
	addEdges(t.Root)

	res, err := g.BFS(idOf[t.Root], nil)
	if err != nil {
		return nil, fmt.Errorf("phylo: BFS traversal failed: %w", err)
	}

	ordered := make([]*Node, 0, len(res.Order))
	for _, v := range res.Order {
		ordered = append(ordered, nodeOf[v.ID])
	}
	return ordered, nil
}

// Reroot returns a new Tree whose root's direct children are exactly the
// nodes named in id0, found anywhere in t by breadth-first search. This
// mirrors split_tree: the nodes listed in id0 become immediate descendants
// of a fresh zero-branch-length root, regardless of where they sat in the
// original topology.
func (t *Tree) Reroot(id0 []string) (*Tree, error) {
	nodes, err := t.BFS()
	if err != nil {
		return nil, err
	}
	byName := make(map[string]*Node, len(nodes))
	for _, n := range nodes {
		if n.Name != "" {
			byName[n.Name] = n
		}
	}

	root := &Node{Name: "root", BranchLength: 0}
	for _, id := range id0 {
		child, ok := byName[id]
		if !ok {
			return nil, fmt.Errorf("phylo: reroot id %q not found in tree", id)
		}
		rerooted := *child
		rerooted.BranchLength = 0
		root.Children = append(root.Children, &rerooted)
	}
	return &Tree{Root: root}, nil
}

// DepthRange returns the minimum and maximum cumulative branch length from
// the root to any leaf, mirroring get_child_depth_range.
func (t *Tree) DepthRange() (min, max float64) {
	type item struct {
		node  *Node
		depth float64
	}
	min, max = 0, 0
	first := true
	queue := []item{{t.Root, 0}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		d := cur.depth + cur.node.BranchLength
		if cur.node.IsLeaf() {
			if first || d < min {
				min = d
			}
			if first || d > max {
				max = d
			}
			first = false
			continue
		}
		for _, c := range cur.node.Children {
			queue = append(queue, item{c, d})
		}
	}
	return min, max
}
