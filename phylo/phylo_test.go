package phylo_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/susannvorberg/ccmgo/phylo"
)

func TestParseNewickSimple(t *testing.T) {
	tree, err := phylo.ParseNewick("(A:1.0,B:2.0)root:0.0;")
	require.NoError(t, err)
	require.Equal(t, "root", tree.Root.Name)
	require.Len(t, tree.Root.Children, 2)
	require.Equal(t, "A", tree.Root.Children[0].Name)
	require.InDelta(t, 1.0, tree.Root.Children[0].BranchLength, 1e-9)
	require.Equal(t, "B", tree.Root.Children[1].Name)
	require.InDelta(t, 2.0, tree.Root.Children[1].BranchLength, 1e-9)
}

func TestParseNewickNested(t *testing.T) {
	tree, err := phylo.ParseNewick("((A:1,B:1):2,C:3);")
	require.NoError(t, err)
	require.Len(t, tree.Root.Children, 2)
	require.Len(t, tree.Root.Children[0].Children, 2)
	require.Equal(t, "C", tree.Root.Children[1].Name)
}

func TestParseNewickRejectsEmpty(t *testing.T) {
	_, err := phylo.ParseNewick("  ")
	require.Error(t, err)
}

func TestBFSVisitsRootFirstThenLevelByLevel(t *testing.T) {
	tree, err := phylo.ParseNewick("((A:1,B:1)AB:1,(C:1,D:1)CD:1)root;")
	require.NoError(t, err)

	order, err := tree.BFS()
	require.NoError(t, err)
	require.Len(t, order, 7)
	require.Equal(t, "root", order[0].Name)

	names := make([]string, len(order))
	for i, n := range order {
		names[i] = n.Name
	}
	require.Contains(t, names[1:3], "AB")
	require.Contains(t, names[1:3], "CD")
}

func TestLeavesReturnsOnlyTerminalNodes(t *testing.T) {
	tree, err := phylo.ParseNewick("((A,B)AB,(C,D)CD)root;")
	require.NoError(t, err)
	leaves := tree.Root.Leaves()
	require.Len(t, leaves, 4)
	for _, l := range leaves {
		require.True(t, l.IsLeaf())
	}
}

func TestRerootMakesListedIDsDirectChildrenOfRoot(t *testing.T) {
	tree, err := phylo.ParseNewick("((A:1,B:1)AB:1,C:1)root;")
	require.NoError(t, err)

	rerooted, err := tree.Reroot([]string{"A", "C"})
	require.NoError(t, err)
	require.Len(t, rerooted.Root.Children, 2)
	require.Equal(t, 0.0, rerooted.Root.Children[0].BranchLength)
	require.Equal(t, 0.0, rerooted.Root.Children[1].BranchLength)
}

func TestRerootErrorsOnUnknownID(t *testing.T) {
	tree, err := phylo.ParseNewick("(A,B)root;")
	require.NoError(t, err)
	_, err = tree.Reroot([]string{"Z"})
	require.Error(t, err)
}

func TestNewStarTreeHasAllLeavesAtRootDepth(t *testing.T) {
	tree := phylo.NewStarTree(5, 1.0, "root")
	require.Len(t, tree.Root.Children, 5)
	min, max := tree.DepthRange()
	require.InDelta(t, 1.0, min, 1e-9)
	require.InDelta(t, 1.0, max, 1e-9)
}

func TestNewBinaryTreeHasPowerOfTwoLeaves(t *testing.T) {
	tree := phylo.NewBinaryTree(5, 2.0, "root")
	leaves := tree.Root.Leaves()
	require.Len(t, leaves, 8) // next power of two >= 5
}
