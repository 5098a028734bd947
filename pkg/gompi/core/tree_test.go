package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jabolina/gompi/pkg/gompi/types"
)

// every rank in [0, size) must appear exactly once across the tree, either
// as the implicit root or as someone's child.
func assertSpansExactlyOnce(t *testing.T, size int, root types.Rank) {
	t.Helper()
	seen := make(map[types.Rank]int)
	for rank := 0; rank < size; rank++ {
		_, hasParent, children := treeNeighbors(types.Rank(rank), size, root)
		if types.Rank(rank) != root {
			assert.True(t, hasParent, "rank %d should have a parent", rank)
		} else {
			assert.False(t, hasParent, "root should have no parent")
		}
		for _, c := range children {
			seen[c]++
		}
	}
	for rank := 0; rank < size; rank++ {
		if types.Rank(rank) == root {
			continue
		}
		assert.Equal(t, 1, seen[types.Rank(rank)], "rank %d should be a child exactly once", rank)
	}
}

func TestTreeNeighborsSpansGroup(t *testing.T) {
	for _, size := range []int{1, 2, 3, 4, 5, 7, 8, 9, 16} {
		for root := 0; root < size; root++ {
			assertSpansExactlyOnce(t, size, types.Rank(root))
		}
	}
}

func TestTreeNeighborsRootZeroSizeFour(t *testing.T) {
	_, hasParent, children := treeNeighbors(0, 4, 0)
	assert.False(t, hasParent)
	assert.ElementsMatch(t, []types.Rank{1, 2}, children)

	parent, hasParent, children := treeNeighbors(1, 4, 0)
	assert.True(t, hasParent)
	assert.Equal(t, types.Rank(0), parent)
	assert.Empty(t, children)

	parent, hasParent, children = treeNeighbors(2, 4, 0)
	assert.True(t, hasParent)
	assert.Equal(t, types.Rank(0), parent)
	assert.ElementsMatch(t, []types.Rank{3}, children)

	parent, hasParent, children = treeNeighbors(3, 4, 0)
	assert.True(t, hasParent)
	assert.Equal(t, types.Rank(2), parent)
	assert.Empty(t, children)
}

func TestTreeNeighborsNonZeroRoot(t *testing.T) {
	// Swapping root to 2 should simply relabel 0 and 2 in the size=4 tree.
	parent, hasParent, children := treeNeighbors(2, 4, 2)
	assert.False(t, hasParent)
	assert.ElementsMatch(t, []types.Rank{1, 0}, children)

	parent, hasParent, children = treeNeighbors(0, 4, 2)
	assert.True(t, hasParent)
	assert.Equal(t, types.Rank(2), parent)
	assert.ElementsMatch(t, []types.Rank{3}, children)
}

func TestRemapRootIsSelfInverse(t *testing.T) {
	for root := types.Rank(0); root < 6; root++ {
		for rank := types.Rank(0); rank < 6; rank++ {
			assert.Equal(t, rank, remapRoot(remapRoot(rank, root), root))
		}
	}
}
