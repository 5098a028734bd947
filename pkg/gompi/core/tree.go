package core

import "github.com/jabolina/gompi/pkg/gompi/types"

// remapRoot implements spec.md §4.5's "rank 0 and the root logically swap
// places" rule: the binomial tree is always built as if anchored at rank 0,
// so a collective rooted at a non-zero rank swaps the labels of 0 and root
// before walking the tree and swaps them back on the way out. The swap is
// its own inverse, so the same function undoes it.
func remapRoot(rank, root types.Rank) types.Rank {
	switch rank {
	case 0:
		return root
	case root:
		return 0
	default:
		return rank
	}
}

// treeNeighbors computes the parent (if any) and children of rank within
// the binomial spanning tree of the given size, rooted at root. This is
// the same mask-doubling tree used by binomial broadcast/reduce
// algorithms: a node's parent clears its own lowest set bit, and a node's
// children are obtained by setting progressively smaller bits below its
// own lowest set bit. It produces a tree where every rank in [0, size)
// appears exactly once.
func treeNeighbors(rank types.Rank, size int, root types.Rank) (parent types.Rank, hasParent bool, children []types.Rank) {
	rel := int(remapRoot(rank, root))

	mask := 1
	for mask < size {
		if rel&mask != 0 {
			break
		}
		mask <<= 1
	}

	if rel != 0 {
		parentRel := rel - mask
		parent = remapRoot(types.Rank(parentRel), root)
		hasParent = true
	}

	for half := mask / 2; half >= 1; half /= 2 {
		childRel := rel + half
		if childRel < size {
			children = append(children, remapRoot(types.Rank(childRel), root))
		}
	}
	return parent, hasParent, children
}
