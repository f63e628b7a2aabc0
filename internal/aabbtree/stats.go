package aabbtree

import (
	"slices"

	"golang.org/x/exp/constraints"

	"github.com/lukaszgryglicki/aabbtree/internal/aabb"
)

// NodeInfo describes one node for Walk.
type NodeInfo[T comparable] struct {
	Fat   aabb.AABB
	Tight aabb.AABB // zero for internal nodes
	Leaf  bool
	ID    T // zero for internal nodes
	Depth int
}

// Walk visits every node in pre-order (parent, left, right) until fn
// returns false.
func (t *Tree[T]) Walk(fn func(NodeInfo[T]) bool) {
	if t.root == nullNode {
		return
	}
	type entry struct {
		i     int32
		depth int
	}
	stack := []entry{{t.root, 0}}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := &t.nodes[e.i]
		info := NodeInfo[T]{Fat: n.fat, Depth: e.depth}
		if n.isLeaf() {
			info.Leaf = true
			info.Tight = n.tight
			info.ID = n.id
		} else {
			stack = append(stack, entry{n.right, e.depth + 1}, entry{n.left, e.depth + 1})
		}
		if !fn(info) {
			return
		}
	}
}

// LeafCount counts leaves reachable from the root. It is O(n).
func (t *Tree[T]) LeafCount() int {
	count := 0
	t.Walk(func(n NodeInfo[T]) bool {
		if n.Leaf {
			count++
		}
		return true
	})
	return count
}

// NodeCount counts all nodes reachable from the root. It is O(n).
func (t *Tree[T]) NodeCount() int {
	count := 0
	t.Walk(func(NodeInfo[T]) bool {
		count++
		return true
	})
	return count
}

// Height is the number of edges on the longest root-to-leaf path;
// 0 for a single leaf and for an empty tree.
func (t *Tree[T]) Height() int {
	h := 0
	t.Walk(func(n NodeInfo[T]) bool {
		h = max(h, n.Depth)
		return true
	})
	return h
}

// IDs returns a snapshot of the ids in the tree, in no particular order.
func (t *Tree[T]) IDs() []T {
	out := make([]T, 0, len(t.ids))
	for id := range t.ids {
		out = append(out, id)
	}
	return out
}

// SortedIDs returns the ids of t in ascending order.
func SortedIDs[T constraints.Ordered](t *Tree[T]) []T {
	out := t.IDs()
	slices.Sort(out)
	return out
}
