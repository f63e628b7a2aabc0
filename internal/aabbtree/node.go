package aabbtree

import "github.com/lukaszgryglicki/aabbtree/internal/aabb"

const nullNode int32 = -1

// node is a slot in the tree's node pool. Links are pool indices so the
// pool can grow without invalidating them.
type node[T comparable] struct {
	fat   aabb.AABB // stored box: tight box + margin for leaves, union of children otherwise
	tight aabb.AABB // leaves only

	parent int32
	left   int32
	right  int32
	next   int32 // free list link

	// leaf = 0, free node = -1
	height int32

	id T // leaves only
}

func (n *node[T]) isLeaf() bool { return n.left == nullNode && n.right == nullNode }

func (n *node[T]) isRoot() bool { return n.parent == nullNode }

func (n *node[T]) isFree() bool { return n.height < 0 }
