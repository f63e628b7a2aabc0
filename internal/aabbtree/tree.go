// Package aabbtree implements a dynamic AABB tree: a binary bounding-volume
// hierarchy keyed by caller-supplied ids, supporting insertion, removal,
// incremental update of moving boxes and overlap queries.
//
// Leaves store a fat box (the caller's tight box expanded by the tree margin)
// so that small movements do not restructure the tree. Insertion picks the
// sibling with a surface-area cost model; there is no global rebuild.
//
// A Tree is not safe for concurrent use; see Locked.
package aabbtree

import (
	"fmt"
	"log/slog"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/base/logx"

	"github.com/lukaszgryglicki/aabbtree/internal/aabb"
)

var (
	// ErrDuplicateID is returned by Insert for an id already in the tree.
	ErrDuplicateID = errors.New("aabbtree: id already in tree")
	// ErrNotFound is returned by Update and Get for an id not in the tree.
	ErrNotFound = errors.New("aabbtree: id not in tree")
)

// Tree is a dynamic AABB tree over ids of type T.
type Tree[T comparable] struct {
	nodes     []node[T]
	free      int32
	allocated int

	root   int32
	margin float32

	leaves map[T]int32
	ids    map[T]struct{}
}

type options struct {
	capacity int
}

// Option configures New.
type Option func(*options)

// WithCapacity preallocates room for n ids.
func WithCapacity(n int) Option {
	return func(o *options) { o.capacity = n }
}

// New returns an empty tree whose leaves are padded by margin on every side.
// Use 0 for geometry that never moves.
func New[T comparable](margin float32, opts ...Option) *Tree[T] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if !(margin >= 0) {
		slog.Warn("aabbtree: invalid margin clamped to zero", "margin", margin)
		margin = 0
	}
	t := &Tree[T]{
		free:   nullNode,
		root:   nullNode,
		margin: margin,
		leaves: make(map[T]int32, o.capacity),
		ids:    make(map[T]struct{}, o.capacity),
	}
	// n leaves need 2n-1 nodes
	t.growPool(2 * o.capacity)
	return t
}

// Margin is the padding applied to every stored leaf box.
func (t *Tree[T]) Margin() float32 { return t.margin }

// Has reports whether id is in the tree.
func (t *Tree[T]) Has(id T) bool {
	_, ok := t.ids[id]
	return ok
}

// Len is the number of ids in the tree.
func (t *Tree[T]) Len() int { return len(t.ids) }

// IsEmpty reports whether the tree holds no ids.
func (t *Tree[T]) IsEmpty() bool { return t.root == nullNode }

// Get returns the tight box last supplied for id.
func (t *Tree[T]) Get(id T) (aabb.AABB, error) {
	leaf, ok := t.leaves[id]
	if !ok {
		return aabb.AABB{}, fmt.Errorf("get %v: %w", id, ErrNotFound)
	}
	return t.nodes[leaf].tight, nil
}

// Insert adds id with the given tight box.
func (t *Tree[T]) Insert(id T, box aabb.AABB) error {
	if t.Has(id) {
		return fmt.Errorf("insert %v: %w", id, ErrDuplicateID)
	}
	leaf := t.allocNode()
	n := &t.nodes[leaf]
	n.id = id
	n.tight = box
	n.fat = box.Expand(t.margin)
	n.height = 0

	t.leaves[id] = leaf
	t.ids[id] = struct{}{}

	t.insertLeaf(leaf)
	t.checkInvariants("insert")
	return nil
}

// Remove deletes id from the tree. Unknown ids are ignored.
func (t *Tree[T]) Remove(id T) {
	leaf, ok := t.leaves[id]
	if !ok {
		return
	}
	delete(t.leaves, id)
	delete(t.ids, id)

	t.removeLeaf(leaf)
	t.freeNode(leaf)
	t.checkInvariants("remove")
}

// Update stores a new tight box for id. If the leaf's fat box still contains
// it the tree is left as is and Update returns false; otherwise the leaf is
// re-inserted with a fresh fat box and Update returns true.
func (t *Tree[T]) Update(id T, box aabb.AABB) (bool, error) {
	leaf, ok := t.leaves[id]
	if !ok {
		return false, fmt.Errorf("update %v: %w", id, ErrNotFound)
	}
	n := &t.nodes[leaf]
	n.tight = box
	if n.fat.Contains(box) {
		return false, nil
	}

	t.removeLeaf(leaf)
	n = &t.nodes[leaf]
	n.fat = box.Expand(t.margin)
	n.parent = nullNode
	t.insertLeaf(leaf)
	t.checkInvariants("update")
	return true, nil
}

// Clear removes every id and returns all nodes to the pool.
func (t *Tree[T]) Clear() {
	freed := 0
	if t.root != nullNode {
		stack := []int32{t.root}
		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			n := &t.nodes[i]
			if !n.isLeaf() {
				stack = append(stack, n.left, n.right)
			}
			t.freeNode(i)
			freed++
		}
	}
	t.root = nullNode
	clear(t.leaves)
	clear(t.ids)
	t.checkInvariants("clear")
	logx.PrintfDebug("aabbtree: cleared %d nodes\n", freed)
}

// descendCost is the cost of pushing a leaf with box leafFat into child:
// the full enlarged area for a leaf child (a new parent will be made there),
// only the growth of the child's box otherwise.
func (t *Tree[T]) descendCost(child int32, leafFat aabb.AABB) float32 {
	c := &t.nodes[child]
	enlarged := aabb.Union(leafFat, c.fat).SurfaceArea()
	if c.isLeaf() {
		return enlarged
	}
	return enlarged - c.fat.SurfaceArea()
}

// insertLeaf links an allocated leaf into the tree.
func (t *Tree[T]) insertLeaf(leaf int32) {
	if t.root == nullNode {
		t.root = leaf
		t.nodes[leaf].parent = nullNode
		return
	}

	// Find the best sibling for this node
	leafFat := t.nodes[leaf].fat
	index := t.root
	for !t.nodes[index].isLeaf() {
		n := &t.nodes[index]

		combined := aabb.Union(n.fat, leafFat)
		area := combined.SurfaceArea()

		// Cost of creating a new parent for this node and the new leaf
		newParentCost := 2 * area

		// Minimum cost of pushing the leaf further down the tree
		pushDownCost := 2 * (area - n.fat.SurfaceArea())

		costLeft := t.descendCost(n.left, leafFat) + pushDownCost
		costRight := t.descendCost(n.right, leafFat) + pushDownCost

		if newParentCost < costLeft && newParentCost < costRight {
			break
		}
		// ties go right
		if costLeft < costRight {
			index = n.left
		} else {
			index = n.right
		}
	}

	sibling := index
	oldParent := t.nodes[sibling].parent
	newParent := t.allocNode()

	np := &t.nodes[newParent]
	np.parent = oldParent
	np.fat = aabb.Union(t.nodes[sibling].fat, leafFat)
	np.left = sibling
	np.right = leaf
	np.height = t.nodes[sibling].height + 1

	t.nodes[sibling].parent = newParent
	t.nodes[leaf].parent = newParent

	if oldParent == nullNode {
		// The sibling was the root.
		t.root = newParent
	} else {
		op := &t.nodes[oldParent]
		if op.left == sibling {
			op.left = newParent
		} else {
			op.right = newParent
		}
	}

	t.fixUpwards(newParent)
}

// removeLeaf unlinks leaf and frees its parent. The leaf itself stays allocated.
func (t *Tree[T]) removeLeaf(leaf int32) {
	if leaf == t.root {
		t.root = nullNode
		return
	}

	parent := t.nodes[leaf].parent
	p := &t.nodes[parent]
	sibling := p.left
	if sibling == leaf {
		sibling = p.right
	}

	if p.isRoot() {
		// Promote the sibling to root.
		t.root = sibling
		t.nodes[sibling].parent = nullNode
		t.freeNode(parent)
		t.nodes[leaf].parent = nullNode
		return
	}

	grandParent := p.parent
	g := &t.nodes[grandParent]
	if g.left == parent {
		g.left = sibling
	} else {
		g.right = sibling
	}
	t.nodes[sibling].parent = grandParent
	t.freeNode(parent)
	t.nodes[leaf].parent = nullNode

	t.fixUpwards(grandParent)
}

// fixUpwards walks from i to the root recomputing each fat box as the union
// of its children and each height.
func (t *Tree[T]) fixUpwards(i int32) {
	for i != nullNode {
		n := &t.nodes[i]
		l, r := &t.nodes[n.left], &t.nodes[n.right]
		n.fat = aabb.Union(l.fat, r.fat)
		n.height = 1 + max(l.height, r.height)
		i = n.parent
	}
}
