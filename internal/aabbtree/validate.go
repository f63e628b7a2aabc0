package aabbtree

import (
	"fmt"

	"cogentcore.org/core/base/errors"

	"github.com/lukaszgryglicki/aabbtree/internal/aabb"
)

// ErrCorrupt is wrapped by every Validate failure.
var ErrCorrupt = errors.New("aabbtree: structure corrupt")

// Validate checks the structural invariants of the tree: every reachable
// leaf is indexed and vice versa, internal nodes have exactly two children
// that point back at them, fat boxes enclose their children, heights are
// consistent and the pool accounts for every reachable node.
func (t *Tree[T]) Validate() error {
	if len(t.leaves) != len(t.ids) {
		return corrupt("index has %d leaves but %d ids", len(t.leaves), len(t.ids))
	}
	for id := range t.leaves {
		if _, ok := t.ids[id]; !ok {
			return corrupt("leaf %v missing from id set", id)
		}
	}
	if t.root == nullNode {
		if len(t.leaves) != 0 {
			return corrupt("empty tree with %d indexed leaves", len(t.leaves))
		}
		if t.allocated != 0 {
			return corrupt("empty tree with %d allocated nodes", t.allocated)
		}
		return nil
	}
	if !t.nodes[t.root].isRoot() {
		return corrupt("root %d has parent %d", t.root, t.nodes[t.root].parent)
	}

	reached, leaves := 0, 0
	stack := []int32{t.root}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		reached++
		if reached > t.allocated {
			return corrupt("more reachable nodes than allocated (%d), cycle?", t.allocated)
		}

		n := &t.nodes[i]
		if n.isFree() {
			return corrupt("node %d is reachable but free", i)
		}
		if n.isLeaf() {
			leaves++
			if idx, ok := t.leaves[n.id]; !ok || idx != i {
				return corrupt("leaf %d (id %v) not indexed", i, n.id)
			}
			if n.height != 0 {
				return corrupt("leaf %d has height %d", i, n.height)
			}
			if !n.fat.Contains(n.tight) {
				return corrupt("leaf %d fat %v does not contain tight %v", i, n.fat, n.tight)
			}
			continue
		}
		if n.left == nullNode || n.right == nullNode {
			return corrupt("node %d has a single child", i)
		}
		l, r := &t.nodes[n.left], &t.nodes[n.right]
		if l.parent != i || r.parent != i {
			return corrupt("children of %d do not point back", i)
		}
		if !n.fat.Contains(aabb.Union(l.fat, r.fat)) {
			return corrupt("node %d fat %v does not contain its children", i, n.fat)
		}
		if want := 1 + max(l.height, r.height); n.height != want {
			return corrupt("node %d height %d, want %d", i, n.height, want)
		}
		stack = append(stack, n.left, n.right)
	}

	if leaves != len(t.leaves) {
		return corrupt("%d reachable leaves, %d indexed", leaves, len(t.leaves))
	}
	if reached != t.allocated {
		return corrupt("%d reachable nodes, %d allocated", reached, t.allocated)
	}
	if reached != 2*leaves-1 {
		return corrupt("%d nodes for %d leaves", reached, leaves)
	}
	return nil
}

func corrupt(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCorrupt, fmt.Sprintf(format, args...))
}
