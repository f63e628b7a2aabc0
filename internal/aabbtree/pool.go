package aabbtree

const defaultCapacity = 16

// growPool extends the node slice to capacity and threads the new slots
// onto the free list.
func (t *Tree[T]) growPool(capacity int) {
	if capacity < defaultCapacity {
		capacity = defaultCapacity
	}
	old := len(t.nodes)
	if capacity <= old {
		return
	}
	t.nodes = append(t.nodes, make([]node[T], capacity-old)...)

	// Build a linked list for the free list.
	for i := old; i < capacity-1; i++ {
		t.nodes[i].next = int32(i + 1)
		t.nodes[i].height = -1
	}
	t.nodes[capacity-1].next = t.free
	t.nodes[capacity-1].height = -1
	t.free = int32(old)
}

// allocNode peels a node off the free list, growing the pool if needed.
// Any *node obtained before the call may be stale afterwards.
func (t *Tree[T]) allocNode() int32 {
	if t.free == nullNode {
		t.growPool(2 * len(t.nodes))
	}
	i := t.free
	n := &t.nodes[i]
	t.free = n.next
	*n = node[T]{
		parent: nullNode,
		left:   nullNode,
		right:  nullNode,
		next:   nullNode,
	}
	t.allocated++
	return i
}

// freeNode returns a node to the pool.
func (t *Tree[T]) freeNode(i int32) {
	n := &t.nodes[i]
	var zero T
	n.id = zero
	n.parent, n.left, n.right = nullNode, nullNode, nullNode
	n.next = t.free
	n.height = -1
	t.free = i
	t.allocated--
}
