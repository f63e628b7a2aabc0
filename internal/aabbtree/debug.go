package aabbtree

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// WriteDot writes the tree shape as a graphviz graph. Nodes are numbered in
// pre-order; leaves carry their id, quoted, as tooltip. An empty tree writes
// nothing.
func (t *Tree[T]) WriteDot(w io.Writer) error {
	if t.root == nullNode {
		return nil
	}
	order := t.preorder()
	index := make(map[int32]int, len(order))
	for k, i := range order {
		index[i] = k
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "graph aabbtree {")
	for k, i := range order {
		n := &t.nodes[i]
		if n.isLeaf() {
			fmt.Fprintf(bw, "%d[tooltip=%q];\n", k, fmt.Sprint(n.id))
		} else {
			fmt.Fprintf(bw, "%d;\n", k)
		}
	}
	for k, i := range order {
		n := &t.nodes[i]
		if n.isLeaf() {
			continue
		}
		fmt.Fprintf(bw, "%d -- %d;\n", k, index[n.left])
		fmt.Fprintf(bw, "%d -- %d;\n", k, index[n.right])
	}
	fmt.Fprintln(bw, "}")
	return bw.Flush()
}

type subtreeCounts struct {
	nodes  int
	leaves int
}

// Dump prints the tree with indentation (one tab per level), subtree counts
// and the fat box of each node; leaves also show id and tight box.
func (t *Tree[T]) Dump(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if t.root == nullNode {
		fmt.Fprintln(bw, "[TREE] <empty>")
		return bw.Flush()
	}

	order := t.preorder()
	counts := make(map[int32]subtreeCounts, len(order))
	// reverse pre-order sees children before parents
	for k := len(order) - 1; k >= 0; k-- {
		i := order[k]
		n := &t.nodes[i]
		if n.isLeaf() {
			counts[i] = subtreeCounts{nodes: 1, leaves: 1}
			continue
		}
		lc, rc := counts[n.left], counts[n.right]
		counts[i] = subtreeCounts{nodes: 1 + lc.nodes + rc.nodes, leaves: lc.leaves + rc.leaves}
	}

	total := counts[t.root]
	fmt.Fprintf(bw, "[TREE] root: nodes=%d leaves=%d height=%d margin=%.5g\n",
		total.nodes, total.leaves, t.nodes[t.root].height, t.margin)

	depth := make(map[int32]int, len(order))
	for _, i := range order {
		n := &t.nodes[i]
		d := 0
		if n.parent != nullNode {
			d = depth[n.parent] + 1
		}
		depth[i] = d
		ind := strings.Repeat("\t", d)
		if n.isLeaf() {
			fmt.Fprintf(bw, "%sLEAF  id=%v | fat=%v tight=%v\n", ind, n.id, n.fat, n.tight)
			continue
		}
		c := counts[i]
		fmt.Fprintf(bw, "%sNODE  nodes=%d leaves=%d | fat=%v\n", ind, c.nodes, c.leaves, n.fat)
	}
	return bw.Flush()
}

// preorder lists reachable node indices parent, left, right.
func (t *Tree[T]) preorder() []int32 {
	if t.root == nullNode {
		return nil
	}
	order := make([]int32, 0, t.allocated)
	stack := []int32{t.root}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, i)

		n := &t.nodes[i]
		if !n.isLeaf() {
			stack = append(stack, n.right, n.left)
		}
	}
	return order
}
