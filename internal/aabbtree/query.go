package aabbtree

import "github.com/lukaszgryglicki/aabbtree/internal/aabb"

// Query returns the ids whose tight box overlaps box, in no particular order.
// The result is empty when nothing overlaps.
func (t *Tree[T]) Query(box aabb.AABB) []T {
	return t.AppendQuery(nil, box)
}

// AppendQuery appends the ids overlapping box to dst and returns it.
func (t *Tree[T]) AppendQuery(dst []T, box aabb.AABB) []T {
	t.QueryFunc(box, func(id T) bool {
		dst = append(dst, id)
		return true
	})
	return dst
}

// QueryFunc calls fn for each id whose tight box overlaps box until fn
// returns false. It returns the number of nodes visited.
// fn must not modify the tree.
func (t *Tree[T]) QueryFunc(box aabb.AABB, fn func(id T) bool) int {
	if t.root == nullNode {
		return 0
	}
	var buf [64]int32
	stack := append(buf[:0], t.root)
	visited := 0
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visited++

		n := &t.nodes[i]
		if n.isLeaf() {
			if n.tight.Overlaps(box) && !fn(n.id) {
				return visited
			}
			continue
		}
		if n.fat.Overlaps(box) {
			stack = append(stack, n.left, n.right)
		}
	}
	return visited
}

// RayCast calls fn for every id whose tight box is hit by r, passing the
// entry parameter. Children are visited near to far, so hits arrive in
// roughly increasing t. Returning false from fn stops the cast.
// fn must not modify the tree.
func (t *Tree[T]) RayCast(r aabb.Ray, fn func(id T, tHit float32) bool) {
	t.castRay(r, func(id T, tHit, maxT float32) (float32, bool) {
		return maxT, fn(id, tHit)
	})
}

// Nearest returns the id with the smallest entry parameter along r.
func (t *Tree[T]) Nearest(r aabb.Ray) (id T, tHit float32, ok bool) {
	t.castRay(r, func(hit T, th, maxT float32) (float32, bool) {
		if !ok || th < tHit {
			id, tHit, ok = hit, th, true
		}
		return tHit, true
	})
	return id, tHit, ok
}

// castRay traverses nodes hit by r. The callback returns the new limit for t,
// which lets nearest-hit searches prune farther subtrees.
func (t *Tree[T]) castRay(r aabb.Ray, fn func(id T, tHit, maxT float32) (float32, bool)) {
	if t.root == nullNode {
		return
	}
	ok, tRoot := t.nodes[t.root].fat.IntersectRay(r)
	if !ok {
		return
	}

	type entry struct {
		i    int32
		tmin float32
	}
	stack := []entry{{i: t.root, tmin: tRoot}}
	for len(stack) > 0 {
		// pop
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if e.tmin > r.MaxT {
			continue
		}

		n := &t.nodes[e.i]
		if n.isLeaf() {
			hit, th := n.tight.IntersectRay(r)
			if !hit {
				continue
			}
			maxT, proceed := fn(n.id, th, r.MaxT)
			if !proceed {
				return
			}
			r.MaxT = maxT
			continue
		}

		// order children near→far (push far first so near is processed next)
		lOK, lT := t.nodes[n.left].fat.IntersectRay(r)
		rOK, rT := t.nodes[n.right].fat.IntersectRay(r)
		left, right := n.left, n.right
		switch {
		case lOK && rOK:
			if lT < rT {
				stack = append(stack, entry{right, rT}, entry{left, lT})
			} else {
				stack = append(stack, entry{left, lT}, entry{right, rT})
			}
		case lOK:
			stack = append(stack, entry{left, lT})
		case rOK:
			stack = append(stack, entry{right, rT})
		}
	}
}
