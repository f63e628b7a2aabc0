package aabbtree

import (
	"math/rand"
	"testing"

	"cogentcore.org/core/base/tolassert"
	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukaszgryglicki/aabbtree/internal/aabb"
)

func rowTree(t *testing.T) *Tree[int] {
	tr := New[int](0.5)
	require.NoError(t, tr.Insert(1, mk(t, 2, 0, 3, 1)))
	require.NoError(t, tr.Insert(2, mk(t, 5, 0, 6, 1)))
	require.NoError(t, tr.Insert(3, mk(t, 8, 0, 9, 1)))
	require.NoError(t, tr.Insert(4, mk(t, 5, 5, 6, 6)))
	return tr
}

func TestRayCastHits(t *testing.T) {
	tr := rowTree(t)
	r := aabb.Ray{Origin: math32.Vec2(0, 0.5), Dir: math32.Vec2(1, 0), MaxT: 100}

	var hits []int
	tr.RayCast(r, func(id int, _ float32) bool {
		hits = append(hits, id)
		return true
	})
	assert.ElementsMatch(t, []int{1, 2, 3}, hits)

	calls := 0
	tr.RayCast(r, func(int, float32) bool {
		calls++
		return false
	})
	assert.Equal(t, 1, calls)

	// the fat box of 4 is hit at y=4.6 but its tight box is not
	hits = hits[:0]
	tr.RayCast(aabb.Ray{Origin: math32.Vec2(0, 4.6), Dir: math32.Vec2(1, 0), MaxT: 100}, func(id int, _ float32) bool {
		hits = append(hits, id)
		return true
	})
	assert.Empty(t, hits)
}

func TestNearest(t *testing.T) {
	tr := rowTree(t)
	id, tHit, ok := tr.Nearest(aabb.Ray{Origin: math32.Vec2(0, 0.5), Dir: math32.Vec2(1, 0), MaxT: 100})
	require.True(t, ok)
	assert.Equal(t, 1, id)
	tolassert.EqualTol(t, 2, tHit, 1e-5)

	id, _, ok = tr.Nearest(aabb.Ray{Origin: math32.Vec2(10, 0.5), Dir: math32.Vec2(-1, 0), MaxT: 100})
	require.True(t, ok)
	assert.Equal(t, 3, id)

	_, _, ok = tr.Nearest(aabb.Ray{Origin: math32.Vec2(0, 0.5), Dir: math32.Vec2(1, 0), MaxT: 1})
	assert.False(t, ok)

	_, _, ok = New[int](0).Nearest(aabb.Ray{Dir: math32.Vec2(1, 0), MaxT: 1})
	assert.False(t, ok)
}

func TestRayCastAgainstBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	tr := New[int](1)
	ref := map[int]aabb.AABB{}
	for i := 0; i < 400; i++ {
		b := randBox(rng, 100, 4)
		require.NoError(t, tr.Insert(i, b))
		ref[i] = b
	}

	for k := 0; k < 200; k++ {
		r := aabb.Segment(
			math32.Vec2(rng.Float32()*100, rng.Float32()*100),
			math32.Vec2(rng.Float32()*100, rng.Float32()*100),
		)
		var want []int
		bestT := float32(math32.Infinity)
		for id, b := range ref {
			if ok, th := b.IntersectRay(r); ok {
				want = append(want, id)
				bestT = min(bestT, th)
			}
		}
		var got []int
		tr.RayCast(r, func(id int, _ float32) bool {
			got = append(got, id)
			return true
		})
		require.ElementsMatch(t, want, got, "ray %d", k)

		_, tHit, ok := tr.Nearest(r)
		require.Equal(t, len(want) > 0, ok)
		if ok {
			tolassert.EqualTol(t, bestT, tHit, 1e-5)
		}
	}
}
