package aabb

import (
	"testing"

	"cogentcore.org/core/base/tolassert"
	"github.com/stretchr/testify/assert"
)

func TestIntersectRay_HitAndMiss(t *testing.T) {
	b := box(t, -1, -1, 1, 1)

	ok, tEnter := b.IntersectRay(Ray{Origin: v2(-3, 0), Dir: v2(1, 0), MaxT: 10})
	assert.True(t, ok)
	tolassert.EqualTol(t, 2, tEnter, tol)

	// parallel, outside the slab
	ok, _ = b.IntersectRay(Ray{Origin: v2(-3, 2), Dir: v2(1, 0), MaxT: 10})
	assert.False(t, ok)

	// pointing away
	ok, _ = b.IntersectRay(Ray{Origin: v2(-3, 0), Dir: v2(-1, 0), MaxT: 10})
	assert.False(t, ok)

	// too short
	ok, _ = b.IntersectRay(Ray{Origin: v2(-3, 0), Dir: v2(1, 0), MaxT: 1.5})
	assert.False(t, ok)
}

func TestIntersectRay_InsideOrigin(t *testing.T) {
	b := box(t, -1, -1, 1, 1)
	ok, tEnter := b.IntersectRay(Ray{Origin: v2(0, 0), Dir: v2(0, 1), MaxT: 1})
	assert.True(t, ok)
	assert.Equal(t, float32(0), tEnter)
}

func TestIntersectRay_Diagonal(t *testing.T) {
	b := box(t, 2, 2, 3, 3)
	ok, tEnter := b.IntersectRay(Segment(v2(0, 0), v2(4, 4)))
	assert.True(t, ok)
	tolassert.EqualTol(t, 0.5, tEnter, tol)

	ok, _ = b.IntersectRay(Segment(v2(0, 0), v2(4, -4)))
	assert.False(t, ok)
}
