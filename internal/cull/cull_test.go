package cull

import (
	"math/rand"
	"testing"

	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukaszgryglicki/aabbtree/internal/aabb"
)

func box(t testing.TB, x0, y0, x1, y1 float32) aabb.AABB {
	t.Helper()
	b, err := aabb.New(math32.Vec2(x0, y0), math32.Vec2(x1, y1))
	require.NoError(t, err)
	return b
}

func obj(id int, b aabb.AABB, static bool) Object[int] {
	return Object[int]{ID: id, Box: b, Static: static, Visible: true}
}

func TestCollectStaticAndDynamic(t *testing.T) {
	x := New[int](DefaultConfig())
	objs := []Object[int]{
		obj(1, box(t, 0, 0, 1, 1), true),
		obj(2, box(t, 5, 5, 6, 6), false),
		obj(3, box(t, 50, 50, 51, 51), false),
	}
	got := x.Collect(objs, nil, box(t, -1, -1, 10, 10))
	assert.ElementsMatch(t, []int{1, 2}, got)
	assert.Equal(t, 1, x.Static().Len())
	assert.Equal(t, 2, x.Dynamic().Len())
	assert.Equal(t, 3, x.Stats().Inserts)

	// small move stays inside the dynamic margin
	objs[1].Box = box(t, 5.5, 5.5, 6.5, 6.5)
	got = x.Collect(objs, nil, box(t, -1, -1, 10, 10))
	assert.ElementsMatch(t, []int{1, 2}, got)
	assert.Equal(t, 0, x.Stats().Reinserts)

	// large move leaves the view and forces a reinsert
	objs[1].Box = box(t, 30, 30, 31, 31)
	got = x.Collect(objs, nil, box(t, -1, -1, 10, 10))
	assert.ElementsMatch(t, []int{1}, got)
	assert.Equal(t, 1, x.Stats().Reinserts)
}

func TestStaticPlacedOnce(t *testing.T) {
	x := New[int](DefaultConfig())
	objs := []Object[int]{obj(1, box(t, 0, 0, 1, 1), true)}
	x.Collect(objs, nil, box(t, -1, -1, 2, 2))

	objs[0].Box = box(t, 20, 20, 21, 21)
	x.Collect(objs, nil, box(t, -1, -1, 2, 2))
	b, err := x.Static().Get(1)
	require.NoError(t, err)
	assert.Equal(t, box(t, 0, 0, 1, 1), b)
	assert.Equal(t, 1, x.Stats().Inserts)
}

func TestMigration(t *testing.T) {
	x := New[int](DefaultConfig())
	view := box(t, -1, -1, 2, 2)
	objs := []Object[int]{obj(1, box(t, 0, 0, 1, 1), true)}
	x.Collect(objs, nil, view)
	require.True(t, x.Static().Has(1))

	objs[0].Static = false
	assert.Equal(t, []int{1}, x.Collect(objs, nil, view))
	assert.False(t, x.Static().Has(1))
	assert.True(t, x.Dynamic().Has(1))

	objs[0].Static = true
	assert.Equal(t, []int{1}, x.Collect(objs, nil, view))
	assert.True(t, x.Static().Has(1))
	assert.False(t, x.Dynamic().Has(1))
	assert.Equal(t, 2, x.Stats().Migrations)
	assert.Equal(t, 1, x.Len())
}

func TestNoCullingAndInvisible(t *testing.T) {
	x := New[int](DefaultConfig())
	view := box(t, 0, 0, 1, 1)
	objs := []Object[int]{
		obj(1, box(t, 100, 100, 101, 101), false),
		obj(2, box(t, 0.2, 0.2, 0.8, 0.8), false),
		obj(3, box(t, 0.2, 0.2, 0.8, 0.8), true),
	}
	objs[0].NoCulling = true
	objs[2].Visible = false

	got := x.Collect(objs, nil, view)
	assert.ElementsMatch(t, []int{1, 2}, got)
	assert.Equal(t, 1, x.Len())

	// an object that becomes invisible leaves the index
	objs[1].Visible = false
	assert.ElementsMatch(t, []int{1}, x.Collect(objs, nil, view))
	assert.Equal(t, 0, x.Len())
}

func TestPrune(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PruneFrequency = 3
	x := New[int](cfg)
	view := box(t, -100, -100, 100, 100)

	objs := []Object[int]{
		obj(1, box(t, 0, 0, 1, 1), true),
		obj(2, box(t, 2, 2, 3, 3), false),
		obj(3, box(t, 4, 4, 5, 5), false),
	}
	dead := map[int]bool{}
	alive := func(id int) bool { return !dead[id] }

	x.Collect(objs, alive, view)
	// objects 1 and 2 are destroyed and no longer reported to Collect
	dead[1], dead[2] = true, true
	objs = objs[2:]

	got := x.Collect(objs, alive, view)
	assert.ElementsMatch(t, []int{3}, got)
	assert.Equal(t, 3, x.Len(), "stale entries stay until the next sweep")
	got = x.Collect(objs, alive, view)
	assert.ElementsMatch(t, []int{3}, got)
	assert.Equal(t, 1, x.Len())

	st := x.Stats()
	assert.Equal(t, 1, st.Prunes)
	assert.Equal(t, 2, st.Pruned)
	assert.Equal(t, 3, st.Calls)
}

func TestQueryAndReset(t *testing.T) {
	x := New[int](DefaultConfig())
	x.Collect([]Object[int]{
		obj(1, box(t, 0, 0, 1, 1), true),
		obj(2, box(t, 0, 0, 1, 1), false),
	}, nil, box(t, 0, 0, 1, 1))
	assert.ElementsMatch(t, []int{1, 2}, x.Query(box(t, 0.5, 0.5, 2, 2)))
	assert.Empty(t, x.Query(box(t, 1, 1, 2, 2)))

	x.Reset()
	assert.Equal(t, 0, x.Len())
	assert.Equal(t, Stats{}, x.Stats())
}

func TestObjectTransform(t *testing.T) {
	o := obj(1, box(t, 0, 0, 1, 1), false)
	assert.Equal(t, o.Box, o.WorldBox())

	o.Transform = math32.Translate2D(10, 0)
	wb := o.WorldBox()
	assert.InDelta(t, 10, wb.Min().X, 1e-5)
	assert.InDelta(t, 11, wb.Max().X, 1e-5)

	x := New[int](DefaultConfig())
	got := x.Collect([]Object[int]{o}, nil, box(t, 9, 0, 12, 1))
	assert.Equal(t, []int{1}, got)
}

func TestViewBox(t *testing.T) {
	b := box(t, -1, -2, 3, 4)
	assert.Equal(t, b.Transform(math32.Translate2D(5, 5)), ViewBox(b, math32.Translate2D(5, 5)))
	assert.Equal(t, b.Transform(math32.Scale2D(2, 3)), ViewBox(b, math32.Scale2D(2, 3)))

	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 200; i++ {
		angle := rng.Float32()*2*math32.Pi + 0.01
		m := math32.Translate2D(rng.Float32()*10, rng.Float32()*10).Mul(math32.Rotate2D(angle))
		vb := ViewBox(b, m)
		require.True(t, vb.Expand(1e-3).Contains(b.Transform(m)), "angle %g: %v vs %v", angle, vb, b.Transform(m))

		// the circle box only depends on the diagonal, not on the angle
		assert.InDelta(t, vb.Width(), vb.Height(), 1e-3)
	}
}
