// Package cull keeps per-view spatial indexes of renderable objects and
// answers "what is visible in this box" each frame. Static objects live in a
// tree without margin, moving objects in a tree with a margin so small
// motions do not restructure it.
package cull

import (
	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/base/logx"
	"cogentcore.org/core/math32"

	"github.com/lukaszgryglicki/aabbtree/internal/aabb"
	"github.com/lukaszgryglicki/aabbtree/internal/aabbtree"
)

// Config holds the tuning of an Index.
type Config struct {
	StaticMargin   float32
	DynamicMargin  float32
	PruneFrequency int // Collect calls between dead-object sweeps
}

// DefaultConfig matches the values the engine ships with.
func DefaultConfig() Config {
	return Config{
		StaticMargin:   0,
		DynamicMargin:  2,
		PruneFrequency: 60,
	}
}

// Object is one renderable as seen by the cull pass.
type Object[T comparable] struct {
	ID T

	// Box is the local bounding box, mapped to world space by Transform.
	// A zero Transform means identity.
	Box       aabb.AABB
	Transform math32.Matrix2
	Static    bool
	Visible   bool
	NoCulling bool
}

// WorldBox is the box the object is indexed with.
func (o Object[T]) WorldBox() aabb.AABB {
	if o.Transform == (math32.Matrix2{}) {
		return o.Box
	}
	return ViewBox(o.Box, o.Transform)
}

// Stats counts what the index did since it was created or reset.
type Stats struct {
	Calls      int
	Prunes     int
	Pruned     int
	Inserts    int
	Reinserts  int
	Migrations int
	Errors     int
}

// Index is the spatial index of one view.
type Index[T comparable] struct {
	cfg     Config
	static  *aabbtree.Tree[T]
	dynamic *aabbtree.Tree[T]
	stats   Stats
}

// New returns an empty index. A non-positive PruneFrequency disables pruning.
func New[T comparable](cfg Config) *Index[T] {
	return &Index[T]{
		cfg:     cfg,
		static:  aabbtree.New[T](cfg.StaticMargin),
		dynamic: aabbtree.New[T](cfg.DynamicMargin),
	}
}

func (x *Index[T]) Config() Config { return x.cfg }
func (x *Index[T]) Stats() Stats   { return x.stats }

// Static and Dynamic expose the trees for diagnostics.
func (x *Index[T]) Static() *aabbtree.Tree[T]  { return x.static }
func (x *Index[T]) Dynamic() *aabbtree.Tree[T] { return x.dynamic }

// Len is the number of indexed objects.
func (x *Index[T]) Len() int { return x.static.Len() + x.dynamic.Len() }

// Reset empties both trees and zeroes the stats.
func (x *Index[T]) Reset() {
	x.static.Clear()
	x.dynamic.Clear()
	x.stats = Stats{}
}

// Collect brings the index up to date with objects and returns the ids
// visible in view: every NoCulling object plus every indexed object whose
// box overlaps view. alive reports whether an id still exists; dead ids are
// never returned and are removed from the trees every PruneFrequency calls.
// alive may be nil when objects are never destroyed.
func (x *Index[T]) Collect(objects []Object[T], alive func(T) bool, view aabb.AABB) []T {
	x.stats.Calls++
	if alive != nil && x.cfg.PruneFrequency > 0 && x.stats.Calls%x.cfg.PruneFrequency == 0 {
		x.prune(alive)
	}

	var out []T
	for i := range objects {
		o := &objects[i]
		if !o.Visible {
			x.static.Remove(o.ID)
			x.dynamic.Remove(o.ID)
			continue
		}
		if o.NoCulling {
			x.static.Remove(o.ID)
			x.dynamic.Remove(o.ID)
			out = append(out, o.ID)
			continue
		}
		if o.Static {
			x.addStatic(o)
		} else {
			x.addDynamic(o)
		}
	}

	n := len(out)
	out = x.static.AppendQuery(out, view)
	out = x.dynamic.AppendQuery(out, view)
	if alive == nil {
		return out
	}
	// stale entries stay indexed until the next sweep
	kept := out[:n]
	for _, id := range out[n:] {
		if alive(id) {
			kept = append(kept, id)
		}
	}
	return kept
}

// Query returns the indexed ids overlapping view without touching the index.
func (x *Index[T]) Query(view aabb.AABB) []T {
	return x.dynamic.AppendQuery(x.static.Query(view), view)
}

func (x *Index[T]) addStatic(o *Object[T]) {
	if x.dynamic.Has(o.ID) {
		x.dynamic.Remove(o.ID)
		x.stats.Migrations++
	}
	// static objects are placed once
	if x.static.Has(o.ID) {
		return
	}
	if errors.Log(x.static.Insert(o.ID, o.WorldBox())) != nil {
		x.stats.Errors++
		return
	}
	x.stats.Inserts++
}

func (x *Index[T]) addDynamic(o *Object[T]) {
	if x.static.Has(o.ID) {
		x.static.Remove(o.ID)
		x.stats.Migrations++
	}
	box := o.WorldBox()
	if !x.dynamic.Has(o.ID) {
		if errors.Log(x.dynamic.Insert(o.ID, box)) != nil {
			x.stats.Errors++
			return
		}
		x.stats.Inserts++
		return
	}
	moved, err := x.dynamic.Update(o.ID, box)
	if errors.Log(err) != nil {
		x.stats.Errors++
		return
	}
	if moved {
		x.stats.Reinserts++
	}
}

func (x *Index[T]) prune(alive func(T) bool) {
	x.stats.Prunes++
	n := 0
	for _, tr := range []*aabbtree.Tree[T]{x.static, x.dynamic} {
		for _, id := range tr.IDs() {
			if !alive(id) {
				tr.Remove(id)
				n++
			}
		}
	}
	x.stats.Pruned += n
	logx.PrintfDebug("cull: pruned %d dead objects after %d calls\n", n, x.stats.Calls)
}

// ViewBox returns the box used for culling b under m. Without rotation it is
// the transformed box; with rotation it is the box of the bounding circle,
// which does not change as the view spins.
func ViewBox(b aabb.AABB, m math32.Matrix2) aabb.AABB {
	if m.ExtractRot() == 0 {
		return b.Transform(m)
	}
	return aabb.CircleFrom(b, m).AABB()
}
