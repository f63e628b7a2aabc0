// Package sim drives a cull index with a field of moving boxes and a moving
// view, optionally checking every frame against a brute-force scan.
package sim

import (
	"context"
	"fmt"
	"math/rand"
	"slices"
	"time"

	"cogentcore.org/core/base/logx"
	"cogentcore.org/core/math32"

	"github.com/lukaszgryglicki/aabbtree/internal/aabb"
	"github.com/lukaszgryglicki/aabbtree/internal/config"
	"github.com/lukaszgryglicki/aabbtree/internal/cull"
)

// Report summarises a run.
type Report struct {
	Steps      int
	Objects    int
	Visible    int // summed over steps
	Reinserts  int
	Mismatches int
	Elapsed    time.Duration
	Stats      cull.Stats
}

func (r *Report) String() string {
	return fmt.Sprintf("steps=%d objects=%d visible/step=%.1f reinserts=%d mismatches=%d elapsed=%s",
		r.Steps, r.Objects, float64(r.Visible)/float64(max(1, r.Steps)), r.Reinserts, r.Mismatches, r.Elapsed)
}

type body struct {
	obj cull.Object[int]
	vel math32.Vector2
}

// World is the simulated scene.
type World struct {
	cfg    config.SimCfg
	rng    *rand.Rand
	index  *cull.Index[int]
	bodies []body
	alive  map[int]bool
	nextID int
	step   int
	view   aabb.AABB
}

// New builds the initial scene from cfg.
func New(cfg *config.Config) *World {
	sc := cfg.Sim
	w := &World{
		cfg:   sc,
		rng:   rand.New(rand.NewSource(sc.Seed)),
		index: cull.New[int](cfg.CullConfig()),
		alive: make(map[int]bool, sc.Objects),
	}
	nStatic := int(float32(sc.Objects) * sc.StaticShare)
	w.bodies = make([]body, 0, sc.Objects)
	for i := 0; i < sc.Objects; i++ {
		w.bodies = append(w.bodies, w.spawn(i < nStatic))
	}
	w.view = w.viewAt(0)
	return w
}

func (w *World) Index() *cull.Index[int] { return w.index }
func (w *World) View() aabb.AABB          { return w.view }

// Alive reports whether id is a live object.
func (w *World) Alive(id int) bool { return w.alive[id] }

func (w *World) spawn(static bool) body {
	id := w.nextID
	w.nextID++
	w.alive[id] = true

	size := math32.Vec2(1+w.rng.Float32()*(w.cfg.MaxSize-1), 1+w.rng.Float32()*(w.cfg.MaxSize-1))
	size = size.Min(math32.Vec2(w.cfg.MaxSize, w.cfg.MaxSize))
	lo := math32.Vec2(w.rng.Float32()*(w.cfg.World-size.X), w.rng.Float32()*(w.cfg.World-size.Y))
	b, _ := aabb.New(lo, lo.Add(size))

	var vel math32.Vector2
	if !static {
		vel = math32.Vec2(w.rng.Float32()*2-1, w.rng.Float32()*2-1).MulScalar(w.cfg.MaxSpeed)
	}
	return body{
		obj: cull.Object[int]{ID: id, Box: b, Static: static, Visible: true},
		vel: vel,
	}
}

// viewAt circles the view around the world centre.
func (w *World) viewAt(step int) aabb.AABB {
	half := w.cfg.ViewSize / 2
	local, _ := aabb.New(math32.Vec2(-half, -half), math32.Vec2(half, half))

	c := w.cfg.World / 2
	r := w.cfg.World / 4
	phase := float32(step) * 0.01
	centre := math32.Vec2(c+r*math32.Cos(phase), c+r*math32.Sin(phase))
	m := math32.Translate2D(centre.X, centre.Y)
	if w.cfg.ViewRotDeg != 0 {
		m = m.Mul(math32.Rotate2D(math32.DegToRad(w.cfg.ViewRotDeg * float32(step))))
	}
	return cull.ViewBox(local, m)
}

// move advances dynamic bodies, bouncing off the world edges.
func (w *World) move() {
	for i := range w.bodies {
		bd := &w.bodies[i]
		if bd.obj.Static {
			continue
		}
		b := bd.obj.Box.Translate(bd.vel)
		if b.Min().X < 0 || b.Max().X > w.cfg.World {
			bd.vel.X = -bd.vel.X
		}
		if b.Min().Y < 0 || b.Max().Y > w.cfg.World {
			bd.vel.Y = -bd.vel.Y
		}
		bd.obj.Box = bd.obj.Box.Translate(bd.vel)
	}
}

// churn destroys a share of the dynamic bodies and spawns replacements
// under new ids. The old ids stay in the index until it prunes them.
func (w *World) churn() int {
	if w.cfg.Churn <= 0 {
		return 0
	}
	n := 0
	for i := range w.bodies {
		bd := &w.bodies[i]
		if bd.obj.Static || w.rng.Float32() >= w.cfg.Churn {
			continue
		}
		delete(w.alive, bd.obj.ID)
		*bd = w.spawn(false)
		n++
	}
	return n
}

// Step advances one frame and returns the visible ids.
func (w *World) Step() []int {
	w.step++
	w.churn()
	w.move()
	w.view = w.viewAt(w.step)
	return w.index.Collect(w.Objects(), w.Alive, w.view)
}

// Objects returns a snapshot of the current bodies.
func (w *World) Objects() []cull.Object[int] {
	objs := make([]cull.Object[int], len(w.bodies))
	for i := range w.bodies {
		objs[i] = w.bodies[i].obj
	}
	return objs
}

// WorldBox is the square the bodies move in.
func WorldBox(cfg *config.Config) (aabb.AABB, error) {
	return aabb.New(math32.Vec2(0, 0), math32.Vec2(cfg.Sim.World, cfg.Sim.World))
}

// BruteForce returns the ids visible in the current view by scanning every
// body.
func (w *World) BruteForce() []int {
	var out []int
	for i := range w.bodies {
		o := &w.bodies[i].obj
		if !o.Visible {
			continue
		}
		if o.NoCulling || o.WorldBox().Overlaps(w.view) {
			out = append(out, o.ID)
		}
	}
	return out
}

// Run plays cfg.Sim.Steps frames. It stops early with ctx's error.
func Run(ctx context.Context, cfg *config.Config) (*Report, error) {
	w := New(cfg)
	rep := &Report{Objects: len(w.bodies)}
	start := time.Now()
	for s := 0; s < cfg.Sim.Steps; s++ {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		got := w.Step()
		rep.Steps++
		rep.Visible += len(got)
		if !cfg.Sim.Check {
			continue
		}
		want := w.BruteForce()
		slices.Sort(got)
		slices.Sort(want)
		if !slices.Equal(got, want) {
			rep.Mismatches++
			logx.PrintfDebug("sim: step %d: index returned %d ids, scan %d\n", s, len(got), len(want))
		}
	}
	rep.Elapsed = time.Since(start)
	rep.Stats = w.index.Stats()
	rep.Reinserts = rep.Stats.Reinserts
	logx.PrintfDebug("sim: %s\n", rep)
	return rep, nil
}
