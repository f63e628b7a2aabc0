package sim

import (
	"context"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"cogentcore.org/core/math32"

	"github.com/lukaszgryglicki/aabbtree/internal/aabb"
	"github.com/lukaszgryglicki/aabbtree/internal/aabbtree"
)

// QueryLoad runs queries random boxes of size viewSize inside world against
// tree, split across workers (0 means one per CPU). It returns the total
// number of hits. Each worker has its own RNG seeded from seed.
func QueryLoad(ctx context.Context, tree *aabbtree.Locked[int], queries int, world, viewSize float32, workers int, seed int64) (int, error) {
	if queries <= 0 {
		return 0, nil
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > queries {
		workers = queries
	}

	per, rem := queries/workers, queries%workers
	var wg sync.WaitGroup
	hitsCh := make(chan int, workers)

	for wid := 0; wid < workers; wid++ {
		n := per
		if wid < rem {
			n++
		}
		wg.Add(1)
		go func(wid, n int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed ^ int64(uint64(wid)*0x9e3779b97f4a7c15)))
			span := max(world-viewSize, 0)

			local := 0
			for i := 0; i < n; i++ {
				if i%64 == 0 && ctx.Err() != nil {
					break
				}
				lo := math32.Vec2(rng.Float32()*span, rng.Float32()*span)
				q, _ := aabb.New(lo, lo.AddScalar(viewSize))
				local += len(tree.Query(q))
			}
			hitsCh <- local
		}(wid, n)
	}

	wg.Wait()
	close(hitsCh)

	total := 0
	for h := range hitsCh {
		total += h
	}
	return total, ctx.Err()
}

// BenchResult is the outcome of Bench.
type BenchResult struct {
	Objects  int
	Queries  int
	Hits     int
	Height   int
	Build    time.Duration
	Query    time.Duration
	Validate error
}

// Bench fills a shared tree with the bodies of a fresh world and measures
// parallel query throughput against it.
func Bench(ctx context.Context, w *World, margin float32, opts []aabbtree.Option, queries, workers int) (*BenchResult, error) {
	tree := aabbtree.NewLocked[int](margin, opts...)
	res := &BenchResult{Objects: len(w.bodies), Queries: queries}

	start := time.Now()
	for i := range w.bodies {
		o := &w.bodies[i].obj
		if err := tree.Insert(o.ID, o.WorldBox()); err != nil {
			return nil, err
		}
	}
	res.Build = time.Since(start)

	start = time.Now()
	hits, err := QueryLoad(ctx, tree, queries, w.cfg.World, w.cfg.ViewSize, workers, w.cfg.Seed)
	res.Query = time.Since(start)
	res.Hits = hits
	tree.Do(func(t *aabbtree.Tree[int]) {
		res.Height = t.Height()
		res.Validate = t.Validate()
	})
	return res, err
}
