package aabb

import "cogentcore.org/core/math32"

// Ray is a half-line from Origin along Dir, limited to parameter t in [0, MaxT].
// Dir need not be normalized; t is measured in multiples of Dir.
type Ray struct {
	Origin math32.Vector2
	Dir    math32.Vector2
	MaxT   float32
}

// rayRecips caches reciprocal direction components for slab tests.
type rayRecips struct {
	invX, invY float32
	parX, parY bool // parallel flags (|D| < eps)
}

func (r Ray) recips() rayRecips {
	const eps = 1e-12
	rr := rayRecips{}
	if x := r.Dir.X; x > eps || x < -eps {
		rr.invX = 1 / x
	} else {
		rr.parX = true
	}
	if y := r.Dir.Y; y > eps || y < -eps {
		rr.invY = 1 / y
	} else {
		rr.parY = true
	}
	return rr
}

// IntersectRay runs the slab test against b. It returns the entry parameter,
// clamped to 0 when the origin is inside the box.
func (b AABB) IntersectRay(r Ray) (bool, float32) {
	return b.slab(r, r.recips())
}

func (b AABB) slab(r Ray, rr rayRecips) (bool, float32) {
	tmin, tmax := float32(0), r.MaxT
	O := r.Origin

	// X
	if !rr.parX {
		t1 := (b.min.X - O.X) * rr.invX
		t2 := (b.max.X - O.X) * rr.invX
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
	} else if O.X < b.min.X || O.X > b.max.X {
		return false, 0
	}

	// Y
	if !rr.parY {
		t1 := (b.min.Y - O.Y) * rr.invY
		t2 := (b.max.Y - O.Y) * rr.invY
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
	} else if O.Y < b.min.Y || O.Y > b.max.Y {
		return false, 0
	}

	if tmin > tmax {
		return false, 0
	}
	return true, tmin
}

// Segment is a convenience wrapper for the ray from a to b (t in [0, 1]).
func Segment(a, b math32.Vector2) Ray {
	return Ray{Origin: a, Dir: b.Sub(a), MaxT: 1}
}
