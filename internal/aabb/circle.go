package aabb

import (
	"fmt"

	"cogentcore.org/core/math32"
)

// Circle is a bounding circle. It is used to get a rotation-independent
// box for objects and views whose transform includes a rotation.
type Circle struct {
	Centre math32.Vector2
	Radius float32
}

// NewCircle validates the radius.
func NewCircle(centre math32.Vector2, radius float32) (Circle, error) {
	if !(radius >= 0) {
		return Circle{}, fmt.Errorf("%w: %g", ErrNegativeRadius, radius)
	}
	return Circle{Centre: centre, Radius: radius}, nil
}

// CircleFrom returns the circle through the transformed min and max corners
// of b: centred on their midpoint with half their distance as radius.
func CircleFrom(b AABB, m math32.Matrix2) Circle {
	tMin := m.MulVector2AsPoint(b.min)
	tMax := m.MulVector2AsPoint(b.max)
	return Circle{
		Centre: tMin.Add(tMax).MulScalar(0.5),
		Radius: tMin.DistanceTo(tMax) * 0.5,
	}
}

// AABB is the square enclosing the circle.
func (c Circle) AABB() AABB {
	r := math32.Abs(c.Radius)
	return makeAABB(c.Centre.SubScalar(r), c.Centre.AddScalar(r))
}

// Intersects reports whether the circles overlap; touching does not count.
func (c Circle) Intersects(o Circle) bool {
	d := o.Centre.Sub(c.Centre)
	r := c.Radius + o.Radius
	return d.X*d.X+d.Y*d.Y < r*r
}
