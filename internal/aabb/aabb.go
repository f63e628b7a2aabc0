// Package aabb provides the 2D axis-aligned bounding box used by the spatial
// index, together with the bounding circle and ray helpers built on it.
package aabb

import (
	"fmt"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/math32"
)

var (
	// ErrInvalidBounds is returned when min > max on any axis.
	ErrInvalidBounds = errors.New("aabb: min must not exceed max")
	// ErrNoPoints is returned when a box is requested for an empty point set.
	ErrNoPoints = errors.New("aabb: no points")
	// ErrNegativeRadius is returned for circles with a negative or NaN radius.
	ErrNegativeRadius = errors.New("aabb: negative radius")
)

// AABB is an axis-aligned box with min <= max on both axes.
// The zero value is the degenerate box at the origin.
// Centre and area are cached and kept in sync by every mutation.
type AABB struct {
	min, max math32.Vector2
	centre   math32.Vector2
	area     float32
}

// New returns the box spanning min..max.
func New(min, max math32.Vector2) (AABB, error) {
	if !valid(min, max) {
		return AABB{}, fmt.Errorf("%w: min=%v max=%v", ErrInvalidBounds, min, max)
	}
	return makeAABB(min, max), nil
}

// FromPoints returns the smallest box containing every point.
func FromPoints(points ...math32.Vector2) (AABB, error) {
	if len(points) == 0 {
		return AABB{}, ErrNoPoints
	}
	min, max := points[0], points[0]
	for _, p := range points[1:] {
		min = min.Min(p)
		max = max.Max(p)
	}
	if !valid(min, max) {
		return AABB{}, fmt.Errorf("%w: min=%v max=%v", ErrInvalidBounds, min, max)
	}
	return makeAABB(min, max), nil
}

// FromCircle returns the bounding box of a circle.
func FromCircle(centre math32.Vector2, radius float32) (AABB, error) {
	if !(radius >= 0) {
		return AABB{}, fmt.Errorf("%w: %g", ErrNegativeRadius, radius)
	}
	return New(centre.SubScalar(radius), centre.AddScalar(radius))
}

// FromBox2 converts a cogentcore box. Empty boxes are rejected.
func FromBox2(b math32.Box2) (AABB, error) {
	return New(b.Min, b.Max)
}

// Union returns the smallest box containing both a and b.
func Union(a, b AABB) AABB {
	return makeAABB(a.min.Min(b.min), a.max.Max(b.max))
}

// makeAABB skips validation; callers guarantee min <= max.
func makeAABB(min, max math32.Vector2) AABB {
	b := AABB{min: min, max: max}
	b.refresh()
	return b
}

// valid is false for NaN on either corner.
func valid(min, max math32.Vector2) bool {
	return min.X <= max.X && min.Y <= max.Y
}

func (b *AABB) refresh() {
	b.centre = b.min.Add(b.max).MulScalar(0.5)
	b.area = b.Width() * b.Height()
}

// Min is the lower-left corner.
func (b AABB) Min() math32.Vector2 { return b.min }

// Max is the upper-right corner.
func (b AABB) Max() math32.Vector2 { return b.max }

// Centre is cached; it is the midpoint of Min and Max.
func (b AABB) Centre() math32.Vector2 { return b.centre }

// Width and Height are the extents along X and Y.
func (b AABB) Width() float32  { return b.max.X - b.min.X }
func (b AABB) Height() float32 { return b.max.Y - b.min.Y }

// SurfaceArea is width*height; in 2D the "surface" is the box area.
func (b AABB) SurfaceArea() float32 { return b.area }

// SetMin replaces the min corner, validated against the current max.
func (b *AABB) SetMin(min math32.Vector2) error {
	if !valid(min, b.max) {
		return fmt.Errorf("%w: min=%v max=%v", ErrInvalidBounds, min, b.max)
	}
	b.min = min
	b.refresh()
	return nil
}

// SetMax replaces the max corner, validated against the current min.
func (b *AABB) SetMax(max math32.Vector2) error {
	if !valid(b.min, max) {
		return fmt.Errorf("%w: min=%v max=%v", ErrInvalidBounds, b.min, max)
	}
	b.max = max
	b.refresh()
	return nil
}

// Contains reports whether other lies within b; touching boundaries count.
func (b AABB) Contains(other AABB) bool {
	return other.min.X >= b.min.X && other.max.X <= b.max.X &&
		other.min.Y >= b.min.Y && other.max.Y <= b.max.Y
}

// Overlaps reports whether b and other share interior area on both axes.
// Boxes that only share an edge or a corner do not overlap.
func (b AABB) Overlaps(other AABB) bool {
	return b.max.X > other.min.X && b.min.X < other.max.X &&
		b.max.Y > other.min.Y && b.min.Y < other.max.Y
}

// Expand grows the box by margin in all four directions.
// Negative margins are treated as zero so the result stays valid.
func (b AABB) Expand(margin float32) AABB {
	if margin <= 0 {
		return b
	}
	return makeAABB(b.min.SubScalar(margin), b.max.AddScalar(margin))
}

// Transform maps the four corners through m and returns their bounding box.
func (b AABB) Transform(m math32.Matrix2) AABB {
	nb := b.Box2().MulMatrix2(m)
	return makeAABB(nb.Min, nb.Max)
}

// Translate moves the box by offset.
func (b AABB) Translate(offset math32.Vector2) AABB {
	return makeAABB(b.min.Add(offset), b.max.Add(offset))
}

// Scale multiplies both corners by s, e.g. to convert pixels to world units.
func (b AABB) Scale(s float32) (AABB, error) {
	return New(b.min.MulScalar(s), b.max.MulScalar(s))
}

// Box2 converts to a cogentcore box.
func (b AABB) Box2() math32.Box2 {
	return math32.Box2{Min: b.min, Max: b.max}
}

func (b AABB) String() string {
	return fmt.Sprintf("[(%.5g,%.5g) (%.5g,%.5g)]", b.min.X, b.min.Y, b.max.X, b.max.Y)
}
