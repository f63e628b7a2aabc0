// Package debugdraw renders the boxes of an AABB tree to an image so the
// shape of the hierarchy can be inspected by eye.
package debugdraw

import (
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"

	"cogentcore.org/core/math32"

	"github.com/lukaszgryglicki/aabbtree/internal/aabb"
	"github.com/lukaszgryglicki/aabbtree/internal/aabbtree"
)

var (
	Background = color.RGBA{0x10, 0x10, 0x18, 0xff}
	LeafColor  = color.RGBA{0xff, 0xff, 0xff, 0xff}
	ViewColor  = color.RGBA{0xff, 0x30, 0x30, 0xff}
)

// Options control Render. Zero Width or Height fall back to 512.
type Options struct {
	Width, Height int

	// Leaves skips the internal nodes and draws tight leaf boxes only.
	Leaves bool

	// World is the region drawn; the root's fat box when empty.
	World aabb.AABB

	// View, when non-empty, is outlined on top.
	View aabb.AABB
}

// Canvas maps world coordinates to pixels, y up.
type Canvas struct {
	Img   *image.RGBA
	world aabb.AABB
	scale math32.Vector2
}

// NewCanvas returns a canvas of w x h pixels showing world.
func NewCanvas(w, h int, world aabb.AABB) *Canvas {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{Background}, image.Point{}, draw.Src)
	c := &Canvas{Img: img, world: world}
	ww, wh := world.Width(), world.Height()
	if ww <= 0 {
		ww = 1
	}
	if wh <= 0 {
		wh = 1
	}
	c.scale = math32.Vec2(float32(w-1)/ww, float32(h-1)/wh)
	return c
}

// Pixel converts a world point to image coordinates.
func (c *Canvas) Pixel(p math32.Vector2) image.Point {
	d := p.Sub(c.world.Min())
	x := int(math32.Round(d.X * c.scale.X))
	y := c.Img.Rect.Dy() - 1 - int(math32.Round(d.Y*c.scale.Y))
	return image.Pt(x, y)
}

// Rect outlines b.
func (c *Canvas) Rect(b aabb.AABB, col color.Color) {
	p0 := c.Pixel(b.Min())
	p1 := c.Pixel(b.Max())
	// y is flipped so p1 is the top edge
	x0, x1 := min(p0.X, p1.X), max(p0.X, p1.X)
	y0, y1 := min(p0.Y, p1.Y), max(p0.Y, p1.Y)
	for x := x0; x <= x1; x++ {
		c.set(x, y0, col)
		c.set(x, y1, col)
	}
	for y := y0; y <= y1; y++ {
		c.set(x0, y, col)
		c.set(x1, y, col)
	}
}

func (c *Canvas) set(x, y int, col color.Color) {
	if image.Pt(x, y).In(c.Img.Rect) {
		c.Img.Set(x, y, col)
	}
}

// DepthColor picks a stable colour per tree level.
func DepthColor(depth int) color.Color {
	// skip the darkest entries of the palette
	p := palette.WebSafe[108:]
	return p[(depth*37)%len(p)]
}

// Render draws every node of t: internal fat boxes coloured by depth,
// then leaf tight boxes.
func Render[T comparable](t *aabbtree.Tree[T], opts Options) *image.RGBA {
	if opts.Width <= 0 {
		opts.Width = 512
	}
	if opts.Height <= 0 {
		opts.Height = 512
	}
	world := opts.World
	if world == (aabb.AABB{}) {
		t.Walk(func(n aabbtree.NodeInfo[T]) bool {
			world = n.Fat
			return false
		})
		world = world.Expand(0.02 * max(world.Width(), world.Height()))
	}

	c := NewCanvas(opts.Width, opts.Height, world)
	var leaves []aabb.AABB
	t.Walk(func(n aabbtree.NodeInfo[T]) bool {
		if n.Leaf {
			leaves = append(leaves, n.Tight)
		}
		if !opts.Leaves {
			c.Rect(n.Fat, DepthColor(n.Depth))
		}
		return true
	})
	for _, b := range leaves {
		c.Rect(b, LeafColor)
	}
	if opts.View != (aabb.AABB{}) {
		c.Rect(opts.View, ViewColor)
	}
	return c.Img
}
