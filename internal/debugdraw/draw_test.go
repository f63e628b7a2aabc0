package debugdraw

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/lukaszgryglicki/aabbtree/internal/aabb"
	"github.com/lukaszgryglicki/aabbtree/internal/aabbtree"
)

func box(t testing.TB, x0, y0, x1, y1 float32) aabb.AABB {
	t.Helper()
	b, err := aabb.New(math32.Vec2(x0, y0), math32.Vec2(x1, y1))
	require.NoError(t, err)
	return b
}

func rgba(c color.Color) color.RGBA {
	return color.RGBAModel.Convert(c).(color.RGBA)
}

func sample(t *testing.T) (*aabbtree.Tree[int], Options) {
	tr := aabbtree.New[int](0)
	require.NoError(t, tr.Insert(1, box(t, 1, 1, 3, 3)))
	require.NoError(t, tr.Insert(2, box(t, 6, 6, 8, 8)))
	return tr, Options{
		Width:  101,
		Height: 101,
		World:  box(t, 0, 0, 10, 10),
		View:   box(t, 0, 0, 10, 10),
	}
}

func TestCanvasPixel(t *testing.T) {
	c := NewCanvas(101, 101, box(t, 0, 0, 10, 10))
	assert.Equal(t, image.Pt(0, 100), c.Pixel(math32.Vec2(0, 0)))
	assert.Equal(t, image.Pt(100, 0), c.Pixel(math32.Vec2(10, 10)))
	assert.Equal(t, image.Pt(10, 90), c.Pixel(math32.Vec2(1, 1)))

	// outlines outside the image are clipped
	c.Rect(box(t, -50, -50, 50, 50), LeafColor)
	assert.Equal(t, Background, c.Img.RGBAAt(50, 50))
}

func TestRender(t *testing.T) {
	tr, opts := sample(t)
	img := Render(tr, opts)
	require.Equal(t, image.Rect(0, 0, 101, 101), img.Bounds())

	assert.Equal(t, LeafColor, img.RGBAAt(10, 80), "leaf 1 left edge")
	assert.Equal(t, LeafColor, img.RGBAAt(70, 20), "leaf 2 top edge")
	assert.Equal(t, rgba(DepthColor(0)), img.RGBAAt(45, 20), "root top edge")
	assert.Equal(t, ViewColor, img.RGBAAt(0, 50))
	assert.Equal(t, Background, img.RGBAAt(50, 50))

	opts.Leaves = true
	img = Render(tr, opts)
	assert.Equal(t, LeafColor, img.RGBAAt(10, 80))
	assert.Equal(t, Background, img.RGBAAt(45, 20), "internal nodes are skipped")
}

func TestRenderDefaults(t *testing.T) {
	tr, _ := sample(t)
	img := Render(tr, Options{})
	assert.Equal(t, image.Rect(0, 0, 512, 512), img.Bounds())

	img = Render(aabbtree.New[int](0), Options{Width: 8, Height: 8})
	assert.Equal(t, Background, img.RGBAAt(4, 4))
}

func TestSave(t *testing.T) {
	tr, opts := sample(t)
	img := Render(tr, opts)
	dir := t.TempDir()

	for _, name := range []string{"tree.png", "tree.bmp", "TREE.BMP"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, Save(img, path))

			f, err := os.Open(path)
			require.NoError(t, err)
			defer f.Close()
			var got image.Image
			if filepath.Ext(name) == ".png" {
				got, err = png.Decode(f)
			} else {
				got, err = bmp.Decode(f)
			}
			require.NoError(t, err)
			assert.Equal(t, img.Bounds(), got.Bounds())
			assert.Equal(t, LeafColor, rgba(got.At(10, 80)))
			assert.Equal(t, Background, rgba(got.At(50, 50)))
		})
	}

	assert.Error(t, Save(img, filepath.Join(dir, "tree.gif")))
}
