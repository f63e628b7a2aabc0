package debugdraw

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"cogentcore.org/core/base/logx"
	"golang.org/x/image/bmp"
)

// Save writes img to path, choosing the format from the extension
// (.png or .bmp).
func Save(img image.Image, path string) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return SavePNG(img, path)
	case ".bmp":
		return SaveBMP(img, path)
	default:
		return fmt.Errorf("debugdraw: unsupported image format %q", ext)
	}
}

// SavePNG writes a lossless PNG.
func SavePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	logx.PrintfDebug("debugdraw: saved %s\n", path)
	return nil
}

// SaveBMP writes an uncompressed BMP.
func SaveBMP(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := bmp.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	logx.PrintfDebug("debugdraw: saved %s\n", path)
	return nil
}
