// Package render turns posed meshes into scalar raster buffers: transform,
// edge-function rasterization, flat Lambert shading, error-diffusion
// dithering and the sinks that present the result.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
)

// Target is a row-major scalar raster the rasterizer writes shade values to.
// Values are nominally in [0, 1].
type Target interface {
	Width() int
	Height() int
	Set(x, y int, v float64)
}

// Buffer is a width x height row-major scalar buffer. It is the default
// Target and the input to the dithering pass and the frame sinks.
type Buffer struct {
	width  int
	height int
	pix    []float64
}

// NewBuffer creates a zeroed buffer.
func NewBuffer(width, height int) *Buffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Buffer{
		width:  width,
		height: height,
		pix:    make([]float64, width*height),
	}
}

// Width returns the buffer width in pixels.
func (b *Buffer) Width() int { return b.width }

// Height returns the buffer height in pixels.
func (b *Buffer) Height() int { return b.height }

// Pix returns the backing row-major slice. Index (x, y) is y*Width()+x.
func (b *Buffer) Pix() []float64 { return b.pix }

// Clear fills the buffer with v.
func (b *Buffer) Clear(v float64) {
	n := len(b.pix)
	if n == 0 {
		return
	}
	b.pix[0] = v
	for i := 1; i < n; i *= 2 {
		copy(b.pix[i:], b.pix[:i])
	}
}

// Set writes v at (x, y). Out of range writes are ignored.
func (b *Buffer) Set(x, y int, v float64) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	b.pix[y*b.width+x] = v
}

// At returns the value at (x, y), or 0 when out of range.
func (b *Buffer) At(x, y int) float64 {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return 0
	}
	return b.pix[y*b.width+x]
}

// Dither quantizes the buffer in place. See Dither.
func (b *Buffer) Dither(opts DitherOptions) {
	Dither(b.pix, b.width, b.height, opts)
}

// ToImage converts the buffer to an 8-bit grayscale image. Values are
// clamped to [0, 1]; NaN maps to black.
func (b *Buffer) ToImage() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, b.width, b.height))
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			img.SetGray(x, y, gray(b.pix[y*b.width+x]))
		}
	}
	return img
}

func gray(v float64) color.Gray {
	if !(v > 0) {
		return color.Gray{}
	}
	if v >= 1 {
		return color.Gray{Y: 255}
	}
	return color.Gray{Y: uint8(v*255 + 0.5)}
}

// SavePNG saves the buffer as a grayscale PNG file.
func (b *Buffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, b.ToImage()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// SaveBMP saves the buffer as a BMP file.
func (b *Buffer) SaveBMP(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := bmp.Encode(f, b.ToImage()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Save picks the encoder from the file extension (.png or .bmp).
func (b *Buffer) Save(path string) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return b.SavePNG(path)
	case ".bmp":
		return b.SaveBMP(path)
	default:
		return fmt.Errorf("unsupported image format %q", ext)
	}
}
