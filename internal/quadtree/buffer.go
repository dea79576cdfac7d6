package quadtree

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Buffer is a row-major grid of pixels. Passes mutate it in place.
//
// Coordinates follow the image convention: (0,0) is the top-left pixel,
// X grows rightward (columns) and Y grows downward (rows).
type Buffer struct {
	Width  int
	Height int
	Pix    []Pixel
}

// NewBuffer allocates a black buffer of the given size.
func NewBuffer(width, height int) *Buffer {
	return &Buffer{
		Width:  width,
		Height: height,
		Pix:    make([]Pixel, width*height),
	}
}

// Filled allocates a buffer where every pixel is p.
func Filled(width, height int, p Pixel) *Buffer {
	b := NewBuffer(width, height)
	for i := range b.Pix {
		b.Pix[i] = p
	}
	return b
}

// At returns the pixel at column x, row y.
func (b *Buffer) At(x, y int) Pixel {
	return b.Pix[y*b.Width+x]
}

// Set writes the pixel at column x, row y.
func (b *Buffer) Set(x, y int, p Pixel) {
	b.Pix[y*b.Width+x] = p
}

// Area returns Width*Height.
func (b *Buffer) Area() int {
	return b.Width * b.Height
}

// Bounds returns the region covering the whole buffer.
func (b *Buffer) Bounds() *Region {
	return &Region{XTop: 0, YTop: 0, XBot: b.Width, YBot: b.Height}
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	c := &Buffer{Width: b.Width, Height: b.Height, Pix: make([]Pixel, len(b.Pix))}
	copy(c.Pix, b.Pix)
	return c
}

// Equal reports whether both buffers have the same size and pixels.
func (b *Buffer) Equal(o *Buffer) bool {
	if b.Width != o.Width || b.Height != o.Height {
		return false
	}
	for i := range b.Pix {
		if b.Pix[i] != o.Pix[i] {
			return false
		}
	}
	return true
}

// Image converts the buffer to an opaque NRGBA image.
func (b *Buffer) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			p := b.At(x, y)
			img.SetNRGBA(x, y, color.NRGBA{R: p.R, G: p.G, B: p.B, A: 255})
		}
	}
	return img
}

// FromImage copies any image into a new buffer. Alpha is dropped; the
// image's origin becomes (0,0).
func FromImage(img image.Image) *Buffer {
	src := imaging.Clone(img)
	bounds := src.Bounds()
	b := NewBuffer(bounds.Dx(), bounds.Dy())
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			c := src.NRGBAAt(x+bounds.Min.X, y+bounds.Min.Y)
			b.Set(x, y, Pixel{R: c.R, G: c.G, B: c.B})
		}
	}
	return b
}
