package quadtree

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Pixel is an RGB triple with 8-bit channels.
type Pixel struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Fixed render colors.
var (
	Black = Pixel{0, 0, 0}
	White = Pixel{255, 255, 255}
	Gray  = Pixel{64, 64, 64}
)

// Hex returns the pixel as "#rrggbb".
func (p Pixel) Hex() string {
	return p.colorful().Hex()
}

func (p Pixel) colorful() colorful.Color {
	return colorful.Color{
		R: float64(p.R) / 255.0,
		G: float64(p.G) / 255.0,
		B: float64(p.B) / 255.0,
	}
}

// ParseHex parses a "#rrggbb" color string.
func ParseHex(s string) (Pixel, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Pixel{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return Pixel{R: r, G: g, B: b}, nil
}
