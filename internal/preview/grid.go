package preview

import (
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"github.com/ironsheep/quadtree-tools/internal/quadtree"
)

// Grid draws coordinate lines over a preview so leaf positions can be read
// off by eye.
type Grid struct {
	// Spacing is the distance between lines in source pixels. Zero disables
	// the grid.
	Spacing int

	// Color of the lines.
	Color quadtree.Pixel

	// Labels prints "x,y" at every crossing.
	Labels bool
}

// Apply draws the grid over a copy of img.
func (g Grid) Apply(img image.Image) image.Image {
	if g.Spacing <= 0 {
		return img
	}

	bounds := img.Bounds()
	out := image.NewNRGBA(bounds)
	draw.Draw(out, bounds, img, bounds.Min, draw.Src)

	line := color.NRGBA{R: g.Color.R, G: g.Color.G, B: g.Color.B, A: 255}
	for x := bounds.Min.X + g.Spacing; x < bounds.Max.X; x += g.Spacing {
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			out.SetNRGBA(x, y, line)
		}
	}
	for y := bounds.Min.Y + g.Spacing; y < bounds.Max.Y; y += g.Spacing {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			out.SetNRGBA(x, y, line)
		}
	}

	if g.Labels {
		fg := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
		bg := color.NRGBA{A: 255}
		for y := bounds.Min.Y + g.Spacing; y < bounds.Max.Y; y += g.Spacing {
			for x := bounds.Min.X + g.Spacing; x < bounds.Max.X; x += g.Spacing {
				label := strconv.Itoa(x-bounds.Min.X) + "," + strconv.Itoa(y-bounds.Min.Y)
				drawLabel(out, x+2, y+2, label, fg, bg)
			}
		}
	}
	return out
}

// 3x5 glyphs for digits and the comma.
var glyphs = map[rune][5]string{
	'0': {"111", "101", "101", "101", "111"},
	'1': {"010", "110", "010", "010", "111"},
	'2': {"111", "001", "111", "100", "111"},
	'3': {"111", "001", "111", "001", "111"},
	'4': {"101", "101", "111", "001", "001"},
	'5': {"111", "100", "111", "001", "111"},
	'6': {"111", "100", "111", "101", "111"},
	'7': {"111", "001", "001", "001", "001"},
	'8': {"111", "101", "111", "101", "111"},
	'9': {"111", "101", "111", "001", "111"},
	',': {"000", "000", "000", "010", "010"},
}

const (
	glyphAdvance = 4
	labelHeight  = 7
)

// drawLabel draws text on a filled background with its top-left at (x,y),
// clipped to the image.
func drawLabel(img *image.NRGBA, x, y int, text string, fg, bg color.NRGBA) {
	bounds := img.Bounds()
	set := func(px, py int, c color.NRGBA) {
		if image.Pt(px, py).In(bounds) {
			img.SetNRGBA(px, py, c)
		}
	}

	width := len(text) * glyphAdvance
	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < width; dx++ {
			set(x+dx, y+dy, bg)
		}
	}

	cx := x
	for _, ch := range text {
		if glyph, ok := glyphs[ch]; ok {
			for row, bits := range glyph {
				for col, bit := range bits {
					if bit == '1' {
						set(cx+col, y+row, fg)
					}
				}
			}
		}
		cx += glyphAdvance
	}
}
