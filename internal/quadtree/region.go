package quadtree

import (
	"fmt"
	"math"
)

// Region is a node of the decomposition tree: the half-open rectangle
// [XTop,XBot) × [YTop,YBot) of a buffer.
//
// A region either has no children (a leaf) or two to four children that tile
// it exactly. Four children come from a quadrant split; two come from a strip
// split or from bisecting a one-pixel-thin region, and occupy NW plus NE
// (side by side) or NW plus SW (stacked).
type Region struct {
	XTop, YTop int // inclusive
	XBot, YBot int // exclusive

	NW, NE, SW, SE *Region
}

// NewRegion returns a leaf covering [xTop,xBot) × [yTop,yBot).
func NewRegion(xTop, yTop, xBot, yBot int) *Region {
	return &Region{XTop: xTop, YTop: yTop, XBot: xBot, YBot: yBot}
}

func (r *Region) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", r.XTop, r.YTop, r.XBot, r.YBot)
}

// Width is the number of columns covered.
func (r *Region) Width() int { return r.XBot - r.XTop }

// Height is the number of rows covered.
func (r *Region) Height() int { return r.YBot - r.YTop }

// Area is the number of pixels covered. It is always at least 1.
func (r *Region) Area() int { return r.Width() * r.Height() }

// IsLeaf reports whether the region has no children.
func (r *Region) IsLeaf() bool {
	return r.NW == nil && r.NE == nil && r.SW == nil && r.SE == nil
}

// Children returns the non-nil children in NE, NW, SW, SE order.
func (r *Region) Children() []*Region {
	out := make([]*Region, 0, 4)
	for _, c := range []*Region{r.NE, r.NW, r.SW, r.SE} {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

// Walk visits r and every descendant depth-first, parents before children.
func (r *Region) Walk(fn func(*Region)) {
	fn(r)
	for _, c := range r.Children() {
		c.Walk(fn)
	}
}

// Leaves returns every leaf under r, including r itself if it is a leaf.
func (r *Region) Leaves() []*Region {
	var out []*Region
	r.Walk(func(n *Region) {
		if n.IsLeaf() {
			out = append(out, n)
		}
	})
	return out
}

// MeanColor returns the per-channel integer mean of the pixels in r.
func (r *Region) MeanColor(buf *Buffer) Pixel {
	var red, green, blue int64
	for y := r.YTop; y < r.YBot; y++ {
		row := buf.Pix[y*buf.Width : (y+1)*buf.Width]
		for x := r.XTop; x < r.XBot; x++ {
			p := row[x]
			red += int64(p.R)
			green += int64(p.G)
			blue += int64(p.B)
		}
	}
	area := int64(r.Area())
	return Pixel{
		R: uint8(red / area),
		G: uint8(green / area),
		B: uint8(blue / area),
	}
}

// SquaredError returns the sum over all pixels and channels of the squared
// deviation from the mean color, divided by the area. A uniform region has
// error 0.
func (r *Region) SquaredError(buf *Buffer) float64 {
	mean := r.MeanColor(buf)
	var sum int64
	for y := r.YTop; y < r.YBot; y++ {
		row := buf.Pix[y*buf.Width : (y+1)*buf.Width]
		for x := r.XTop; x < r.XBot; x++ {
			p := row[x]
			dr := int64(p.R) - int64(mean.R)
			dg := int64(p.G) - int64(mean.G)
			db := int64(p.B) - int64(mean.B)
			sum += dr*dr + dg*dg + db*db
		}
	}
	return float64(sum) / float64(r.Area())
}

// Gradient convolves kernel over the 3x3 neighborhood of pixel (x, y) per
// channel and returns the Euclidean norm of the three channel sums.
//
// Neighbors outside the buffer are clamped to the nearest edge pixel, each
// axis independently.
func Gradient(buf *Buffer, x, y int, kernel Kernel) float64 {
	var red, green, blue int64
	for ky := -1; ky <= 1; ky++ {
		py := clamp(y+ky, 0, buf.Height-1)
		for kx := -1; kx <= 1; kx++ {
			px := clamp(x+kx, 0, buf.Width-1)
			w := int64(kernel[ky+1][kx+1])
			p := buf.At(px, py)
			red += int64(p.R) * w
			green += int64(p.G) * w
			blue += int64(p.B) * w
		}
	}
	return math.Sqrt(float64(red*red + green*green + blue*blue))
}

// clamp constrains an integer value to the range [min, max].
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
