package quadtree

import (
	"math"

	"github.com/anthonynsimon/bild/convolution"
)

// Smooth returns a Gaussian-blurred copy of buf with the given standard
// deviation in pixels. A non-positive radius returns an unmodified copy.
//
// The Laplacian used by DetectEdges amplifies pixel noise; blurring first
// trades fine detail for fewer speckles. Both separable passes round to the
// nearest value, so flat areas keep their exact color.
func Smooth(buf *Buffer, radius float64) *Buffer {
	if radius <= 0 {
		return buf.Clone()
	}

	k := gaussianKernel(radius)
	opts := &convolution.Options{Bias: 0.5, KeepAlpha: true}
	img := convolution.Convolve(buf.Image(), k, opts)
	img = convolution.Convolve(img, k.Transposed(), opts)
	return FromImage(img)
}

// gaussianKernel returns a normalized horizontal kernel of odd length
// centered on zero.
func gaussianKernel(sigma float64) convolution.Matrix {
	half := int(math.Ceil(2 * sigma))
	k := convolution.NewKernel(2*half+1, 1)
	for i := range k.Matrix {
		x := float64(i - half)
		k.Matrix[i] = math.Exp(-(x * x) / (2 * sigma * sigma))
	}
	return k.Normalized()
}
