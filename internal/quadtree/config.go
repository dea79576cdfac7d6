package quadtree

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
)

// ErrTypeInvalidConfig tags errors returned by Config.Validate.
const ErrTypeInvalidConfig = "invalid-config"

// Kernel is a 3x3 convolution kernel indexed [row][column].
type Kernel [3][3]int

// LaplacianKernel is the 8-neighbor discrete Laplacian. Its response on a
// uniform neighborhood is 0.
var LaplacianKernel = Kernel{
	{-1, -1, -1},
	{-1, 8, -1},
	{-1, -1, -1},
}

// NegativeKernel has a negative center weight, so it responds to brightness
// as well as to change. Kept for reproducing output made with it.
var NegativeKernel = Kernel{
	{-1, -1, -1},
	{-1, -8, -1},
	{-1, -1, -1},
}

// Defaults for Config.
//
// DefaultGradientThreshold sits below 3*255*sqrt(3), the Laplacian response
// on either side of a straight black/white step, so such an edge is found.
// A threshold of 1500 only fits NegativeKernel, whose response includes
// brightness.
const (
	DefaultMaxLeafArea       = 128
	DefaultGradientThreshold = 1000.0
	DefaultMaxSquaredError   = 75.0
	DefaultBorderWidth       = 1
	DefaultParallelMinArea   = 64 * 64
)

// Config holds the fixed parameters of both passes.
type Config struct {
	// Kernel is convolved around a pixel to get its gradient magnitude.
	Kernel Kernel

	// MaxLeafArea is the largest region the edge pass classifies per pixel.
	MaxLeafArea int

	// GradientThreshold is the magnitude at or above which a pixel is an edge.
	GradientThreshold float64

	// MaxSquaredError is the squared error below which the edge pass treats
	// a region as uniform.
	MaxSquaredError float64

	// OutlineColor paints region borders in outline mode.
	OutlineColor Pixel

	// BorderWidth is the outline thickness in pixels.
	BorderWidth int

	// Parallel runs the quadrants of large regions in their own goroutines.
	Parallel bool

	// ParallelMinArea is the smallest region whose quadrants are spawned
	// concurrently when Parallel is set.
	ParallelMinArea int
}

// DefaultConfig returns the standard pass parameters.
func DefaultConfig() Config {
	return Config{
		Kernel:            LaplacianKernel,
		MaxLeafArea:       DefaultMaxLeafArea,
		GradientThreshold: DefaultGradientThreshold,
		MaxSquaredError:   DefaultMaxSquaredError,
		OutlineColor:      Gray,
		BorderWidth:       DefaultBorderWidth,
		ParallelMinArea:   DefaultParallelMinArea,
	}
}

// Validate rejects parameters that would break pass termination or rendering.
func (c Config) Validate() error {
	if c.MaxLeafArea < 1 {
		return errors.New("max leaf area must be at least 1").
			WithType(ErrTypeInvalidConfig).
			WithTag("max_leaf_area", c.MaxLeafArea)
	}
	if c.BorderWidth < 1 {
		return errors.New("border width must be at least 1").
			WithType(ErrTypeInvalidConfig).
			WithTag("border_width", c.BorderWidth)
	}
	if c.GradientThreshold < 0 {
		return errors.New("gradient threshold must not be negative").
			WithType(ErrTypeInvalidConfig).
			WithTag("gradient_threshold", c.GradientThreshold)
	}
	if c.Parallel && c.ParallelMinArea < 4 {
		return errors.New("parallel min area must be at least 4").
			WithType(ErrTypeInvalidConfig).
			WithTag("parallel_min_area", c.ParallelMinArea)
	}
	return nil
}
