package pipeline

import (
	"math"
	"strconv"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/ironsheep/quadtree-tools/internal/ppm"
	"github.com/ironsheep/quadtree-tools/internal/preview"
	"github.com/ironsheep/quadtree-tools/internal/quadtree"
)

// ErrTypeInvalidOptions tags errors caused by an unusable Options value.
const ErrTypeInvalidOptions = "invalid-options"

// DefaultLevels are the compression levels run by "-c", as leaf-to-pixel
// ratios in ascending order.
var DefaultLevels = []float64{0.002, 0.004, 0.01, 0.033, 0.077, 0.2, 0.5, 0.75}

// Options describes one run over an input file.
type Options struct {
	// Input is the pixel grid to read.
	Input string

	// OutputRoot is the output file name root. Compression writes
	// "<root>-<n>.ppm" per level and edge detection writes "<root>.ppm".
	OutputRoot string

	// Compress runs the compression pass once per level.
	Compress bool

	// Edges runs the edge detection pass.
	Edges bool

	// Outline draws leaf borders in whichever pass runs.
	Outline bool

	// Levels are leaf-to-pixel ratios in (0, 1]. Defaults to DefaultLevels.
	Levels []float64

	// Thresholds, when set, replace Levels with raw squared-error
	// thresholds.
	Thresholds []float64

	// Config tunes both passes.
	Config quadtree.Config

	// BlurRadius smooths the input with a Gaussian blur before edge
	// detection. Zero disables it.
	BlurRadius float64

	// Preview, when set, writes a viewable copy of every output next to it.
	Preview preview.Encoder

	// PreviewGrid is drawn over every preview.
	PreviewGrid preview.Grid

	// Zstd writes "<name>.ppm.zst" instead of "<name>.ppm".
	Zstd bool
}

// Validate reports the first problem with o.
func (o Options) Validate() error {
	if o.Input == "" {
		return invalid("missing input file")
	}
	if o.OutputRoot == "" {
		return invalid("missing output root")
	}
	if !o.Compress && !o.Edges {
		return invalid("nothing to do: enable compression or edge detection")
	}
	for _, l := range o.Levels {
		if math.IsNaN(l) || l <= 0 || l > 1 {
			return invalid("compression level out of range", "level", l)
		}
	}
	for _, t := range o.Thresholds {
		if math.IsNaN(t) || t < 0 {
			return invalid("negative threshold", "threshold", t)
		}
	}
	if math.IsNaN(o.BlurRadius) || o.BlurRadius < 0 {
		return invalid("negative blur radius", "blur_radius", o.BlurRadius)
	}
	if o.PreviewGrid.Spacing < 0 {
		return invalid("negative preview grid spacing", "spacing", o.PreviewGrid.Spacing)
	}
	if err := o.Config.Validate(); err != nil {
		return errors.New("invalid tree configuration").
			WithType(ErrTypeInvalidOptions).
			Wrap(err)
	}
	return nil
}

func (o Options) levels() []float64 {
	if len(o.Levels) == 0 {
		return DefaultLevels
	}
	return o.Levels
}

func (o Options) extension() string {
	if o.Zstd {
		return ppm.Extension + ppm.CompressedSuffix
	}
	return ppm.Extension
}

// CompressedPath returns the output path of the n-th compression level,
// counting from 1.
func (o Options) CompressedPath(n int) string {
	return o.OutputRoot + "-" + strconv.Itoa(n) + o.extension()
}

// EdgePath returns the output path of the edge detection pass.
func (o Options) EdgePath() string {
	return o.OutputRoot + o.extension()
}

// previewPath swaps the grid extension of path for the preview's.
func (o Options) previewPath(path string) string {
	return path[:len(path)-len(o.extension())] + o.Preview.FileExtension()
}

// invalid builds an invalid-options error. tags are key/value pairs.
func invalid(msg string, tags ...any) error {
	err := errors.New(msg).WithType(ErrTypeInvalidOptions)
	for i := 0; i+1 < len(tags); i += 2 {
		err = err.WithTag(tags[i].(string), tags[i+1])
	}
	return err
}
