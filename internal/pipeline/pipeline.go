package pipeline

import (
	"context"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/google/uuid"
	"github.com/ironsheep/quadtree-tools/internal/ppm"
	"github.com/ironsheep/quadtree-tools/internal/preview"
	"github.com/ironsheep/quadtree-tools/internal/quadtree"
)

// Output describes one file written by a run.
type Output struct {
	// Path is the pixel grid written.
	Path string `json:"path"`

	// PreviewPath is the preview image written next to it, if any.
	PreviewPath string `json:"preview_path,omitempty"`

	// Pass is PassCompress or PassEdges.
	Pass string `json:"pass"`

	// Level is the leaf-to-pixel ratio asked for, zero when a raw
	// threshold or edge detection was run.
	Level float64 `json:"level,omitempty"`

	// Threshold is the squared-error threshold the compression pass ran with.
	Threshold float64 `json:"threshold,omitempty"`

	// Stats are the tree counters of the pass.
	Stats quadtree.Stats `json:"stats"`

	// Duration is the time spent in the pass, excluding I/O.
	Duration time.Duration `json:"duration"`
}

// Result lists everything a run wrote.
type Result struct {
	RunID   string   `json:"run_id"`
	Width   int      `json:"width"`
	Height  int      `json:"height"`
	Outputs []Output `json:"outputs"`
}

// Run reads opts.Input once and runs the requested passes on private
// copies of it, writing one file per pass. Compression runs before edge
// detection. metrics may be nil.
func Run(ctx context.Context, opts Options, metrics *Metrics) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logs.WithTag("run_id", runID).
		WithTag("input", opts.Input).
		WithTag("compress", opts.Compress).
		WithTag("edges", opts.Edges).
		WithTag("outline", opts.Outline).
		Info("starting run")

	src, err := ppm.ReadFile(opts.Input)
	if err != nil {
		return nil, err
	}

	res := &Result{
		RunID:  runID,
		Width:  src.Width,
		Height: src.Height,
	}

	if opts.Compress {
		if err := runCompression(ctx, opts, metrics, src, res); err != nil {
			return nil, err
		}
	}

	if opts.Edges {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out, err := runEdges(opts, metrics, src)
		if err != nil {
			return nil, err
		}
		logOutput(runID, out)
		res.Outputs = append(res.Outputs, out)
	}

	logs.WithTag("run_id", runID).
		WithTag("outputs", len(res.Outputs)).
		Info("run finished")
	return res, nil
}

func runCompression(ctx context.Context, opts Options, metrics *Metrics, src *quadtree.Buffer, res *Result) error {
	n := len(opts.Thresholds)
	if n == 0 {
		n = len(opts.levels())
	}

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		tree, err := quadtree.NewTree(src.Clone(), opts.Config)
		if err != nil {
			return err
		}

		out := Output{Path: opts.CompressedPath(i + 1), Pass: PassCompress}
		start := time.Now()
		if len(opts.Thresholds) > 0 {
			out.Threshold = opts.Thresholds[i]
			tree.Compress(out.Threshold, opts.Outline)
		} else {
			out.Level = opts.levels()[i]
			if out.Threshold, err = tree.CompressToRatio(out.Level, opts.Outline); err != nil {
				return err
			}
		}
		out.Duration = time.Since(start)
		out.Stats = tree.Stats()
		metrics.instrumentPass(PassCompress, out.Stats, start)

		if err := write(opts, tree.Buffer(), &out); err != nil {
			return err
		}
		logOutput(res.RunID, out)
		res.Outputs = append(res.Outputs, out)
	}
	return nil
}

func runEdges(opts Options, metrics *Metrics, src *quadtree.Buffer) (Output, error) {
	buf := quadtree.Smooth(src, opts.BlurRadius)

	tree, err := quadtree.NewTree(buf, opts.Config)
	if err != nil {
		return Output{}, err
	}

	out := Output{Path: opts.EdgePath(), Pass: PassEdges}
	start := time.Now()
	tree.DetectEdges(opts.Outline)
	out.Duration = time.Since(start)
	out.Stats = tree.Stats()
	metrics.instrumentPass(PassEdges, out.Stats, start)

	if err := write(opts, buf, &out); err != nil {
		return Output{}, err
	}
	return out, nil
}

func write(opts Options, buf *quadtree.Buffer, out *Output) error {
	if err := ppm.WriteFile(out.Path, buf); err != nil {
		return err
	}
	if opts.Preview == nil {
		return nil
	}

	out.PreviewPath = opts.previewPath(out.Path)
	if err := preview.WriteFile(out.PreviewPath, buf, opts.Preview, opts.PreviewGrid); err != nil {
		return errors.New("failed to write preview").
			WithTag("path", out.PreviewPath).
			Wrap(err)
	}
	return nil
}

func logOutput(runID string, out Output) {
	logs.WithTag("run_id", runID).
		WithTag("pass", out.Pass).
		WithTag("path", out.Path).
		WithTag("level", out.Level).
		WithTag("threshold", out.Threshold).
		WithTag("leaves", out.Stats.Leaves).
		WithTag("duration", out.Duration).
		Info("pass written")
}
