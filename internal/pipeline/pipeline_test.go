package pipeline

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/ironsheep/quadtree-tools/internal/ppm"
	"github.com/ironsheep/quadtree-tools/internal/preview"
	"github.com/ironsheep/quadtree-tools/internal/quadtree"
	"github.com/stretchr/testify/require"
)

// writeInput writes a 32x24 noisy grid with a sharp vertical edge and
// returns its path and contents.
func writeInput(t *testing.T, dir string) (string, *quadtree.Buffer) {
	t.Helper()
	rng := rand.New(rand.NewSource(7))
	b := quadtree.NewBuffer(32, 24)
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			base := 20
			if x >= b.Width/2 {
				base = 220
			}
			v := uint8(base + rng.Intn(16))
			b.Set(x, y, quadtree.Pixel{R: v, G: v, B: v})
		}
	}
	path := filepath.Join(dir, "input.ppm")
	require.NoError(t, ppm.WriteFile(path, b))
	return path, b
}

func baseOptions(t *testing.T) (Options, *quadtree.Buffer) {
	dir := t.TempDir()
	input, src := writeInput(t, dir)
	return Options{
		Input:      input,
		OutputRoot: filepath.Join(dir, "out"),
		Config:     quadtree.DefaultConfig(),
	}, src
}

func TestRun_CompressWritesEveryLevel(t *testing.T) {
	opts, src := baseOptions(t)
	opts.Compress = true

	res, err := Run(context.Background(), opts, nil)
	require.NoError(t, err)
	require.NotEmpty(t, res.RunID)
	require.Equal(t, 32, res.Width)
	require.Equal(t, 24, res.Height)
	require.Len(t, res.Outputs, len(DefaultLevels))

	for i, out := range res.Outputs {
		require.Equal(t, fmt.Sprintf("%s-%d.ppm", opts.OutputRoot, i+1), out.Path)
		require.Equal(t, PassCompress, out.Pass)
		require.Equal(t, DefaultLevels[i], out.Level)

		budget := int(math.Max(1, math.Floor(out.Level*float64(src.Area()))))
		require.LessOrEqual(t, out.Stats.Leaves, budget, "level %v", out.Level)

		got, err := ppm.ReadFile(out.Path)
		require.NoError(t, err)
		require.Equal(t, src.Width, got.Width)
		require.Equal(t, src.Height, got.Height)
	}

	_, err = os.Stat(opts.EdgePath())
	require.True(t, os.IsNotExist(err))
}

func TestRun_LevelsResolveToThresholds(t *testing.T) {
	opts, src := baseOptions(t)
	opts.Compress = true
	opts.Levels = []float64{0.01, 0.2}

	res, err := Run(context.Background(), opts, nil)
	require.NoError(t, err)
	require.Len(t, res.Outputs, 2)

	for _, out := range res.Outputs {
		buf := src.Clone()
		tree, err := quadtree.NewTree(buf, opts.Config)
		require.NoError(t, err)
		tree.Compress(out.Threshold, opts.Outline)
		require.Equal(t, out.Stats, tree.Stats(), "level %v", out.Level)

		got, err := ppm.ReadFile(out.Path)
		require.NoError(t, err)
		require.True(t, buf.Equal(got), "level %v", out.Level)
	}
	require.Greater(t, res.Outputs[0].Threshold, res.Outputs[1].Threshold)
}

func TestRun_InputIsNotModified(t *testing.T) {
	opts, src := baseOptions(t)
	opts.Compress = true
	opts.Edges = true
	opts.Outline = true

	_, err := Run(context.Background(), opts, nil)
	require.NoError(t, err)

	after, err := ppm.ReadFile(opts.Input)
	require.NoError(t, err)
	require.True(t, src.Equal(after))
}

func TestRun_Edges(t *testing.T) {
	opts, _ := baseOptions(t)
	opts.Edges = true

	res, err := Run(context.Background(), opts, nil)
	require.NoError(t, err)
	require.Len(t, res.Outputs, 1)

	out := res.Outputs[0]
	require.Equal(t, PassEdges, out.Pass)
	require.Equal(t, opts.OutputRoot+".ppm", out.Path)

	got, err := ppm.ReadFile(out.Path)
	require.NoError(t, err)
	for _, p := range got.Pix {
		require.Contains(t, []quadtree.Pixel{quadtree.Black, quadtree.White}, p)
	}
}

func TestRun_EdgesMatchesDirectPass(t *testing.T) {
	opts, src := baseOptions(t)
	opts.Edges = true

	res, err := Run(context.Background(), opts, nil)
	require.NoError(t, err)

	want := src.Clone()
	tree, err := quadtree.NewTree(want, opts.Config)
	require.NoError(t, err)
	tree.DetectEdges(false)

	got, err := ppm.ReadFile(res.Outputs[0].Path)
	require.NoError(t, err)
	require.True(t, want.Equal(got))
	require.Equal(t, tree.Stats(), res.Outputs[0].Stats)
}

func TestRun_Thresholds(t *testing.T) {
	opts, src := baseOptions(t)
	opts.Compress = true
	opts.Thresholds = []float64{0, quadtree.SquaredErrorCeiling + 1}

	res, err := Run(context.Background(), opts, nil)
	require.NoError(t, err)
	require.Len(t, res.Outputs, 2)

	lossless, err := ppm.ReadFile(res.Outputs[0].Path)
	require.NoError(t, err)
	require.True(t, src.Equal(lossless))
	require.Equal(t, src.Area(), res.Outputs[0].Stats.Leaves)

	require.Equal(t, 1, res.Outputs[1].Stats.Leaves)
	flat, err := ppm.ReadFile(res.Outputs[1].Path)
	require.NoError(t, err)
	mean := src.Bounds().MeanColor(src)
	for _, p := range flat.Pix {
		require.Equal(t, mean, p)
	}
}

func TestRun_BothPassesInOneRun(t *testing.T) {
	opts, _ := baseOptions(t)
	opts.Compress = true
	opts.Edges = true
	opts.Levels = []float64{0.01, 0.5}

	res, err := Run(context.Background(), opts, nil)
	require.NoError(t, err)
	require.Len(t, res.Outputs, 3)
	require.Equal(t, PassCompress, res.Outputs[0].Pass)
	require.Equal(t, PassCompress, res.Outputs[1].Pass)
	require.Equal(t, PassEdges, res.Outputs[2].Pass)
}

func TestRun_ZstdAndPreview(t *testing.T) {
	opts, _ := baseOptions(t)
	opts.Compress = true
	opts.Edges = true
	opts.Levels = []float64{0.1}
	opts.Zstd = true

	enc, err := preview.NewEncoder("png", 0)
	require.NoError(t, err)
	opts.Preview = enc

	res, err := Run(context.Background(), opts, nil)
	require.NoError(t, err)
	require.Len(t, res.Outputs, 2)

	require.Equal(t, opts.OutputRoot+"-1.ppm.zst", res.Outputs[0].Path)
	require.Equal(t, opts.OutputRoot+"-1.png", res.Outputs[0].PreviewPath)
	require.Equal(t, opts.OutputRoot+".ppm.zst", res.Outputs[1].Path)
	require.Equal(t, opts.OutputRoot+".png", res.Outputs[1].PreviewPath)

	for _, out := range res.Outputs {
		_, err := ppm.ReadFile(out.Path)
		require.NoError(t, err)
		info, err := os.Stat(out.PreviewPath)
		require.NoError(t, err)
		require.Positive(t, info.Size())
	}
}

func TestRun_Blur(t *testing.T) {
	opts, _ := baseOptions(t)
	opts.Edges = true
	opts.BlurRadius = 1.5

	res, err := Run(context.Background(), opts, nil)
	require.NoError(t, err)
	require.Len(t, res.Outputs, 1)
}

func TestRun_Metrics(t *testing.T) {
	opts, _ := baseOptions(t)
	opts.Compress = true
	opts.Edges = true
	opts.Levels = []float64{0.01, 0.1, 0.5}

	metrics := NewMetrics()
	_, err := Run(context.Background(), opts, metrics)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "quadtree.prom")
	require.NoError(t, metrics.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	require.Contains(t, text, `quadtree_passes_total{pass="compress"} 3`)
	require.Contains(t, text, `quadtree_passes_total{pass="edges"} 1`)
	require.Contains(t, text, `quadtree_leaves_count{pass="compress"} 3`)
	require.Contains(t, text, "quadtree_pass_duration_seconds_bucket")
}

func TestRun_Cancelled(t *testing.T) {
	opts, _ := baseOptions(t)
	opts.Compress = true

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, opts, nil)
	require.ErrorIs(t, err, context.Canceled)

	_, err = os.Stat(opts.CompressedPath(1))
	require.True(t, os.IsNotExist(err))
}

func TestRun_MalformedInput(t *testing.T) {
	opts, _ := baseOptions(t)
	opts.Compress = true
	require.NoError(t, os.WriteFile(opts.Input, []byte("P3\n2 2\n255\n1 2 3\n"), 0o644))

	_, err := Run(context.Background(), opts, nil)
	require.Error(t, err)
	require.Equal(t, ppm.ErrTypeMalformedInput, errors.Type(err))

	matches, err := filepath.Glob(opts.OutputRoot + "*")
	require.NoError(t, err)
	require.Empty(t, matches)
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(o *Options)
	}{
		{"missing input", func(o *Options) { o.Input = "" }},
		{"missing output", func(o *Options) { o.OutputRoot = "" }},
		{"nothing to do", func(o *Options) {
			o.Compress = false
			o.Edges = false
		}},
		{"zero level", func(o *Options) { o.Levels = []float64{0} }},
		{"level above one", func(o *Options) { o.Levels = []float64{0.5, 1.5} }},
		{"NaN level", func(o *Options) { o.Levels = []float64{math.NaN()} }},
		{"negative threshold", func(o *Options) { o.Thresholds = []float64{-1} }},
		{"negative blur", func(o *Options) { o.BlurRadius = -2 }},
		{"negative grid spacing", func(o *Options) { o.PreviewGrid.Spacing = -4 }},
		{"bad config", func(o *Options) { o.Config.MaxLeafArea = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Options{
				Input:      "in.ppm",
				OutputRoot: "out",
				Compress:   true,
				Config:     quadtree.DefaultConfig(),
			}
			require.NoError(t, opts.Validate())

			tt.modify(&opts)
			err := opts.Validate()
			require.Error(t, err)
			require.Equal(t, ErrTypeInvalidOptions, errors.Type(err))
		})
	}
}

func TestOptions_Paths(t *testing.T) {
	opts := Options{OutputRoot: "dir/img"}
	require.Equal(t, "dir/img-3.ppm", opts.CompressedPath(3))
	require.Equal(t, "dir/img.ppm", opts.EdgePath())

	opts.Zstd = true
	require.Equal(t, "dir/img-8.ppm.zst", opts.CompressedPath(8))
	require.True(t, strings.HasSuffix(opts.EdgePath(), ".ppm.zst"))
}
