package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/ironsheep/quadtree-tools/internal/pipeline"
	"github.com/ironsheep/quadtree-tools/internal/preview"
	"github.com/ironsheep/quadtree-tools/internal/quadtree"
	"github.com/segmentio/encoding/json"
)

// Set via -ldflags at build time.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

const logLevelEnv = "QUADTREE_LOG_LEVEL"

type cliFlags struct {
	input        string
	outputRoot   string
	compress     bool
	edges        bool
	outline      bool
	threshold    float64
	outlineColor string
	borderWidth  int
	kernel       string
	blur         float64
	previewFmt   string
	quality      int
	gridSpacing  int
	gridLabels   bool
	zstd         bool
	parallel     bool
	metricsPath  string
	logLevel     string
	showVersion  bool
}

func newFlagSet(f *cliFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("quadtree", flag.ContinueOnError)

	fs.StringVar(&f.input, "i", "", "Input pixel grid (.ppm or .ppm.zst)")
	fs.StringVar(&f.outputRoot, "o", "", "Output file name root")
	fs.BoolVar(&f.compress, "c", false, "Run compression at each of the 8 levels, writing <root>-<n>.ppm")
	fs.BoolVar(&f.edges, "e", false, "Run edge detection, writing <root>.ppm")
	fs.BoolVar(&f.outline, "t", false, "Outline every leaf region")
	fs.Float64Var(&f.threshold, "threshold", -1, "Compress once at this squared-error threshold instead of the 8 levels")
	fs.StringVar(&f.outlineColor, "outline-color", quadtree.Gray.Hex(), "Outline color as #rrggbb")
	fs.IntVar(&f.borderWidth, "border", quadtree.DefaultBorderWidth, "Outline width in pixels")
	fs.StringVar(&f.kernel, "kernel", "laplacian", "Edge kernel: laplacian, negative")
	fs.Float64Var(&f.blur, "blur", 0, "Gaussian blur radius applied before edge detection")
	fs.StringVar(&f.previewFmt, "preview", "", "Also write a preview image: "+strings.Join(preview.Formats, ", "))
	fs.IntVar(&f.quality, "quality", preview.DefaultQuality, "JPEG/WebP preview quality 1-100")
	fs.IntVar(&f.gridSpacing, "preview-grid", 0, "Draw a coordinate grid with this spacing over previews")
	fs.BoolVar(&f.gridLabels, "preview-labels", false, "Label preview grid crossings with their coordinates")
	fs.BoolVar(&f.zstd, "zstd", false, "Write zstd compressed grids (.ppm.zst)")
	fs.BoolVar(&f.parallel, "parallel", false, "Process large quadrants concurrently")
	fs.StringVar(&f.metricsPath, "metrics", "", "Write Prometheus metrics to this textfile")
	fs.StringVar(&f.logLevel, "log-level", envOr(logLevelEnv, logs.InfoLevel.String()), "Log level: debug, info, warning, error (also "+logLevelEnv+")")
	fs.BoolVar(&f.showVersion, "version", false, "Print version and exit")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: quadtree -i <input> -o <output-root> [-c] [-e] [-t] [flags]\n\n")
		fmt.Fprintf(fs.Output(), "Quadtree image compression and edge detection on P3 pixel grids.\n\n")
		fmt.Fprintf(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
	}
	return fs
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// options turns the parsed flags into a pipeline run.
func (f cliFlags) options() (pipeline.Options, error) {
	cfg := quadtree.DefaultConfig()
	cfg.Parallel = f.parallel
	cfg.BorderWidth = f.borderWidth

	outline, err := quadtree.ParseHex(f.outlineColor)
	if err != nil {
		return pipeline.Options{}, errors.New("invalid -outline-color").Wrap(err)
	}
	cfg.OutlineColor = outline

	switch f.kernel {
	case "laplacian":
		cfg.Kernel = quadtree.LaplacianKernel
	case "negative":
		cfg.Kernel = quadtree.NegativeKernel
	default:
		return pipeline.Options{}, errors.Newf("unknown -kernel %q", f.kernel)
	}

	opts := pipeline.Options{
		Input:      f.input,
		OutputRoot: f.outputRoot,
		Compress:   f.compress,
		Edges:      f.edges,
		Outline:    f.outline,
		Config:     cfg,
		BlurRadius: f.blur,
		Zstd:       f.zstd,
	}
	if f.threshold >= 0 {
		opts.Thresholds = []float64{f.threshold}
	}

	if f.previewFmt != "" {
		enc, err := preview.NewEncoder(f.previewFmt, f.quality)
		if err != nil {
			return pipeline.Options{}, errors.New("invalid -preview").Wrap(err)
		}
		opts.Preview = enc
		opts.PreviewGrid = preview.Grid{
			Spacing: f.gridSpacing,
			Color:   outline,
			Labels:  f.gridLabels,
		}
	}

	return opts, opts.Validate()
}

func main() {
	var f cliFlags
	fs := newFlagSet(&f)
	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			return
		}
		os.Exit(2)
	}

	if f.showVersion {
		fmt.Printf("quadtree %s (commit %s, built %s)\n", version, commit, buildDate)
		return
	}

	logs.SetLevel(logs.ParseLevel(f.logLevel))
	logs.Encoder = json.Marshal
	errors.Encoder = json.Marshal

	opts, err := f.options()
	if err != nil {
		fs.Usage()
		logs.Fatal(err)
	}

	var metrics *pipeline.Metrics
	if f.metricsPath != "" {
		metrics = pipeline.NewMetrics()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logs.WithTag("version", version).
		WithTag("log_level", f.logLevel).
		Debug("starting quadtree")

	res, err := pipeline.Run(ctx, opts, metrics)
	if err != nil {
		logs.Fatal(err)
	}

	if metrics != nil {
		if err := metrics.WriteFile(f.metricsPath); err != nil {
			logs.Warn(err)
		}
	}

	for _, out := range res.Outputs {
		fmt.Printf("%s\t%s\tleaves=%d\n", out.Pass, out.Path, out.Stats.Leaves)
	}
}
