package server

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/ironsheep/quadtree-tools/internal/ppm"
	"github.com/ironsheep/quadtree-tools/internal/preview"
	"github.com/ironsheep/quadtree-tools/internal/quadtree"
	"github.com/segmentio/encoding/json"
)

const (
	defaultPreviewMaxSide = 512
	defaultRatio          = 0.033
	defaultRegionLimit    = 256
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "ppm_info", "quadtree_compress").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		logs.WithTag("tool", params.Name).
			WithTag("error_type", errors.Type(err)).
			Warn(err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	logs.WithTag("tool", params.Name).
		WithTag("duration", time.Since(start)).
		Debug("tool executed")

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Copies the grid out of the cache
//  4. Runs the quadtree pass on the copy
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "ppm_info":
		return s.handlePPMInfo(args)
	case "quadtree_compress":
		return s.handleCompress(args)
	case "quadtree_edge_detect":
		return s.handleEdgeDetect(args)
	case "quadtree_regions":
		return s.handleRegions(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// PassResult is returned by the compression and edge detection tools.
type PassResult struct {
	Width      int             `json:"width"`
	Height     int             `json:"height"`
	Threshold  *float64        `json:"threshold,omitempty"`
	Ratio      float64         `json:"ratio,omitempty"`
	Stats      quadtree.Stats  `json:"stats"`
	OutputPath string          `json:"output_path,omitempty"`
	Preview    *preview.Result `json:"preview,omitempty"`
}

// finish writes the optional output file and renders the preview.
func (s *Server) finish(res *PassResult, buf *quadtree.Buffer, outputPath string, opts previewArgs) (*PassResult, error) {
	if outputPath != "" {
		if err := ppm.WriteFile(outputPath, buf); err != nil {
			return nil, err
		}
		res.OutputPath = outputPath
	}

	maxSide := defaultPreviewMaxSide
	if opts.PreviewMaxSide != nil {
		maxSide = *opts.PreviewMaxSide
	}
	if maxSide <= 0 {
		return res, nil
	}

	enc, err := preview.NewEncoder("png", 0)
	if err != nil {
		return nil, err
	}
	grid := preview.Grid{
		Spacing: opts.GridSpacing,
		Color:   quadtree.Pixel{R: 255},
		Labels:  opts.GridLabels,
	}
	p, err := preview.Render(buf, enc, maxSide, grid)
	if err != nil {
		return nil, err
	}
	res.Preview = p
	return res, nil
}

// previewArgs are shared by the tools that return a preview.
type previewArgs struct {
	PreviewMaxSide *int `json:"preview_max_side"`
	GridSpacing    int  `json:"grid_spacing"`
	GridLabels     bool `json:"grid_labels"`
}

// === Grid Information Handlers ===

type pathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handlePPMInfo(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return ppm.LoadInfo(s.cache, a.Path)
}

// === Pass Handlers ===

type compressArgs struct {
	Path         string   `json:"path"`
	Threshold    *float64 `json:"threshold"`
	Ratio        float64  `json:"ratio"`
	Outline      bool     `json:"outline"`
	OutlineColor string   `json:"outline_color"`
	OutputPath   string   `json:"output_path"`
	previewArgs
}

func (s *Server) handleCompress(args json.RawMessage) (interface{}, error) {
	var a compressArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Threshold != nil && a.Ratio != 0 {
		return nil, fmt.Errorf("give either threshold or ratio, not both")
	}
	if a.Threshold != nil && (*a.Threshold < 0 || math.IsNaN(*a.Threshold)) {
		return nil, fmt.Errorf("threshold must be non-negative, got %v", *a.Threshold)
	}
	if a.Threshold == nil && a.Ratio == 0 {
		a.Ratio = defaultRatio
	}

	cfg := quadtree.DefaultConfig()
	if a.OutlineColor != "" {
		c, err := quadtree.ParseHex(a.OutlineColor)
		if err != nil {
			return nil, err
		}
		cfg.OutlineColor = c
	}

	buf, err := s.cache.LoadCopy(a.Path)
	if err != nil {
		return nil, err
	}
	tree, err := quadtree.NewTree(buf, cfg)
	if err != nil {
		return nil, err
	}

	res := &PassResult{Width: buf.Width, Height: buf.Height}
	if a.Threshold != nil {
		tree.Compress(*a.Threshold, a.Outline)
		res.Threshold = a.Threshold
	} else {
		threshold, err := tree.CompressToRatio(a.Ratio, a.Outline)
		if err != nil {
			return nil, err
		}
		res.Threshold = &threshold
		res.Ratio = a.Ratio
	}
	res.Stats = tree.Stats()

	return s.finish(res, buf, a.OutputPath, a.previewArgs)
}

type edgeDetectArgs struct {
	Path              string   `json:"path"`
	Blur              float64  `json:"blur"`
	GradientThreshold *float64 `json:"gradient_threshold"`
	MaxLeafArea       int      `json:"max_leaf_area"`
	Outline           bool     `json:"outline"`
	OutputPath        string   `json:"output_path"`
	previewArgs
}

func (s *Server) handleEdgeDetect(args json.RawMessage) (interface{}, error) {
	var a edgeDetectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Blur < 0 {
		return nil, fmt.Errorf("blur must be non-negative, got %v", a.Blur)
	}

	cfg := quadtree.DefaultConfig()
	if a.GradientThreshold != nil {
		cfg.GradientThreshold = *a.GradientThreshold
	}
	if a.MaxLeafArea != 0 {
		cfg.MaxLeafArea = a.MaxLeafArea
	}

	src, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	buf := quadtree.Smooth(src, a.Blur)

	tree, err := quadtree.NewTree(buf, cfg)
	if err != nil {
		return nil, err
	}
	tree.DetectEdges(a.Outline)

	res := &PassResult{
		Width:  buf.Width,
		Height: buf.Height,
		Stats:  tree.Stats(),
	}
	return s.finish(res, buf, a.OutputPath, a.previewArgs)
}

// === Region Listing Handler ===

type regionsArgs struct {
	Path      string  `json:"path"`
	Threshold float64 `json:"threshold"`
	Limit     int     `json:"limit"`
}

// LeafRegion is one leaf of a decomposition.
type LeafRegion struct {
	X            int     `json:"x"`
	Y            int     `json:"y"`
	Width        int     `json:"width"`
	Height       int     `json:"height"`
	MeanColor    string  `json:"mean_color"`
	SquaredError float64 `json:"squared_error"`
}

// RegionsResult lists the leaves of a decomposition, largest first.
type RegionsResult struct {
	Stats     quadtree.Stats `json:"stats"`
	Regions   []LeafRegion   `json:"regions"`
	Truncated bool           `json:"truncated"`
}

func (s *Server) handleRegions(args json.RawMessage) (interface{}, error) {
	var a regionsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Threshold < 0 || math.IsNaN(a.Threshold) {
		return nil, fmt.Errorf("threshold must be non-negative, got %v", a.Threshold)
	}
	if a.Limit <= 0 {
		a.Limit = defaultRegionLimit
	}

	buf, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	tree, err := quadtree.NewTree(buf, quadtree.DefaultConfig())
	if err != nil {
		return nil, err
	}
	tree.Partition(a.Threshold)

	leaves := tree.Root().Leaves()
	sortLargestFirst(leaves)

	res := &RegionsResult{Stats: tree.Stats()}
	if len(leaves) > a.Limit {
		leaves = leaves[:a.Limit]
		res.Truncated = true
	}
	res.Regions = make([]LeafRegion, len(leaves))
	for i, r := range leaves {
		res.Regions[i] = LeafRegion{
			X:            r.XTop,
			Y:            r.YTop,
			Width:        r.Width(),
			Height:       r.Height(),
			MeanColor:    r.MeanColor(buf).Hex(),
			SquaredError: r.SquaredError(buf),
		}
	}
	return res, nil
}

// sortLargestFirst orders leaves by area, then top to bottom, then left to
// right.
func sortLargestFirst(leaves []*quadtree.Region) {
	sort.Slice(leaves, func(i, j int) bool {
		a, b := leaves[i], leaves[j]
		if a.Area() != b.Area() {
			return a.Area() > b.Area()
		}
		if a.YTop != b.YTop {
			return a.YTop < b.YTop
		}
		return a.XTop < b.XTop
	})
}
