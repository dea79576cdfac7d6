package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var pathProperty = map[string]interface{}{
	"type":        "string",
	"description": "Absolute path to a P3 pixel grid (.ppm, or .ppm.zst for zstd compressed)",
}

var outputPathProperty = map[string]interface{}{
	"type":        "string",
	"description": "Optional path to write the resulting pixel grid to (.ppm or .ppm.zst)",
}

var previewMaxSideProperty = map[string]interface{}{
	"type":        "integer",
	"description": "Longest side of the returned PNG preview in pixels. 0 disables the preview. Default 512",
	"default":     defaultPreviewMaxSide,
}

var gridSpacingProperty = map[string]interface{}{
	"type":        "integer",
	"description": "Draw a red coordinate grid over the preview every N source pixels. 0 disables the grid",
	"default":     0,
}

var gridLabelsProperty = map[string]interface{}{
	"type":        "boolean",
	"description": "Label grid crossings with their source coordinates",
	"default":     false,
}

var outlineProperty = map[string]interface{}{
	"type":        "boolean",
	"description": "Draw the border of every leaf region in the outline color",
	"default":     false,
}

var outlineColorProperty = map[string]interface{}{
	"type":        "string",
	"description": "Outline color as #rrggbb. Default #404040",
	"default":     "#404040",
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "ppm_info",
			Description: "Load a pixel grid and return its dimensions, file size, mean color and squared error. The grid is cached for later calls.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "quadtree_compress",
			Description: "Compress a pixel grid by recursively splitting it into quadrants until each region's squared error is below a threshold, then painting every region its mean color. Give either a raw threshold or a leaf-to-pixel ratio; the ratio picks the smallest threshold that stays within budget.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"threshold": map[string]interface{}{
						"type":        "number",
						"description": "Squared-error threshold. Regions below it stop splitting. 0 keeps every pixel",
					},
					"ratio": map[string]interface{}{
						"type":        "number",
						"description": "Target leaf-to-pixel ratio in (0, 1]. Default 0.033 when no threshold is given",
					},
					"outline":          outlineProperty,
					"outline_color":    outlineColorProperty,
					"output_path":      outputPathProperty,
					"preview_max_side": previewMaxSideProperty,
					"grid_spacing":     gridSpacingProperty,
					"grid_labels":      gridLabelsProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "quadtree_edge_detect",
			Description: "Classify every pixel as edge (black) or non-edge (white). Large flat regions are painted black outright; small regions are classified pixel by pixel with a Laplacian kernel.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"blur": map[string]interface{}{
						"type":        "number",
						"description": "Gaussian blur radius applied before detection. Default 0 (off)",
						"default":     0,
					},
					"gradient_threshold": map[string]interface{}{
						"type":        "number",
						"description": "Gradient magnitude at or above which a pixel is an edge. Default 1000",
					},
					"max_leaf_area": map[string]interface{}{
						"type":        "integer",
						"description": "Regions at most this many pixels are classified per pixel. Default 128",
					},
					"outline":          outlineProperty,
					"output_path":      outputPathProperty,
					"preview_max_side": previewMaxSideProperty,
					"grid_spacing":     gridSpacingProperty,
					"grid_labels":      gridLabelsProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "quadtree_regions",
			Description: "Run the compression split at a threshold without touching the grid and list the resulting leaf rectangles with their mean colors.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"threshold": map[string]interface{}{
						"type":        "number",
						"description": "Squared-error threshold",
					},
					"limit": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of regions to return. Default 256",
						"default":     defaultRegionLimit,
					},
				},
				"required": []string{"path", "threshold"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
