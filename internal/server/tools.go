package server

import (
	"github.com/ironsheep/qr-edgemap/internal/edgemap"
	"github.com/ironsheep/qr-edgemap/internal/imaging"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

// pipelineProperties returns the schema of the optional pipeline overrides
// shared by every edgemap_* tool.
func pipelineProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": pathProperty(),
		"iterations": map[string]interface{}{
			"type":        "integer",
			"description": "Number of 3x3 box smoothing passes. Default 9",
			"minimum":     0,
			"default":     edgemap.DefaultIterations,
		},
		"threshold": map[string]interface{}{
			"type":        "integer",
			"description": "Binarization cutoff applied to the stretched smoothed magnitude (0-255). Default 70",
			"minimum":     0,
			"maximum":     255,
			"default":     edgemap.DefaultThreshold,
		},
		"magnitude_formula": map[string]interface{}{
			"type":        "string",
			"description": "How vertical and horizontal gradients combine",
			"enum":        []string{"sum-abs", "euclidean"},
			"default":     "sum-abs",
		},
		"parallel": map[string]interface{}{
			"type":        "boolean",
			"description": "Compute rows concurrently. Output is identical",
			"default":     false,
		},
		"max_dimension": map[string]interface{}{
			"type":        "integer",
			"description": "Shrink larger images to fit this many pixels on each side first. 0 disables",
			"minimum":     0,
		},
	}
}

func stageNames() []string {
	names := make([]string, len(edgemap.StageOrder))
	for i, s := range edgemap.StageOrder {
		names[i] = string(s)
	}
	return names
}

func withProperties(base map[string]interface{}, extra map[string]interface{}) map[string]interface{} {
	for k, v := range extra {
		base[k] = v
	}
	return base
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and whether it is large enough for edge mapping.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Region Operations
		{
			Name:        "image_crop_region",
			Description: "Crop a rectangular region from an image and return it as base64-encoded PNG. Omitted coordinates default to the configured marker region.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "Left edge X coordinate (0-based)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Top edge Y coordinate (0-based)",
					},
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Region width in pixels",
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Region height in pixels",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 2.0 to double size). Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path"},
			},
		},

		// Edge Map Operations
		{
			Name:        "edgemap_run",
			Description: "Compute the binary edge map of an image: greyscale, normalize, Sobel gradients, box smoothing, stretch and threshold. Returns a base64 PNG with edge regions in white plus edge pixel counts.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": pipelineProperties(),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "edgemap_stage",
			Description: "Render one intermediate stage of the edge map pipeline as a base64 PNG, with min/max/mean statistics of its raw values.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(pipelineProperties(), map[string]interface{}{
					"stage": map[string]interface{}{
						"type":        "string",
						"description": "Pipeline stage to render",
						"enum":        stageNames(),
					},
				}),
				"required": []string{"path", "stage"},
			},
		},
		{
			Name:        "edgemap_sample",
			Description: "Report the value of one pixel at every stage of the edge map pipeline.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(pipelineProperties(), map[string]interface{}{
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top)",
					},
				}),
				"required": []string{"path", "x", "y"},
			},
		},
		{
			Name:        "edgemap_plot",
			Description: "Plot a pipeline stage on pixel axes with the candidate marker region outlined, returned as a base64 PNG figure.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(pipelineProperties(), map[string]interface{}{
					"stage": map[string]interface{}{
						"type":        "string",
						"description": "Pipeline stage to plot, or input for the RGB image itself. Default binary",
						"enum":        imaging.PlotStages(),
						"default":     string(edgemap.StageBinary),
					},
					"title": map[string]interface{}{
						"type":        "string",
						"description": "Figure title. Defaults to the stage name",
					},
					"overlay": map[string]interface{}{
						"type":        "object",
						"description": "Marker region outline; omitted fields keep the configured values",
						"properties": map[string]interface{}{
							"x":          map[string]interface{}{"type": "integer"},
							"y":          map[string]interface{}{"type": "integer"},
							"width":      map[string]interface{}{"type": "integer"},
							"height":     map[string]interface{}{"type": "integer"},
							"color":      map[string]interface{}{"type": "string", "description": "Hex color, e.g. #00ff00"},
							"line_width": map[string]interface{}{"type": "integer"},
						},
					},
				}),
				"required": []string{"path"},
			},
		},

		// Cache Management
		{
			Name:        "image_evict",
			Description: "Drop an image from the server cache so the next call rereads it from disk. Without a path every cached image is dropped.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path of the cached image. Omit to clear the whole cache",
					},
				},
				"required": []string{},
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
