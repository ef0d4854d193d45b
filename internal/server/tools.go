package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// windowSchema describes an optional region of interest.
func windowSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"x1": map[string]interface{}{"type": "integer", "description": "Left edge X coordinate (inclusive)"},
			"y1": map[string]interface{}{"type": "integer", "description": "Top edge Y coordinate (inclusive)"},
			"x2": map[string]interface{}{"type": "integer", "description": "Right edge X coordinate (exclusive)"},
			"y2": map[string]interface{}{"type": "integer", "description": "Bottom edge Y coordinate (exclusive)"},
		},
		"required":    []string{"x1", "y1", "x2", "y2"},
		"description": "Optional window of the image to scan. Coordinates stay in full-image space.",
	}
}

// maskSourceProperties are the properties shared by every tool that builds a
// mask from an image file.
func maskSourceProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to the mask image file",
		},
		"window": windowSchema(),
		"threshold": map[string]interface{}{
			"type":        "integer",
			"description": "Luminance level (1-255) at or above which a pixel is part of the region (server default 128 when omitted)",
		},
		"color": map[string]interface{}{
			"type":        "string",
			"description": "Select pixels near this hex color (#RRGGBB) instead of thresholding",
		},
		"tolerance": map[string]interface{}{
			"type":        "number",
			"description": "Maximum CIE-Lab distance from color; 0 selects exact matches only (server default 10 when omitted)",
		},
		"invert": map[string]interface{}{
			"type":        "boolean",
			"description": "Invert the pixel selection",
			"default":     false,
		},
	}
}

// regionSpecSchema describes a region given either as a rectangle or as a mask
// image.
func regionSpecSchema(description string) map[string]interface{} {
	props := maskSourceProperties()
	props["rect"] = map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"x":      map[string]interface{}{"type": "integer"},
			"y":      map[string]interface{}{"type": "integer"},
			"width":  map[string]interface{}{"type": "integer"},
			"height": map[string]interface{}{"type": "integer"},
		},
		"required":    []string{"x", "y", "width", "height"},
		"description": "Solid rectangle. Give either rect or path, not both. Its area may not exceed the server's max_pixels.",
	}
	return map[string]interface{}{
		"type":        "object",
		"properties":  props,
		"description": description,
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "region_info",
			Description: "Build a boundary-encoded region from a mask image or a rectangle and report its bounding box and boundary size.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"region": regionSpecSchema("Region to build"),
					"include_points": map[string]interface{}{
						"type":        "boolean",
						"description": "Include every boundary point in row-major order",
						"default":     false,
					},
				},
				"required": []string{"region"},
			},
		},
		{
			Name:        "region_contains",
			Description: "Test whether points lie inside a region, and whether they are on its boundary.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"region": regionSpecSchema("Region to test against"),
					"points": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"x":     map[string]interface{}{"type": "integer"},
								"y":     map[string]interface{}{"type": "integer"},
								"label": map[string]interface{}{"type": "string", "description": "Optional label for this point"},
							},
							"required": []string{"x", "y"},
						},
						"description": "Points to classify",
					},
				},
				"required": []string{"region", "points"},
			},
		},
		{
			Name:        "region_adjacent",
			Description: "Check whether two regions touch: some boundary pixel of one is directly above, below, left or right of a boundary pixel of the other.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"a": regionSpecSchema("First region"),
					"b": regionSpecSchema("Second region"),
				},
				"required": []string{"a", "b"},
			},
		},
		{
			Name:        "region_to_mask",
			Description: "Reconstruct the dense mask of a region from its boundary and return it as base64-encoded PNG sized to the bounding box.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"region": regionSpecSchema("Region to rasterize"),
				},
				"required": []string{"region"},
			},
		},
		{
			Name:        "region_components",
			Description: "Split a mask image into 4-connected components, build a region for each, and optionally list the components touching a given region.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": func() map[string]interface{} {
					props := maskSourceProperties()
					props["min_pixels"] = map[string]interface{}{
						"type":        "integer",
						"description": "Ignore components smaller than this many pixels, at least 1 (server default 1 when omitted)",
					}
					props["adjacent_to"] = regionSpecSchema("Optional region; components touching it are listed in adjacent_indices")
					return props
				}(),
				"required": []string{"path"},
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
