package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"log"
	"math"

	"github.com/ironsheep/region-tools-mcp/internal/imaging"
	"github.com/ironsheep/region-tools-mcp/internal/region"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "region_info", "region_adjacent").
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

	if s.debug {
		log.Printf("tools/call %s (%d images cached)", params.Name, s.cache.Len())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		if s.debug {
			log.Printf("tool %s failed: %v", params.Name, err)
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

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
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "region_info":
		return s.handleRegionInfo(args)
	case "region_contains":
		return s.handleRegionContains(args)
	case "region_adjacent":
		return s.handleRegionAdjacent(args)
	case "region_to_mask":
		return s.handleRegionToMask(args)
	case "region_components":
		return s.handleRegionComponents(args)
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
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Region construction ===

type rectArgs struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// maskSource selects a mask image and how its pixels are classified.
// Threshold and Tolerance are nil when omitted, so an explicit 0 is kept.
type maskSource struct {
	Path      string          `json:"path"`
	Window    *imaging.Window `json:"window,omitempty"`
	Threshold *int            `json:"threshold,omitempty"`
	Color     string          `json:"color"`
	Tolerance *float64        `json:"tolerance,omitempty"`
	Invert    bool            `json:"invert"`
}

// regionSpec describes a region either as a rectangle or as a mask image.
type regionSpec struct {
	Rect *rectArgs `json:"rect,omitempty"`
	maskSource
}

var (
	errNoRegionSource        = errors.New("region requires either rect or path")
	errAmbiguousRegionSource = errors.New("region takes either rect or path, not both")
)

// loadMask reads the source image and converts it to a binary mask, applying
// the server's argument defaults.
func (s *Server) loadMask(src maskSource) (*image.Gray, error) {
	if src.Path == "" {
		return nil, errNoRegionSource
	}
	threshold := s.defaults.Threshold
	if src.Threshold != nil {
		threshold = *src.Threshold
	}
	if threshold < 1 || threshold > 255 {
		return nil, fmt.Errorf("threshold %d out of range 1-255", threshold)
	}
	tolerance := s.defaults.Tolerance
	if src.Tolerance != nil {
		tolerance = *src.Tolerance
	}
	if tolerance < 0 {
		return nil, fmt.Errorf("tolerance must not be negative, got %g", tolerance)
	}

	img, err := s.cache.Load(src.Path)
	if err != nil {
		return nil, err
	}

	mask, err := imaging.ExtractMask(img, imaging.MaskOptions{
		Window:    src.Window,
		Color:     src.Color,
		Tolerance: tolerance,
		Threshold: uint8(threshold),
		Invert:    src.Invert,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build mask from %s: %w", src.Path, err)
	}
	return mask, nil
}

// checkRect rejects rectangles that are empty, larger than the pixel limit, or
// whose far corner does not fit in an int.
func (s *Server) checkRect(r *rectArgs) error {
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("invalid rect: width and height must be positive, got %dx%d",
			r.Width, r.Height)
	}
	if imaging.ExceedsPixels(r.Width, r.Height, s.defaults.MaxPixels) {
		return fmt.Errorf("invalid rect: %dx%d exceeds the limit of %d pixels",
			r.Width, r.Height, s.defaults.MaxPixels)
	}
	if r.X <= math.MinInt || r.X > math.MaxInt-r.Width ||
		r.Y <= math.MinInt || r.Y > math.MaxInt-r.Height {
		return fmt.Errorf("invalid rect: (%d,%d) size %dx%d is outside the coordinate range",
			r.X, r.Y, r.Width, r.Height)
	}
	return nil
}

// buildRegion constructs the region described by spec.
func (s *Server) buildRegion(spec regionSpec) (*region.Region, error) {
	if spec.Rect != nil {
		if spec.Path != "" {
			return nil, errAmbiguousRegionSource
		}
		if err := s.checkRect(spec.Rect); err != nil {
			return nil, err
		}
		return region.FromRect(spec.Rect.X, spec.Rect.Y, spec.Rect.Width, spec.Rect.Height), nil
	}

	mask, err := s.loadMask(spec.maskSource)
	if err != nil {
		return nil, err
	}
	return region.FromMask(mask), nil
}

// Bounds is a bounding box with inclusive (X1,Y1) and exclusive (X2,Y2).
type Bounds struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// RegionInfo summarizes a region.
type RegionInfo struct {
	// Empty is true when the source had no set pixels.
	Empty bool `json:"empty"`

	// Bounds is the bounding box, omitted for an empty region.
	Bounds *Bounds `json:"bounds,omitempty"`

	// BoundaryPoints is the number of stored boundary pixels.
	BoundaryPoints int `json:"boundary_points"`

	// Points lists the boundary in row-major order when requested.
	Points []region.Point `json:"points,omitempty"`
}

func describeRegion(r *region.Region, includePoints bool) RegionInfo {
	info := RegionInfo{
		Empty:          r.IsEmpty(),
		BoundaryPoints: r.Len(),
	}
	if !r.IsEmpty() {
		b := r.Bounds()
		info.Bounds = &Bounds{X1: b.Min.X, Y1: b.Min.Y, X2: b.Max.X, Y2: b.Max.Y}
	}
	if includePoints {
		info.Points = r.Points()
	}
	return info
}

// === Region Handlers ===

type regionInfoArgs struct {
	Region        regionSpec `json:"region"`
	IncludePoints bool       `json:"include_points"`
}

func (s *Server) handleRegionInfo(args json.RawMessage) (interface{}, error) {
	var a regionInfoArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	r, err := s.buildRegion(a.Region)
	if err != nil {
		return nil, err
	}
	info := describeRegion(r, a.IncludePoints)
	return &info, nil
}

type regionContainsArgs struct {
	Region regionSpec `json:"region"`
	Points []struct {
		X     int    `json:"x"`
		Y     int    `json:"y"`
		Label string `json:"label,omitempty"`
	} `json:"points"`
}

// PointClassification reports where a point falls relative to a region.
type PointClassification struct {
	Label      string `json:"label,omitempty"`
	X          int    `json:"x"`
	Y          int    `json:"y"`
	Contains   bool   `json:"contains"`
	OnBoundary bool   `json:"on_boundary"`
}

// ContainsResult lists point classifications in input order.
type ContainsResult struct {
	Results []PointClassification `json:"results"`
	Inside  int                   `json:"inside"`
	Region  RegionInfo            `json:"region"`
}

func (s *Server) handleRegionContains(args json.RawMessage) (interface{}, error) {
	var a regionContainsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	r, err := s.buildRegion(a.Region)
	if err != nil {
		return nil, err
	}

	result := &ContainsResult{
		Results: make([]PointClassification, 0, len(a.Points)),
		Region:  describeRegion(r, false),
	}
	for _, p := range a.Points {
		pt := region.Pt(p.X, p.Y)
		c := PointClassification{
			Label:      p.Label,
			X:          p.X,
			Y:          p.Y,
			Contains:   r.Contains(pt),
			OnBoundary: r.InBoundary(pt),
		}
		if c.Contains {
			result.Inside++
		}
		result.Results = append(result.Results, c)
	}
	return result, nil
}

type regionAdjacentArgs struct {
	A regionSpec `json:"a"`
	B regionSpec `json:"b"`
}

// AdjacentResult reports whether two regions touch.
type AdjacentResult struct {
	Adjacent bool       `json:"adjacent"`
	A        RegionInfo `json:"a"`
	B        RegionInfo `json:"b"`
}

func (s *Server) handleRegionAdjacent(args json.RawMessage) (interface{}, error) {
	var a regionAdjacentArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	ra, err := s.buildRegion(a.A)
	if err != nil {
		return nil, fmt.Errorf("region a: %w", err)
	}
	rb, err := s.buildRegion(a.B)
	if err != nil {
		return nil, fmt.Errorf("region b: %w", err)
	}

	return &AdjacentResult{
		Adjacent: ra.AdjacentTo(rb),
		A:        describeRegion(ra, false),
		B:        describeRegion(rb, false),
	}, nil
}

type regionToMaskArgs struct {
	Region regionSpec `json:"region"`
}

func (s *Server) handleRegionToMask(args json.RawMessage) (interface{}, error) {
	var a regionToMaskArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	r, err := s.buildRegion(a.Region)
	if err != nil {
		return nil, err
	}
	return imaging.EncodeMask(r.ToMask())
}

type regionComponentsArgs struct {
	maskSource
	MinPixels  *int        `json:"min_pixels,omitempty"`
	AdjacentTo *regionSpec `json:"adjacent_to,omitempty"`
}

// ComponentInfo describes one connected component of a mask.
type ComponentInfo struct {
	Index  int        `json:"index"`
	Pixels int        `json:"pixels"`
	Region RegionInfo `json:"region"`
}

// ComponentsResult lists the components of a mask in row-major order of their
// first pixel.
type ComponentsResult struct {
	Components []ComponentInfo `json:"components"`
	Count      int             `json:"count"`

	// AdjacentIndices lists the components touching the adjacent_to region,
	// when one was given.
	AdjacentIndices []int `json:"adjacent_indices,omitempty"`
}

func (s *Server) handleRegionComponents(args json.RawMessage) (interface{}, error) {
	var a regionComponentsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	minPixels := s.defaults.MinPixels
	if a.MinPixels != nil {
		minPixels = *a.MinPixels
	}
	if minPixels < 1 {
		return nil, fmt.Errorf("min_pixels must be at least 1, got %d", minPixels)
	}

	var target *region.Region
	if a.AdjacentTo != nil {
		t, err := s.buildRegion(*a.AdjacentTo)
		if err != nil {
			return nil, fmt.Errorf("adjacent_to: %w", err)
		}
		target = t
	}

	mask, err := s.loadMask(a.maskSource)
	if err != nil {
		return nil, err
	}

	masks := imaging.Components(mask, minPixels)
	result := &ComponentsResult{
		Components: make([]ComponentInfo, 0, len(masks)),
		Count:      len(masks),
	}
	for i, m := range masks {
		r := region.FromMask(m)
		result.Components = append(result.Components, ComponentInfo{
			Index:  i,
			Pixels: countSet(m),
			Region: describeRegion(r, false),
		})
		if target != nil && r.AdjacentTo(target) {
			result.AdjacentIndices = append(result.AdjacentIndices, i)
		}
	}
	return result, nil
}

// countSet returns the number of non-zero pixels in m.
func countSet(m *image.Gray) int {
	n := 0
	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if m.Pix[m.PixOffset(x, y)] != 0 {
				n++
			}
		}
	}
	return n
}
