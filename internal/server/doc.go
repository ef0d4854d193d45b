// Package server implements the MCP (Model Context Protocol) server for region tools.
//
// The server exposes boundary-encoded regions over JSON-RPC 2.0 so that MCP
// clients can ask geometric questions about binary masks: where a shape is,
// whether a point falls inside it, and whether two shapes touch.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - region_info: Bounding box and boundary size of a region
//   - region_contains: Classify points as inside, on the boundary, or outside
//   - region_adjacent: Check whether two regions touch
//   - region_to_mask: Rebuild the dense mask of a region as PNG
//   - region_components: Split a mask into components, one region each
//
// # Region Arguments
//
// Most tools take a region object. It is either a rectangle:
//
//	{"rect": {"x": 10, "y": 20, "width": 30, "height": 15}}
//
// or a mask image, thresholded on luminance or matched against a color:
//
//	{"path": "/tmp/mask.png", "threshold": 128}
//	{"path": "/tmp/map.png", "color": "#ff0000", "tolerance": 10}
//
// An optional window limits the scan to part of the image. Coordinates in
// results are always in full-image space.
//
// # Error Handling
//
// Malformed params return code -32602, unknown methods -32601, and tool
// failures -32000 with the underlying error in the data field.
package server
