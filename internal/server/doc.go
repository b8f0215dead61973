// Package server implements the MCP (Model Context Protocol) server for the
// edge map tools.
//
// This package provides a JSON-RPC 2.0 server that exposes the edge map
// pipeline and its inspection helpers through the MCP protocol, so a client
// can run the pipeline on an image, look at any intermediate stage and probe
// individual pixels.
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
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Region Operations:
//   - image_crop_region: Extract a rectangle, by default the marker region
//
// Edge Map Operations:
//   - edgemap_run: Binary edge map with edge pixel counts
//   - edgemap_stage: Render one intermediate stage with statistics
//   - edgemap_sample: Value of one pixel at every stage
//   - edgemap_plot: Figure of a stage, or of the input image, with the
//     marker region outlined
//
// Cache Management:
//   - image_evict: Drop one cached image, or all of them
//
// The edgemap_* tools accept the configuration file keys (iterations,
// threshold, magnitude_formula, parallel, max_dimension, overlay) as
// optional arguments. They override the server settings for that call only.
//
// # Image Caching
//
// The server maintains an in-memory cache of loaded images. Images are cached
// by path and reused across multiple tool calls, avoiding redundant disk I/O.
// The cache persists for the lifetime of the server process unless
// image_evict drops entries, for example after a file changed on disk.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
// The server is started by the qr-edgemap command's serve subcommand:
//
//	srv := server.NewWithSettings(settings)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
