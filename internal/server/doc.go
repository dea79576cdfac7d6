// Package server implements the MCP (Model Context Protocol) server for the
// quadtree tools.
//
// This package provides a JSON-RPC 2.0 server that exposes the compression and
// edge detection passes through the MCP protocol, so an MCP-compatible client
// can inspect how an image decomposes without shelling out to the CLI.
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
//   - ppm_info: Load a grid and report size, mean color and squared error
//   - quadtree_compress: Compress at a threshold or leaf-to-pixel ratio
//   - quadtree_edge_detect: Black/white edge map, optionally pre-blurred
//   - quadtree_regions: List the leaf rectangles of a decomposition
//
// The pass tools return split statistics and a base64 PNG preview, and can
// write the resulting grid to disk.
//
// # Grid Caching
//
// Grids are cached by path for the lifetime of the process. Passes always run
// on a copy, so a cached grid is never modified.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The error string, including go-tooling error tags
//
// # Usage
//
//	srv := server.New(version)
//	if err := srv.Run(); err != nil {
//	    logs.Fatal(err)
//	}
package server
