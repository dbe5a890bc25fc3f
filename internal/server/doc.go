// Package server implements the MCP (Model Context Protocol) front-end for
// the media actions.
//
// This package provides a JSON-RPC 2.0 server that exposes every operation
// of the actions registry as a tool, so MCP-compatible clients can rename,
// reorganize, edit and encode media files on the local disk.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Logging goes to stderr only. Anything else on stdout breaks the protocol.
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Tools
//
// The tool list is generated from the operation catalogue, grouped as:
//
// Files:
//   - prefix_filename, postfix_filename, make_filename_unrecognizable
//   - split_large_folder, weed_out_files, sort_files_by_size
//   - number_filenames, duplicate_file, move_to_subdirectory
//
// Image:
//   - resize_image, add_margin, crop_image_in_equal_parts, crop_center
//   - paste_image_in_center, image_wall, rotate_image, blur_edges
//   - grayscale, colorize, solarize, image_difference, apply_filter
//   - write_tags, read_tags
//
// Video:
//   - make_movie, make_slideshow, merge_videos
//
// Every tool takes a "paths" array and the operation's parameters; omitted
// parameters take the defaults advertised in the input schema. The result
// text is the JSON of an actions.Result:
//
//	{"operation": "crop_center", "outputs": ["/p/a_cropped_center.jpg"], "skipped": false}
//
// An input whose precondition does not hold (an image smaller than the crop,
// a margin wider than the image) is reported with "skipped": true and a
// reason. It is not an error.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// Operations are not transactional: outputs written before a failure stay on
// disk.
//
// # Usage
//
// The server is typically started by an MCP client via "media-actions serve":
//
//	srv := server.New(registry, server.WithLogger(logger))
//	if err := srv.Run(ctx); err != nil {
//	    return err
//	}
package server
