// Package imaging provides the image geometry, compositing and filter
// operations of media-actions.
//
// The package has two layers. Pure functions (Resize, AddMargin, TileGrid,
// CropGrid, CenterCrop, CenterPaste, Wall, Rotate, EdgeBlur, Grayscale,
// Colorize, Solarize, Difference, ApplyFilter) take decoded rasters and return
// new ones; they never touch the filesystem. Processor wraps them with
// decoding, output naming and encoding: every Processor method opens its
// source(s), performs one transformation and writes new file(s) next to the
// first source, never overwriting an existing file.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with the origin at the top-left corner:
//   - X increases rightward, Y increases downward
//   - Rectangles are half-open: Min is inclusive, Max is exclusive
//
// # Colours
//
// Colour parameters are hex strings ("#RGB", "#RRGGBB" or "#RRGGBBAA"),
// parsed by ParseColor.
//
// # Error Handling
//
// Operations that the caller asked for but that cannot produce a meaningful
// result (a resize to 0x0, a centre crop larger than the source, a margin that
// consumes the whole image) return ErrSkipped and write nothing. Invalid
// parameter combinations return ErrInvalidArguments, an oversized wall returns
// ErrCanvasTooLarge before any canvas is allocated. Decode and I/O errors are
// wrapped and returned as-is.
//
// # Thread Safety
//
// Everything in this package is stateless; a Processor may be shared between
// goroutines as long as they do not write to the same directory concurrently.
package imaging
