package imaging

import "errors"

var (
	// ErrSkipped reports a requested operation that was a no-op for this
	// input. Nothing was written.
	ErrSkipped = errors.New("operation skipped")

	// ErrInvalidArguments reports parameters no image operation can act on.
	ErrInvalidArguments = errors.New("invalid arguments")

	// ErrCanvasTooLarge reports a composite canvas at or above MaxCanvasWidth.
	ErrCanvasTooLarge = errors.New("canvas too large")

	// ErrUnsupportedFormat is returned when no encoder exists for an extension.
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

// MaxCanvasWidth is the exclusive upper bound for the width of a wall canvas.
const MaxCanvasWidth = 20000
