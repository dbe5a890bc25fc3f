package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// VAlign is the vertical placement of an image relative to the tallest one.
type VAlign string

const (
	AlignTop    VAlign = "top"
	AlignCenter VAlign = "center"
	AlignBottom VAlign = "bottom"
)

// FrameKind selects the frame drawn around every image on a wall.
type FrameKind string

const (
	FrameNone    FrameKind = "none"
	FrameSolid   FrameKind = "solid"
	FrameBlurred FrameKind = "blurred"
)

// WallOptions configures Wall.
type WallOptions struct {
	Background color.Color
	Gap        int
	PadAbove   int
	PadBelow   int
	Align      VAlign
	Frame      FrameKind
	FrameWidth int // blur radius for FrameBlurred
	FrameColor color.Color
}

// frameWidth is the effective frame width: 0 without a frame.
func (o WallOptions) frameWidth() int {
	if o.Frame == FrameNone || o.Frame == "" {
		return 0
	}
	return o.FrameWidth
}

// WallSize computes the canvas size for images of the given sizes.
func WallSize(sizes []image.Point, opts WallOptions) (width, height int) {
	fw := opts.frameWidth()
	maxH := 0
	for _, s := range sizes {
		width += s.X + opts.Gap + 2*fw
		maxH = max(maxH, s.Y)
	}
	height = maxH + opts.PadAbove + opts.PadBelow + 2*fw
	return width, height
}

// Wall lays out imgs left to right on one canvas.
//
// Half the gap pads the leading edge, and the cursor advances by image width
// plus gap plus both frame sides after every placement. A canvas width of
// MaxCanvasWidth or more is rejected with ErrCanvasTooLarge before anything
// is allocated.
func Wall(imgs []image.Image, opts WallOptions) (*image.NRGBA, error) {
	if len(imgs) == 0 {
		return nil, fmt.Errorf("%w: wall needs at least one image", ErrInvalidArguments)
	}
	if opts.Gap < 0 || opts.PadAbove < 0 || opts.PadBelow < 0 || opts.FrameWidth < 0 {
		return nil, fmt.Errorf("%w: negative wall spacing", ErrInvalidArguments)
	}
	switch opts.Frame {
	case FrameNone, FrameSolid, FrameBlurred, "":
	default:
		return nil, fmt.Errorf("%w: unknown frame %q", ErrInvalidArguments, opts.Frame)
	}
	if opts.Frame == FrameBlurred && opts.FrameWidth < 1 {
		return nil, fmt.Errorf("%w: blurred frame needs a width of at least 1", ErrInvalidArguments)
	}

	sizes := make([]image.Point, len(imgs))
	maxH := 0
	for i, img := range imgs {
		w, h := Dimensions(img)
		sizes[i] = image.Pt(w, h)
		maxH = max(maxH, h)
	}

	canvasW, canvasH := WallSize(sizes, opts)
	if canvasW >= MaxCanvasWidth {
		return nil, fmt.Errorf("%w: wall width %d, limit %d", ErrCanvasTooLarge, canvasW, MaxCanvasWidth)
	}

	canvas := imaging.New(canvasW, canvasH, opts.Background)
	fw := opts.frameWidth()

	x := opts.Gap / 2
	for i, img := range imgs {
		w, h := sizes[i].X, sizes[i].Y
		y := opts.PadAbove + fw + alignOffset(opts.Align, maxH, h)

		switch opts.Frame {
		case FrameSolid:
			fillRect(canvas, image.Rect(x, y-fw, x+w+2*fw, y+h+fw), opts.FrameColor)
			canvas = imaging.Paste(canvas, img, image.Pt(x+fw, y))
		case FrameBlurred:
			canvas = imaging.Paste(canvas, EdgeBlur(img, fw, opts.Background), image.Pt(x, y-fw))
		default:
			canvas = imaging.Paste(canvas, img, image.Pt(x, y))
		}

		x += w + opts.Gap + 2*fw
	}

	return canvas, nil
}

func alignOffset(align VAlign, tallest, h int) int {
	switch align {
	case AlignTop:
		return 0
	case AlignBottom:
		return tallest - h
	default:
		return centerOffset(tallest, h)
	}
}

func fillRect(dst *image.NRGBA, r image.Rectangle, c color.Color) {
	nc := color.NRGBAModel.Convert(c).(color.NRGBA)
	r = r.Intersect(dst.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			dst.SetNRGBA(x, y, nc)
		}
	}
}
