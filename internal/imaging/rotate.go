package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/transform"
	"github.com/disintegration/imaging"
)

// Pivot is the point an image is rotated around.
type Pivot string

const (
	PivotCenter  Pivot = "center"
	PivotTopLeft Pivot = "top_left"
)

// Rotate turns img counter-clockwise by degrees and fills uncovered pixels
// with bg.
//
// With expand the canvas grows to hold the whole rotated image; the pivot
// then only shifts the result inside that canvas, so it is ignored. Without
// expand the canvas keeps the source size, corners are clipped, and the
// rotation is around pivot.
func Rotate(img image.Image, degrees float64, bg color.Color, expand bool, pivot Pivot) (*image.NRGBA, error) {
	var p *image.Point
	switch pivot {
	case PivotCenter, "":
	case PivotTopLeft:
		p = &image.Point{}
	default:
		return nil, fmt.Errorf("%w: unknown pivot %q", ErrInvalidArguments, pivot)
	}

	if expand {
		return imaging.Rotate(img, degrees, bg), nil
	}

	// bild rotates clockwise; nil pivot means the centre.
	rotated := transform.Rotate(img, -degrees, &transform.RotationOptions{
		ResizeBounds: false,
		Pivot:        p,
	})

	w, h := Dimensions(img)
	canvas := imaging.New(w, h, bg)
	return imaging.Overlay(canvas, rotated, image.Pt(0, 0), 1.0), nil
}
