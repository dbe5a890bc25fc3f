package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/blend"
	"github.com/disintegration/imaging"
)

// EdgeBlur pads img by radius on every side with bg and softens that pad.
//
// The padded copy is blurred with a Gaussian of sigma radius/2, then the
// untouched original is pasted back over the interior, so only the annulus of
// width radius carries blurred pixels. The result is (w+2r) x (h+2r).
func EdgeBlur(img image.Image, radius int, bg color.Color) *image.NRGBA {
	w, h := Dimensions(img)
	if radius < 1 {
		return imaging.Clone(img)
	}

	at := image.Pt(radius, radius)
	padded := imaging.Paste(imaging.New(w+2*radius, h+2*radius, bg), img, at)
	blurred := imaging.Blur(padded, float64(radius)/2)
	return imaging.Paste(blurred, img, at)
}

// Difference returns the per-channel absolute difference of a and b. Images
// of different sizes are compared over their common top-left area.
func Difference(a, b image.Image) (*image.NRGBA, error) {
	aw, ah := Dimensions(a)
	bw, bh := Dimensions(b)
	w, h := min(aw, bw), min(ah, bh)
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidArguments)
	}

	ca := imaging.Crop(a, image.Rect(0, 0, w, h).Add(a.Bounds().Min))
	cb := imaging.Crop(b, image.Rect(0, 0, w, h).Add(b.Bounds().Min))
	return imaging.Clone(blend.Difference(ca, cb)), nil
}
