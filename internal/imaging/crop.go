package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Resize scales img to width x height with the given resample filter.
//
// When exactly one dimension is 0 and the other positive, the missing one is
// inferred from the aspect ratio (rounded). Both 0, or either negative, is a
// no-op and returns ErrSkipped.
func Resize(img image.Image, width, height int, kind ResampleKind) (*image.NRGBA, error) {
	filter, err := kind.filter()
	if err != nil {
		return nil, err
	}

	srcW, srcH := Dimensions(img)
	switch {
	case width < 0 || height < 0 || (width == 0 && height == 0):
		return nil, fmt.Errorf("%w: resize to %dx%d", ErrSkipped, width, height)
	case width == 0:
		width = inferDimension(srcW, height, srcH)
	case height == 0:
		height = inferDimension(srcH, width, srcW)
	}
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: resize collapses to %dx%d", ErrSkipped, width, height)
	}

	return imaging.Resize(img, width, height, filter), nil
}

// AddMargin shrinks img by 2*margin in each dimension and centres it on a
// canvas of the original size filled with bg. A margin that leaves no
// image returns ErrSkipped.
func AddMargin(img image.Image, margin int, bg color.Color) (*image.NRGBA, error) {
	if margin < 0 {
		return nil, fmt.Errorf("%w: negative margin %d", ErrInvalidArguments, margin)
	}

	w, h := Dimensions(img)
	if 2*margin >= w || 2*margin >= h {
		return nil, fmt.Errorf("%w: margin %d too large for %dx%d", ErrSkipped, margin, w, h)
	}

	inner := imaging.Resize(img, w-2*margin, h-2*margin, imaging.Lanczos)
	canvas := imaging.New(w, h, bg)
	return imaging.Paste(canvas, inner, image.Pt(margin, margin)), nil
}

// CropGrid cuts img into xCount*yCount parts laid out by TileGrid, in the
// same order.
func CropGrid(img image.Image, xCount, yCount int) ([]*image.NRGBA, error) {
	b := img.Bounds()
	rects, err := TileGrid(b.Dx(), b.Dy(), xCount, yCount)
	if err != nil {
		return nil, err
	}

	parts := make([]*image.NRGBA, 0, len(rects))
	for _, r := range rects {
		parts = append(parts, imaging.Crop(img, r.Add(b.Min)))
	}
	return parts, nil
}

// CenterCrop cuts the centred width x height rectangle out of img. The
// left/top margin is floor((src-size)/2), so the crop leans left/top when
// the leftover is odd. A source smaller than the requested size returns
// ErrSkipped.
func CenterCrop(img image.Image, width, height int) (*image.NRGBA, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: crop size %dx%d", ErrInvalidArguments, width, height)
	}

	srcW, srcH := Dimensions(img)
	if srcW < width || srcH < height {
		return nil, fmt.Errorf("%w: %dx%d is smaller than %dx%d", ErrSkipped, srcW, srcH, width, height)
	}

	b := img.Bounds()
	left := b.Min.X + centerOffset(srcW, width)
	top := b.Min.Y + centerOffset(srcH, height)
	return imaging.Crop(img, image.Rect(left, top, left+width, top+height)), nil
}

// CenterPaste places img in the middle of a canvasW x canvasH canvas filled
// with bg, shrinking it first (one uniform ratio) when it does not fit.
func CenterPaste(img image.Image, canvasW, canvasH int, bg color.Color) (*image.NRGBA, error) {
	if canvasW < 1 || canvasH < 1 {
		return nil, fmt.Errorf("%w: canvas size %dx%d", ErrInvalidArguments, canvasW, canvasH)
	}

	w, h := Dimensions(img)
	src := img
	if ratio := shrinkRatio(w, h, canvasW, canvasH); ratio != 1 {
		w = max(int(ratio*float64(w)), 1)
		h = max(int(ratio*float64(h)), 1)
		src = imaging.Resize(img, w, h, imaging.Lanczos)
	}

	canvas := imaging.New(canvasW, canvasH, bg)
	return imaging.Paste(canvas, src, image.Pt(centerOffset(canvasW, w), centerOffset(canvasH, h))), nil
}
