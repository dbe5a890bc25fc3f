package imaging

import (
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/disintegration/imaging"
)

// ResampleKind names a resampling filter.
type ResampleKind string

const (
	Nearest   ResampleKind = "nearest"
	Lanczos   ResampleKind = "lanczos"
	Bilinear  ResampleKind = "bilinear"
	Bicubic   ResampleKind = "bicubic"
	Box       ResampleKind = "box"
	Hamming   ResampleKind = "hamming"
	Antialias ResampleKind = "antialias" // alias of lanczos
)

var resampleFilters = map[ResampleKind]imaging.ResampleFilter{
	Nearest:   imaging.NearestNeighbor,
	Lanczos:   imaging.Lanczos,
	Bilinear:  imaging.Linear,
	Bicubic:   imaging.CatmullRom,
	Box:       imaging.Box,
	Hamming:   imaging.Hamming,
	Antialias: imaging.Lanczos,
}

// ResampleKinds lists the accepted resample names in sorted order.
func ResampleKinds() []string {
	names := make([]string, 0, len(resampleFilters))
	for k := range resampleFilters {
		names = append(names, string(k))
	}
	sort.Strings(names)
	return names
}

func (k ResampleKind) filter() (imaging.ResampleFilter, error) {
	f, ok := resampleFilters[k]
	if !ok {
		return imaging.ResampleFilter{}, fmt.Errorf("%w: unknown resample kind %q", ErrInvalidArguments, k)
	}
	return f, nil
}

// TileGrid divides a width x height area into xCount columns and yCount rows.
//
// Steps are width/xCount and height/yCount (integer division). Every
// rectangle sits on the step grid, except that the last column ends exactly
// at width and the last row exactly at height, absorbing the remainder. The
// result is ordered column by column: x outer, y inner.
func TileGrid(width, height, xCount, yCount int) ([]image.Rectangle, error) {
	if xCount < 1 || yCount < 1 {
		return nil, fmt.Errorf("%w: grid counts must be at least 1, got %dx%d", ErrInvalidArguments, xCount, yCount)
	}
	if xCount > width || yCount > height {
		return nil, fmt.Errorf("%w: %dx%d grid does not fit %dx%d pixels", ErrInvalidArguments, xCount, yCount, width, height)
	}

	xStep := width / xCount
	yStep := height / yCount

	rects := make([]image.Rectangle, 0, xCount*yCount)
	for xi := 0; xi < xCount; xi++ {
		right := (xi + 1) * xStep
		if xi == xCount-1 {
			right = width
		}
		for yi := 0; yi < yCount; yi++ {
			bottom := (yi + 1) * yStep
			if yi == yCount-1 {
				bottom = height
			}
			rects = append(rects, image.Rect(xi*xStep, yi*yStep, right, bottom))
		}
	}
	return rects, nil
}

// shrinkRatio returns the uniform factor that fits w x h inside maxW x maxH.
// Each axis only contributes when the source exceeds it, so the result is
// never above 1.
func shrinkRatio(w, h, maxW, maxH int) float64 {
	ratio := 1.0
	if w > maxW {
		ratio = float64(maxW) / float64(w)
	}
	if h > maxH {
		ratio = math.Min(ratio, float64(maxH)/float64(h))
	}
	return ratio
}

// centerOffset is floor((outer-inner)/2) for non-negative differences.
func centerOffset(outer, inner int) int {
	return (outer - inner) / 2
}

// inferDimension scales other by given/original, rounded.
func inferDimension(other, given, original int) int {
	return int(math.Round(float64(other) * float64(given) / float64(original)))
}
