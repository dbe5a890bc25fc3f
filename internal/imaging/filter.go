package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math/rand"
	"sort"

	"github.com/anthonynsimon/bild/convolution"
	"github.com/disintegration/imaging"
)

// FilterName names a convolution filter.
type FilterName string

const (
	FilterFindEdges       FilterName = "find_edges"
	FilterBlur            FilterName = "blur"
	FilterContour         FilterName = "contour"
	FilterDetail          FilterName = "detail"
	FilterEdgeEnhance     FilterName = "edge_enhance"
	FilterEdgeEnhanceMore FilterName = "edge_enhance_more"
	FilterEmboss          FilterName = "emboss"
	FilterSharpen         FilterName = "sharpen"
	FilterSmooth          FilterName = "smooth"
	FilterSmoothMore      FilterName = "smooth_more"
	FilterRandom          FilterName = "random"
)

// kernelSpec is a square kernel: result = sum(w*p)/scale + offset.
type kernelSpec struct {
	size    int
	scale   float64
	offset  float64
	weights []float64
}

var builtinKernels = map[FilterName]kernelSpec{
	FilterBlur: {5, 16, 0, []float64{
		1, 1, 1, 1, 1,
		1, 0, 0, 0, 1,
		1, 0, 0, 0, 1,
		1, 0, 0, 0, 1,
		1, 1, 1, 1, 1,
	}},
	FilterContour: {3, 1, 255, []float64{
		-1, -1, -1,
		-1, 8, -1,
		-1, -1, -1,
	}},
	FilterDetail: {3, 6, 0, []float64{
		0, -1, 0,
		-1, 10, -1,
		0, -1, 0,
	}},
	FilterEdgeEnhance: {3, 2, 0, []float64{
		-1, -1, -1,
		-1, 10, -1,
		-1, -1, -1,
	}},
	FilterEdgeEnhanceMore: {3, 1, 0, []float64{
		-1, -1, -1,
		-1, 9, -1,
		-1, -1, -1,
	}},
	FilterEmboss: {3, 1, 128, []float64{
		-1, 0, 0,
		0, 1, 0,
		0, 0, 0,
	}},
	FilterFindEdges: {3, 1, 0, []float64{
		-1, -1, -1,
		-1, 8, -1,
		-1, -1, -1,
	}},
	FilterSharpen: {3, 16, 0, []float64{
		-2, -2, -2,
		-2, 32, -2,
		-2, -2, -2,
	}},
	FilterSmooth: {3, 13, 0, []float64{
		1, 1, 1,
		1, 5, 1,
		1, 1, 1,
	}},
	FilterSmoothMore: {5, 100, 0, []float64{
		1, 1, 1, 1, 1,
		1, 5, 5, 5, 1,
		1, 5, 44, 5, 1,
		1, 5, 5, 5, 1,
		1, 1, 1, 1, 1,
	}},
}

// FilterNames lists every accepted filter name in sorted order.
func FilterNames() []string {
	names := []string{string(FilterRandom)}
	for k := range builtinKernels {
		names = append(names, string(k))
	}
	sort.Strings(names)
	return names
}

// randomKernel draws a 3x3 kernel from seed: weights in [-10,10], scale in
// [0,6] and offset in [6,256]. A scale of 0 falls back to the weight sum,
// or 1 when that is 0 too.
func randomKernel(seed int64) kernelSpec {
	rng := rand.New(rand.NewSource(seed)) // #nosec G404 - visual effect only
	spec := kernelSpec{
		size:    3,
		scale:   float64(rng.Intn(7)),
		offset:  float64(6 + rng.Intn(251)),
		weights: make([]float64, 9),
	}

	var sum float64
	for i := range spec.weights {
		spec.weights[i] = float64(rng.Intn(21) - 10)
		sum += spec.weights[i]
	}
	if spec.scale == 0 {
		spec.scale = sum
	}
	if spec.scale == 0 {
		spec.scale = 1
	}
	return spec
}

func kernelFor(name FilterName, seed int64) (kernelSpec, error) {
	if name == FilterRandom {
		return randomKernel(seed), nil
	}
	spec, ok := builtinKernels[name]
	if !ok {
		return kernelSpec{}, fmt.Errorf("%w: unknown filter %q", ErrInvalidArguments, name)
	}
	return spec, nil
}

// ApplyFilter convolves img with the named kernel. seed is only used by
// FilterRandom; the same seed always yields the same kernel. Edges are
// extended, alpha is kept.
func ApplyFilter(img image.Image, name FilterName, seed int64) (*image.NRGBA, error) {
	spec, err := kernelFor(name, seed)
	if err != nil {
		return nil, err
	}

	k := convolution.NewKernel(spec.size, spec.size)
	for i, w := range spec.weights {
		k.Matrix[i] = w / spec.scale
	}

	out := convolution.Convolve(img, k, &convolution.Options{
		Bias:      spec.offset,
		Wrap:      false,
		KeepAlpha: true,
	})
	return imaging.Clone(out), nil
}

// SideBySide puts left and right next to each other on a white canvas with
// a margin of 30 pixels around and between them.
func SideBySide(left, right image.Image) *image.NRGBA {
	const margin = 30
	lw, lh := Dimensions(left)
	rw, rh := Dimensions(right)

	canvas := imaging.New(lw+rw+3*margin, max(lh, rh)+2*margin, color.White)
	canvas = imaging.Paste(canvas, left, image.Pt(margin, margin))
	return imaging.Paste(canvas, right, image.Pt(2*margin+lw, margin))
}
