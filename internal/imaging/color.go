package imaging

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
)

// ParseColor parses "#RGB", "#RRGGBB" or "#RRGGBBAA" (the '#' is optional).
func ParseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")

	if len(hex) == 8 {
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("%w: invalid colour %q", ErrInvalidArguments, s)
		}
		return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
	}

	if len(hex) != 3 && len(hex) != 6 {
		return color.NRGBA{}, fmt.Errorf("%w: invalid colour %q", ErrInvalidArguments, s)
	}
	c, err := colorful.Hex("#" + strings.ToLower(hex))
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: invalid colour %q", ErrInvalidArguments, s)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// GrayMode is a grayscale pixel format.
type GrayMode string

const (
	Gray8   GrayMode = "L"   // 8-bit gray
	Gray16  GrayMode = "I16" // 16-bit gray
	Bilevel GrayMode = "1"   // black and white, Floyd-Steinberg dithered
)

// Grayscale converts img to the given mode. Converting an image that is
// already in that mode returns identical pixels. Translucent pixels are
// composited onto white first, since none of the modes carries alpha.
func Grayscale(img image.Image, mode GrayMode) (image.Image, error) {
	img = flatten(img)
	b := img.Bounds()

	switch mode {
	case Gray8:
		dst := image.NewGray(b)
		draw.Draw(dst, b, img, b.Min, draw.Src)
		return dst, nil
	case Gray16:
		dst := image.NewGray16(b)
		draw.Draw(dst, b, img, b.Min, draw.Src)
		return dst, nil
	case Bilevel:
		dst := image.NewPaletted(b, color.Palette{color.Black, color.White})
		draw.FloydSteinberg.Draw(dst, b, img, b.Min)
		return dst, nil
	}
	return nil, fmt.Errorf("%w: unknown grayscale mode %q", ErrInvalidArguments, mode)
}

// flatten composites img onto an opaque white background. Opaque images are
// returned unchanged.
func flatten(img image.Image) image.Image {
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return img
	}
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}

// ColorizeOptions anchors the colour ramp used by Colorize. Points are gray
// levels 0..255 and are expected to satisfy BlackPoint <= MidPoint <= WhitePoint.
type ColorizeOptions struct {
	Black      color.Color
	White      color.Color
	Mid        color.Color
	UseMid     bool
	BlackPoint int
	WhitePoint int
	MidPoint   int
}

// Colorize maps the gray levels of img through a piecewise linear ramp:
// Black up to BlackPoint, White from WhitePoint, interpolated in between
// (through Mid at MidPoint when UseMid is set).
func Colorize(img image.Image, opts ColorizeOptions) (*image.NRGBA, error) {
	gray, err := Grayscale(img, Gray8)
	if err != nil {
		return nil, err
	}
	lut := colorRamp(opts)

	g := gray.(*image.Gray)
	b := g.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.SetNRGBA(x-b.Min.X, y-b.Min.Y, lut[g.GrayAt(x, y).Y])
		}
	}
	return dst, nil
}

func colorRamp(opts ColorizeOptions) [256]color.NRGBA {
	black, white, mid := toColorful(opts.Black), toColorful(opts.White), toColorful(opts.Mid)
	bp, wp, mp := opts.BlackPoint, opts.WhitePoint, opts.MidPoint

	var lut [256]color.NRGBA
	for i := range lut {
		var c colorful.Color
		switch {
		case i <= bp:
			c = black
		case i >= wp:
			c = white
		case opts.UseMid && i <= mp:
			c = black.BlendRgb(mid, float64(i-bp)/float64(mp-bp))
		case opts.UseMid:
			c = mid.BlendRgb(white, float64(i-mp)/float64(wp-mp))
		default:
			c = black.BlendRgb(white, float64(i-bp)/float64(wp-bp))
		}
		r, g, b := c.Clamped().RGB255()
		lut[i] = color.NRGBA{R: r, G: g, B: b, A: 255}
	}
	return lut
}

func toColorful(c color.Color) colorful.Color {
	if c == nil {
		return colorful.Color{}
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return colorful.Color{R: float64(n.R) / 255, G: float64(n.G) / 255, B: float64(n.B) / 255}
}

// Solarize inverts every colour channel strictly above threshold. Alpha is
// left alone and the threshold applies to straight, not premultiplied, values.
func Solarize(img image.Image, threshold int) *image.NRGBA {
	invert := func(v uint8) uint8 {
		if int(v) > threshold {
			return 255 - v
		}
		return v
	}

	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{R: invert(c.R), G: invert(c.G), B: invert(c.B), A: c.A}
	})
}
