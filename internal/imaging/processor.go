package imaging

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"log/slog"
	"strconv"

	"github.com/ironsheep/media-actions/internal/fsutil"
)

// Processor runs the image operations on files. Each method decodes its
// source(s), applies one pure operation and writes the result next to the
// first source under a derived name.
type Processor struct {
	save   SaveOptions
	logger *slog.Logger
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithJPEGQuality sets the JPEG (and lossy WebP) output quality.
func WithJPEGQuality(q int) ProcessorOption {
	return func(p *Processor) {
		p.save.JPEGQuality = q
	}
}

// WithWebPLossless selects lossless WebP output.
func WithWebPLossless(lossless bool) ProcessorOption {
	return func(p *Processor) {
		p.save.WebPLossless = lossless
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) ProcessorOption {
	return func(p *Processor) {
		p.logger = l
	}
}

// NewProcessor creates a Processor with JPEG quality 100 unless overridden.
func NewProcessor(opts ...ProcessorOption) *Processor {
	p := &Processor{
		save:   SaveOptions{JPEGQuality: 100},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Processor) write(img image.Image, src, suffix string) (string, error) {
	out, err := Save(img, fsutil.DerivedPath(src, suffix), p.save)
	if err != nil {
		return "", err
	}
	p.logger.Debug("image written", "source", src, "output", out)
	return out, nil
}

func (p *Processor) transform(src, suffix string, fn func(image.Image) (image.Image, error)) (string, error) {
	img, err := Open(src)
	if err != nil {
		return "", err
	}
	out, err := fn(img)
	if err != nil {
		return "", err
	}
	return p.write(out, src, suffix)
}

// Resize writes "<name>_resized.<ext>".
func (p *Processor) Resize(path string, width, height int, kind ResampleKind) (string, error) {
	return p.transform(path, "_resized", func(img image.Image) (image.Image, error) {
		return Resize(img, width, height, kind)
	})
}

// AddMargin writes "<name>_with_margin<margin>.<ext>".
func (p *Processor) AddMargin(path string, margin int, bg color.Color) (string, error) {
	return p.transform(path, "_with_margin"+strconv.Itoa(margin), func(img image.Image) (image.Image, error) {
		return AddMargin(img, margin, bg)
	})
}

// CropGrid writes "<name>_crop<i>.<ext>" for i in 0..x*y-1.
func (p *Processor) CropGrid(path string, xCount, yCount int) ([]string, error) {
	img, err := Open(path)
	if err != nil {
		return nil, err
	}
	parts, err := CropGrid(img, xCount, yCount)
	if err != nil {
		return nil, err
	}

	outs := make([]string, 0, len(parts))
	for i, part := range parts {
		out, err := p.write(part, path, "_crop"+strconv.Itoa(i))
		if err != nil {
			return outs, err
		}
		outs = append(outs, out)
	}
	return outs, nil
}

// CenterCrop writes "<name>_cropped_center.<ext>".
func (p *Processor) CenterCrop(path string, width, height int) (string, error) {
	return p.transform(path, "_cropped_center", func(img image.Image) (image.Image, error) {
		return CenterCrop(img, width, height)
	})
}

// CenterPaste writes "<name>_centered<W>x<H>.<ext>".
func (p *Processor) CenterPaste(path string, canvasW, canvasH int, bg color.Color) (string, error) {
	suffix := fmt.Sprintf("_centered%dx%d", canvasW, canvasH)
	return p.transform(path, suffix, func(img image.Image) (image.Image, error) {
		return CenterPaste(img, canvasW, canvasH, bg)
	})
}

// Wall composes all paths into "<first name>_wall.<ext>".
func (p *Processor) Wall(paths []string, opts WallOptions) (string, error) {
	if len(paths) == 0 {
		return "", fmt.Errorf("%w: wall needs at least one image", ErrInvalidArguments)
	}

	// Check the size from the headers before decoding everything.
	sizes := make([]image.Point, 0, len(paths))
	for _, path := range paths {
		w, h, err := decodeSize(path)
		if err != nil {
			return "", err
		}
		sizes = append(sizes, image.Pt(w, h))
	}
	if w, _ := WallSize(sizes, opts); w >= MaxCanvasWidth {
		return "", fmt.Errorf("%w: wall width %d, limit %d", ErrCanvasTooLarge, w, MaxCanvasWidth)
	}

	imgs := make([]image.Image, 0, len(paths))
	for _, path := range paths {
		img, err := Open(path)
		if err != nil {
			return "", err
		}
		imgs = append(imgs, img)
	}

	wall, err := Wall(imgs, opts)
	if err != nil {
		return "", err
	}
	return p.write(wall, paths[0], "_wall")
}

// Rotate writes "<name>_rotated<degrees>.<ext>".
func (p *Processor) Rotate(path string, degrees float64, bg color.Color, expand bool, pivot Pivot) (string, error) {
	suffix := "_rotated" + strconv.FormatFloat(degrees, 'f', -1, 64)
	return p.transform(path, suffix, func(img image.Image) (image.Image, error) {
		return Rotate(img, degrees, bg, expand, pivot)
	})
}

// EdgeBlur writes "<name>_blurred_edges.<ext>".
func (p *Processor) EdgeBlur(path string, radius int, bg color.Color) (string, error) {
	if radius < 1 {
		return "", fmt.Errorf("%w: radius must be at least 1, got %d", ErrInvalidArguments, radius)
	}
	return p.transform(path, "_blurred_edges", func(img image.Image) (image.Image, error) {
		return EdgeBlur(img, radius, bg), nil
	})
}

// Grayscale writes "<name>_grayscale.<ext>".
func (p *Processor) Grayscale(path string, mode GrayMode) (string, error) {
	return p.transform(path, "_grayscale", func(img image.Image) (image.Image, error) {
		return Grayscale(img, mode)
	})
}

// Colorize writes "<name>_duotone.<ext>", or "_tritone" with a mid colour.
func (p *Processor) Colorize(path string, opts ColorizeOptions) (string, error) {
	suffix := "_duotone"
	if opts.UseMid {
		suffix = "_tritone"
	}
	return p.transform(path, suffix, func(img image.Image) (image.Image, error) {
		return Colorize(img, opts)
	})
}

// Solarize writes "<name>_solarized<threshold>.<ext>".
func (p *Processor) Solarize(path string, threshold int) (string, error) {
	return p.transform(path, "_solarized"+strconv.Itoa(threshold), func(img image.Image) (image.Image, error) {
		return Solarize(img, threshold), nil
	})
}

// Difference writes "<first name>_diff.<ext>". Exactly two paths are required.
func (p *Processor) Difference(paths []string) (string, error) {
	if len(paths) != 2 {
		return "", fmt.Errorf("%w: difference needs exactly 2 images, got %d", ErrInvalidArguments, len(paths))
	}

	a, err := Open(paths[0])
	if err != nil {
		return "", err
	}
	b, err := Open(paths[1])
	if err != nil {
		return "", err
	}

	diff, err := Difference(a, b)
	if err != nil {
		return "", err
	}
	return p.write(diff, paths[0], "_diff")
}

// ApplyFilter writes "<name>_<filter>.<ext>". With saveBoth the output shows
// the original and the filtered image side by side.
func (p *Processor) ApplyFilter(path string, name FilterName, saveBoth bool, seed int64) (string, error) {
	return p.transform(path, "_"+string(name), func(img image.Image) (image.Image, error) {
		filtered, err := ApplyFilter(img, name, seed)
		if err != nil {
			return nil, err
		}
		if saveBoth {
			return SideBySide(img, filtered), nil
		}
		return filtered, nil
	})
}

func decodeSize(path string) (int, int, error) {
	f, err := openFile(path)
	if err != nil {
		return 0, 0, err
	}
	defer func() { _ = f.Close() }()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read image header: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}
