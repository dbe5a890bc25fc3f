package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder

	"github.com/ironsheep/media-actions/internal/fsutil"
)

// Format is an output encoding, chosen from the target file extension.
type Format string

const (
	JPEG Format = "jpeg"
	PNG  Format = "png"
	GIF  Format = "gif"
	TIFF Format = "tiff"
	BMP  Format = "bmp"
	WebP Format = "webp"
)

// FormatFromPath maps the (case-insensitive) extension of path to a Format.
func FormatFromPath(path string) (Format, error) {
	_, _, ext := fsutil.SplitPath(path)
	switch strings.ToLower(ext) {
	case "jpg", "jpeg":
		return JPEG, nil
	case "png":
		return PNG, nil
	case "gif":
		return GIF, nil
	case "tif", "tiff":
		return TIFF, nil
	case "bmp":
		return BMP, nil
	case "webp":
		return WebP, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}

// Open decodes the image at path. PNG, JPEG, GIF, BMP, TIFF and WebP are
// recognised by content, not by extension.
func Open(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return img, nil
}

// SaveOptions controls the encoder settings used by Save.
type SaveOptions struct {
	// JPEGQuality is used for JPEG and lossy WebP output. 0 means 100.
	JPEGQuality int

	// WebPLossless selects lossless WebP encoding.
	WebPLossless bool
}

func (o SaveOptions) quality() int {
	if o.JPEGQuality <= 0 || o.JPEGQuality > 100 {
		return 100
	}
	return o.JPEGQuality
}

// Save encodes img to path, choosing the encoder from the extension. When
// something already exists at path, the image is written to
// fsutil.UniquePath(path) instead. It returns the path actually written.
func Save(img image.Image, path string, opts SaveOptions) (string, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return "", err
	}

	target := fsutil.UniquePath(path)

	switch format {
	case WebP:
		err = saveWebP(img, target, opts)
	case JPEG:
		err = imaging.Save(img, target, imaging.JPEGQuality(opts.quality()))
	default:
		err = imaging.Save(img, target)
	}
	if err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}

	return target, nil
}

func saveWebP(img image.Image, path string, opts SaveOptions) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}

	err = webp.Encode(f, img, &webp.Options{
		Lossless: opts.WebPLossless,
		Quality:  float32(opts.quality()),
	})
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return err
	}
	return nil
}

// Dimensions returns the width and height of img.
func Dimensions(img image.Image) (width, height int) {
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

func openFile(path string) (*os.File, error) {
	f, err := os.Open(path) // #nosec G304 - path chosen by the caller
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return f, nil
}
