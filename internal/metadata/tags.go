// Package metadata writes and reads a small set of descriptive Exif tags in
// JPEG, PNG and TIFF files.
//
// JPEG and PNG carry the same payload: a little-endian TIFF stream with one
// IFD holding ASCII entries. JPEG stores it in an APP1 "Exif" segment, PNG in
// an eXIf chunk. Writing replaces any Exif block already present; nothing is
// merged. A TIFF file is its own Exif block, so there only the descriptive
// entries of IFD0 are replaced and the image structure is kept.
package metadata

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/rwcarlsen/goexif/exif"

	"github.com/ironsheep/media-actions/internal/fsutil"
)

// ErrUnsupportedFormat is returned for files that are not JPEG, PNG or TIFF.
var ErrUnsupportedFormat = errors.New("unsupported format for tags")

// DateTimeLayout is the Exif DateTime format.
const DateTimeLayout = "2006:01:02 15:04:05"

// Tags is the set of fields that can be written. Empty fields are omitted.
type Tags struct {
	Artist      string `json:"artist,omitempty"`
	Copyright   string `json:"copyright,omitempty"`
	Software    string `json:"software,omitempty"`
	Description string `json:"description,omitempty"`
	DateTime    string `json:"datetime,omitempty"`
}

// IsEmpty reports whether no field is set.
func (t Tags) IsEmpty() bool {
	return len(t.entries()) == 0
}

type family int

const (
	familyUnknown family = iota
	familyJPEG
	familyPNG
	familyTIFF
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

func sniff(data []byte) family {
	switch {
	case len(data) >= 3 && data[0] == 0xFF && data[1] == markerSOI && data[2] == 0xFF:
		return familyJPEG
	case bytes.HasPrefix(data, pngSignature):
		return familyPNG
	case bytes.HasPrefix(data, tiffLE), bytes.HasPrefix(data, tiffBE):
		return familyTIFF
	}
	return familyUnknown
}

// Write copies the file at path to "<name>_tagged.<ext>" with its Exif block
// replaced by tags, and returns the path written. The format is detected
// from the content, not the extension. An empty Tags strips the block.
func Write(path string, tags Tags) (string, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path chosen by the caller
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	var out []byte
	switch sniff(data) {
	case familyJPEG:
		out, err = rewriteJPEG(data, tags)
	case familyPNG:
		out, err = rewritePNG(data, tags)
	case familyTIFF:
		out, err = rewriteTIFF(data, tags)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to tag %s: %w", path, err)
	}

	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	target := fsutil.UniquePath(fsutil.DerivedPath(path, "_tagged"))
	if err := writeNew(target, out, perm); err != nil {
		return "", err
	}
	return target, nil
}

// Read returns the tags stored in the file at path. A file without an Exif
// block yields an empty Tags.
func Read(path string) (Tags, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path chosen by the caller
	if err != nil {
		return Tags{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var raw []byte
	switch sniff(data) {
	case familyJPEG:
		raw, err = jpegExif(data)
	case familyPNG:
		raw, err = pngExif(data)
	case familyTIFF:
		raw = data
	default:
		return Tags{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return Tags{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if raw == nil {
		return Tags{}, nil
	}

	x, err := exif.Decode(bytes.NewReader(raw))
	if err != nil && (x == nil || exif.IsCriticalError(err)) {
		return Tags{}, fmt.Errorf("failed to decode exif in %s: %w", path, err)
	}

	return Tags{
		Artist:      field(x, exif.Artist),
		Copyright:   field(x, exif.Copyright),
		Software:    field(x, exif.Software),
		Description: field(x, exif.ImageDescription),
		DateTime:    field(x, exif.DateTime),
	}, nil
}

func field(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	s, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return s
}

func writeNew(path string, data []byte, perm os.FileMode) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	_, err = f.Write(data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
