package metadata

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	markerSOI  = 0xD8
	markerEOI  = 0xD9
	markerSOS  = 0xDA
	markerAPP0 = 0xE0
	markerAPP1 = 0xE1
)

var exifHeader = []byte("Exif\x00\x00")

var errMalformedJPEG = errors.New("malformed JPEG stream")

type segment struct {
	marker byte
	data   []byte
}

func (s segment) isExif() bool {
	return s.marker == markerAPP1 && bytes.HasPrefix(s.data, exifHeader)
}

// splitJPEG returns the marker segments after SOI up to and including SOS,
// and the rest of the stream (scan data and EOI) untouched.
func splitJPEG(data []byte) ([]segment, []byte, error) {
	if len(data) < 2 || data[0] != 0xFF || data[1] != markerSOI {
		return nil, nil, errMalformedJPEG
	}

	var segs []segment
	i := 2
	for {
		// fill bytes
		for i+1 < len(data) && data[i] == 0xFF && data[i+1] == 0xFF {
			i++
		}
		if i+2 > len(data) || data[i] != 0xFF {
			return nil, nil, errMalformedJPEG
		}
		marker := data[i+1]
		if marker == markerEOI {
			return segs, data[i:], nil
		}
		if i+4 > len(data) {
			return nil, nil, errMalformedJPEG
		}

		n := int(binary.BigEndian.Uint16(data[i+2:]))
		if n < 2 || i+2+n > len(data) {
			return nil, nil, errMalformedJPEG
		}
		segs = append(segs, segment{marker: marker, data: data[i+4 : i+2+n]})
		i += 2 + n

		if marker == markerSOS {
			return segs, data[i:], nil
		}
	}
}

func appendSegment(dst []byte, marker byte, data []byte) []byte {
	dst = append(dst, 0xFF, marker)
	dst = binary.BigEndian.AppendUint16(dst, uint16(len(data)+2))
	return append(dst, data...)
}

// rewriteJPEG drops every APP1 Exif segment and, when tags is not empty,
// inserts a fresh one after the leading APP0 (JFIF) segments.
func rewriteJPEG(data []byte, tags Tags) ([]byte, error) {
	segs, rest, err := splitJPEG(data)
	if err != nil {
		return nil, err
	}

	var app1 []byte
	if entries := tags.entries(); len(entries) > 0 {
		app1 = append(append([]byte{}, exifHeader...), encodeIFD(entries)...)
		if len(app1)+2 > 0xFFFF {
			return nil, fmt.Errorf("exif block of %d bytes does not fit a JPEG segment", len(app1))
		}
	}

	out := make([]byte, 0, len(data)+len(app1)+4)
	out = append(out, 0xFF, markerSOI)
	pending := app1 != nil
	for _, s := range segs {
		if s.isExif() {
			continue
		}
		if pending && s.marker != markerAPP0 {
			out = appendSegment(out, markerAPP1, app1)
			pending = false
		}
		out = appendSegment(out, s.marker, s.data)
	}
	if pending {
		out = appendSegment(out, markerAPP1, app1)
	}
	return append(out, rest...), nil
}

// jpegExif returns the first APP1 Exif payload, header included, or nil.
func jpegExif(data []byte) ([]byte, error) {
	segs, _, err := splitJPEG(data)
	if err != nil {
		return nil, err
	}
	for _, s := range segs {
		if s.isExif() {
			return s.data, nil
		}
	}
	return nil, nil
}
