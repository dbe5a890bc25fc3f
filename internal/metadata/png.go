package metadata

import (
	"encoding/binary"
	"errors"
	"hash/crc32"
)

var errMalformedPNG = errors.New("malformed PNG stream")

type chunk struct {
	typ  string
	data []byte
}

// splitPNG returns the chunks after the signature, through IEND.
func splitPNG(data []byte) ([]chunk, error) {
	var chunks []chunk
	i := len(pngSignature)
	for i+12 <= len(data) {
		n := binary.BigEndian.Uint32(data[i:])
		if uint64(n) > uint64(len(data)-i-12) {
			return nil, errMalformedPNG
		}
		end := i + 8 + int(n)
		c := chunk{typ: string(data[i+4 : i+8]), data: data[i+8 : end]}
		chunks = append(chunks, c)
		i = end + 4

		if c.typ == "IEND" {
			return chunks, nil
		}
	}
	return nil, errMalformedPNG
}

func appendChunk(dst []byte, typ string, data []byte) []byte {
	dst = binary.BigEndian.AppendUint32(dst, uint32(len(data)))
	start := len(dst)
	dst = append(dst, typ...)
	dst = append(dst, data...)
	return binary.BigEndian.AppendUint32(dst, crc32.ChecksumIEEE(dst[start:]))
}

// rewritePNG drops every eXIf chunk and, when tags is not empty, inserts a
// new one before the first IDAT.
func rewritePNG(data []byte, tags Tags) ([]byte, error) {
	chunks, err := splitPNG(data)
	if err != nil {
		return nil, err
	}

	var payload []byte
	if entries := tags.entries(); len(entries) > 0 {
		payload = encodeIFD(entries)
	}

	out := make([]byte, 0, len(data)+len(payload)+12)
	out = append(out, pngSignature...)
	pending := payload != nil
	for _, c := range chunks {
		if c.typ == "eXIf" {
			continue
		}
		if pending && c.typ == "IDAT" {
			out = appendChunk(out, "eXIf", payload)
			pending = false
		}
		out = appendChunk(out, c.typ, c.data)
	}
	if pending {
		return nil, errors.New("png has no IDAT chunk")
	}
	return out, nil
}

// pngExif returns the eXIf chunk payload (a bare TIFF stream) or nil.
func pngExif(data []byte) ([]byte, error) {
	chunks, err := splitPNG(data)
	if err != nil {
		return nil, err
	}
	for _, c := range chunks {
		if c.typ == "eXIf" {
			return c.data, nil
		}
	}
	return nil, nil
}
