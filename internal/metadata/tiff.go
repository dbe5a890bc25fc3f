package metadata

import (
	"encoding/binary"
	"errors"
	"math"
	"sort"
)

var (
	tiffLE = []byte("II*\x00")
	tiffBE = []byte("MM\x00*")
)

var errBadTIFF = errors.New("malformed TIFF")

// rewriteTIFF gives a TIFF file a new IFD0, appended at the end: the entries
// of the old IFD0 without the descriptive tags, plus tags, sorted by ID. The
// old IFD stays in place unreferenced, so every offset it points to (strips,
// sub-IFDs, the next IFD) remains valid.
func rewriteTIFF(data []byte, tags Tags) ([]byte, error) {
	order, err := tiffOrder(data)
	if err != nil {
		return nil, err
	}

	ifd := int(order.Uint32(data[4:8]))
	if ifd < 8 || ifd+2 > len(data) {
		return nil, errBadTIFF
	}
	n := int(order.Uint16(data[ifd:]))
	end := ifd + 2 + 12*n
	if end+4 > len(data) {
		return nil, errBadTIFF
	}
	next := order.Uint32(data[end:])

	type record struct {
		id  uint16
		raw []byte
	}
	var records []record
	for i := 0; i < n; i++ {
		raw := data[ifd+2+12*i : ifd+2+12*(i+1)]
		id := order.Uint16(raw)
		if isDescriptive(id) {
			continue
		}
		records = append(records, record{id, raw})
	}

	out := append([]byte(nil), data...)
	if len(out)%2 == 1 {
		out = append(out, 0)
	}
	newIFD := len(out)

	added := tags.entries()
	total := len(records) + len(added)
	valueBase := newIFD + 2 + 12*total + 4
	if uint64(valueBase) > math.MaxUint32 {
		return nil, errBadTIFF
	}

	var values []byte
	for _, e := range added {
		v := append([]byte(e.value), 0)
		raw := make([]byte, 12)
		order.PutUint16(raw[0:], e.id)
		order.PutUint16(raw[2:], typeASCII)
		order.PutUint32(raw[4:], uint32(len(v)))
		if len(v) <= 4 {
			copy(raw[8:], v)
		} else {
			order.PutUint32(raw[8:], uint32(valueBase+len(values)))
			values = append(values, v...)
			if len(values)%2 == 1 {
				values = append(values, 0)
			}
		}
		records = append(records, record{e.id, raw})
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].id < records[j].id })

	out = order.AppendUint16(out, uint16(total))
	for _, r := range records {
		out = append(out, r.raw...)
	}
	out = order.AppendUint32(out, next)
	out = append(out, values...)

	order.PutUint32(out[4:8], uint32(newIFD))
	return out, nil
}

type tiffByteOrder interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

func tiffOrder(data []byte) (tiffByteOrder, error) {
	if len(data) < 8 {
		return nil, errBadTIFF
	}
	switch string(data[:4]) {
	case string(tiffLE):
		return binary.LittleEndian, nil
	case string(tiffBE):
		return binary.BigEndian, nil
	}
	return nil, errBadTIFF
}

func isDescriptive(id uint16) bool {
	switch id {
	case tagImageDescription, tagSoftware, tagDateTime, tagArtist, tagCopyright:
		return true
	}
	return false
}
