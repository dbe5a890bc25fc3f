package metadata

import "encoding/binary"

// IFD0 tag IDs, in ascending order as TIFF requires.
const (
	tagImageDescription uint16 = 0x010E
	tagSoftware         uint16 = 0x0131
	tagDateTime         uint16 = 0x0132
	tagArtist           uint16 = 0x013B
	tagCopyright        uint16 = 0x8298
)

const typeASCII uint16 = 2

type entry struct {
	id    uint16
	value string
}

func (t Tags) entries() []entry {
	all := []entry{
		{tagImageDescription, t.Description},
		{tagSoftware, t.Software},
		{tagDateTime, t.DateTime},
		{tagArtist, t.Artist},
		{tagCopyright, t.Copyright},
	}

	set := all[:0]
	for _, e := range all {
		if e.value != "" {
			set = append(set, e)
		}
	}
	return set
}

// encodeIFD builds a little-endian TIFF stream with a single IFD. Values of
// four bytes or less (including the NUL) are stored inline, longer ones
// follow the IFD at word-aligned offsets.
func encodeIFD(entries []entry) []byte {
	const headerLen = 8
	le := binary.LittleEndian

	buf := []byte{'I', 'I', 0x2A, 0x00}
	buf = le.AppendUint32(buf, headerLen)
	buf = le.AppendUint16(buf, uint16(len(entries)))

	valueBase := headerLen + 2 + 12*len(entries) + 4
	var values []byte
	for _, e := range entries {
		v := append([]byte(e.value), 0)
		buf = le.AppendUint16(buf, e.id)
		buf = le.AppendUint16(buf, typeASCII)
		buf = le.AppendUint32(buf, uint32(len(v)))

		if len(v) <= 4 {
			var inline [4]byte
			copy(inline[:], v)
			buf = append(buf, inline[:]...)
			continue
		}
		buf = le.AppendUint32(buf, uint32(valueBase+len(values)))
		values = append(values, v...)
		if len(values)%2 == 1 {
			values = append(values, 0)
		}
	}
	buf = le.AppendUint32(buf, 0) // no next IFD

	return append(buf, values...)
}
