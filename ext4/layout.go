package ext4

import (
	"encoding/binary"
	"fmt"
	"time"
	"unicode/utf8"
)

// FieldType is the tagged-variant kind a decoded field value carries. It is
// the Go stand-in for the dynamic name->value mapping the original tool
// worked with: every on-disk structure is described once, as a Layout, and
// decoded generically against that description.
type FieldType int

const (
	// FieldInt is an unsigned integer of (End-Start) bytes.
	FieldInt FieldType = iota
	// FieldHex is a raw, unowned view into the source buffer.
	FieldHex
	// FieldStr is UTF-8, with invalid sequences replaced rather than failed.
	FieldStr
	// FieldTime is a FieldInt interpreted as POSIX seconds since the epoch.
	FieldTime
)

// FieldSpec names one field of an on-disk structure: its type and its
// byte range within the record. BigEndian defaults to false (little-endian), the
// order used by every on-disk structure in this filesystem except the
// journal, whose titles and descriptor tags are big-endian.
type FieldSpec struct {
	Name      string
	Type      FieldType
	Start     int
	End       int
	BigEndian bool
}

// Layout is the Layout Catalog entry for one structure: the named fields a
// generic decode pass will extract from a raw buffer. Fields not present in
// the layout are simply never decoded.
type Layout []FieldSpec

// Value is one decoded field, tagged by FieldType.
type Value struct {
	Type  FieldType
	Int   uint64
	Bytes []byte
	Str   string
	Time  time.Time
}

// Decode applies a Layout to a raw buffer and returns the named, typed
// fields it describes. It never fails: short buffers yield zero-length
// fields rather than an error, since a corrupt directory or inode slot
// should degrade rather than abort the whole decode.
func Decode(buf []byte, layout Layout) map[string]Value {
	out := make(map[string]Value, len(layout))
	for _, f := range layout {
		out[f.Name] = decodeField(buf, f)
	}
	return out
}

func decodeField(buf []byte, f FieldSpec) Value {
	start, end := f.Start, f.End
	if start < 0 {
		start = 0
	}
	if end > len(buf) || end < start {
		start, end = 0, 0
	}
	slice := buf[start:end]

	switch f.Type {
	case FieldHex:
		return Value{Type: FieldHex, Bytes: slice}
	case FieldStr:
		return Value{Type: FieldStr, Str: toUTF8(slice)}
	case FieldTime:
		return Value{Type: FieldTime, Time: time.Unix(int64(readUint(slice, f.BigEndian)), 0)}
	default:
		return Value{Type: FieldInt, Int: readUint(slice, f.BigEndian)}
	}
}

// readUint decodes an unsigned integer of len(b) bytes (1, 2, 4 or 8), in
// the requested byte order. Widths outside that set return 0.
func readUint(b []byte, bigEndian bool) uint64 {
	order := binary.ByteOrder(binary.LittleEndian)
	if bigEndian {
		order = binary.BigEndian
	}
	switch len(b) {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(order.Uint16(b))
	case 4:
		return uint64(order.Uint32(b))
	case 8:
		return order.Uint64(b)
	default:
		return 0
	}
}

// toUTF8 decodes a byte slice as UTF-8, silently substituting the
// replacement character for invalid sequences: file names on this
// filesystem are not required to be valid UTF-8, and a decode failure here
// must not abort recovery of the entry it names.
func toUTF8(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	out := make([]rune, 0, len(b))
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		out = append(out, r)
		i += size
	}
	return string(out)
}

// uint32sLittleEndian parses a buffer as consecutive little-endian uint32
// block pointers, trimming trailing zero entries. It is the one decode
// primitive shared by direct, single-, double- and triple-indirect blocks.
func uint32sLittleEndian(b []byte) []uint32 {
	n := len(b) / 4
	out := make([]uint32, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, binary.LittleEndian.Uint32(b[4*i:4*i+4]))
	}
	return trimTrailingZeros(out)
}

func trimTrailingZeros(blocks []uint32) []uint32 {
	i := len(blocks)
	for i > 0 && blocks[i-1] == 0 {
		i--
	}
	return blocks[:i]
}

func fieldError(structure, field string, err error) error {
	return fmt.Errorf("%s.%s: %w", structure, field, err)
}
