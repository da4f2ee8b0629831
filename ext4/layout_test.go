package ext4

import "testing"

func TestDecodeFieldTypes(t *testing.T) {
	buf := []byte{0x01, 0x02, 0x03, 0x04, 'h', 'i', 0x00, 0x00}
	layout := Layout{
		{Name: "asInt", Type: FieldInt, Start: 0, End: 4},
		{Name: "asIntBig", Type: FieldInt, Start: 0, End: 4, BigEndian: true},
		{Name: "asHex", Type: FieldHex, Start: 0, End: 2},
		{Name: "asStr", Type: FieldStr, Start: 4, End: 6},
	}

	got := Decode(buf, layout)

	if got["asInt"].Int != 0x04030201 {
		t.Errorf("asInt = %x, want %x", got["asInt"].Int, 0x04030201)
	}
	if got["asIntBig"].Int != 0x01020304 {
		t.Errorf("asIntBig = %x, want %x", got["asIntBig"].Int, 0x01020304)
	}
	if len(got["asHex"].Bytes) != 2 || got["asHex"].Bytes[0] != 0x01 {
		t.Errorf("asHex = %v, want [1 2]", got["asHex"].Bytes)
	}
	if got["asStr"].Str != "hi" {
		t.Errorf("asStr = %q, want %q", got["asStr"].Str, "hi")
	}
}

func TestDecodeShortBuffer(t *testing.T) {
	buf := []byte{0x01, 0x02}
	layout := Layout{{Name: "oob", Type: FieldInt, Start: 0, End: 8}}

	got := Decode(buf, layout)

	if got["oob"].Int != 0 {
		t.Errorf("oob = %d, want 0 for a short buffer (widths other than 1/2/4/8 decode to zero)", got["oob"].Int)
	}
}

func TestUint32sLittleEndianTrimsTrailingZeros(t *testing.T) {
	buf := []byte{
		0x01, 0x00, 0x00, 0x00,
		0x02, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
	}

	got := uint32sLittleEndian(buf)

	want := []uint32{1, 2}
	if len(got) != len(want) {
		t.Fatalf("uint32sLittleEndian() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("uint32sLittleEndian()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestUint32sLittleEndianKeepsInteriorZeros(t *testing.T) {
	buf := []byte{
		0x01, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x02, 0x00, 0x00, 0x00,
	}

	got := uint32sLittleEndian(buf)

	want := []uint32{1, 0, 2}
	if len(got) != len(want) {
		t.Fatalf("uint32sLittleEndian() = %v, want %v", got, want)
	}
}
