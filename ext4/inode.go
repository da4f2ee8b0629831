package ext4

import "time"

const (
	// directBlockCount is the number of direct block pointers in a classic
	// inode (i_block[0..11]).
	directBlockCount = 12
	// directBlocksRawSize is directBlockCount 4-byte pointers.
	directBlocksRawSize = directBlockCount * 4
)

var inodeLayout = Layout{
	{Name: "sizeLow", Type: FieldHex, Start: 4, End: 8},
	{Name: "accessTime", Type: FieldTime, Start: 8, End: 12},
	{Name: "createTime", Type: FieldTime, Start: 12, End: 16},
	{Name: "modifyTime", Type: FieldTime, Start: 16, End: 20},
	{Name: "deleteTime", Type: FieldTime, Start: 20, End: 24},
	{Name: "linksCount", Type: FieldInt, Start: 26, End: 28},
	{Name: "sectorCount", Type: FieldInt, Start: 28, End: 32},
	{Name: "directBlocks", Type: FieldHex, Start: 40, End: 40 + directBlocksRawSize},
	{Name: "indirectBlock", Type: FieldInt, Start: 88, End: 92},
	{Name: "doubleIndirectBlock", Type: FieldInt, Start: 92, End: 96},
	{Name: "tripleIndirectBlock", Type: FieldInt, Start: 96, End: 100},
	{Name: "sizeHigh", Type: FieldHex, Start: 108, End: 112},
}

// Inode is a classic, pointer-based ext3/ext4 inode: no extent trees, only
// direct and single/double/triple indirect block pointers.
type Inode struct {
	Number       uint32
	Size         uint64
	AccessTime   time.Time
	CreateTime   time.Time
	ModifyTime   time.Time
	DeleteTime   time.Time
	LinksCount   uint16
	SectorCount  uint32
	DirectBlocks []uint32 // the raw 12 direct pointers, zero-trimmed
	Indirect     uint32
	DoubleIndirect uint32
	TripleIndirect uint32
	// Blocks is the fully resolved, ordered list of data block numbers:
	// direct blocks followed by the blocks reached through the indirect
	// chains, each individually zero-trimmed the way the original reader
	// trims a partially-filled pointer block.
	Blocks []uint32
}

// fetchInodeRaw locates and reads inodeNum's raw on-disk record from the
// live filesystem.
func fetchInodeRaw(g *Geometry, inodeNum uint32) ([]byte, error) {
	block, slot, err := g.Locate(inodeNum)
	if err != nil {
		return nil, err
	}
	raw, err := g.reader.ReadBlock(block)
	if err != nil {
		return nil, wrapErr(KindIO, "fetchInodeRaw", err)
	}
	size := int(g.SB.InodeSize)
	start := int(slot) * size
	end := start + size
	if end > len(raw) {
		return nil, wrapErr(KindFormat, "fetchInodeRaw", fieldError("inode", "raw", errShortBuffer))
	}
	return raw[start:end], nil
}

// fetchInodeFromPage extracts inodeNum's record from a journal data page
// already known to be the block that, on the live filesystem, holds this
// inode's table slot. Indirect pointer chains are still resolved against
// the live device: a deleted file's indirect blocks are not themselves
// journaled data the recovery engine tracks, only the inode record is.
func fetchInodeFromPage(g *Geometry, inodeNum uint32, page []byte) ([]byte, error) {
	_, slot, err := g.Locate(inodeNum)
	if err != nil {
		return nil, err
	}
	size := int(g.SB.InodeSize)
	start := int(slot) * size
	end := start + size
	if end > len(page) {
		return nil, wrapErr(KindFormat, "fetchInodeFromPage", fieldError("inode", "raw", errShortBuffer))
	}
	return page[start:end], nil
}

// decodeInode turns a raw inode record into an Inode, resolving its block
// list against the live device. g may be nil only if raw's direct blocks
// are all that is needed; indirect chains require g to read pointer blocks.
func decodeInode(g *Geometry, inodeNum uint32, raw []byte) (*Inode, error) {
	fields := Decode(raw, inodeLayout)

	sizeLow := fields["sizeLow"].Bytes
	sizeHigh := fields["sizeHigh"].Bytes
	size := combineSize(sizeLow, sizeHigh)

	direct := uint32sLittleEndian(fields["directBlocks"].Bytes)

	in := &Inode{
		Number:         inodeNum,
		Size:           size,
		AccessTime:     fields["accessTime"].Time,
		CreateTime:     fields["createTime"].Time,
		ModifyTime:     fields["modifyTime"].Time,
		DeleteTime:     fields["deleteTime"].Time,
		LinksCount:     uint16(fields["linksCount"].Int),
		SectorCount:    uint32(fields["sectorCount"].Int),
		DirectBlocks:   direct,
		Indirect:       uint32(fields["indirectBlock"].Int),
		DoubleIndirect: uint32(fields["doubleIndirectBlock"].Int),
		TripleIndirect: uint32(fields["tripleIndirectBlock"].Int),
	}

	blocks := append([]uint32{}, direct...)
	if g != nil {
		b1, err := resolveIndirect(g, in.Indirect, 1)
		if err != nil {
			return nil, err
		}
		b2, err := resolveIndirect(g, in.DoubleIndirect, 2)
		if err != nil {
			return nil, err
		}
		b3, err := resolveIndirect(g, in.TripleIndirect, 3)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, b1...)
		blocks = append(blocks, b2...)
		blocks = append(blocks, b3...)
	}
	in.Blocks = blocks

	return in, nil
}

// combineSize reproduces the byte-concatenation the original reader used:
// the low and high 32-bit halves are each read little-endian, concatenated
// low-then-high into an 8-byte buffer, and that buffer reinterpreted as one
// little-endian uint64 -- equivalent to size = low | high<<32.
func combineSize(low, high []byte) uint64 {
	buf := make([]byte, 0, 8)
	buf = append(buf, low...)
	buf = append(buf, high...)
	for len(buf) < 8 {
		buf = append(buf, 0)
	}
	return readUint(buf[:8], false)
}

// resolveIndirect walks a pointer block depth levels deep (1 = single
// indirect, 2 = double, 3 = triple), returning the leaf data block numbers
// it reaches. A zero pointer at any level yields no blocks, matching the
// original reader's "block != 0" guard.
func resolveIndirect(g *Geometry, ptr uint32, depth int) ([]uint32, error) {
	if ptr == 0 {
		return nil, nil
	}
	raw, err := g.reader.ReadBlock(uint64(ptr))
	if err != nil {
		return nil, wrapErr(KindIO, "resolveIndirect", err)
	}
	pointers := uint32sLittleEndian(raw)

	if depth == 1 {
		return pointers, nil
	}

	var out []uint32
	for _, p := range pointers {
		sub, err := resolveIndirect(g, p, depth-1)
		if err != nil {
			return nil, err
		}
		out = append(out, sub...)
	}
	return out, nil
}

// FetchInode reads and fully resolves inodeNum from the live filesystem.
func FetchInode(g *Geometry, inodeNum uint32) (*Inode, error) {
	raw, err := fetchInodeRaw(g, inodeNum)
	if err != nil {
		return nil, err
	}
	return decodeInode(g, inodeNum, raw)
}

// FetchFromJournalPage reconstitutes inodeNum as it appeared in a single
// journal data page, rather than on the live filesystem. Its block list is
// still resolved against the live device's indirect chains.
func FetchFromJournalPage(g *Geometry, inodeNum uint32, page []byte) (*Inode, error) {
	raw, err := fetchInodeFromPage(g, inodeNum, page)
	if err != nil {
		return nil, err
	}
	return decodeInode(g, inodeNum, raw)
}
