package ext4

// superblockLayout is the Layout Catalog entry for the 1024-byte super-block,
// itself embedded at byte offset 1024 of block 0. Only the fields the
// recovery engine actually needs are named; the rest of the structure is
// left unparsed.
var superblockLayout = Layout{
	{Name: "inodeCount", Type: FieldInt, Start: 0, End: 4},
	{Name: "blockCount", Type: FieldInt, Start: 4, End: 8},
	{Name: "freeBlocks", Type: FieldInt, Start: 12, End: 16},
	{Name: "freeInodes", Type: FieldInt, Start: 16, End: 20},
	{Name: "firstDataBlock", Type: FieldInt, Start: 20, End: 24},
	{Name: "logBlockSize", Type: FieldInt, Start: 24, End: 28},
	{Name: "blocksPerGroup", Type: FieldInt, Start: 32, End: 36},
	{Name: "inodesPerGroup", Type: FieldInt, Start: 40, End: 44},
	{Name: "inodeSize", Type: FieldInt, Start: 88, End: 90},
	{Name: "journalInode", Type: FieldInt, Start: 224, End: 228},
}

// superblockOffset is the byte offset of the super-block within block 0,
// constant regardless of the filesystem's actual block size.
const superblockOffset = 1024

// superblockRawSize is the number of bytes the super-block occupies.
const superblockRawSize = 1024

// Superblock holds the subset of ext3/ext4 super-block fields the recovery
// engine needs: filesystem geometry and the journal's inode number.
type Superblock struct {
	InodeCount     uint32
	BlockCount     uint32
	FreeBlocks     uint32
	FreeInodes     uint32
	FirstDataBlock uint32
	BlockSize      uint32
	BlocksPerGroup uint32
	InodesPerGroup uint32
	InodeSize      uint16
	JournalInode   uint32
}

// ParseSuperblock reads and decodes the super-block from r, which must be a
// blockReader still at its pre-parse defaultBlockSize.
func ParseSuperblock(r *blockReader) (*Superblock, error) {
	block0, err := r.ReadAt(0, defaultBlockSize)
	if err != nil {
		return nil, wrapErr(KindIO, "ParseSuperblock", err)
	}
	if len(block0) < superblockOffset+superblockRawSize {
		return nil, wrapErr(KindFormat, "ParseSuperblock", fieldError("superblock", "raw", errShortBuffer))
	}
	raw := block0[superblockOffset : superblockOffset+superblockRawSize]

	fields := Decode(raw, superblockLayout)

	logSize := fields["logBlockSize"].Int
	sb := &Superblock{
		InodeCount:     uint32(fields["inodeCount"].Int),
		BlockCount:     uint32(fields["blockCount"].Int),
		FreeBlocks:     uint32(fields["freeBlocks"].Int),
		FreeInodes:     uint32(fields["freeInodes"].Int),
		FirstDataBlock: uint32(fields["firstDataBlock"].Int),
		BlockSize:      uint32(1024 << logSize),
		BlocksPerGroup: uint32(fields["blocksPerGroup"].Int),
		InodesPerGroup: uint32(fields["inodesPerGroup"].Int),
		InodeSize:      uint16(fields["inodeSize"].Int),
		JournalInode:   uint32(fields["journalInode"].Int),
	}

	if sb.BlockSize == 0 || sb.BlocksPerGroup == 0 || sb.InodesPerGroup == 0 || sb.InodeSize == 0 {
		return nil, wrapErr(KindFormat, "ParseSuperblock", fieldError("superblock", "geometry", errZeroGeometry))
	}

	return sb, nil
}

// GroupCount returns the number of block groups the filesystem is divided
// into, derived from total block count and blocks per group.
func (sb *Superblock) GroupCount() uint32 {
	if sb.BlocksPerGroup == 0 {
		return 0
	}
	n := sb.BlockCount / sb.BlocksPerGroup
	if sb.BlockCount%sb.BlocksPerGroup != 0 {
		n++
	}
	return n
}

// InodesPerBlock returns how many fixed-size inode records fit in one block.
func (sb *Superblock) InodesPerBlock() uint32 {
	if sb.InodeSize == 0 {
		return 0
	}
	return sb.BlockSize / uint32(sb.InodeSize)
}
