package ext4

// groupDescriptorSize is the classic 32-byte block group descriptor record
// size; this engine does not model the 64-bit descriptor extension.
const groupDescriptorSize = 32

var groupDescriptorLayout = Layout{
	{Name: "blockBitmap", Type: FieldInt, Start: 0, End: 4},
	{Name: "inodeBitmap", Type: FieldInt, Start: 4, End: 8},
	{Name: "inodeTable", Type: FieldInt, Start: 8, End: 12},
	{Name: "freeBlocks", Type: FieldInt, Start: 12, End: 14},
	{Name: "freeInodes", Type: FieldInt, Start: 14, End: 16},
	{Name: "usedDirs", Type: FieldInt, Start: 16, End: 18},
}

// GroupDescriptor is one block group's bitmap and inode table locations.
type GroupDescriptor struct {
	BlockBitmap uint32
	InodeBitmap uint32
	InodeTable  uint32
	FreeBlocks  uint16
	FreeInodes  uint16
	UsedDirs    uint16
}

// ParseGroupDescriptorTable reads the group descriptor table, which starts
// in the block immediately following the block that contains group 0 (the
// super-block's own block, conventionally block 0 or 1 depending on block
// size), and runs for sb.GroupCount() 32-byte records.
func ParseGroupDescriptorTable(r *blockReader, sb *Superblock) ([]GroupDescriptor, error) {
	tableBlock := uint64(sb.FirstDataBlock) + 1
	count := sb.GroupCount()
	if count == 0 {
		return nil, wrapErr(KindFormat, "ParseGroupDescriptorTable", errBadGroup)
	}

	bytesNeeded := int(count) * groupDescriptorSize
	blocksNeeded := (bytesNeeded + int(sb.BlockSize) - 1) / int(sb.BlockSize)

	raw := make([]byte, 0, blocksNeeded*int(sb.BlockSize))
	for i := 0; i < blocksNeeded; i++ {
		b, err := r.ReadBlock(tableBlock + uint64(i))
		if err != nil {
			return nil, wrapErr(KindIO, "ParseGroupDescriptorTable", err)
		}
		raw = append(raw, b...)
	}

	table := make([]GroupDescriptor, count)
	for i := range table {
		start := i * groupDescriptorSize
		end := start + groupDescriptorSize
		if end > len(raw) {
			return nil, wrapErr(KindFormat, "ParseGroupDescriptorTable", fieldError("groupDescriptor", "raw", errShortBuffer))
		}
		fields := Decode(raw[start:end], groupDescriptorLayout)
		table[i] = GroupDescriptor{
			BlockBitmap: uint32(fields["blockBitmap"].Int),
			InodeBitmap: uint32(fields["inodeBitmap"].Int),
			InodeTable:  uint32(fields["inodeTable"].Int),
			FreeBlocks:  uint16(fields["freeBlocks"].Int),
			FreeInodes:  uint16(fields["freeInodes"].Int),
			UsedDirs:    uint16(fields["usedDirs"].Int),
		}
	}
	return table, nil
}
