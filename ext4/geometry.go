package ext4

// Geometry resolves inode numbers to their physical location and exposes
// the filesystem parameters every other component needs: the super-block
// and the group descriptor table it depends on.
type Geometry struct {
	SB      *Superblock
	Groups  []GroupDescriptor
	reader  *blockReader
}

// OpenGeometry parses the super-block and group descriptor table from r and
// switches r to the filesystem's real block size.
func OpenGeometry(r *blockReader) (*Geometry, error) {
	sb, err := ParseSuperblock(r)
	if err != nil {
		return nil, err
	}
	r.setBlockSize(int(sb.BlockSize))

	groups, err := ParseGroupDescriptorTable(r, sb)
	if err != nil {
		return nil, err
	}

	return &Geometry{SB: sb, Groups: groups, reader: r}, nil
}

// Locate returns the physical block number holding inodeNum's on-disk
// record, and that record's 0-based slot within the block.
func (g *Geometry) Locate(inodeNum uint32) (block uint64, slot uint32, err error) {
	if inodeNum == 0 || inodeNum > g.SB.InodeCount {
		return 0, 0, wrapErr(KindFormat, "Geometry.Locate", errInvalidInode)
	}

	inodesPerGroup := g.SB.InodesPerGroup
	group := (inodeNum - 1) / inodesPerGroup
	if int(group) >= len(g.Groups) {
		return 0, 0, wrapErr(KindFormat, "Geometry.Locate", errBadGroup)
	}

	offsetInGroup := inodeNum - 1 - inodesPerGroup*group
	inodesPerBlock := g.SB.InodesPerBlock()
	if inodesPerBlock == 0 {
		return 0, 0, wrapErr(KindFormat, "Geometry.Locate", errZeroGeometry)
	}

	blockInGroup := offsetInGroup / inodesPerBlock
	slotInBlock := offsetInGroup % inodesPerBlock

	block = uint64(g.Groups[group].InodeTable) + uint64(blockInGroup)
	return block, slotInBlock, nil
}
