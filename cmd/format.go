package cmd

import (
	"fmt"
	"strings"

	"github.com/enoly/ext3FileRecovery/ext4"
)

func formatInode(num uint32, in *ext4.Inode) string {
	var b strings.Builder
	fmt.Fprintf(&b, "size: %d\n", in.Size)
	fmt.Fprintf(&b, "accessTime: %s\n", in.AccessTime.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "creationTime: %s\n", in.CreateTime.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "modificationTime: %s\n", in.ModifyTime.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "deletionTime: %s\n", in.DeleteTime.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "countOfLinks: %d\n", in.LinksCount)
	fmt.Fprintf(&b, "numOfSectors: %d\n", in.SectorCount)
	fmt.Fprintf(&b, "directBlocks: %v\n", in.DirectBlocks)
	fmt.Fprintf(&b, "indirectBlock: %d\n", in.Indirect)
	fmt.Fprintf(&b, "2xIndirectBlock: %d\n", in.DoubleIndirect)
	fmt.Fprintf(&b, "3xIndirectBlock: %d\n", in.TripleIndirect)
	fmt.Fprintf(&b, "blocks: %v\n", in.Blocks)
	return b.String()
}
