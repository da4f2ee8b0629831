package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var fsCmd = &cobra.Command{
	Use:   "fs <device>",
	Short: "Print the super-block and group descriptor table",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		eng, err := openEngine(args[0])
		if err != nil {
			fmt.Println(err)
			return nil
		}
		sb := eng.Geometry.SB
		fmt.Println("Superblock info\n----------------")
		fmt.Printf("numOfInodes: %d\n", sb.InodeCount)
		fmt.Printf("numOfBlocks: %d\n", sb.BlockCount)
		fmt.Printf("freeBlocks: %d\n", sb.FreeBlocks)
		fmt.Printf("freeInodes: %d\n", sb.FreeInodes)
		fmt.Printf("startOfGroup0: %d\n", sb.FirstDataBlock)
		fmt.Printf("sizeOfBlock: %d\n", sb.BlockSize)
		fmt.Printf("blocksPerGroup: %d\n", sb.BlocksPerGroup)
		fmt.Printf("inodesPerGroup: %d\n", sb.InodesPerGroup)
		fmt.Printf("sizeOfInode: %d\n", sb.InodeSize)
		fmt.Printf("inodeOfJournal: %d\n\n", sb.JournalInode)

		for i, g := range eng.Geometry.Groups {
			fmt.Printf("Group %d info\n------------\n", i)
			fmt.Printf("blocksMapAddress: %d\n", g.BlockBitmap)
			fmt.Printf("inodesMapAddress: %d\n", g.InodeBitmap)
			fmt.Printf("inodesTableAddress: %d\n", g.InodeTable)
			fmt.Printf("freeBlocks: %d\n", g.FreeBlocks)
			fmt.Printf("freeInodes: %d\n", g.FreeInodes)
			fmt.Printf("numOfDirectories: %d\n\n", g.UsedDirs)
		}
		return nil
	},
}
