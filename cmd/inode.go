package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var inodeCmd = &cobra.Command{
	Use:   "inode <device> <inode>",
	Short: "Print a single inode as it stands on the live filesystem",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		eng, err := openEngine(args[0])
		if err != nil {
			fmt.Println(err)
			return nil
		}
		num, err := strconv.ParseUint(args[1], 10, 32)
		if err != nil {
			fmt.Println("storage is not ext3 or is damaged")
			return nil
		}
		in, err := eng.Inode(uint32(num))
		if err != nil {
			fmt.Println("storage is not ext3 or is damaged")
			return nil
		}
		fmt.Printf("Inode %d\n________\n", num)
		fmt.Print(formatInode(uint32(num), in))
		return nil
	},
}
