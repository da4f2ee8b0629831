package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var journalInodeCmd = &cobra.Command{
	Use:   "journalinode <device> <inode> <journal-position>",
	Short: "Print an inode as it appeared at a given journal position",
	Args:  cobra.ExactArgs(3),
	RunE: func(_ *cobra.Command, args []string) error {
		eng, err := openEngine(args[0])
		if err != nil {
			fmt.Println(err)
			return nil
		}
		num, err1 := strconv.ParseUint(args[1], 10, 32)
		idx, err2 := strconv.Atoi(args[2])
		if err1 != nil || err2 != nil {
			fmt.Println("storage is not ext3 or is damaged")
			return nil
		}
		in, err := eng.InodeFromJournal(uint32(num), idx)
		if err != nil {
			if eng.JournalErr != nil {
				fmt.Println("journal is damaged")
			} else {
				fmt.Println("storage is not ext3 or is damaged")
			}
			return nil
		}
		fmt.Printf("Inode %d from journal position %d\n_______________________________\n", num, idx)
		fmt.Print(formatInode(uint32(num), in))
		return nil
	},
}
