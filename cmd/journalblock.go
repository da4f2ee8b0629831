package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var journalBlockCmd = &cobra.Command{
	Use:   "journalblock <device> <journal-position>",
	Short: "Print the raw bytes of one journal page",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		eng, err := openEngine(args[0])
		if err != nil {
			fmt.Println(err)
			return nil
		}
		idx, err := strconv.Atoi(args[1])
		if err != nil {
			fmt.Println("storage is not ext3 or is damaged")
			return nil
		}
		raw, err := eng.JournalBlock(idx)
		if err != nil {
			if eng.JournalErr != nil {
				fmt.Println("journal is damaged")
			} else {
				fmt.Println("storage is not ext3 or is damaged")
			}
			return nil
		}
		fmt.Printf("%x\n", raw)
		return nil
	},
}
