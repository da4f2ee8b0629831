package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/enoly/ext3FileRecovery/ext4"
)

var journalCmd = &cobra.Command{
	Use:   "journal <device>",
	Short: "Print the journal transaction log",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		eng, err := openEngine(args[0])
		if err != nil {
			fmt.Println(err)
			return nil
		}
		if eng.JournalErr != nil {
			fmt.Println("journal is damaged")
			return nil
		}
		fmt.Println("Journal\n_______")
		for _, rec := range eng.Journal {
			if rec.Kind == ext4.RecordUnknown {
				continue
			}
			fmt.Printf("%d: %s", rec.Index, rec.Kind)
			if rec.Kind == ext4.RecordDescriptor {
				fmt.Printf(" blocks=%v", rec.ShadowedBlocks)
			}
			fmt.Println()
		}
		return nil
	},
}
