package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/enoly/ext3FileRecovery/ext4"
)

func runRecover(_ *cobra.Command, args []string) error {
	path := args[0]

	eng, err := openEngine(path)
	if err != nil {
		fmt.Println(err)
		return nil
	}

	deleted, err := eng.DeletedFiles()
	if err != nil {
		fmt.Println("storage is not ext3 or is damaged")
		return nil
	}

	if len(deleted) > 0 {
		fmt.Printf("There are %d deleted files in %s\n", len(deleted), path)
		for _, f := range deleted {
			fmt.Printf("%s inode: %d\n", f.Entry.Name, f.Entry.Inode)
		}
	}

	if eng.JournalErr != nil {
		fmt.Println("journal is damaged: recovery cannot proceed, listing is diagnostic only")
		return nil
	}

	for i, f := range deleted {
		result, err := eng.Recover(f)
		if err != nil || result == nil || !result.Recovered {
			if err != nil {
				eng.Log.WithError(err).Warnf("could not recover %s", f.Path)
			}
			writeNotRestored(eng, i, f, result)
			continue
		}
		name := fmt.Sprintf("%d_%s", i, f.Entry.Name)
		if writeErr := os.WriteFile(name, result.Data, 0o644); writeErr != nil {
			eng.Log.WithError(writeErr).Error("failed writing recovered file")
		}
	}

	return nil
}

// writeNotRestored records a diagnostics file for a deleted entry no
// journal snapshot could reconstitute, mirroring the inode dump a forensic
// operator would otherwise have to pull by hand.
func writeNotRestored(eng *ext4.Engine, index int, f ext4.DeletedFile, result *ext4.Recovered) {
	name := fmt.Sprintf("NOT RESTORED %s.txt", f.Entry.Name)
	body := fmt.Sprintf("File can't be restored: journal record wasn't found\nInode info:\n")
	if result != nil && result.LiveInode != nil {
		body += formatInode(f.Entry.Inode, result.LiveInode)
	}
	if err := os.WriteFile(name, []byte(body), 0o644); err != nil {
		eng.Log.WithError(err).Error("failed writing recovery diagnostics")
	}
}
