// Package cmd implements the command-line driver: argument parsing and
// result formatting live here, entirely outside the ext4 package. The core
// never imports cobra or logrus's output-formatting helpers; it only logs
// through the *logrus.Logger a driver hands to ext4.Open.
package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/enoly/ext3FileRecovery/backend/file"
	"github.com/enoly/ext3FileRecovery/ext4"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "ext3recover <device>",
	Short: "Recover deleted files from an ext3/ext4 image using its journal",
	Long: `ext3recover is a read-only forensic recovery tool for ext3/ext4
filesystems. Run bare against a device or disk image, it walks the live
directory tree for tombstoned entries, matches each against the newest
journal transaction that shadows its inode block, and writes out whatever
it can reconstitute.

Subcommands expose the lower-level structures this is built on: the
journal transaction log, a single inode (live or as of a journal
position), and the super-block and group descriptor table.`,
	Args: cobra.ExactArgs(1),
	RunE: runRecover,
}

// Execute runs the command tree, reporting any error on stderr.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging to stderr")
	rootCmd.AddCommand(journalCmd, inodeCmd, fsCmd, journalBlockCmd, journalInodeCmd)
}

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}
	return log
}

// openEngine opens path and parses its geometry and journal, collapsing
// any failure to the single diagnosis a forensic operator needs: this is
// not a readable ext3/ext4 image.
func openEngine(path string) (*ext4.Engine, error) {
	storage, err := file.OpenFromPath(path)
	if err != nil {
		return nil, fmt.Errorf("storage is not ext3 or is damaged: %w", err)
	}
	eng, err := ext4.Open(storage, newLogger())
	if err != nil {
		return nil, fmt.Errorf("storage is not ext3 or is damaged: %w", err)
	}
	return eng, nil
}
