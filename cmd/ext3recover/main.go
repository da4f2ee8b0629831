// Command ext3recover is the command-line driver for the ext3/ext4
// recovery engine. It contains no recovery logic itself.
package main

import "github.com/enoly/ext3FileRecovery/cmd"

func main() {
	cmd.Execute()
}
