// Command spvpeer connects to a single Dogecoin network peer, syncs block
// headers, installs a Bloom filter over a configured watch list, and
// presents every matching transaction.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "spvpeer",
		Short: "a lightweight SPV peer for a configured watch list",
	}

	root.AddCommand(newRunCmd(), newResyncCmd(), newVersionCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
