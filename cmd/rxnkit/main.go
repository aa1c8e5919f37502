// Command rxnkit ranks Kinetiscope reactions, classifies HiPRGen reaction
// networks and prepares molecule test sets.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
