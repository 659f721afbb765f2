// Command shaper converts names between case conventions, re-renders documents
// between interchange formats and checks record policy files.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
