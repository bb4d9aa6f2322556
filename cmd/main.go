package main

import (
	"os"

	"github.com/ostafen/lmprobe/cmd/cmd"
)

func main() {
	// Keep stdout clean: lookup output is meant to be machine-parseable,
	// so no banner is printed here.
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
