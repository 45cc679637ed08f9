// Command idreg looks up and manages id/label registrations.
package main

import (
	"os"

	"github.com/randalmurphal/idregistry/cmd/idreg/cmd"
)

// Build information injected via ldflags at build time.
var version = "dev"

func main() {
	root := cmd.NewRootCommand(version)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
