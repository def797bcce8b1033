// Command meshgraph builds half-edge meshes from scripts and sdfx solids,
// and reports their connectivity.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
