package main

import (
	"fmt"

	cli "gopkg.in/urfave/cli.v1"
)

// Set at build time via -ldflags.
var version = "development"

func versionAction(*cli.Context) {
	fmt.Println("lc-mosaic-factory", version)
}
