package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
)

// version is set via ldflags at build time.
var version = "dev"

func main() {
	ctx := context.Background()
	root := newRootCmd(version)
	if err := fang.Execute(ctx, root); err != nil {
		os.Exit(1)
	}
}
