package main

import (
	"fmt"
	"os"

	"github.com/docketops/packetsplit/internal/command"
)

func main() {
	app := command.NewApp()
	if err := app.Run(os.Args); err != nil {
		// Action failures carry their own exit codes and are handled
		// inside Run; anything surfacing here is a usage-level error.
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
}
