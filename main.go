package main

import (
	"fmt"
	"os"

	"github.com/thiagokokada/gitrev/cmd"
)

func main() {
	if err := cmd.Run(); err != nil {
		if msg := err.Error(); msg != "" {
			fmt.Fprintf(os.Stderr, "gitrev: %s\n", msg)
		}
		os.Exit(cmd.ExitCode(err))
	}
}
