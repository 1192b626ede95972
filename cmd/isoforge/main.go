package main

import (
	"os"

	"github.com/isoforge/isoforge/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
