// Package main is the entry point for the recipelint CLI.
package main

import (
	"os"

	"github.com/bioforge-labs/recipelint/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
