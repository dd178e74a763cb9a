// Package main provides the CLI entry point for focuscup.
package main

import (
	"os"

	"github.com/adibhanna/focuscup/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
