// Package main is the entry point for the calltip command.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dshills/calltip/internal/config"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)

		switch {
		case errors.Is(err, config.ErrFileNotFound):
			fmt.Fprintf(stderr, "\nHint: run 'calltip config init' to write a default config file\n")
		case errors.Is(err, config.ErrInvalidConfig):
			fmt.Fprintf(stderr, "\nHint: run 'calltip config show' to inspect the effective settings\n")
		}
		return 1
	}
	return 0
}
