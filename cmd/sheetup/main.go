// Package main provides sheetup, a CLI for loading, checking, and rewriting
// sheet-up workspace document graphs.
package main

import (
	"os"
	"strings"

	"github.com/Repayment-inc/sheet-up/internal/cli"
)

func main() {
	environ := os.Environ()
	env := make(map[string]string, len(environ))

	for _, e := range environ {
		if k, v, ok := strings.Cut(e, "="); ok {
			env[k] = v
		}
	}

	exitCode := cli.Run(os.Stdin, os.Stdout, os.Stderr, os.Args, env)

	os.Exit(exitCode)
}
