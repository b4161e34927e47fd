// nb keeps a notebook of text and table documents in a plain directory tree.
//
// Usage:
//
//	nb new "Grocery List" --table
//	nb edit <id>
//	nb search grcl
//
// Run "nb --help" for all commands.
package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/calvinalkan/notebook/internal/cli"
)

func main() {
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt, syscall.SIGTERM)

	code := cli.Run(os.Stdin, os.Stdout, os.Stderr, os.Args, envMap(os.Environ()), interrupts)

	signal.Stop(interrupts)
	os.Exit(code)
}

// envMap turns KEY=VALUE pairs into a map. Entries without "=" are ignored.
func envMap(pairs []string) map[string]string {
	env := make(map[string]string, len(pairs))

	for _, pair := range pairs {
		if k, v, ok := strings.Cut(pair, "="); ok {
			env[k] = v
		}
	}

	return env
}
