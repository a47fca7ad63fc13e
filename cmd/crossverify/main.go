// Command crossverify runs cross-implementation verification rounds for
// post-quantum signature schemes.
//
// Usage:
//
//	crossverify produce xmss --side subject --channel /tmp
//	crossverify consume xmss --side reference --channel /tmp
//	crossverify all
//
// Exit status is 0 when every round passes and 1 otherwise.
package main

import (
	"fmt"
	"io"
	"os"
)

// Config holds the process streams and environment the CLI runs against.
type Config struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultConfig returns a Config wired to the process.
func DefaultConfig() Config {
	return Config{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// run executes the command line args (including the program name).
func run(args []string, cfg Config) error {
	cmd := newRootCmd(cfg)
	if len(args) > 0 {
		args = args[1:]
	}
	cmd.SetArgs(args)
	cmd.SetIn(cfg.Stdin)
	cmd.SetOut(cfg.Stdout)
	cmd.SetErr(cfg.Stderr)
	return cmd.Execute()
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
