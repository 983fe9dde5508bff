// Package main is the entry point for the bracer indentation tool.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Globals are flags shared by every command.
type Globals struct {
	Config   string           `help:"Path to configuration file (TOML or YAML)." short:"c" type:"path"`
	LogLevel string           `help:"Log level (debug, info, warn, error)." name:"log-level"`
	Version  kong.VersionFlag `help:"Show version information." short:"v"`
}

// CLI is the command-line grammar.
type CLI struct {
	Globals

	Newline  NewlineCmd  `cmd:"" help:"Print the indent a newline typed at an offset receives."`
	Close    CloseCmd    `cmd:"" help:"Print how many bytes typing a closing bracket removes."`
	Reindent ReindentCmd `cmd:"" help:"Retype files through the indenter and print or rewrite them."`
	Check    CheckCmd    `cmd:"" help:"Report lines whose indentation differs from the indenter's."`
	Watch    WatchCmd    `cmd:"" help:"Check files as they change until interrupted."`
}

func main() {
	os.Exit(run())
}

func run() int {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("bracer"),
		kong.Description("Auto-indentation for brace-delimited source code."),
		kong.UsageOnError(),
		kong.Vars{"version": versionString()},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return execute(ctx, kctx, cli.Globals, os.Stdout, os.Stderr)
}

// execute runs the selected command and maps its error to an exit status.
func execute(ctx context.Context, kctx *kong.Context, g Globals, stdout, stderr io.Writer) int {
	a, err := newApp(ctx, g, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	code := 0
	if err := kctx.Run(a); err != nil {
		code = 1
		if !errors.Is(err, errDiagnostics) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
	}
	if err := a.close(); err != nil {
		fmt.Fprintf(stderr, "Error: flushing logs: %v\n", err)
		code = 1
	}
	return code
}

func versionString() string {
	return fmt.Sprintf("bracer %s (commit %s, built %s)", version, commit, date)
}
