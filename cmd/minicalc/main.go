// Package main is the entry point for MiniCalc.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/dshills/minicalc/internal/app"
	"github.com/dshills/minicalc/internal/renderer/backend"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// cliOptions holds flags that do not belong to app.Options.
type cliOptions struct {
	app    app.Options
	keys   string
	script string
	json   bool
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	interactive := opts.keys == "" && opts.script == "" && term.IsTerminal(int(os.Stdin.Fd()))

	// The terminal owns stderr while the widget runs.
	var logOut io.Writer = os.Stderr
	if interactive {
		logOut = io.Discard
	}
	opts.app.Logger = app.NewLogger(app.LoggerConfig{Output: logOut, Prefix: "minicalc"})
	opts.app.Watch = interactive

	application, err := app.New(opts.app)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Close()

	if path := application.Config().Logging().File; path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to open log file: %v\n", err)
			return 1
		}
		defer f.Close()
		application.SetLogOutput(f)
	}

	if err := application.ConfigError(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %s: %v (using defaults)\n", application.Config().Path(), err)
	}

	if !interactive {
		if err := runBatch(application, opts, os.Stdin, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	return runInteractive(application)
}

func runInteractive(application *app.Application) int {
	terminal, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	application.SetBackend(terminal)

	// Handle signals for graceful shutdown
	defer shutdownOnSignal(application)()

	if err := application.Run(); err != nil && !errors.Is(err, app.ErrQuit) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// shutdownOnSignal stops application on SIGINT or SIGTERM. The returned
// func stops listening and waits for the signal goroutine to exit.
func shutdownOnSignal(application *app.Application) func() {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, ok := <-signals; ok {
			_ = application.Shutdown()
		}
	}()

	return func() {
		signal.Stop(signals)
		close(signals)
		<-done
	}
}

func parseFlags() cliOptions {
	var opts cliOptions
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.app.ConfigPath, "config", "", "Path to configuration file (.toml, .yaml)")
	flag.StringVar(&opts.app.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.app.LogLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the config file")
	flag.StringVar(&opts.keys, "keys", "", "Key sequence to evaluate without the widget, e.g. \"12+3<CR>\"")
	flag.StringVar(&opts.keys, "k", "", "Key sequence to evaluate (shorthand)")
	flag.StringVar(&opts.script, "script", "", "Lua script to run without the widget")
	flag.StringVar(&opts.script, "s", "", "Lua script to run (shorthand)")
	flag.BoolVar(&opts.json, "json", false, "Print one JSON line per key instead of the display")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "MiniCalc - terminal calculator\n\n")
		fmt.Fprintf(os.Stderr, "Usage: minicalc [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  minicalc                      Open the calculator widget\n")
		fmt.Fprintf(os.Stderr, "  minicalc -k '12+3<CR>'        Print 15\n")
		fmt.Fprintf(os.Stderr, "  echo '2*21=' | minicalc       Evaluate each stdin line\n")
		fmt.Fprintf(os.Stderr, "  minicalc -json -k '1+1='      Print each step as JSON\n")
		fmt.Fprintf(os.Stderr, "  minicalc -s steps.lua         Run a Lua script\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("MiniCalc %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	// Validate log level
	switch opts.app.LogLevel {
	case "", "debug", "info", "warn", "error":
		// Valid
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.app.LogLevel)
		os.Exit(1)
	}

	if opts.keys != "" && opts.script != "" {
		fmt.Fprintf(os.Stderr, "Error: -keys and -script cannot be combined\n")
		os.Exit(1)
	}

	if flag.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Error: unexpected arguments: %v\n", flag.Args())
		os.Exit(1)
	}

	return opts
}
