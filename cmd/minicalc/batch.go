package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dshills/minicalc/internal/app"
	"github.com/dshills/minicalc/internal/input/key"
	"github.com/dshills/minicalc/internal/report"
	"github.com/dshills/minicalc/internal/script"
)

// runBatch evaluates input without the widget. Keys come from -keys, a Lua
// script, or stdin one line at a time. Output is the display after each
// sequence, or one JSON line per key with -json.
func runBatch(application *app.Application, opts cliOptions, stdin io.Reader, stdout io.Writer) error {
	var steps *report.Writer
	if opts.json {
		steps = report.NewWriter(stdout)
	}

	switch {
	case opts.script != "":
		return runScript(application, opts.script, steps, stdout)
	case opts.keys != "":
		_, err := feed(application, opts.keys, steps, stdout)
		return err
	default:
		return feedLines(application, stdin, steps, stdout)
	}
}

func runScript(application *app.Application, path string, steps *report.Writer, stdout io.Writer) error {
	opts := []script.Option{
		script.WithKeymap(application.Keymap()),
		script.WithOutput(stdout),
	}
	if steps != nil {
		opts = append(opts, script.WithStepFunc(steps.Record))
	}

	r := script.New(application.Engine(), opts...)
	defer r.Close()

	if err := r.RunFile(context.Background(), path); err != nil {
		return err
	}
	if steps == nil {
		_, err := fmt.Fprintln(stdout, application.Display())
		return err
	}
	return nil
}

// feedLines evaluates each stdin line as a key sequence. The calculator
// state carries across lines.
func feedLines(application *app.Application, stdin io.Reader, steps *report.Writer, stdout io.Writer) error {
	scanner := bufio.NewScanner(stdin)
	for scanner.Scan() {
		quit, err := feed(application, scanner.Text(), steps, stdout)
		if err != nil || quit {
			return err
		}
	}
	return scanner.Err()
}

// feed presses every key of seq and reports whether a quit key was hit.
func feed(application *app.Application, seq string, steps *report.Writer, stdout io.Writer) (bool, error) {
	events, err := key.ParseSequence(seq)
	if err != nil {
		return false, err
	}

	quit := false
	for _, ev := range events {
		if err := application.HandleKey(ev); err != nil {
			if !errors.Is(err, app.ErrQuit) {
				return false, err
			}
			quit = true
			break
		}
		if steps != nil {
			if err := steps.Record(ev.String(), application.Engine().State()); err != nil {
				return false, err
			}
		}
	}

	if steps == nil {
		if _, err := fmt.Fprintln(stdout, application.Display()); err != nil {
			return quit, err
		}
	}
	return quit, nil
}
