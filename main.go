// Released under an MIT license. See LICENSE.

/*
Smallsh is a small interactive Unix shell.

Each line names a program and its arguments, separated by white space.
Input and output can be redirected and a trailing & runs the program in
the background:

	ls -la
	sort < words > sorted
	sleep 30 &
	echo my pid is $$

The built-in commands are cd, exit, jobs and status. Sending SIGTSTP
(^Z) to the shell toggles foreground-only mode, in which & is ignored.
*/
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/michaelmacinnis/smallsh/internal/common"
	"github.com/michaelmacinnis/smallsh/internal/engine"
	"github.com/michaelmacinnis/smallsh/internal/system/cache"
	"github.com/michaelmacinnis/smallsh/internal/system/mode"
	"github.com/michaelmacinnis/smallsh/internal/system/options"
	"github.com/michaelmacinnis/smallsh/internal/ui"
)

const version = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	color.NoColor = !isatty.IsTerminal(os.Stderr.Fd())

	opts, err := options.Parse(argv, version)
	if err != nil {
		common.Warn(os.Stderr, err)

		return 1
	}

	m := mode.New(os.Stdout)
	m.Monitor()

	defer m.Stop()

	label := "stdin"
	if opts.Command != "" {
		label = "command"
	}

	e := engine.New(label, m, os.Stdout, os.Stderr)

	if opts.Command != "" {
		err = e.Evaluate(opts.Command)
		if errors.Is(err, engine.ErrExit) {
			return 0
		}

		_ = e.Exit()

		if err != nil {
			common.Warn(os.Stderr, err)

			return 1
		}

		return e.Status().ExitCode()
	}

	u, err := input(opts)
	if err != nil {
		common.Warn(os.Stderr, err)

		return 1
	}

	err = e.Run(u, opts.Prompt)

	if cerr := u.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("history: %w", cerr)
	}

	if err != nil {
		common.Warn(os.Stderr, err)

		return 1
	}

	return 0
}

func input(opts *options.T) (ui.T, error) {
	if !opts.Edit {
		return ui.Plain(os.Stdin, os.Stdout), nil
	}

	go cache.Populate(os.Getenv("PATH"))

	return ui.Editor(opts.History)
}
