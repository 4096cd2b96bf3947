// Released under an MIT license. See LICENSE.

// Package commands provides the shell's built-in commands.
//
// Built-ins run in the shell process. They ignore redirection and
// background requests and never change the last foreground status.
package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/michaelmacinnis/adapted"

	"github.com/michaelmacinnis/smallsh/internal/common"
	"github.com/michaelmacinnis/smallsh/internal/common/type/status"
	"github.com/michaelmacinnis/smallsh/internal/system/job"
)

// ErrExit is returned by the exit built-in once background jobs are gone.
var ErrExit = errors.New("exit")

// State is the part of the shell visible to built-ins.
type State interface {
	Errors() io.Writer
	Jobs() *job.T
	Output() io.Writer
	Status() status.T
}

// Builtin runs with the arguments that follow the command name.
type Builtin func(s State, args []string) error

// Builtins returns the table of built-in commands.
func Builtins() map[string]Builtin {
	return map[string]Builtin{
		"cd":     cd,
		"exit":   exit,
		"jobs":   jobs,
		"status": report,
	}
}

func cd(s State, args []string) error {
	dir := ""
	if len(args) > 0 {
		dir = args[0]
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			common.Warn(s.Errors(), fmt.Errorf("cd: %w", err))

			return nil
		}

		dir = home
	}

	if err := os.Chdir(dir); err != nil {
		common.Warn(s.Errors(), fmt.Errorf("cd: %w", unwrap(err)))

		return nil
	}

	wd, err := os.Getwd()
	if err != nil {
		common.Warn(s.Errors(), fmt.Errorf("cd: %w", err))

		return nil
	}

	fmt.Fprintln(s.Output(), wd)

	return nil
}

func exit(s State, _ []string) error {
	if err := s.Jobs().Terminate(); err != nil {
		common.Warn(s.Errors(), err)
	}

	return ErrExit
}

func jobs(s State, _ []string) error {
	s.Jobs().Write(s.Output(), adapted.CanonicalString)

	return nil
}

func report(s State, _ []string) error {
	fmt.Fprintln(s.Output(), s.Status())

	return nil
}

// unwrap reduces a *os.PathError to "path: reason".
func unwrap(err error) error {
	var pe *os.PathError
	if errors.As(err, &pe) {
		return fmt.Errorf("%s: %w", pe.Path, pe.Err)
	}

	return err
}
