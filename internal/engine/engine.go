// Released under an MIT license. See LICENSE.

// Package engine evaluates smallsh command lines.
//
// The engine owns the shell state: the last foreground status, the job
// table and the reader used to locate errors. It is driven by a single
// dispatch loop and is not safe for concurrent use. Only the mode
// controller is shared with the signal monitor.
package engine

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/michaelmacinnis/smallsh/internal/common"
	"github.com/michaelmacinnis/smallsh/internal/common/struct/command"
	"github.com/michaelmacinnis/smallsh/internal/common/type/status"
	"github.com/michaelmacinnis/smallsh/internal/engine/commands"
	"github.com/michaelmacinnis/smallsh/internal/reader"
	"github.com/michaelmacinnis/smallsh/internal/system/job"
	"github.com/michaelmacinnis/smallsh/internal/system/mode"
	"github.com/michaelmacinnis/smallsh/internal/system/process"
)

var (
	// ErrExit is returned by Evaluate after the exit built-in runs.
	ErrExit = commands.ErrExit

	// ErrSpawn is returned when the system refuses to create processes.
	ErrSpawn = errors.New("cannot create process")
)

// Reader supplies lines of input.
type Reader interface {
	Line(prompt string) (string, error)
}

// T (engine) holds the shell state.
type T struct {
	builtins map[string]commands.Builtin
	errs     io.Writer
	files    []*os.File
	jobs     *job.T
	mode     *mode.T
	out      io.Writer
	reader   *reader.T
	status   status.T
}

type engine = T

// New creates an engine. Shell output goes to out and diagnostics to errs.
// Children inherit the shell's standard files unless redirected.
func New(label string, m *mode.T, out, errs io.Writer) *engine {
	return &engine{
		builtins: commands.Builtins(),
		errs:     errs,
		files:    []*os.File{os.Stdin, os.Stdout, os.Stderr},
		jobs:     job.New(),
		mode:     m,
		out:      out,
		reader:   reader.New(label, process.ID()),
		status:   status.Exited(0),
	}
}

// Errors returns the writer used for diagnostics.
func (e *engine) Errors() io.Writer {
	return e.errs
}

// Evaluate runs one line of input and then reaps finished background jobs.
// Problems with the line itself are reported and nil is returned.
// Evaluate returns ErrExit after exit and an ErrSpawn error if the shell
// cannot continue.
func (e *engine) Evaluate(line string) error {
	defer e.reap()

	c, err := e.reader.Read(line)
	if err != nil {
		common.Warn(e.errs, err)

		return nil
	} else if c == nil {
		return nil
	}

	if b, ok := e.builtins[c.Program]; ok {
		return b(e, c.Args())
	}

	return e.Launch(c)
}

// Exit terminates all background jobs.
func (e *engine) Exit() error {
	return e.jobs.Terminate()
}

// Jobs returns the job table.
func (e *engine) Jobs() *job.T {
	return e.jobs
}

// Output returns the writer used for shell output.
func (e *engine) Output() io.Writer {
	return e.out
}

// Run prompts for and evaluates lines from r until exit or end of input.
// Background jobs are terminated before Run returns.
func (e *engine) Run(r Reader, prompt string) error {
	for {
		line, err := r.Line(prompt)
		if err == io.EOF {
			fmt.Fprintln(e.out, "exit")

			return e.Exit()
		} else if err != nil {
			_ = e.Exit()

			return err
		}

		err = e.Evaluate(line)
		if errors.Is(err, ErrExit) {
			return nil
		} else if err != nil {
			_ = e.Exit()

			return err
		}
	}
}

// Status returns the status of the last foreground command.
func (e *engine) Status() status.T {
	return e.status
}

func (e *engine) failed(err error) error {
	common.Warn(e.errs, err)

	e.status = status.Exited(1)

	return nil
}

func (e *engine) reap() {
	last, reaped, err := e.jobs.Reap(e.out)
	if reaped {
		e.status = last
	}

	if err != nil {
		common.Warn(e.errs, err)
	}
}

// Launch runs c as an external program.
//
// Redirections are opened and the program is located before any process
// is created. If either fails, the failure is reported and the status set
// to exit value 1 immediately, even for a background command: there is no
// pid to report and nothing is added to the job table.
func (e *engine) Launch(c *command.T) error {
	background := e.mode.Effective(c.Background)

	files, closer, err := e.redirect(c, background)
	if err != nil {
		return e.failed(err)
	}
	defer closer()

	path, err := process.LookPath(c.Program, os.Getenv("PATH"))
	if err != nil {
		return e.failed(describe(err))
	}

	restore := e.mode.Shield(background)
	pid, err := process.Start(path, c.Arguments, files)
	restore()

	if err != nil {
		if process.Fatal(err) {
			return fmt.Errorf("%w: %v", ErrSpawn, err)
		}

		return e.failed(describe(err))
	}

	if !background {
		return e.wait(pid)
	}

	fmt.Fprintf(e.out, "Background pid is %d\n", pid)

	done, s, err := process.Poll(pid)

	switch {
	case err != nil:
		common.Warn(e.errs, fmt.Errorf("background pid %d: %w", pid, err))

	case done:
		e.status = s
		fmt.Fprintln(e.out, job.Notice(pid, s))

	default:
		e.jobs.Insert(pid, c.String())
	}

	return nil
}

func (e *engine) redirect(c *command.T, background bool) ([]*os.File, func(), error) {
	files := append([]*os.File(nil), e.files...)

	var opened []*os.File

	closer := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}

	input, output := c.Input, c.Output
	if background {
		if input == "" {
			input = os.DevNull
		}

		if output == "" {
			output = os.DevNull
		}
	}

	if input != "" {
		f, err := os.Open(input)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open %s for input: %w", input, reason(err))
		}

		opened = append(opened, f)
		files[0] = f
	}

	if output != "" {
		f, err := os.OpenFile(output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
		if err != nil {
			closer()

			return nil, nil, fmt.Errorf("cannot open %s for output: %w", output, reason(err))
		}

		opened = append(opened, f)
		files[1] = f
	}

	return files, closer, nil
}

func (e *engine) wait(pid int) error {
	s, err := process.Wait(pid)
	if err != nil {
		return e.failed(fmt.Errorf("wait %d: %w", pid, err))
	}

	e.status = s
	if s.Signaled() {
		fmt.Fprintln(e.out, s)
	}

	return nil
}

// describe reduces a *os.PathError to "path: reason".
func describe(err error) error {
	var pe *os.PathError
	if errors.As(err, &pe) {
		return fmt.Errorf("%s: %w", pe.Path, pe.Err)
	}

	return err
}

func reason(err error) error {
	var pe *os.PathError
	if errors.As(err, &pe) {
		return pe.Err
	}

	return err
}
