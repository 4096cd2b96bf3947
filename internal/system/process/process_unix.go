// Released under an MIT license. See LICENSE.

//go:build aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris

// Package process wraps the operating system's process primitives.
package process

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"

	"github.com/michaelmacinnis/smallsh/internal/common/type/status"
)

//nolint:gochecknoglobals
var (
	Platform = "unix"

	id = unix.Getpid()
)

// Fatal returns true if err indicates that a new process could not be
// created at all, as opposed to the new process failing to run a program.
func Fatal(err error) bool {
	return errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.ENOMEM)
}

// ID returns the process ID for the current process.
func ID() int {
	return id
}

// Kill sends a SIGKILL to the process ID pid.
func Kill(pid int) error {
	return unix.Kill(pid, unix.SIGKILL)
}

// Poll checks, without blocking, if the process pid has terminated.
// If it has, it is reaped and done is true.
func Poll(pid int) (done bool, s status.T, err error) {
	var ws unix.WaitStatus

	for {
		wpid, err := unix.Wait4(pid, &ws, unix.WNOHANG, nil)

		switch {
		case errors.Is(err, unix.EINTR):
			continue
		case err != nil:
			return false, s, err
		case wpid == 0:
			return false, s, nil
		}

		return true, Status(ws), nil
	}
}

// Start creates a new process running the program at path. The files are
// the new process's standard input, output and error. The returned pid must
// be collected with Wait or Poll.
func Start(path string, argv []string, files []*os.File) (int, error) {
	p, err := os.StartProcess(path, argv, &os.ProcAttr{Files: files})
	if err != nil {
		return 0, err
	}

	pid := p.Pid

	// We wait by pid so the handle is not needed.
	_ = p.Release()

	return pid, nil
}

// Status converts a wait status to an exit status.
func Status(ws unix.WaitStatus) status.T {
	if ws.Signaled() {
		return status.Killed(int(ws.Signal()))
	}

	return status.Exited(ws.ExitStatus())
}

// Terminate sends a SIGTERM to the process ID pid.
func Terminate(pid int) error {
	return unix.Kill(pid, unix.SIGTERM)
}

// Wait blocks until the process pid terminates and returns its status.
func Wait(pid int) (status.T, error) {
	var ws unix.WaitStatus

	for {
		_, err := unix.Wait4(pid, &ws, 0, nil)
		if errors.Is(err, unix.EINTR) {
			continue
		}

		if err != nil {
			return status.T{}, err
		}

		// Stopped children are not our concern. Keep waiting.
		if ws.Stopped() || ws.Continued() {
			continue
		}

		return Status(ws), nil
	}
}
