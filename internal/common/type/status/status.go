// Released under an MIT license. See LICENSE.

// Package status provides smallsh's exit status type.
package status

import (
	"strconv"
)

// T (status) is how a process ended: either a normal exit with a code
// or termination by a signal. The zero value is a normal exit with code 0.
type T struct {
	code     int
	signal   int
	signaled bool
}

type status = T

// Exited creates a status for a process that exited normally with code.
func Exited(code int) status {
	return status{code: code}
}

// Killed creates a status for a process terminated by signal.
func Killed(signal int) status {
	return status{signal: signal, signaled: true}
}

// Code returns the exit code. It is only meaningful if !s.Signaled().
func (s status) Code() int {
	return s.code
}

// Detail returns the lower case description used in job notices.
func (s status) Detail() string {
	if s.signaled {
		return "terminated by signal " + strconv.Itoa(s.signal)
	}

	return "exit value " + strconv.Itoa(s.code)
}

// ExitCode folds s into a single process exit code using the usual
// 128+N convention for signals.
func (s status) ExitCode() int {
	if s.signaled {
		return 128 + s.signal
	}

	return s.code
}

// Signal returns the terminating signal. It is only meaningful if s.Signaled().
func (s status) Signal() int {
	return s.signal
}

// Signaled returns true if the process was terminated by a signal.
func (s status) Signaled() bool {
	return s.signaled
}

// String returns the text reported by the status built-in.
func (s status) String() string {
	if s.signaled {
		return "Terminated by signal " + strconv.Itoa(s.signal)
	}

	return "Exit value " + strconv.Itoa(s.code)
}
