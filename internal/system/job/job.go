// Released under an MIT license. See LICENSE.

// Package job tracks background processes and reaps them when they finish.
//
// The table is owned by the dispatch loop. It is not safe for concurrent use.
package job

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/michaelmacinnis/smallsh/internal/common/type/status"
	"github.com/michaelmacinnis/smallsh/internal/system/process"
)

// Job is a background process that has not yet been reaped.
type Job struct {
	PID  int
	Line string
}

// T (job table) is the ordered set of tracked background processes.
type T struct {
	jobs []Job

	kill func(pid int) error
	poll func(pid int) (bool, status.T, error)
}

// New creates an empty job table.
func New() *T {
	return &T{
		kill: process.Kill,
		poll: process.Poll,
	}
}

// Each calls f for each tracked job in insertion order.
func (t *T) Each(f func(Job)) {
	for _, j := range t.jobs {
		f(j)
	}
}

// Insert starts tracking pid. The line is kept for display only.
func (t *T) Insert(pid int, line string) {
	t.jobs = append(t.jobs, Job{PID: pid, Line: line})
}

// Len returns the number of tracked jobs.
func (t *T) Len() int {
	return len(t.jobs)
}

// List returns a copy of the tracked jobs in insertion order.
func (t *T) List() []Job {
	return append([]Job(nil), t.jobs...)
}

// Remove stops tracking the first job with the process ID pid.
// Removing an untracked pid is a bug in the caller and panics.
func (t *T) Remove(pid int) {
	for i, j := range t.jobs {
		if j.PID == pid {
			t.jobs = append(t.jobs[:i], t.jobs[i+1:]...)

			return
		}
	}

	panic("job: remove of untracked pid " + strconv.Itoa(pid))
}

// Terminate sends SIGKILL to every tracked job and stops tracking them.
// It does not wait for the jobs to exit.
func (t *T) Terminate() error {
	var errs []error

	for _, j := range t.jobs {
		if err := t.kill(j.PID); err != nil {
			errs = append(errs, fmt.Errorf("kill %d: %w", j.PID, err))
		}
	}

	t.jobs = nil

	return errors.Join(errs...)
}

// Write prints the job table to w, one job per line.
func (t *T) Write(w io.Writer, quote func(string) string) {
	for _, j := range t.jobs {
		fmt.Fprintf(w, "[%d]\t%s\n", j.PID, quote(j.Line))
	}
}
