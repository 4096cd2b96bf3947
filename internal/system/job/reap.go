// Released under an MIT license. See LICENSE.

package job

import (
	"errors"
	"fmt"
	"io"

	"github.com/michaelmacinnis/smallsh/internal/common/type/status"
)

// Notice returns the line reported when a background job finishes.
func Notice(pid int, s status.T) string {
	return fmt.Sprintf("Background pid %d is done: %s", pid, s.Detail())
}

// Reap checks each tracked job once, without blocking. Finished jobs are
// removed and reported to w. If any job finished, the status of the last
// one reaped is returned and reaped is true.
//
// A job that can no longer be waited for is dropped and reported in err.
func (t *T) Reap(w io.Writer) (last status.T, reaped bool, err error) {
	var errs []error

	for _, j := range t.List() {
		done, s, perr := t.poll(j.PID)

		switch {
		case perr != nil:
			t.Remove(j.PID)
			errs = append(errs, fmt.Errorf("background pid %d: %w", j.PID, perr))

		case done:
			t.Remove(j.PID)
			fmt.Fprintln(w, Notice(j.PID, s))

			last, reaped = s, true
		}
	}

	return last, reaped, errors.Join(errs...)
}
