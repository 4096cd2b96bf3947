// Released under an MIT license. See LICENSE.

// Package mode owns foreground-only mode and the signals that affect it.
//
// SIGTSTP toggles foreground-only mode. SIGINT is received and discarded so
// that the shell itself is never interrupted. Because both signals are
// handled, not ignored, new processes start with their default disposition
// unless Shield is used to change that while they are created.
package mode

import (
	"io"
	"os"
	"os/signal"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

// Notices written when foreground-only mode changes.
const (
	Entering = "\nEntering foreground-only mode (& is now ignored)\n"
	Exiting  = "\nExiting foreground-only mode\n"
)

// T (mode) is the foreground-only mode controller.
type T struct {
	foreground atomic.Bool

	out     io.Writer
	signals chan os.Signal
	stopped chan struct{}
}

type mode = T

// New creates a mode controller that writes notices to out.
// Foreground-only mode starts disabled.
func New(out io.Writer) *mode {
	return &mode{out: out}
}

// Effective returns true if a background request should be honored.
func (m *mode) Effective(background bool) bool {
	return background && !m.Enabled()
}

// Enabled returns true if foreground-only mode is active.
func (m *mode) Enabled() bool {
	return m.foreground.Load()
}

// Monitor installs the signal handlers. Notices are written as soon as
// SIGTSTP is received, whatever the dispatch loop is doing.
func (m *mode) Monitor() {
	if m.signals != nil {
		return
	}

	m.signals = make(chan os.Signal, 2)
	m.stopped = make(chan struct{})

	signal.Notify(m.signals, unix.SIGINT, unix.SIGTSTP)

	go m.monitor(m.signals, m.stopped)
}

// Shield arranges for a process created before the returned function is
// called to ignore SIGTSTP and, if background is true, SIGINT.
// The returned function restores the shell's own handling.
//
// SIGTSTP received between Shield and restore is discarded, so a ^Z sent
// while a process is being created does not toggle the mode. The window
// is only as long as the fork and exec.
func (m *mode) Shield(background bool) (restore func()) {
	ignored := []os.Signal{unix.SIGTSTP}
	if background {
		ignored = append(ignored, unix.SIGINT)
	}

	signal.Ignore(ignored...)

	return func() {
		if m.signals == nil {
			signal.Reset(ignored...)
		} else {
			signal.Notify(m.signals, ignored...)
		}
	}
}

// Stop removes the signal handlers installed by Monitor.
func (m *mode) Stop() {
	if m.signals == nil {
		return
	}

	signal.Stop(m.signals)
	close(m.stopped)

	m.signals = nil
}

// Toggle flips foreground-only mode, writes the matching notice,
// and returns the new setting.
func (m *mode) Toggle() bool {
	for {
		old := m.foreground.Load()
		if !m.foreground.CompareAndSwap(old, !old) {
			continue
		}

		if old {
			_, _ = io.WriteString(m.out, Exiting)
		} else {
			_, _ = io.WriteString(m.out, Entering)
		}

		return !old
	}
}

func (m *mode) monitor(signals <-chan os.Signal, stopped <-chan struct{}) {
	for {
		select {
		case <-stopped:
			return

		case s := <-signals:
			if s == unix.SIGTSTP {
				m.Toggle()
			}
		}
	}
}
