package process

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaelmacinnis/smallsh/internal/common/type/status"
)

func shell(t *testing.T, script string) int {
	t.Helper()

	pid, err := Start("/bin/sh", []string{"sh", "-c", script},
		[]*os.File{os.Stdin, os.Stdout, os.Stderr})
	require.NoError(t, err)

	return pid
}

func TestID(t *testing.T) {
	assert.Equal(t, os.Getpid(), ID())
}

func TestLookPath(t *testing.T) {
	dir := t.TempDir()

	exe := filepath.Join(dir, "runme")
	require.NoError(t, os.WriteFile(exe, []byte("#!/bin/sh\n"), 0o755))

	data := filepath.Join(dir, "readme")
	require.NoError(t, os.WriteFile(data, []byte("text\n"), 0o644))

	path := "/nonexistent" + string(os.PathListSeparator) + dir

	found, err := LookPath("runme", path)
	require.NoError(t, err)
	assert.Equal(t, exe, found)

	_, err = LookPath("readme", path)
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)

	_, err = LookPath("missing", path)
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)

	found, err = LookPath(exe, "")
	require.NoError(t, err)
	assert.Equal(t, exe, found)

	_, err = LookPath(data, "")
	assert.True(t, errors.Is(err, ErrNotExecutable), "got %v", err)

	_, err = LookPath(dir, "")
	assert.True(t, errors.Is(err, ErrNotExecutable), "got %v", err)
}

func TestPoll(t *testing.T) {
	pid := shell(t, "exit 4")

	deadline := time.Now().Add(5 * time.Second)

	for {
		done, s, err := Poll(pid)
		require.NoError(t, err)

		if done {
			assert.Equal(t, status.Exited(4), s)
			break
		}

		require.True(t, time.Now().Before(deadline), "process %d never finished", pid)
		time.Sleep(10 * time.Millisecond)
	}

	// Once reaped the pid is no longer our child.
	_, _, err := Poll(pid)
	assert.Error(t, err)
}

func TestPollRunning(t *testing.T) {
	pid := shell(t, "exec sleep 5")

	done, _, err := Poll(pid)
	require.NoError(t, err)
	assert.False(t, done)

	require.NoError(t, Kill(pid))

	s, err := Wait(pid)
	require.NoError(t, err)
	assert.Equal(t, status.Killed(9), s)
}

func TestKillReleasesFiles(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)

	defer r.Close()

	pid, err := Start("/bin/sh", []string{"sh", "-c", "exec sleep 30"},
		[]*os.File{os.Stdin, w, os.Stderr})
	require.NoError(t, err)
	require.NoError(t, w.Close())

	require.NoError(t, Kill(pid))

	_, err = Wait(pid)
	require.NoError(t, err)

	// Nothing else holds the write end once the child is gone.
	require.NoError(t, r.SetReadDeadline(time.Now().Add(5*time.Second)))

	n, err := r.Read(make([]byte, 1))
	assert.Zero(t, n)
	assert.ErrorIs(t, err, io.EOF)
}

func TestStartMissing(t *testing.T) {
	_, err := Start("/nonexistent/program", []string{"program"},
		[]*os.File{os.Stdin, os.Stdout, os.Stderr})
	require.Error(t, err)
	assert.False(t, Fatal(err))
}

func TestWait(t *testing.T) {
	s, err := Wait(shell(t, "exit 3"))
	require.NoError(t, err)
	assert.Equal(t, status.Exited(3), s)

	s, err = Wait(shell(t, "kill -TERM $$"))
	require.NoError(t, err)
	assert.Equal(t, status.Killed(15), s)

	pid := shell(t, "exec sleep 5")
	require.NoError(t, Terminate(pid))

	s, err = Wait(pid)
	require.NoError(t, err)
	assert.Equal(t, status.Killed(15), s)
}
