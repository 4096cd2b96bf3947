package job

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaelmacinnis/smallsh/internal/common/type/status"
	"github.com/michaelmacinnis/smallsh/internal/system/process"
)

type fake struct {
	done   map[int]status.T
	failed map[int]error
	killed []int
}

func fakeTable(f *fake) *T {
	t := New()

	t.kill = func(pid int) error {
		f.killed = append(f.killed, pid)

		return nil
	}

	t.poll = func(pid int) (bool, status.T, error) {
		if err, ok := f.failed[pid]; ok {
			return false, status.T{}, err
		}

		s, ok := f.done[pid]

		return ok, s, nil
	}

	return t
}

func pids(t *T) []int {
	var ps []int

	t.Each(func(j Job) {
		ps = append(ps, j.PID)
	})

	return ps
}

func TestInsertRemove(t *testing.T) {
	jobs := New()

	jobs.Insert(10, "a &")
	jobs.Insert(20, "b &")
	jobs.Insert(30, "c &")
	assert.Equal(t, []int{10, 20, 30}, pids(jobs))

	jobs.Remove(20)
	assert.Equal(t, []int{10, 30}, pids(jobs))
	assert.Equal(t, 2, jobs.Len())

	jobs.Remove(10)
	jobs.Remove(30)
	assert.Equal(t, 0, jobs.Len())
}

func TestRemoveFirstMatch(t *testing.T) {
	jobs := New()

	jobs.Insert(10, "first")
	jobs.Insert(10, "second")

	jobs.Remove(10)

	require.Equal(t, 1, jobs.Len())
	assert.Equal(t, "second", jobs.List()[0].Line)
}

func TestRemoveUntrackedPanics(t *testing.T) {
	jobs := New()
	jobs.Insert(10, "a &")

	assert.Panics(t, func() { jobs.Remove(11) })
}

func TestListIsACopy(t *testing.T) {
	jobs := New()
	jobs.Insert(10, "a &")

	l := jobs.List()
	l[0].PID = 99

	assert.Equal(t, []int{10}, pids(jobs))
}

func TestReapReportsFinished(t *testing.T) {
	f := &fake{
		done: map[int]status.T{
			20: status.Exited(3),
			30: status.Killed(15),
		},
	}

	jobs := fakeTable(f)
	jobs.Insert(10, "running &")
	jobs.Insert(20, "exited &")
	jobs.Insert(30, "killed &")

	var out bytes.Buffer

	last, reaped, err := jobs.Reap(&out)
	require.NoError(t, err)
	assert.True(t, reaped)
	assert.Equal(t, status.Killed(15), last)
	assert.Equal(t, []int{10}, pids(jobs))
	assert.Equal(t,
		"Background pid 20 is done: exit value 3\n"+
			"Background pid 30 is done: terminated by signal 15\n",
		out.String(),
	)
}

func TestReapNothingFinished(t *testing.T) {
	jobs := fakeTable(&fake{})
	jobs.Insert(10, "running &")

	var out bytes.Buffer

	_, reaped, err := jobs.Reap(&out)
	require.NoError(t, err)
	assert.False(t, reaped)
	assert.Empty(t, out.String())
	assert.Equal(t, 1, jobs.Len())
}

func TestReapDropsLostJobs(t *testing.T) {
	lost := errors.New("no child processes")

	jobs := fakeTable(&fake{failed: map[int]error{10: lost}})
	jobs.Insert(10, "lost &")

	_, reaped, err := jobs.Reap(&bytes.Buffer{})
	assert.False(t, reaped)
	assert.ErrorIs(t, err, lost)
	assert.Equal(t, 0, jobs.Len())
}

func TestTerminate(t *testing.T) {
	f := &fake{}

	jobs := fakeTable(f)
	jobs.Insert(10, "a &")
	jobs.Insert(20, "b &")
	jobs.Insert(30, "c &")

	require.NoError(t, jobs.Terminate())
	assert.Equal(t, []int{10, 20, 30}, f.killed)
	assert.Equal(t, 0, jobs.Len())
}

func TestWrite(t *testing.T) {
	jobs := New()
	jobs.Insert(10, "sleep 5 &")
	jobs.Insert(20, "sleep 6 &")

	var out bytes.Buffer

	jobs.Write(&out, strings.ToUpper)
	assert.Equal(t, "[10]\tSLEEP 5 &\n[20]\tSLEEP 6 &\n", out.String())
}

func TestReapChildren(t *testing.T) {
	files := []*os.File{os.Stdin, os.Stdout, os.Stderr}

	quick, err := process.Start("/bin/sh", []string{"sh", "-c", "exit 7"}, files)
	require.NoError(t, err)

	slow, err := process.Start("/bin/sh", []string{"sh", "-c", "exec sleep 30"}, files)
	require.NoError(t, err)

	jobs := New()
	jobs.Insert(quick, "exit 7 &")
	jobs.Insert(slow, "sleep 30 &")

	var out bytes.Buffer

	// The quick job is reported eventually, never the slow one.
	assert.Eventually(t, func() bool {
		_, _, err := jobs.Reap(&out)
		assert.NoError(t, err)

		return jobs.Len() == 1
	}, 5*time.Second, 10*time.Millisecond)

	assert.Equal(t, Notice(quick, status.Exited(7))+"\n", out.String())
	assert.Equal(t, []int{slow}, pids(jobs))

	require.NoError(t, jobs.Terminate())

	s, err := process.Wait(slow)
	require.NoError(t, err)
	assert.Equal(t, status.Killed(9), s)
}
