// Released under an MIT license. See LICENSE.

package process

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrNotFound is returned when a program cannot be found in the path.
	ErrNotFound = errors.New("command not found")

	// ErrNotExecutable is returned when a program exists but cannot be run.
	ErrNotExecutable = errors.New("permission denied")
)

// LookPath finds name in path, a list of directories separated by the
// OS path list separator. Names containing a slash bypass the search.
func LookPath(name, path string) (string, error) {
	if strings.Contains(name, "/") {
		if err := executable(name); err != nil {
			return "", &os.PathError{Op: "exec", Path: name, Err: err}
		}

		return name, nil
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			dir = "."
		}

		pathname := filepath.Join(dir, name)
		if executable(pathname) == nil {
			return pathname, nil
		}
	}

	return "", &os.PathError{Op: "exec", Path: name, Err: ErrNotFound}
}

func executable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}

		return err
	}

	m := d.Mode()
	if m.IsDir() || m&0o111 == 0 {
		return ErrNotExecutable
	}

	return nil
}
