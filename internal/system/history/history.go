// Released under an MIT license. See LICENSE.

// Package history persists edit-mode line history.
package history

import (
	"errors"
	"io"
	"io/fs"
	"os"
)

// Load calls read with the contents of the history file at path.
// A missing file is not an error.
func Load(path string, read func(r io.Reader) (int, error)) error {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	} else if err != nil {
		return err
	}

	_, err = read(f)
	if err != nil {
		_ = f.Close()

		return err
	}

	return f.Close()
}

// Save calls write to replace the contents of the history file at path.
func Save(path string, write func(w io.Writer) (int, error)) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}

	_, err = write(f)
	if err != nil {
		_ = f.Close()

		return err
	}

	return f.Close()
}
