// Released under an MIT license. See LICENSE.

// Package cache remembers the executables found in each directory on the
// search path. It is used for program name completion.
//
// All access to the cache is serialized through a single goroutine.
package cache

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Complete returns the sorted, distinct names of cached executables
// in the directories of path that begin with prefix.
func Complete(prefix, path string) []string {
	resultq := make(chan []string)

	dirnames := split(path)

	requestq <- func() {
		seen := map[string]struct{}{}
		names := []string{}

		for _, dirname := range dirnames {
			for _, name := range executables[dirname] {
				if _, found := seen[name]; found || !strings.HasPrefix(name, prefix) {
					continue
				}

				seen[name] = struct{}{}
				names = append(names, name)
			}
		}

		sort.Strings(names)

		resultq <- names
		close(resultq)
	}

	return <-resultq
}

// Executables scans dirname and returns the executables it contains.
func Executables(dirname string) []string {
	resultq := make(chan []string)

	requestq <- func() {
		e := []string{}

		entries, _ := os.ReadDir(dirname)
		for _, entry := range entries {
			i, err := os.Stat(filepath.Join(dirname, entry.Name()))
			if err != nil || i.IsDir() || i.Mode()&0o111 == 0 {
				continue
			}

			e = append(e, entry.Name())
		}

		executables[dirname] = e

		resultq <- e
		close(resultq)
	}

	return <-resultq
}

// Populate scans each directory in path, a list separated by the OS
// path list separator.
func Populate(path string) {
	for _, dirname := range split(path) {
		stat, err := os.Stat(dirname)
		if err != nil || !stat.IsDir() {
			continue
		}

		Executables(dirname)
	}
}

//nolint:gochecknoglobals
var (
	executables = map[string][]string{}
	requestq    chan func()
)

func init() { //nolint:gochecknoinits
	requestq = make(chan func(), 1)

	go service()
}

func service() {
	for {
		(<-requestq)()
	}
}

func split(path string) []string {
	dirnames := filepath.SplitList(path)

	for i, dirname := range dirnames {
		if dirname == "" {
			dirnames[i] = "."
		} else {
			dirnames[i] = filepath.Clean(dirname)
		}
	}

	return dirnames
}
