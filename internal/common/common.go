// Released under an MIT license. See LICENSE.

// Package common defines helpers shared by the shell's packages.
package common

import (
	"io"

	"github.com/fatih/color"
)

// Name is the shell's name as it appears in diagnostics.
const Name = "smallsh"

var warning = color.New(color.FgRed)

// Warn writes err to w as a single diagnostic line.
// The line is colored when color output is enabled.
func Warn(w io.Writer, err error) {
	warning.Fprintf(w, "%s: %v\n", Name, err)
}
