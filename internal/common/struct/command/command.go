// Released under an MIT license. See LICENSE.

// Package command provides the structured form of one line of input.
package command

import (
	"strings"
)

// T (command) is the result of parsing one input line.
//
// Arguments always starts with Program. Input and Output are empty unless
// the corresponding redirection appeared; tokens are never empty so an
// empty path is unambiguous.
type T struct {
	Program    string
	Arguments  []string
	Input      string
	Output     string
	Background bool
}

type command = T

// New creates a command for program with no arguments.
func New(program string) *command {
	return &command{
		Program:   program,
		Arguments: []string{program},
	}
}

// Append adds arg to the argument list.
func (c *command) Append(arg string) {
	c.Arguments = append(c.Arguments, arg)
}

// Args returns the arguments following the program name.
func (c *command) Args() []string {
	return c.Arguments[1:]
}

// String reconstructs a canonical line for c.
func (c *command) String() string {
	s := strings.Join(c.Arguments, " ")

	if c.Input != "" {
		s += " < " + c.Input
	}

	if c.Output != "" {
		s += " > " + c.Output
	}

	if c.Background {
		s += " &"
	}

	return s
}
