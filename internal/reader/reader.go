// Released under an MIT license. See LICENSE.

// Package reader turns lines of input into commands.
package reader

import (
	"github.com/michaelmacinnis/smallsh/internal/common/struct/command"
	"github.com/michaelmacinnis/smallsh/internal/reader/lexer"
	"github.com/michaelmacinnis/smallsh/internal/reader/parser"
)

// T (reader) encapsulates the smallsh lexer and parser.
type T struct {
	pid int
	s   *lexer.T
}

type reader = T

// New creates a new reader for name. The marker $$ is replaced with pid.
func New(name string, pid int) *reader {
	return &reader{
		pid: pid,
		s:   lexer.New(name),
	}
}

// Read converts one line to a command. Blank lines and comments
// produce a nil command and a nil error.
func (r *reader) Read(line string) (*command.T, error) {
	if lexer.Blank(line) {
		r.s.Skip()

		return nil, nil
	}

	return parser.Parse(r.s.Scan(lexer.Expand(line, r.pid)))
}
