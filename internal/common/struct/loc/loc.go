// Released under an MIT license. See LICENSE.

// Package loc provides the type used to track where a token came from.
package loc

import (
	"strconv"
)

// T (loc) is a lexical location.
type T struct {
	Char int    // Column of the first byte, counting from 1.
	Line int    // Input line number, counting from 1.
	Name string // Label for the source of this token.
}

type loc = T

func (l *loc) String() string {
	return l.Name + ":" + strconv.Itoa(l.Line) + ":" + strconv.Itoa(l.Char)
}
