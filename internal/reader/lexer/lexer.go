// Released under an MIT license. See LICENSE.

// Package lexer provides the lexical scanner for smallsh command lines.
//
// The scanner adapts the state function approach used by Go's text/template
// lexer and described in detail in Rob Pike's talk "Lexical Scanning in Go".
// See https://talks.golang.org/2011/lex.slide for more information.
//
// Lines are split on white space only. There is no quoting or escaping.
package lexer

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/michaelmacinnis/smallsh/internal/common/struct/loc"
	"github.com/michaelmacinnis/smallsh/internal/common/struct/token"
)

// Marker is replaced by the shell's process ID before a line is scanned.
const Marker = "$$"

// T holds the state of the scanner.
type T struct {
	bytes string // Buffer being scanned.
	first int    // Index of the current token's first byte.
	index int    // Index of the current byte.
	runes int    // Runes scanned on the current line.
	state action // Current action.

	source loc.T

	tokens []*token.T
}

// New creates a new T. Label can be a file name or other identifier.
func New(label string) *T {
	return &T{
		source: loc.T{
			Name: label,
		},
	}
}

// Blank returns true if line is empty, all white space or a comment.
func Blank(line string) bool {
	line = strings.TrimLeftFunc(line, unicode.IsSpace)

	return line == "" || line[0] == '#'
}

// Expand replaces every non-overlapping occurrence of Marker,
// scanning left to right, with the decimal text of pid.
func Expand(line string, pid int) string {
	return strings.ReplaceAll(line, Marker, strconv.Itoa(pid))
}

// Line returns the number of lines scanned so far.
func (l *T) Line() int {
	return l.source.Line
}

// Skip counts a line that will not be scanned.
func (l *T) Skip() {
	l.source.Line++
}

// Scan splits a single line of text into tokens. Each call counts as a
// new line for the purposes of token locations. An all white space line
// produces no tokens.
func (l *T) Scan(text string) []*token.T {
	l.bytes = text
	l.first = 0
	l.index = 0
	l.runes = 0
	l.tokens = nil

	l.source.Line++

	for l.state = skipWhitespace; l.state != nil; {
		l.state = l.state(l)
	}

	return l.tokens
}

type action func(*T) action

const eof = -1

func (l *T) accept(w int) {
	l.index += w
	l.runes++
}

func (l *T) emit() {
	v := l.text()

	c := token.Word

	switch v {
	case "&":
		c = token.Background
	case "<", ">":
		c = token.Redirect
	}

	source := l.source

	l.tokens = append(l.tokens, token.New(c, v, &source))
	l.skip()
}

func (l *T) peek() (rune, int) {
	r, w := rune(eof), 0
	if l.index < len(l.bytes) {
		r, w = utf8.DecodeRuneInString(l.bytes[l.index:])
	}

	return r, w
}

func (l *T) skip() {
	l.source.Char = l.runes + 1
	l.first = l.index
}

func (l *T) text() string {
	return l.bytes[l.first:l.index]
}

// T states.

func skipWhitespace(l *T) action {
	for {
		r, w := l.peek()

		switch {
		case r == eof:
			return nil
		case !unicode.IsSpace(r):
			l.skip()
			return word
		}

		l.accept(w)
	}
}

func word(l *T) action {
	for {
		r, w := l.peek()
		if r == eof || unicode.IsSpace(r) {
			l.emit()
			return skipWhitespace
		}

		l.accept(w)
	}
}
