// Released under an MIT license. See LICENSE.

// Package parser builds commands from the tokens produced by the lexer.
//
// The grammar is:
//
//	WORD (WORD)* [ '<' PATH ] [ '>' PATH ] [ '&' ]
//
// Redirections may appear anywhere after the first word. An ampersand is
// only special as the final token; elsewhere it is an ordinary argument.
package parser

import (
	"errors"

	"github.com/michaelmacinnis/smallsh/internal/common/struct/command"
	"github.com/michaelmacinnis/smallsh/internal/common/struct/token"
)

var (
	// ErrEmpty is returned when there are no tokens to parse.
	ErrEmpty = errors.New("empty command")

	// ErrMalformedRedirection is returned when a redirection operator
	// is not followed by a path.
	ErrMalformedRedirection = errors.New("malformed redirection")
)

// RedirectionError reports the location of a redirection with no path.
type RedirectionError struct {
	Operator *token.T
}

func (e *RedirectionError) Error() string {
	return e.Operator.Source().String() +
		": missing path after '" + e.Operator.Value() + "'"
}

func (e *RedirectionError) Unwrap() error {
	return ErrMalformedRedirection
}

// T holds the state of the parser.
type T struct {
	ahead  int        // Index of the lookahead token.
	tokens []*token.T // Tokens for a single line.
}

// New creates a new parser for the tokens ts.
func New(ts []*token.T) *T {
	return &T{tokens: ts}
}

// Parse is a convenience function that builds a command from ts.
func Parse(ts []*token.T) (*command.T, error) {
	return New(ts).Command()
}

// Command consumes all tokens and returns the resulting command.
func (p *T) Command() (*command.T, error) {
	first := p.consume()
	if first == nil {
		return nil, ErrEmpty
	}

	c := command.New(first.Value())

	for t := p.consume(); t != nil; t = p.consume() {
		switch {
		case t.Is(token.Redirect):
			path := p.consume()
			if path == nil {
				return nil, &RedirectionError{t}
			}

			if t.Value() == "<" {
				c.Input = path.Value()
			} else {
				c.Output = path.Value()
			}

		case t.Is(token.Background) && p.peek() == nil:
			c.Background = true

		default:
			c.Append(t.Value())
		}
	}

	return c, nil
}

func (p *T) consume() *token.T {
	t := p.peek()
	if t != nil {
		p.ahead++
	}

	return t
}

func (p *T) peek() *token.T {
	if p.ahead >= len(p.tokens) {
		return nil
	}

	return p.tokens[p.ahead]
}
