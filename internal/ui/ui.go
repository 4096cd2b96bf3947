// Released under an MIT license. See LICENSE.

// Package ui acquires lines of input for the shell.
package ui

import (
	"bufio"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/peterh/liner"

	"github.com/michaelmacinnis/smallsh/internal/system/cache"
	"github.com/michaelmacinnis/smallsh/internal/system/history"
)

// T (ui) prompts for and returns one line at a time.
// At the end of input, Line returns io.EOF.
type T interface {
	Close() error
	Line(prompt string) (string, error)
}

// Plain creates a UI that writes prompts to w and reads lines from r.
func Plain(r io.Reader, w io.Writer) T {
	return &plain{r: bufio.NewReader(r), w: w}
}

// Editor creates a UI with line editing, history and program name
// completion. History is loaded from and saved to path, if not empty.
func Editor(path string) (T, error) {
	cooked, err := liner.TerminalMode()
	if err != nil {
		return nil, err
	}

	cli := liner.NewLiner()

	uncooked, err := liner.TerminalMode()
	if err != nil {
		_ = cli.Close()

		return nil, err
	}

	cli.SetCtrlCAborts(true)
	cli.SetWordCompleter(complete)

	if path != "" {
		_ = history.Load(path, cli.ReadHistory)
	}

	return &editor{
		cli:      cli,
		cooked:   cooked,
		path:     path,
		uncooked: uncooked,
	}, nil
}

type editor struct {
	cli      *liner.State
	cooked   liner.ModeApplier
	path     string
	uncooked liner.ModeApplier
}

func (e *editor) Close() error {
	var err error

	if e.path != "" {
		err = history.Save(e.path, e.cli.WriteHistory)
	}

	if cerr := e.cli.Close(); err == nil {
		err = cerr
	}

	return err
}

func (e *editor) Line(prompt string) (string, error) {
	err := e.uncooked.ApplyMode()
	if err != nil {
		return "", err
	}

	line, err := e.cli.Prompt(prompt)

	// Programs run from the shell expect a cooked terminal.
	if merr := e.cooked.ApplyMode(); merr != nil {
		return "", merr
	}

	switch err {
	case nil:
		if strings.TrimSpace(line) != "" {
			e.cli.AppendHistory(line)
		}

		return line, nil

	case liner.ErrPromptAborted:
		return "", nil
	}

	return "", err
}

type plain struct {
	eof bool
	r   *bufio.Reader
	w   io.Writer
}

func (p *plain) Close() error {
	return nil
}

func (p *plain) Line(prompt string) (string, error) {
	if p.eof {
		return "", io.EOF
	}

	_, err := io.WriteString(p.w, prompt)
	if err != nil {
		return "", err
	}

	line, err := p.r.ReadString('\n')
	if err == io.EOF && line != "" {
		p.eof = true
	} else if err != nil {
		return "", err
	}

	return strings.TrimRight(line, "\r\n"), nil
}

func complete(line string, pos int) (head string, completions []string, tail string) {
	head = line[:pos]
	tail = line[pos:]

	trimmed := strings.TrimLeftFunc(head, unicode.IsSpace)
	if strings.IndexFunc(trimmed, unicode.IsSpace) >= 0 || strings.Contains(trimmed, "/") {
		return head, nil, tail
	}

	names := cache.Complete(trimmed, os.Getenv("PATH"))

	prefix := head[:len(head)-len(trimmed)]
	for _, name := range names {
		completions = append(completions, name+" ")
	}

	return prefix, completions, tail
}
