// Released under an MIT license. See LICENSE.

// Package options parses smallsh's command line and configuration file.
package options

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/docopt/docopt-go"
	"github.com/mattn/go-isatty"
	"github.com/michaelmacinnis/adapted"
	"gopkg.in/yaml.v3"
)

// DefaultPrompt is written before each line is read.
const DefaultPrompt = ": "

//nolint:gochecknoglobals
var usage = `smallsh

Usage:
  smallsh [-e] [--prompt=PROMPT] [--config=FILE] [--command=COMMAND]
  smallsh -h
  smallsh -v

Options:
  -c, --command=COMMAND  Run COMMAND, then exit.
  -e, --edit             Enable line editing and history.
  -p, --prompt=PROMPT    Prompt. Backslash escape sequences are decoded.
  --config=FILE          Configuration file.
  -h, --help             Display this help.
  -v, --version          Print smallsh version.

Line editing is only enabled when smallsh's stdin is a TTY.
`

// T (options) holds the settings for a single run of the shell.
type T struct {
	Command     string
	Edit        bool
	History     string
	Interactive bool
	Prompt      string
}

// Config is the on-disk configuration. Unset fields keep their defaults.
type Config struct {
	Edit    *bool   `yaml:"edit"`
	Prompt  *string `yaml:"prompt"`
	History struct {
		Enabled *bool  `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"history"`
}

// ConfigPath returns the default configuration file path.
func ConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}

	return filepath.Join(dir, "smallsh", "config.yaml")
}

// HistoryPath returns the default history file path.
func HistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".smallsh_history")
}

// Load reads the configuration file at path. A missing file is not an error.
func Load(path string) (*Config, error) {
	c := &Config{}

	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	} else if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}

	return c, nil
}

// Parse parses argv, not including the program name, and merges the
// result with the configuration file. Command-line options win.
func Parse(argv []string, version string) (*T, error) {
	return parse(docopt.DefaultParser, argv, version)
}

func parse(p *docopt.Parser, argv []string, version string) (*T, error) {
	opts, err := p.ParseArgs(usage, argv, version)
	if err != nil {
		return nil, err
	}

	path, _ := opts.String("--config")
	if path == "" {
		path = ConfigPath()
	}

	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	o := &T{
		History:     HistoryPath(),
		Interactive: isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()),
		Prompt:      DefaultPrompt,
	}

	if c.Edit != nil {
		o.Edit = *c.Edit
	}

	if c.Prompt != nil {
		o.Prompt = *c.Prompt
	}

	if c.History.Path != "" {
		o.History = c.History.Path
	}

	if c.History.Enabled != nil && !*c.History.Enabled {
		o.History = ""
	}

	o.Command, _ = opts.String("--command")

	if edit, _ := opts.Bool("--edit"); edit {
		o.Edit = true
	}

	if prompt, err := opts.String("--prompt"); err == nil {
		o.Prompt = prompt
	}

	o.Prompt, err = adapted.ActualBytes(o.Prompt)
	if err != nil {
		return nil, fmt.Errorf("prompt: %w", err)
	}

	// Line editing needs a terminal and something to edit.
	o.Edit = o.Edit && o.Interactive && o.Command == ""

	return o, nil
}
