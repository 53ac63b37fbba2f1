package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/liveedit/internal/document"
	"github.com/dshills/liveedit/internal/search"
)

// DefaultFileName is the config file looked up when no path is given.
const DefaultFileName = "liveedit.toml"

// Config is the full liveedit configuration.
type Config struct {
	Log      Log      `toml:"log"`
	Search   Search   `toml:"search"`
	Editor   Editor   `toml:"editor"`
	Snippets Snippets `toml:"snippets"`
}

// Log configures the logger.
type Log struct {
	Level string `toml:"level"`
}

// Search holds the default search options.
type Search struct {
	Mode       string `toml:"mode"`
	MatchCase  bool   `toml:"match_case"`
	WholeWords bool   `toml:"whole_words"`
	WordBorder string `toml:"word_border"`
}

// Editor configures generated text.
type Editor struct {
	Indentation string `toml:"indentation"`
	LineEnding  string `toml:"line_ending"`
}

// Snippets lists the snippet library files and directories.
type Snippets struct {
	Libraries []string `toml:"libraries"`
	Watch     bool     `toml:"watch"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log:    Log{Level: "info"},
		Search: Search{Mode: "normal", WordBorder: "default"},
		Editor: Editor{Indentation: "\t"},
	}
}

// Load reads the file at path over the defaults, applies environment
// overrides and validates the result. A missing file is not an error.
// Relative library paths are resolved against the file's directory.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	default:
		if err := cfg.decode(path, bytes.NewReader(data)); err != nil {
			return nil, err
		}
		cfg.resolveLibraries(filepath.Dir(path))
	}

	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadReader reads a configuration from r over the defaults without
// environment overrides.
func LoadReader(r io.Reader) (*Config, error) {
	cfg := Default()
	if err := cfg.decode("<reader>", r); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(source string, r io.Reader) error {
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		pe := &ParseError{Path: source, Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			pe.Line, pe.Column = derr.Position()
		}
		return pe
	}
	return nil
}

func (c *Config) resolveLibraries(base string) {
	for i, p := range c.Snippets.Libraries {
		switch {
		case strings.HasPrefix(p, "~/"):
			if home, err := os.UserHomeDir(); err == nil {
				c.Snippets.Libraries[i] = filepath.Join(home, p[2:])
			}
		case !filepath.IsAbs(p):
			c.Snippets.Libraries[i] = filepath.Join(base, p)
		}
	}
}

// Validate checks every enumerated setting.
func (c *Config) Validate() error {
	var errs []error
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, invalid("log.level", c.Log.Level))
	}
	if _, err := search.ParseMode(c.Search.Mode); err != nil {
		errs = append(errs, invalid("search.mode", c.Search.Mode))
	}
	if _, err := c.Search.wordBorder(); err != nil {
		errs = append(errs, err)
	}
	if c.Editor.LineEnding != "" {
		if _, ok := document.ParseLineEnding(c.Editor.LineEnding); !ok {
			errs = append(errs, invalid("editor.line_ending", c.Editor.LineEnding))
		}
	}
	return errors.Join(errs...)
}

// Options converts the search section into search options without a
// pattern. Invalid values fall back to their defaults.
func (s Search) Options() search.Options {
	mode, _ := search.ParseMode(s.Mode)
	border, _ := s.wordBorder()
	return search.Options{
		Mode:       mode,
		MatchCase:  s.MatchCase,
		WholeWords: s.WholeWords,
		WordBorder: border,
	}
}

func (s Search) wordBorder() (search.WordBorderFunc, error) {
	switch strings.ToLower(s.WordBorder) {
	case "", "default":
		return search.DefaultWordBorder, nil
	case "unicode":
		return search.UnicodeWordBorder, nil
	}
	return search.DefaultWordBorder, invalid("search.word_border", s.WordBorder)
}

// DocumentOptions converts the editor section into document options.
func (e Editor) DocumentOptions() []document.Option {
	var opts []document.Option
	if e.Indentation != "" {
		opts = append(opts, document.WithIndentation(e.Indentation))
	}
	if le, ok := document.ParseLineEnding(e.LineEnding); ok && e.LineEnding != "" {
		opts = append(opts, document.WithLineEnding(le))
	}
	return opts
}
