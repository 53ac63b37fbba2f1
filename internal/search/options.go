package search

import (
	"fmt"
	"strings"
)

// Mode selects how a pattern is interpreted.
type Mode uint8

const (
	// ModeNormal matches the pattern literally.
	ModeNormal Mode = iota
	// ModeWildcard treats ? as any character and * as any run of characters.
	ModeWildcard
	// ModeRegex compiles the pattern as a regular expression.
	ModeRegex
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeWildcard:
		return "wildcard"
	case ModeRegex:
		return "regex"
	default:
		return "normal"
	}
}

// ParseMode converts a mode name to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "", "normal", "plain", "text":
		return ModeNormal, nil
	case "wildcard", "wildcards", "glob":
		return ModeWildcard, nil
	case "regex", "regexp":
		return ModeRegex, nil
	}
	return ModeNormal, fmt.Errorf("unknown search mode %q", s)
}

// Options configures a search strategy.
type Options struct {
	Pattern    string
	Mode       Mode
	MatchCase  bool
	WholeWords bool
	// WordBorder decides whole-word boundaries. Nil means DefaultWordBorder.
	WordBorder WordBorderFunc
}

// String describes the options for logs.
func (o Options) String() string {
	return fmt.Sprintf("%q mode=%s case=%t words=%t", o.Pattern, o.Mode, o.MatchCase, o.WholeWords)
}
