package search

import (
	"context"
	"iter"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/dshills/liveedit/internal/document"
)

// Strategy finds matches in a text source. Implementations keep no mutable
// state between calls and are safe for concurrent use.
type Strategy interface {
	// FindAll yields the matches lying inside [offset, offset+length) in
	// ascending order. Each call is a fresh, single pass.
	FindAll(src document.TextSource, offset, length int) iter.Seq[Result]
	// FindNext returns the first match FindAll would yield.
	FindNext(src document.TextSource, offset, length int) (Result, bool)
	// Options returns the options the strategy was compiled from.
	Options() Options
}

type regexStrategy struct {
	opts   Options
	re     *regexp2.Regexp
	border WordBorderFunc
}

// NewStrategy compiles opts into a Strategy. A bad pattern yields a
// *PatternError.
func NewStrategy(opts Options) (Strategy, error) {
	if opts.Pattern == "" {
		return nil, &PatternError{Err: ErrEmptyPattern}
	}

	expr := opts.Pattern
	switch opts.Mode {
	case ModeNormal:
		expr = regexp2.Escape(expr)
	case ModeWildcard:
		expr = ConvertWildcards(expr)
	}

	flags := regexp2.RegexOptions(regexp2.Multiline)
	if !opts.MatchCase {
		flags |= regexp2.IgnoreCase
	}
	re, err := regexp2.Compile(expr, flags)
	if err != nil {
		return nil, &PatternError{Pattern: opts.Pattern, Err: err}
	}

	border := opts.WordBorder
	if border == nil {
		border = DefaultWordBorder
	}
	return &regexStrategy{opts: opts, re: re, border: border}, nil
}

// ConvertWildcards translates a wildcard pattern into a regular expression:
// ? matches one character, * matches any run, everything else is literal.
func ConvertWildcards(pattern string) string {
	var b strings.Builder
	for _, r := range pattern {
		switch r {
		case '?':
			b.WriteByte('.')
		case '*':
			b.WriteString(".*")
		default:
			b.WriteString(regexp2.Escape(string(r)))
		}
	}
	return b.String()
}

func (s *regexStrategy) Options() Options {
	return s.opts
}

func (s *regexStrategy) FindAll(src document.TextSource, offset, length int) iter.Seq[Result] {
	return func(yield func(Result) bool) {
		text := src.Runes()
		if offset < 0 || length < 0 || offset > len(text) {
			return
		}
		end := min(offset+length, len(text))
		m, err := s.re.FindRunesMatchStartingAt(text, offset)
		for ; err == nil && m != nil; m, err = s.re.FindNextMatch(m) {
			if m.Index > end {
				return
			}
			if m.Index+m.Length > end {
				continue
			}
			if s.opts.WholeWords && (!s.border(text, m.Index) || !s.border(text, m.Index+m.Length)) {
				continue
			}
			if !yield(Result{Start: m.Index, Length: m.Length, match: m, mode: s.opts.Mode}) {
				return
			}
		}
	}
}

func (s *regexStrategy) FindNext(src document.TextSource, offset, length int) (Result, bool) {
	for r := range s.FindAll(src, offset, length) {
		return r, true
	}
	return Result{}, false
}

// Collect runs s over the whole of src and gathers the results. It is meant
// for background goroutines working on a snapshot; ctx is checked between
// matches.
func Collect(ctx context.Context, s Strategy, src document.TextSource) ([]Result, error) {
	var out []Result
	for r := range s.FindAll(src, 0, src.Len()) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
