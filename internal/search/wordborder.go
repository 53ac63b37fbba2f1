package search

import (
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// WordBorderFunc reports whether offset, the gap between text[offset-1] and
// text[offset], is a word border. The start and end of text are borders.
type WordBorderFunc func(text []rune, offset int) bool

type charClass uint8

const (
	classWhitespace charClass = iota
	classLineTerminator
	classWord
	classOther
)

func classify(r rune) charClass {
	switch {
	case r == '\n' || r == '\r':
		return classLineTerminator
	case unicode.IsSpace(r):
		return classWhitespace
	case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r):
		return classWord
	default:
		return classOther
	}
}

// DefaultWordBorder treats a change of character class (whitespace, line
// terminator, identifier character, other) as a border.
func DefaultWordBorder(text []rune, offset int) bool {
	if offset <= 0 || offset >= len(text) {
		return true
	}
	return classify(text[offset-1]) != classify(text[offset])
}

// unicodeWindow is the minimum context segmented on each side of an offset.
const unicodeWindow = 32

// UnicodeWordBorder uses Unicode text segmentation (UAX #29) word boundaries.
// Segmentation starts and stops at whitespace so that clusters, joiner
// sequences and flag pairs are never cut, which makes a long run without
// whitespace cost proportionally more.
func UnicodeWordBorder(text []rune, offset int) bool {
	if offset <= 0 || offset >= len(text) {
		return true
	}
	lo := max(0, offset-unicodeWindow)
	for lo > 0 && !unicode.IsSpace(text[lo]) {
		lo--
	}
	hi := min(len(text), offset+unicodeWindow)
	for hi < len(text) && !unicode.IsSpace(text[hi-1]) {
		hi++
	}
	rest := string(text[lo:hi])
	pos := lo
	state := -1
	var word string
	for len(rest) > 0 {
		word, rest, state = uniseg.FirstWordInString(rest, state)
		pos += utf8.RuneCountInString(word)
		if pos == offset {
			return true
		}
		if pos > offset {
			return false
		}
	}
	return true
}
