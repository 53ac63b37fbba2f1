package search

import (
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/dshills/liveedit/internal/document"
)

// Result is a single match plus the data needed to expand a replacement.
type Result struct {
	Start  int
	Length int
	match  *regexp2.Match
	mode   Mode
}

// End returns the offset just past the match.
func (r Result) End() int {
	return r.Start + r.Length
}

// Range returns the matched range.
func (r Result) Range() document.Range {
	return document.NewRange(r.Start, r.Length)
}

// Text returns the matched text.
func (r Result) Text() string {
	if r.match == nil {
		return ""
	}
	return r.match.String()
}

// Group returns the text captured by group n, or "" if it did not participate.
func (r Result) Group(n int) string {
	if r.match == nil {
		return ""
	}
	if g := r.match.GroupByNumber(n); g != nil {
		return g.String()
	}
	return ""
}

// ReplaceWith expands template for this match. In regex mode $0, $&, $n,
// ${n}, ${name} and $$ are substituted; other modes use template literally.
func (r Result) ReplaceWith(template string) string {
	if r.mode != ModeRegex || r.match == nil || !strings.Contains(template, "$") {
		return template
	}
	return expand(template, r.match)
}

func expand(template string, m *regexp2.Match) string {
	var b strings.Builder
	for i := 0; i < len(template); i++ {
		c := template[i]
		if c != '$' || i+1 == len(template) {
			b.WriteByte(c)
			continue
		}
		next := template[i+1]
		switch {
		case next == '$':
			b.WriteByte('$')
			i++
		case next == '&':
			b.WriteString(m.String())
			i++
		case next >= '0' && next <= '9':
			j := i + 1
			for j < len(template) && template[j] >= '0' && template[j] <= '9' {
				j++
			}
			n, _ := strconv.Atoi(template[i+1 : j])
			if g := m.GroupByNumber(n); g != nil {
				b.WriteString(g.String())
			} else {
				b.WriteString(template[i:j])
			}
			i = j - 1
		case next == '{':
			end := strings.IndexByte(template[i+2:], '}')
			if end < 0 {
				b.WriteByte(c)
				continue
			}
			name := template[i+2 : i+2+end]
			var g *regexp2.Group
			if n, err := strconv.Atoi(name); err == nil {
				g = m.GroupByNumber(n)
			} else {
				g = m.GroupByName(name)
			}
			if g != nil {
				b.WriteString(g.String())
			} else {
				b.WriteString(template[i : i+3+end])
			}
			i += 2 + end
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
