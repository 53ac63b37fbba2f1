package transform

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Builtins returns the builtin transforms by name.
func Builtins() map[string]func(string) string {
	return map[string]func(string) string{
		"upper": func(s string) string { return cases.Upper(language.Und).String(s) },
		"lower": func(s string) string { return cases.Lower(language.Und).String(s) },
		"title": func(s string) string { return cases.Title(language.Und).String(s) },
		"trim":  strings.TrimSpace,
		"snake": func(s string) string { return joinWords(s, "_") },
		"kebab": func(s string) string { return joinWords(s, "-") },
		"camel": camel,
	}
}

// words splits s at non-alphanumeric runes and at lower-to-upper case
// changes.
func words(s string) []string {
	var out []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			out = append(out, string(cur))
			cur = cur[:0]
		}
	}
	var prev rune
	for _, r := range s {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
		case unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)):
			flush()
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
		prev = r
	}
	flush()
	return out
}

func joinWords(s, sep string) string {
	ws := words(s)
	for i, w := range ws {
		ws[i] = strings.ToLower(w)
	}
	return strings.Join(ws, sep)
}

func camel(s string) string {
	ws := words(s)
	title := cases.Title(language.Und)
	for i, w := range ws {
		if i == 0 {
			ws[i] = strings.ToLower(w)
		} else {
			ws[i] = title.String(w)
		}
	}
	return strings.Join(ws, "")
}
