// Package config loads liveedit settings from a TOML file with environment
// variable overrides.
//
// A missing file yields the defaults:
//
//	[log]
//	level = "info"
//
//	[search]
//	mode = "normal"        # normal, wildcard or regex
//	match_case = false
//	whole_words = false
//	word_border = "default" # default or unicode
//
//	[editor]
//	indentation = "\t"
//	line_ending = ""       # lf, crlf or cr; empty detects from content
//
//	[snippets]
//	libraries = ["~/.config/liveedit/snippets"]
//	watch = false
//
// LIVEEDIT_LOG_LEVEL and LIVEEDIT_SEARCH_MODE override the file.
package config
