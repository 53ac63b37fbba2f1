// Package transform provides named text transforms for mirrored snippet
// fields: a fixed set of builtins plus transforms written in Lua.
//
// Lua transforms run in a restricted state with only the base, string,
// table and math libraries. A transform body sees the mirrored text as the
// local s and returns the replacement:
//
//	slug: return (string.gsub(string.lower(s), "%s+", "-"))
package transform
