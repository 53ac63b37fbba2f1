package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/liveedit/internal/config"
	"github.com/dshills/liveedit/internal/search"
	"github.com/dshills/liveedit/internal/snippet/library"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	out, _, err := executeWithLog(t, stdin, args...)
	return out, err
}

func executeWithLog(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand(BuildInfo{Version: "1.2.3", Commit: "abc", Date: "today"})
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const greetLibrary = `snippets:
  - name: greet
    description: say hello
    text: "Hello ${who:world}, ${who|upper}"
  - name: pair
    text: "${key}=${value:1}"
`

func TestSearchStdin(t *testing.T) {
	out, err := execute(t, "one two one\nthree one", "search", "one")
	require.NoError(t, err)
	assert.Equal(t, "-:1:1: one\n-:1:9: one\n-:2:7: one\n", out)
}

func TestSearchFilesCount(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "id=1 id=22\r\nid=333")
	b := writeFile(t, dir, "b.txt", "nothing here")

	out, err := execute(t, "", "search", "--count", "-m", "regex", `id=\d+`, a, b)
	require.NoError(t, err)
	assert.Equal(t, a+": 3 matches\n"+b+": No matches\n", out)
}

func TestSearchOptions(t *testing.T) {
	out, err := execute(t, "Cat cat concat", "search", "-c", "-w", "cat")
	require.NoError(t, err)
	assert.Equal(t, "-:1:5: cat\n", out)

	out, err = execute(t, "file.go main.go x.txt", "search", "--mode", "wildcard", "*.go")
	require.NoError(t, err)
	assert.Equal(t, "-:1:1: file.go main.go\n", out)
}

func TestSearchNoMatches(t *testing.T) {
	_, err := execute(t, "abc", "search", "xyz")
	assert.ErrorIs(t, err, ErrNoMatches)
}

func TestSearchBadPattern(t *testing.T) {
	_, err := execute(t, "abc", "search", "-m", "regex", "(")
	var perr *search.PatternError
	assert.ErrorAs(t, err, &perr)

	_, err = execute(t, "abc", "search", "-m", "fuzzy", "a")
	assert.Error(t, err)
}

func TestReplaceStdin(t *testing.T) {
	out, err := execute(t, "ann@home bob@work", "replace", "-m", "regex", `(\w+)@(\w+)`, "$2:$1")
	require.NoError(t, err)
	assert.Equal(t, "home:ann work:bob", out)

	out, err = execute(t, "a.b a.b", "replace", "a.b", "$1")
	require.NoError(t, err)
	assert.Equal(t, "$1 $1", out)
}

func TestReplaceInPlace(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "f.txt", "foo food foo")

	out, err := execute(t, "", "replace", "--in-place", "--whole-words", "foo", "bar", path)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "bar food bar", string(data))
}

func TestReplaceInPlaceStdinFails(t *testing.T) {
	_, err := execute(t, "foo", "replace", "-i", "foo", "bar")
	assert.Error(t, err)
}

func TestSnippetExpand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lib.yaml", greetLibrary)

	out, err := execute(t, "X\n", "snippet", "greet", "-l", dir)
	require.NoError(t, err)
	assert.Equal(t, "X\nHello world, WORLD", out)

	out, err = execute(t, "X\n", "snippet", "greet", "-l", dir, "--set", "who=Bob")
	require.NoError(t, err)
	assert.Equal(t, "X\nHello Bob, BOB", out)

	out, err = execute(t, "[]", "snippet", "pair", "-l", dir, "--at", "1", "-s", "key=n", "-s", "value=42")
	require.NoError(t, err)
	assert.Equal(t, "[n=42]", out)
}

func TestSnippetInPlace(t *testing.T) {
	dir := t.TempDir()
	lib := writeFile(t, dir, "lib.yaml", greetLibrary)
	path := writeFile(t, dir, "f.txt", "a")

	_, err := execute(t, "", "snippet", "pair", path, "-l", lib, "-i", "--at", "0", "-s", "key=k")
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "k=1a", string(data))
}

func TestSnippetErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lib.yaml", greetLibrary)

	_, err := execute(t, "", "snippet", "greet", "-l", dir, "--set", "nobody=1")
	assert.ErrorIs(t, err, ErrUnknownField)

	_, err = execute(t, "", "snippet", "missing", "-l", dir)
	assert.ErrorIs(t, err, library.ErrNotFound)

	_, err = execute(t, "", "snippet", "greet", "-l", dir, "--set", "novalue")
	assert.Error(t, err)

	_, err = execute(t, "", "snippet", "greet")
	assert.Error(t, err)
}

func TestSnippetsList(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lib.yaml", greetLibrary)

	out, err := execute(t, "", "snippets", "-l", dir)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "greet"))
	assert.Contains(t, lines[0], "[who]")
	assert.Contains(t, lines[0], "say hello")
	assert.Contains(t, lines[1], "[key value]")
}

func TestConfigFlag(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lib.yaml", greetLibrary)
	cfg := writeFile(t, dir, "liveedit.toml", "[search]\nmode = \"regex\"\n\n[snippets]\nlibraries = [\"lib.yaml\"]\n")

	out, err := execute(t, "a1 b22", "--config", cfg, "search", `\d+`)
	require.NoError(t, err)
	assert.Equal(t, "-:1:2: 1\n-:1:5: 22\n", out)

	out, err = execute(t, "", "--config", cfg, "snippets")
	require.NoError(t, err)
	assert.Contains(t, out, "greet")

	_, err = execute(t, "", "--config", filepath.Join(dir, "absent.toml"), "search", "x")
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = execute(t, "", "--log-level", "loud", "search", "x")
	assert.ErrorIs(t, err, config.ErrInvalidValue)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "liveedit 1.2.3\nCommit: abc\nBuilt: today\n", out)
}

func TestDebugLogging(t *testing.T) {
	out, logs, err := executeWithLog(t, "x1 x2", "--log-level", "debug", "search", "-m", "regex", `x\d`)
	require.NoError(t, err)
	assert.Equal(t, "-:1:1: x1\n-:1:4: x2\n", out)
	assert.Contains(t, logs, "version=1.2.3")
	assert.Contains(t, logs, "commit=abc")
	assert.Contains(t, logs, "mode=regex")
	assert.Contains(t, logs, "results=2")

	_, logs, err = executeWithLog(t, "x1", "search", "x")
	require.NoError(t, err)
	assert.NotContains(t, logs, "search finished", "info level hides debug lines")
}

func TestPosition(t *testing.T) {
	text := []rune("ab\ncd\r\nef\rg")
	tests := []struct {
		offset    int
		line, col int
	}{
		{0, 1, 1},
		{2, 1, 3},
		{3, 2, 1},
		{4, 2, 2},
		{7, 3, 1},
		{10, 4, 1},
		{100, 4, 2},
	}
	for _, tt := range tests {
		line, col := position(text, tt.offset)
		assert.Equal(t, tt.line, line, "offset %d", tt.offset)
		assert.Equal(t, tt.col, col, "offset %d", tt.offset)
	}
}
