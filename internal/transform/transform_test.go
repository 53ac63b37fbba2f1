package transform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/liveedit/internal/logging"
)

func TestBuiltins(t *testing.T) {
	r := NewRegistry(WithLogger(logging.Discard()))
	defer r.Close()

	tests := []struct {
		name, in, want string
	}{
		{"upper", "straße", "STRASSE"},
		{"lower", "HeLLo", "hello"},
		{"title", "hello wide world", "Hello Wide World"},
		{"trim", "  x \n", "x"},
		{"snake", "userID count", "user_id_count"},
		{"kebab", "HelloWorld 2", "hello-world-2"},
		{"camel", "make_http request", "makeHttpRequest"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, ok := r.Lookup(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.want, fn(tt.in))
		})
	}

	_, ok := r.Lookup("missing")
	assert.False(t, ok)
}

func TestRegister(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("twice", func(s string) string { return s + s }))
	assert.ErrorIs(t, r.Register("", nil), ErrEmptyName)

	fn, ok := r.Lookup("twice")
	require.True(t, ok)
	assert.Equal(t, "abab", fn("ab"))
	assert.Contains(t, r.Names(), "twice")
	assert.Contains(t, r.Names(), "upper")
}

func TestLuaTransform(t *testing.T) {
	r := NewRegistry(WithLogger(logging.Discard()))
	defer r.Close()

	require.NoError(t, r.RegisterLua("slug", `return (string.gsub(string.lower(s), "%s+", "-"))`))
	require.NoError(t, r.RegisterLua("len", `return #s`))

	slug, ok := r.Lookup("slug")
	require.True(t, ok)
	assert.Equal(t, "hello-big-world", slug("Hello  Big World"))

	length, _ := r.Lookup("len")
	assert.Equal(t, "3", length("abc"))
}

func TestLuaCompileErrors(t *testing.T) {
	r := NewRegistry(WithLogger(logging.Discard()))
	defer r.Close()

	assert.Error(t, r.RegisterLua("broken", `return (`))
	assert.ErrorIs(t, r.RegisterLua("", `return s`), ErrEmptyName)
	_, ok := r.Lookup("broken")
	assert.False(t, ok)
}

func TestRegistryUnregister(t *testing.T) {
	r := NewRegistry(WithLogger(logging.Discard()))
	defer r.Close()

	fn, err := r.CompileLua("quote", `return "'" .. s .. "'"`)
	require.NoError(t, err)
	_, ok := r.Lookup("quote")
	assert.False(t, ok, "compiling does not register")

	require.NoError(t, r.Register("quote", fn))
	require.NoError(t, r.Register("lower", fn))
	lower, _ := r.Lookup("lower")
	assert.Equal(t, "'A'", lower("A"))

	r.Unregister("quote")
	r.Unregister("lower")
	_, ok = r.Lookup("quote")
	assert.False(t, ok)
	lower, ok = r.Lookup("lower")
	require.True(t, ok)
	assert.Equal(t, "a", lower("A"))
}

func TestLuaRuntimeErrorReturnsInput(t *testing.T) {
	e := NewLuaEngine(WithTimeout(50 * time.Millisecond))
	defer e.Close()

	var errs []error
	onError := func(err error) { errs = append(errs, err) }

	fn, err := e.Compile("boom", `error("no")`, onError)
	require.NoError(t, err)
	assert.Equal(t, "in", fn("in"))

	table, err := e.Compile("table", `return {}`, onError)
	require.NoError(t, err)
	assert.Equal(t, "in", table("in"))

	spin, err := e.Compile("spin", `while true do end`, onError)
	require.NoError(t, err)
	assert.Equal(t, "in", spin("in"))

	assert.Len(t, errs, 3)
}

func TestLuaSandbox(t *testing.T) {
	e := NewLuaEngine()
	defer e.Close()

	var failed error
	for _, body := range []string{
		`return io.read()`,
		`return os.getenv("HOME")`,
		`return loadstring("return 1")()`,
		`return dofile("/etc/passwd")`,
	} {
		failed = nil
		fn, err := e.Compile("sandboxed", body, func(err error) { failed = err })
		require.NoError(t, err)
		assert.Equal(t, "x", fn("x"), body)
		assert.Error(t, failed, body)
	}
}

func TestLuaEngineClosed(t *testing.T) {
	e := NewLuaEngine()
	fn, err := e.Compile("id", `return s`, nil)
	require.NoError(t, err)
	assert.Equal(t, "a", fn("a"))

	e.Close()
	e.Close()
	assert.Equal(t, "a", fn("a"))
	_, err = e.Compile("id", `return s`, nil)
	assert.ErrorIs(t, err, ErrEngineClosed)
}
