package transform

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultTimeout bounds a single Lua transform call.
const DefaultTimeout = 200 * time.Millisecond

// LuaEngine compiles and runs Lua transforms in one restricted state.
//
// gopher-lua states are not goroutine-safe; the engine serializes calls.
type LuaEngine struct {
	mu      sync.Mutex
	L       *lua.LState
	timeout time.Duration
	closed  bool
}

// LuaOption configures a LuaEngine.
type LuaOption func(*LuaEngine)

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) LuaOption {
	return func(e *LuaEngine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// NewLuaEngine creates a Lua state with the safe standard libraries only.
func NewLuaEngine(opts ...LuaOption) *LuaEngine {
	e := &LuaEngine{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(e)
	}
	e.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(e.L)
	return e
}

// openSafeLibraries opens base, table, string and math, then removes the
// base functions that load code from disk or strings.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// Compile turns body into a transform. body runs with the input bound to
// the local s and must return a string or number. If a call fails the input
// is passed to onError and returned unchanged.
func (e *LuaEngine) Compile(name, body string, onError func(error)) (func(string) string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrEngineClosed
	}

	src := fmt.Sprintf("return function(s)\n%s\nend", body)
	chunk, err := e.L.Load(strings.NewReader(src), name)
	if err != nil {
		return nil, fmt.Errorf("compile transform %q: %w", name, err)
	}
	if err := e.protect(func() error {
		return e.L.CallByParam(lua.P{Fn: chunk, NRet: 1, Protect: true})
	}); err != nil {
		return nil, fmt.Errorf("compile transform %q: %w", name, err)
	}
	ret := e.L.Get(-1)
	e.L.Pop(1)
	fn, ok := ret.(*lua.LFunction)
	if !ok {
		return nil, fmt.Errorf("transform %q: %w", name, ErrNotFunction)
	}

	return func(s string) string {
		out, err := e.call(fn, s)
		if err != nil {
			if onError != nil {
				onError(fmt.Errorf("transform %q: %w", name, err))
			}
			return s
		}
		return out
	}, nil
}

func (e *LuaEngine) call(fn *lua.LFunction, s string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return "", ErrEngineClosed
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()
	e.L.SetContext(ctx)
	defer e.L.RemoveContext()

	if err := e.protect(func() error {
		return e.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, lua.LString(s))
	}); err != nil {
		return "", err
	}
	ret := e.L.Get(-1)
	e.L.Pop(1)
	switch ret.Type() {
	case lua.LTString, lua.LTNumber:
		return lua.LVAsString(ret), nil
	default:
		return "", fmt.Errorf("returned %s, want string", ret.Type())
	}
}

// protect converts a Go panic raised inside the Lua VM into an error.
func (e *LuaEngine) protect(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// Close releases the Lua state. Compiled transforms then return their input.
func (e *LuaEngine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.closed {
		e.closed = true
		e.L.Close()
	}
}
