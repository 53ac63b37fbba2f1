package transform

import (
	"maps"
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/dshills/liveedit/internal/logging"
)

// Registry maps transform names to functions. It satisfies the lookup
// interface used by the snippet parser.
type Registry struct {
	mu  sync.RWMutex
	fns map[string]func(string) string
	lua *LuaEngine
	log *log.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger that receives Lua runtime errors.
func WithLogger(l *log.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.log = l
		}
	}
}

// WithLuaEngine sets the engine used by RegisterLua.
func WithLuaEngine(e *LuaEngine) Option {
	return func(r *Registry) {
		r.lua = e
	}
}

// NewRegistry returns a registry holding the builtins.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{fns: Builtins(), log: logging.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds or replaces a transform.
func (r *Registry) Register(name string, fn func(string) string) error {
	if name == "" {
		return ErrEmptyName
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fns[name] = fn
	return nil
}

// RegisterLua compiles body and registers it under name.
func (r *Registry) RegisterLua(name, body string) error {
	fn, err := r.CompileLua(name, body)
	if err != nil {
		return err
	}
	return r.Register(name, fn)
}

// CompileLua compiles body into a transform without registering it. The Lua
// engine is created on first use.
func (r *Registry) CompileLua(name, body string) (func(string) string, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	r.mu.Lock()
	if r.lua == nil {
		r.lua = NewLuaEngine()
	}
	engine := r.lua
	r.mu.Unlock()

	logger := r.log
	return engine.Compile(name, body, func(err error) {
		logger.Warn("lua transform failed", logging.FieldError, err)
	})
}

// Unregister removes a transform. A builtin of the same name is restored.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if fn, ok := Builtins()[name]; ok {
		r.fns[name] = fn
		return
	}
	delete(r.fns, name)
}

// Lookup returns the transform called name.
func (r *Registry) Lookup(name string) (func(string) string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.fns[name]
	return fn, ok
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.fns))
}

// Close releases the Lua engine, if any.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lua != nil {
		r.lua.Close()
	}
}
