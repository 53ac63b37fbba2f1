// Package library loads named snippet templates from YAML and TOML files
// and reloads them when the files change.
//
// A library file lists snippets and, optionally, Lua transforms usable in
// ${name|transform} fields:
//
//	snippets:
//	  - name: fori
//	    description: counting loop
//	    text: "for ${i:i} := 0; ${i} < ${n}; ${i}++ {\n\t${Caret}\n}"
//	transforms:
//	  shout: return string.upper(s) .. "!"
package library

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/dshills/liveedit/internal/logging"
	"github.com/dshills/liveedit/internal/snippet"
	"github.com/dshills/liveedit/internal/transform"
)

// Entry is a loaded snippet.
type Entry struct {
	Definition
	// Source is the file the snippet came from.
	Source  string
	Snippet *snippet.Snippet
}

// Library holds the snippets of a set of files.
type Library struct {
	mu         sync.RWMutex
	paths      []string
	entries    map[string]*Entry
	transforms *transform.Registry
	ownsReg    bool
	// loadMu serializes reloads; luaNames are the transforms registered
	// from library files.
	loadMu   sync.Mutex
	luaNames []string

	reloadMu  sync.Mutex
	onReload  []func(error)
	watchStop context.CancelFunc
	watchWg   sync.WaitGroup

	log *log.Logger
}

// Option configures a Library.
type Option func(*Library)

// WithLogger sets the library logger.
func WithLogger(l *log.Logger) Option {
	return func(lib *Library) {
		if l != nil {
			lib.log = l
		}
	}
}

// WithTransforms sets the registry used to resolve transforms. Lua
// transforms found in library files are added to it and removed again when
// a reload no longer finds them.
func WithTransforms(r *transform.Registry) Option {
	return func(lib *Library) {
		lib.transforms = r
	}
}

// New returns an empty library.
func New(opts ...Option) *Library {
	lib := &Library{entries: make(map[string]*Entry), log: logging.Default()}
	for _, opt := range opts {
		opt(lib)
	}
	if lib.transforms == nil {
		lib.transforms = transform.NewRegistry(transform.WithLogger(lib.log))
		lib.ownsReg = true
	}
	return lib
}

// Transforms returns the registry used to resolve transforms.
func (lib *Library) Transforms() *transform.Registry {
	return lib.transforms
}

// Load replaces the library paths and loads them. Files and directories may
// be mixed. Snippets from files that fail to parse are skipped and the
// errors are joined into the result; later files override earlier ones.
func (lib *Library) Load(paths ...string) error {
	lib.mu.Lock()
	lib.paths = slices.Clone(paths)
	lib.mu.Unlock()
	return lib.Reload()
}

// Reload reads the current paths again. The Lua transforms of the previous
// load are replaced by the ones found now.
func (lib *Library) Reload() error {
	lib.loadMu.Lock()
	defer lib.loadMu.Unlock()

	lib.mu.RLock()
	paths := slices.Clone(lib.paths)
	lib.mu.RUnlock()

	files, err := expand(paths)
	if err != nil {
		return fmt.Errorf("load snippet library: %w", err)
	}

	var errs []error
	loaded := make([]*loadedFile, 0, len(files))
	for _, path := range files {
		fd, err := readFile(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		loaded = append(loaded, &loadedFile{path: path, data: fd})
	}

	fresh := make(map[string]func(string) string)
	for _, f := range loaded {
		for _, name := range slices.Sorted(maps.Keys(f.data.Transforms)) {
			fn, err := lib.transforms.CompileLua(name, f.data.Transforms[name])
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", f.path, err))
				continue
			}
			fresh[name] = fn
		}
	}
	lib.swapTransforms(fresh)

	entries := make(map[string]*Entry)
	for _, f := range loaded {
		errs = append(errs, lib.addSnippets(f, entries))
	}

	lib.mu.Lock()
	lib.entries = entries
	lib.mu.Unlock()

	lib.log.Debug("snippet library loaded", logging.FieldPath, paths, logging.FieldSnippet, len(entries))
	return errors.Join(errs...)
}

type loadedFile struct {
	path string
	data *fileData
}

// swapTransforms drops the Lua transforms of the previous load that are not
// in fresh and registers fresh.
func (lib *Library) swapTransforms(fresh map[string]func(string) string) {
	for _, name := range lib.luaNames {
		if _, ok := fresh[name]; !ok {
			lib.transforms.Unregister(name)
		}
	}
	lib.luaNames = slices.Sorted(maps.Keys(fresh))
	for _, name := range lib.luaNames {
		_ = lib.transforms.Register(name, fresh[name])
	}
}

func (lib *Library) addSnippets(f *loadedFile, into map[string]*Entry) error {
	var errs []error
	for _, def := range f.data.Snippets {
		if def.Name == "" {
			errs = append(errs, fmt.Errorf("%s: snippet without a name", f.path))
			continue
		}
		s, err := snippet.Parse(def.Text, lib.transforms)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: snippet %q: %w", f.path, def.Name, err))
			continue
		}
		if prev, dup := into[def.Name]; dup {
			lib.log.Warn("snippet redefined", logging.FieldSnippet, def.Name, logging.FieldPath, f.path, "previous", prev.Source)
		}
		into[def.Name] = &Entry{Definition: def, Source: f.path, Snippet: s}
	}
	return errors.Join(errs...)
}

// Get returns the snippet called name.
func (lib *Library) Get(name string) (*Entry, error) {
	lib.mu.RLock()
	defer lib.mu.RUnlock()
	e, ok := lib.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return e, nil
}

// Names returns the loaded snippet names, sorted.
func (lib *Library) Names() []string {
	lib.mu.RLock()
	defer lib.mu.RUnlock()
	return slices.Sorted(maps.Keys(lib.entries))
}

// Len returns the number of loaded snippets.
func (lib *Library) Len() int {
	lib.mu.RLock()
	defer lib.mu.RUnlock()
	return len(lib.entries)
}

// OnReload registers fn to run after every reload triggered by Watch, with
// the reload error if any. fn runs on the watcher goroutine.
func (lib *Library) OnReload(fn func(error)) {
	lib.reloadMu.Lock()
	defer lib.reloadMu.Unlock()
	lib.onReload = append(lib.onReload, fn)
}

func (lib *Library) notifyReload(err error) {
	lib.reloadMu.Lock()
	fns := slices.Clone(lib.onReload)
	lib.reloadMu.Unlock()
	for _, fn := range fns {
		fn(err)
	}
}

// Close stops watching and releases the transform registry if the library
// created it.
func (lib *Library) Close() {
	lib.mu.Lock()
	stop := lib.watchStop
	lib.watchStop = nil
	lib.mu.Unlock()
	if stop != nil {
		stop()
	}
	lib.watchWg.Wait()
	if lib.ownsReg {
		lib.transforms.Close()
	}
}
