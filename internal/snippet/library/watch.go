package library

import (
	"context"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/liveedit/internal/logging"
)

// DefaultDebounce is how long Watch waits for writes to settle before
// reloading.
const DefaultDebounce = 100 * time.Millisecond

// Watch reloads the library whenever one of its files is written, created,
// renamed or removed. Directories are watched for new library files.
// Watching stops when ctx is done or Close is called. Watch returns once
// the watches are installed.
func (lib *Library) Watch(ctx context.Context) error {
	lib.mu.Lock()
	if lib.watchStop != nil {
		lib.mu.Unlock()
		return ErrWatching
	}
	paths := slices.Clone(lib.paths)
	ctx, cancel := context.WithCancel(ctx)
	lib.watchStop = cancel
	lib.mu.Unlock()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		lib.stopWatch()
		return err
	}
	files, dirs, err := watchTargets(paths)
	if err != nil {
		fsw.Close()
		lib.stopWatch()
		return err
	}
	for _, dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			lib.stopWatch()
			return err
		}
	}

	lib.watchWg.Add(1)
	go lib.watchLoop(ctx, fsw, files, dirs)
	return nil
}

func (lib *Library) stopWatch() {
	lib.mu.Lock()
	defer lib.mu.Unlock()
	if lib.watchStop != nil {
		lib.watchStop()
		lib.watchStop = nil
	}
}

// watchTargets returns the explicitly listed files and the directories to
// watch. Files are watched through their parent directory so that editors
// replacing the file on save are noticed.
func watchTargets(paths []string) (files map[string]bool, dirs []string, err error) {
	files = make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, nil, err
		}
		expanded, err := expand([]string{abs})
		if err != nil {
			return nil, nil, err
		}
		if len(expanded) == 1 && expanded[0] == abs {
			files[abs] = true
			abs = filepath.Dir(abs)
		}
		if !slices.Contains(dirs, abs) {
			dirs = append(dirs, abs)
		}
	}
	return files, dirs, nil
}

func (lib *Library) watchLoop(ctx context.Context, fsw *fsnotify.Watcher, files map[string]bool, dirs []string) {
	defer lib.watchWg.Done()
	defer fsw.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !relevant(ev, files, dirs) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(DefaultDebounce)
			} else {
				timer.Reset(DefaultDebounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			err := lib.Reload()
			if err != nil {
				lib.log.Warn("snippet library reload failed", logging.FieldError, err)
			}
			lib.notifyReload(err)

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			lib.log.Warn("snippet library watch error", logging.FieldError, err)
		}
	}
}

// relevant reports whether ev touches a library file: one listed by name,
// or a supported file inside a watched directory.
func relevant(ev fsnotify.Event, files map[string]bool, dirs []string) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
		return false
	}
	name := filepath.Clean(ev.Name)
	if files[name] {
		return true
	}
	if !isLibraryFile(name) {
		return false
	}
	dir := filepath.Dir(name)
	if !slices.Contains(dirs, dir) {
		return false
	}
	// A directory that only holds explicitly listed files is not scanned.
	for f := range files {
		if filepath.Dir(f) == dir {
			return false
		}
	}
	return true
}
