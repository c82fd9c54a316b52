// Package fsnotify implements ports.Watcher using github.com/fsnotify/fsnotify.
// It recursively watches a project directory, drops events for ignored
// directories and for files the caller's filter rejects, and coalesces bursts
// of events per file (editors often write several times per save).
package fsnotify

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last event for a file before
// onChange fires.
const DefaultDebounce = 50 * time.Millisecond

// IgnoreDirs lists directory names that are never watched or scanned.
var IgnoreDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
	".venv":        true,
	"__pycache__":  true,
	"vendor":       true,
	".idea":        true,
	".vscode":      true,
	"dist":         true,
	"build":        true,
	"target":       true,
	".next":        true,
	".codelens":    true,
}

// Watcher implements ports.Watcher using fsnotify.
type Watcher struct {
	fw       *fsnotify.Watcher
	accept   func(path string) bool
	debounce time.Duration
	root     string

	mu      sync.Mutex
	done    chan struct{}
	stopped bool
	pending map[string]*time.Timer
}

// NewWatcher creates a file system watcher. accept filters which files are
// reported; nil accepts every file outside ignored directories.
func NewWatcher(accept func(path string) bool) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if accept == nil {
		accept = func(string) bool { return true }
	}
	return &Watcher{
		fw:       fw,
		accept:   accept,
		debounce: DefaultDebounce,
		done:     make(chan struct{}),
		pending:  make(map[string]*time.Timer),
	}, nil
}

// SetDebounce changes the per-file quiet period. Call before Watch.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Watch starts monitoring projectPath recursively. onChange receives the
// absolute path of each changed, created, removed or renamed file once its
// events have been quiet for the debounce period.
func (w *Watcher) Watch(projectPath string, onChange func(filePath string)) error {
	absPath, err := filepath.Abs(projectPath)
	if err != nil {
		return err
	}
	w.root = absPath
	if err := w.addTree(absPath); err != nil {
		return err
	}

	go func() {
		for {
			select {
			case event, ok := <-w.fw.Events:
				if !ok {
					return
				}
				w.handle(event, onChange)
			case _, ok := <-w.fw.Errors:
				if !ok {
					return
				}
				// fsnotify recovers on its own; a dropped event is picked up by the next scan.
			case <-w.done:
				return
			}
		}
	}()
	return nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip inaccessible paths
		}
		if !d.IsDir() {
			return nil
		}
		if IgnoreDirs[d.Name()] && path != root {
			return filepath.SkipDir
		}
		return w.fw.Add(path)
	})
}

func (w *Watcher) handle(event fsnotify.Event, onChange func(string)) {
	path := event.Name

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if !IgnoreDirs[info.Name()] {
				_ = w.addTree(path)
			}
			return
		}
	}

	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	rel, err := filepath.Rel(w.root, path)
	if err != nil || ShouldIgnorePath(rel) || !w.accept(path) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if t, ok := w.pending[path]; ok {
		t.Reset(w.debounce)
		return
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		stopped := w.stopped
		w.mu.Unlock()
		if !stopped {
			onChange(path)
		}
	})
}

// Stop ends monitoring and releases all resources. Pending debounced
// callbacks are cancelled. Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
	close(w.done)
	return w.fw.Close()
}

// ShouldIgnorePath reports whether any component of path is an ignored
// directory, or the file is an editor swap/backup file. Pass paths relative
// to the watched root so directories above it don't count.
func ShouldIgnorePath(path string) bool {
	base := filepath.Base(path)
	if strings.HasSuffix(base, ".swp") || strings.HasSuffix(base, "~") || base == ".DS_Store" {
		return true
	}
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if IgnoreDirs[part] {
			return true
		}
	}
	return false
}
