// Package app wires the classifier, store and watcher together for a project:
// scanning a tree into per-file significant-line records and keeping them
// fresh as files change.
package app

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/corey/codelens/internal/adapters/bbolt"
	fsw "github.com/corey/codelens/internal/adapters/fsnotify"
	"github.com/corey/codelens/internal/ports"
)

// Config holds the inputs needed to construct an App.
type Config struct {
	ProjectRoot string
	Classifier  ports.LineClassifier
	Logger      *slog.Logger // nil means slog.Default()
}

// App is the top-level container for one project.
type App struct {
	Paths     *Paths
	ProjectID string

	Classifier ports.LineClassifier
	Store      ports.LensStore
	Logger     *slog.Logger

	closeStore func() error
	now        func() time.Time
	mu         sync.Mutex // serializes Scan and Refresh
}

// New opens the project's store and returns a ready App.
func New(cfg Config) (*App, error) {
	root, err := filepath.Abs(cfg.ProjectRoot)
	if err != nil {
		return nil, err
	}
	if cfg.Classifier == nil {
		return nil, fmt.Errorf("app: nil classifier")
	}

	paths := NewPaths(root)
	if err := paths.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("create %s: %w", paths.Root, err)
	}
	store, err := bbolt.NewStore(paths.DB)
	if err != nil {
		return nil, err
	}

	a := NewWithStore(paths, cfg.Classifier, store, cfg.Logger)
	a.closeStore = store.Close
	return a, nil
}

// NewWithStore builds an App around an existing store. The caller keeps
// ownership of the store.
func NewWithStore(paths *Paths, classifier ports.LineClassifier, store ports.LensStore, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		Paths:      paths,
		ProjectID:  paths.ProjectID(),
		Classifier: classifier,
		Store:      store,
		Logger:     logger.With("project", paths.ProjectID()),
		now:        time.Now,
	}
}

// Close releases the store if App opened it.
func (a *App) Close() error {
	if a.closeStore != nil {
		return a.closeStore()
	}
	return nil
}

// NewWatcher returns a watcher that reports only files the classifier supports.
func (a *App) NewWatcher() (ports.Watcher, error) {
	w, err := fsw.NewWatcher(a.Classifier.SupportsPath)
	if err != nil {
		return nil, err
	}
	return w, nil
}
