package app

import (
	"os"
	"path/filepath"
)

// DirName is the per-project state directory.
const DirName = ".codelens"

// Paths holds all resolved filesystem paths for a project's .codelens/ directory.
type Paths struct {
	ProjectRoot string

	Root        string // .codelens/
	DB          string // .codelens/codelens.db
	LogDir      string // .codelens/log/
	WatchLog    string // .codelens/log/watch.log
	GrammarsDir string // .codelens/grammars/
}

// NewPaths resolves all paths from a project root directory.
func NewPaths(projectRoot string) *Paths {
	root := filepath.Join(projectRoot, DirName)
	return &Paths{
		ProjectRoot: projectRoot,

		Root:        root,
		DB:          filepath.Join(root, "codelens.db"),
		LogDir:      filepath.Join(root, "log"),
		WatchLog:    filepath.Join(root, "log", "watch.log"),
		GrammarsDir: filepath.Join(root, "grammars"),
	}
}

// ProjectID is the store namespace for the project: its directory name.
func (p *Paths) ProjectID() string {
	return filepath.Base(p.ProjectRoot)
}

// EnsureDirs creates all subdirectories under .codelens/. Idempotent.
func (p *Paths) EnsureDirs() error {
	for _, d := range []string{p.Root, p.LogDir, p.GrammarsDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}
	return nil
}
