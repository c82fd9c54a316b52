package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	fsw "github.com/corey/codelens/internal/adapters/fsnotify"
	"github.com/corey/codelens/internal/ports"
)

// maxFileSize bounds the input handed to the parser.
const maxFileSize = 1 << 20

// ScanResult holds statistics from a Scan.
type ScanResult struct {
	Files      int // supported files found
	Classified int // files (re)classified and saved
	Unchanged  int // files whose stored hash matched
	Skipped    int // too large or unreadable
	Removed    int // stale records deleted
	Lines      int // significant lines across classified files
}

// Scan walks the project, classifies every supported file whose content
// changed since the last scan, and deletes records of files that are gone.
func (a *App) Scan(ctx context.Context) (*ScanResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	files, err := a.discover(ctx)
	if err != nil {
		return nil, err
	}

	res := &ScanResult{Files: len(files)}
	seen := make(map[string]bool, len(files))

	for _, abs := range files {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		rel := a.relPath(abs)
		seen[rel] = true

		got, n, err := a.refreshLocked(abs, rel)
		if err != nil {
			return res, err
		}
		switch got {
		case outcomeClassified:
			res.Classified++
			res.Lines += n
		case outcomeUnchanged:
			res.Unchanged++
		case outcomeSkipped:
			res.Skipped++
		}
	}

	stored, err := a.Store.ListFiles(a.ProjectID)
	if err != nil {
		return res, fmt.Errorf("list stored files: %w", err)
	}
	for _, rel := range stored {
		if seen[rel] {
			continue
		}
		if err := a.Store.DeleteFile(a.ProjectID, rel); err != nil {
			return res, fmt.Errorf("delete %s: %w", rel, err)
		}
		res.Removed++
	}

	a.Logger.Info("scan complete",
		"files", res.Files, "classified", res.Classified, "unchanged", res.Unchanged,
		"skipped", res.Skipped, "removed", res.Removed)
	return res, nil
}

// Refresh reclassifies one file, or deletes its record if the file is gone.
// Unsupported files are ignored.
func (a *App) Refresh(absPath string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.Classifier.SupportsPath(absPath) {
		return nil
	}
	rel := a.relPath(absPath)

	if _, err := os.Stat(absPath); errors.Is(err, fs.ErrNotExist) {
		a.Logger.Debug("file removed", "path", rel)
		return a.Store.DeleteFile(a.ProjectID, rel)
	}

	got, n, err := a.refreshLocked(absPath, rel)
	if err != nil {
		return err
	}
	if got == outcomeClassified {
		a.Logger.Debug("file classified", "path", rel, "lines", n)
	}
	return nil
}

// Lookup returns the stored record for a path relative to the project root
// or absolute inside it.
func (a *App) Lookup(path string) (*ports.FileLines, error) {
	if filepath.IsAbs(path) {
		path = a.relPath(path)
	}
	return a.Store.LoadFile(a.ProjectID, filepath.ToSlash(path))
}

type outcome int

const (
	outcomeClassified outcome = iota
	outcomeUnchanged
	outcomeSkipped
)

func (a *App) refreshLocked(abs, rel string) (outcome, int, error) {
	info, err := os.Stat(abs)
	if err != nil {
		a.Logger.Warn("stat failed", "path", rel, "err", err)
		return a.skip(rel)
	}
	if info.Size() > maxFileSize {
		a.Logger.Debug("file too large", "path", rel, "size", info.Size())
		return a.skip(rel)
	}
	source, err := os.ReadFile(abs)
	if err != nil {
		a.Logger.Warn("read failed", "path", rel, "err", err)
		return a.skip(rel)
	}

	sum := sha256.Sum256(source)
	hash := hex.EncodeToString(sum[:])
	prev, err := a.Store.LoadFile(a.ProjectID, rel)
	switch {
	case err == nil && prev.Hash == hash:
		return outcomeUnchanged, 0, nil
	case err != nil && !errors.Is(err, ports.ErrNotFound):
		// Unreadable record: reclassify and overwrite it.
		a.Logger.Warn("stored record unreadable", "path", rel, "err", err)
	}

	language, lines, err := a.Classifier.ClassifyFile(abs, source)
	if errors.Is(err, ports.ErrUnsupportedLanguage) {
		return a.skip(rel)
	}
	if err != nil {
		a.Logger.Warn("classify failed", "path", rel, "err", err)
		return a.skip(rel)
	}

	rec := &ports.FileLines{
		Path:     rel,
		Language: language,
		Lines:    lines,
		Hash:     hash,
		Updated:  a.now().Unix(),
	}
	if err := a.Store.SaveFile(a.ProjectID, rec); err != nil {
		return 0, 0, fmt.Errorf("save %s: %w", rel, err)
	}
	return outcomeClassified, len(lines), nil
}

// skip drops any record of a file that can no longer be classified, so
// lookups never serve lines from an older version of it.
func (a *App) skip(rel string) (outcome, int, error) {
	if err := a.Store.DeleteFile(a.ProjectID, rel); err != nil {
		return 0, 0, fmt.Errorf("delete %s: %w", rel, err)
	}
	return outcomeSkipped, 0, nil
}

// discover returns the absolute paths of supported files, sorted.
func (a *App) discover(ctx context.Context) ([]string, error) {
	root := a.Paths.ProjectRoot
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && fsw.IgnoreDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && a.Classifier.SupportsPath(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// relPath converts an absolute path into the slash-separated store key.
func (a *App) relPath(abs string) string {
	rel, err := filepath.Rel(a.Paths.ProjectRoot, abs)
	if err != nil {
		return filepath.ToSlash(abs)
	}
	return filepath.ToSlash(rel)
}
