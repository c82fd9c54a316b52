package treesitter

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// GrammarPathEnv lists extra grammar directories, searched before the defaults.
const GrammarPathEnv = "CODELENS_GRAMMAR_PATH"

// DynamicLoader loads tree-sitter grammars from shared libraries (.so on Linux,
// .dylib on macOS) using purego. Loaded grammars are cached by name.
type DynamicLoader struct {
	searchPaths []string
	mu          sync.Mutex
	loaded      map[string]*tree_sitter.Language
	handles     []uintptr
}

// NewDynamicLoader creates a loader that searches paths in order; first match wins.
func NewDynamicLoader(searchPaths []string) *DynamicLoader {
	return &DynamicLoader{
		searchPaths: searchPaths,
		loaded:      make(map[string]*tree_sitter.Language),
	}
}

// DefaultGrammarPaths returns the grammar search paths: directories from
// CODELENS_GRAMMAR_PATH, then project-local .codelens/grammars/, then
// ~/.codelens/grammars/.
func DefaultGrammarPaths(projectRoot string) []string {
	var paths []string
	if env := os.Getenv(GrammarPathEnv); env != "" {
		for _, p := range filepath.SplitList(env) {
			if p != "" {
				paths = append(paths, p)
			}
		}
	}
	if projectRoot != "" {
		paths = append(paths, filepath.Join(projectRoot, ".codelens", "grammars"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".codelens", "grammars"))
	}
	return paths
}

// LibExtension returns the shared library extension for the current platform.
func LibExtension() string {
	if runtime.GOOS == "darwin" {
		return ".dylib"
	}
	return ".so"
}

// CSymbolName returns the exported C function of a grammar library,
// e.g. tree_sitter_rust.
func CSymbolName(grammar string) string {
	return "tree_sitter_" + strings.ReplaceAll(grammar, "-", "_")
}

// soFileOverrides maps grammars that live in another grammar's library.
// tree-sitter-typescript ships both typescript and tsx in one .so.
var soFileOverrides = map[string]string{
	"tsx": "typescript",
}

// SOBaseName returns the shared library base name for a grammar.
func SOBaseName(grammar string) string {
	if base, ok := soFileOverrides[grammar]; ok {
		return base
	}
	return grammar
}

// LoadGrammar loads a grammar by name from the first search path holding it.
func (dl *DynamicLoader) LoadGrammar(grammar string) (*tree_sitter.Language, error) {
	dl.mu.Lock()
	defer dl.mu.Unlock()

	if cached, ok := dl.loaded[grammar]; ok {
		return cached, nil
	}

	soPath := dl.grammarPath(grammar)
	if soPath == "" {
		return nil, fmt.Errorf("grammar %q: shared library not found in %s", grammar, strings.Join(dl.searchPaths, string(os.PathListSeparator)))
	}

	handle, err := purego.Dlopen(soPath, purego.RTLD_NOW|purego.RTLD_LOCAL)
	if err != nil {
		return nil, fmt.Errorf("grammar %q: dlopen %s: %w", grammar, soPath, err)
	}
	dl.handles = append(dl.handles, handle)

	symName := CSymbolName(grammar)
	sym, err := purego.Dlsym(handle, symName)
	if err != nil {
		return nil, fmt.Errorf("grammar %q: %s: %w", grammar, symName, err)
	}

	var langFunc func() uintptr
	purego.RegisterFunc(&langFunc, sym)
	ptr := langFunc()
	if ptr == 0 {
		return nil, fmt.Errorf("grammar %q: %s() returned null", grammar, symName)
	}

	// ptr is a static TSLanguage* inside the library, never moved by the GC.
	language := tree_sitter.NewLanguage(*(*unsafe.Pointer)(unsafe.Pointer(&ptr)))
	dl.loaded[grammar] = language
	return language, nil
}

// GrammarPath returns the library path for a grammar, or "" if not found.
func (dl *DynamicLoader) GrammarPath(grammar string) string {
	return dl.grammarPath(grammar)
}

func (dl *DynamicLoader) grammarPath(grammar string) string {
	name := SOBaseName(grammar) + LibExtension()
	for _, dir := range dl.searchPaths {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// InstalledGrammars returns the grammar names found in the search paths.
func (dl *DynamicLoader) InstalledGrammars() []string {
	ext := LibExtension()
	seen := make(map[string]bool)
	var names []string
	for _, dir := range dl.searchPaths {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
				continue
			}
			name := strings.TrimSuffix(e.Name(), ext)
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

// SearchPaths returns the configured search paths.
func (dl *DynamicLoader) SearchPaths() []string {
	return dl.searchPaths
}
