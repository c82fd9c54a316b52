package treesitter

// This file is the language registry: one table entry per supported language
// holding its extension, grammar name, highlight query and the node-kind lists
// used for fold-line classification.
//
// To add a language:
// 1. go get github.com/{org}/tree-sitter-{lang}@latest
// 2. Add a Language constant and a registry entry below
// 3. Add the grammar to builtinGrammars() in grammars_builtin.go
// 4. Add queries/{name}.scm

import (
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/corey/codelens/internal/domain/codelens"
)

// Language identifies one of the supported source languages.
type Language uint8

const (
	Rust Language = iota + 1
	Go
	JavaScript
	JSX
	TypeScript
	TSX
	Python
)

// languageSpec is one row of the registry.
type languageSpec struct {
	name    string // stable lowercase name
	ext     string // file extension including the dot
	grammar string // grammar shared library / C symbol base name
	query   string // highlight query file under queries/
	lists   codelens.NodeKindLists
}

var (
	defaultLists = codelens.NodeKindLists{
		Expand: []string{"source_file"},
		Ignore: []string{"source_file"},
	}
	rustLists = codelens.NodeKindLists{
		Expand: []string{"source_file", "impl_item", "trait_item", "declaration_list"},
		Ignore: []string{"source_file", "use_declaration", "line_comment"},
	}
	goLists = codelens.NodeKindLists{
		Expand: []string{"source_file", "type_declaration", "type_spec", "interface_type", "method_spec_list"},
		Ignore: []string{"source_file", "comment", "line_comment"},
	}
)

var registry = map[Language]languageSpec{
	Rust:       {name: "rust", ext: ".rs", grammar: "rust", query: "rust", lists: rustLists},
	Go:         {name: "go", ext: ".go", grammar: "go", query: "go", lists: goLists},
	JavaScript: {name: "javascript", ext: ".js", grammar: "javascript", query: "javascript", lists: defaultLists},
	JSX:        {name: "jsx", ext: ".jsx", grammar: "javascript", query: "jsx", lists: defaultLists},
	TypeScript: {name: "typescript", ext: ".ts", grammar: "typescript", query: "typescript", lists: defaultLists},
	TSX:        {name: "tsx", ext: ".tsx", grammar: "tsx", query: "typescript", lists: defaultLists},
	Python:     {name: "python", ext: ".py", grammar: "python", query: "python", lists: defaultLists},
}

// extToLang is derived from registry so the two can't drift apart.
var extToLang = func() map[string]Language {
	m := make(map[string]Language, len(registry))
	for lang, spec := range registry {
		m[spec.ext] = lang
	}
	return m
}()

// spec returns the registry row for lang. An unknown tag is a programming
// error, not an input error.
func (l Language) spec() languageSpec {
	s, ok := registry[l]
	if !ok {
		panic(fmt.Sprintf("treesitter: unknown language tag %d", uint8(l)))
	}
	return s
}

// String returns the lowercase language name.
func (l Language) String() string {
	if s, ok := registry[l]; ok {
		return s.name
	}
	return fmt.Sprintf("Language(%d)", uint8(l))
}

// Extension returns the file extension (with leading dot) for the language.
func (l Language) Extension() string {
	return l.spec().ext
}

// Languages returns every supported language in tag order.
func Languages() []Language {
	langs := make([]Language, 0, len(registry))
	for lang := range registry {
		langs = append(langs, lang)
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })
	return langs
}

// LanguageByName looks a language up by its String() name.
func LanguageByName(name string) (Language, bool) {
	for lang, spec := range registry {
		if spec.name == name {
			return lang, true
		}
	}
	return 0, false
}

// Identify maps a path's extension to a language. Only the final path element
// is considered and matching is exact (".RS" is not Rust). Files without an
// extension, dotfiles such as ".go", and unknown extensions report false.
func Identify(path string) (Language, bool) {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext == "" || ext == base {
		return 0, false
	}
	lang, ok := extToLang[ext]
	return lang, ok
}

// LineListsOf returns a copy of the node-kind lists that drive fold-line
// classification for lang. Languages without tuned lists share the default
// pair, which expands and ignores only the source_file root.
func LineListsOf(lang Language) codelens.NodeKindLists {
	return lang.spec().lists.Clone()
}

// HighlightQueryOf returns the highlight query text for lang.
func HighlightQueryOf(lang Language) string {
	q, err := queryFS.ReadFile("queries/" + lang.spec().query + ".scm")
	if err != nil {
		panic(fmt.Sprintf("treesitter: highlight query for %s missing: %v", lang, err))
	}
	return string(q)
}

var (
	grammarsOnce sync.Once
	grammars     map[Language]*tree_sitter.Language

	loaderMu sync.RWMutex
	loader   *DynamicLoader
)

// SetGrammarPaths enables loading grammars from shared libraries in the given
// directories. Compiled-in grammars still take precedence; in lean builds
// (-tags lean) this is the only grammar source.
func SetGrammarPaths(paths []string) {
	loaderMu.Lock()
	defer loaderMu.Unlock()
	loader = NewDynamicLoader(paths)
}

// Loader returns the dynamic grammar loader, or nil if not configured.
func Loader() *DynamicLoader {
	loaderMu.RLock()
	defer loaderMu.RUnlock()
	return loader
}

// GrammarOf returns the tree-sitter grammar for lang. A language with no
// obtainable grammar means the registry and the build are inconsistent, so
// this panics rather than returning an error.
func GrammarOf(lang Language) *tree_sitter.Language {
	s := lang.spec()

	grammarsOnce.Do(func() {
		grammars = builtinGrammars()
	})
	if g, ok := grammars[lang]; ok {
		return g
	}

	if dl := Loader(); dl != nil {
		g, err := dl.LoadGrammar(s.grammar)
		if err != nil {
			panic(fmt.Sprintf("treesitter: grammar for %s: %v", lang, err))
		}
		return g
	}
	panic(fmt.Sprintf("treesitter: no grammar for %s (not compiled in and no grammar paths configured)", lang))
}

// HasGrammar reports whether GrammarOf(lang) would succeed without panicking.
func HasGrammar(lang Language) bool {
	return GrammarSource(lang) != ""
}

// GrammarSource reports where lang's grammar comes from: "builtin", the
// shared library path, or "" if none is available.
func GrammarSource(lang Language) string {
	s, ok := registry[lang]
	if !ok {
		return ""
	}
	grammarsOnce.Do(func() {
		grammars = builtinGrammars()
	})
	if _, ok := grammars[lang]; ok {
		return "builtin"
	}
	if dl := Loader(); dl != nil {
		return dl.GrammarPath(s.grammar)
	}
	return ""
}
