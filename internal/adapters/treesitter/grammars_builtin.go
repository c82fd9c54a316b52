//go:build !lean

package treesitter

// Compiled-in grammars. Excluded with -tags lean, which produces a binary that
// loads every grammar from .so/.dylib files via the DynamicLoader.

import (
	"unsafe"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	ts_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	ts_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	ts_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	ts_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	ts_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// langPtr wraps a Language() call that returns unsafe.Pointer.
func langPtr(p unsafe.Pointer) *tree_sitter.Language {
	return tree_sitter.NewLanguage(p)
}

func builtinGrammars() map[Language]*tree_sitter.Language {
	javascript := langPtr(ts_javascript.Language())
	return map[Language]*tree_sitter.Language{
		Rust:       langPtr(ts_rust.Language()),
		Go:         langPtr(ts_go.Language()),
		JavaScript: javascript,
		JSX:        javascript,
		TypeScript: langPtr(ts_typescript.LanguageTypescript()),
		TSX:        langPtr(ts_typescript.LanguageTSX()),
		Python:     langPtr(ts_python.Language()),
	}
}
