//go:build lean

package treesitter

// Included only with -tags lean. No grammar packages are linked; GrammarOf
// resolves every language through the DynamicLoader (purego).
//
// Build with: go build -tags lean ./cmd/codelens/

import tree_sitter "github.com/tree-sitter/go-tree-sitter"

func builtinGrammars() map[Language]*tree_sitter.Language { return nil }
