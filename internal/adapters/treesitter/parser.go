// Package treesitter binds the codelens core to tree-sitter: the language
// registry (extension, grammar, highlight query, node-kind lists), parser and
// highlight-config construction, and a cursor adapter so codelens.Classify can
// walk real syntax trees.
//
// Grammars for Rust, Go, JavaScript/JSX, TypeScript/TSX and Python are
// compiled in via CGo. Building with -tags lean drops them in favor of runtime
// .so/.dylib loading via purego.
package treesitter

import (
	"fmt"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/corey/codelens/internal/domain/codelens"
	"github.com/corey/codelens/internal/ports"
)

// NewParser returns a fresh parser bound to lang's grammar. The caller owns
// it and must Close it. A grammar the runtime refuses (ABI mismatch) is a
// build inconsistency and panics.
func NewParser(lang Language) *tree_sitter.Parser {
	parser := tree_sitter.NewParser()
	if err := parser.SetLanguage(GrammarOf(lang)); err != nil {
		parser.Close()
		panic(fmt.Sprintf("treesitter: bind %s grammar: %v", lang, err))
	}
	return parser
}

// Parse parses source as lang. The caller must Close the tree.
func Parse(lang Language, source []byte) *tree_sitter.Tree {
	parser := NewParser(lang)
	defer parser.Close()
	return parser.Parse(source, nil)
}

// treeCursor adapts a tree-sitter cursor to codelens.Cursor.
type treeCursor struct {
	c *tree_sitter.TreeCursor
}

func (t treeCursor) Kind() string          { return t.c.Node().Kind() }
func (t treeCursor) StartLine() uint       { return t.c.Node().StartPosition().Row }
func (t treeCursor) EndLine() uint         { return t.c.Node().EndPosition().Row }
func (t treeCursor) GotoFirstChild() bool  { return t.c.GotoFirstChild() }
func (t treeCursor) GotoNextSibling() bool { return t.c.GotoNextSibling() }
func (t treeCursor) GotoParent() bool      { return t.c.GotoParent() }

// Classify returns the significant lines of the subtree at cursor using
// lang's node-kind lists. The cursor is left on the node it started on.
func Classify(lang Language, cursor *tree_sitter.TreeCursor) codelens.LineSet {
	return codelens.Classify(lang.spec().lists, treeCursor{c: cursor})
}

// ClassifyTree classifies a whole tree from its root.
func ClassifyTree(lang Language, tree *tree_sitter.Tree) codelens.LineSet {
	cursor := tree.Walk()
	defer cursor.Close()
	return Classify(lang, cursor)
}

// SignificantLines identifies, parses and classifies one file. Unknown
// extensions return ports.ErrUnsupportedLanguage. Empty sources are parsed
// like any other, so the result always equals ClassifyTree on the same tree.
func SignificantLines(path string, source []byte) (Language, codelens.LineSet, error) {
	lang, ok := Identify(path)
	if !ok {
		return 0, nil, fmt.Errorf("%s: %w", path, ports.ErrUnsupportedLanguage)
	}
	tree := Parse(lang, source)
	if tree == nil {
		return lang, nil, fmt.Errorf("%s: parse returned no tree", path)
	}
	defer tree.Close()
	return lang, ClassifyTree(lang, tree), nil
}

// Classifier implements ports.LineClassifier on top of the registry.
type Classifier struct{}

// NewClassifier returns a classifier. If grammarPaths is non-empty, grammars
// missing from the binary are loaded from shared libraries found there.
func NewClassifier(grammarPaths []string) *Classifier {
	if len(grammarPaths) > 0 {
		SetGrammarPaths(grammarPaths)
	}
	return &Classifier{}
}

// ClassifyFile implements ports.LineClassifier.
func (c *Classifier) ClassifyFile(path string, source []byte) (string, []uint, error) {
	lang, lines, err := SignificantLines(path, source)
	if err != nil {
		return "", nil, err
	}
	return lang.String(), lines.Sorted(), nil
}

// SupportsPath reports whether the path has a recognized extension and a
// grammar is available for it.
func (c *Classifier) SupportsPath(path string) bool {
	lang, ok := Identify(path)
	return ok && HasGrammar(lang)
}
