package ports

import "errors"

// ErrUnsupportedLanguage is returned when a path's extension maps to no
// supported language. It is an expected outcome: callers skip the file.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// LineClassifier computes the structurally significant lines of a source file.
// The concrete implementation (tree-sitter) lives in internal/adapters/treesitter.
type LineClassifier interface {
	// ClassifyFile identifies the language from path, parses source and
	// returns the language name with the significant 0-based line indices in
	// ascending order. Returns ErrUnsupportedLanguage for unknown extensions.
	ClassifyFile(path string, source []byte) (language string, lines []uint, err error)

	// SupportsPath reports whether ClassifyFile can handle the path.
	SupportsPath(path string) bool
}
