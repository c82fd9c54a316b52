package treesitter

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

//go:embed queries/*.scm
var queryFS embed.FS

// HighlightSpan is one captured byte range of the source.
type HighlightSpan struct {
	StartByte uint
	EndByte   uint
	StartLine uint
	Capture   string // raw capture name, e.g. "function.method"
	Highlight int    // index into the names passed to Configure, -1 if unrecognized
}

// HighlightConfiguration bundles a grammar with its compiled highlight query.
// It is what a highlighter consumes; build one per language and reuse it.
type HighlightConfiguration struct {
	Language Language
	Query    *tree_sitter.Query

	captureNames []string
	highlights   []int // capture index -> recognized name index, -1 if none
}

// NewHighlightConfig builds the highlight configuration for lang from its
// grammar and shipped query. Query text is static data, so a query that fails
// to compile panics instead of silently disabling highlighting.
func NewHighlightConfig(lang Language) *HighlightConfiguration {
	cfg, err := NewHighlightConfiguration(lang, GrammarOf(lang), HighlightQueryOf(lang))
	if err != nil {
		panic(fmt.Sprintf("treesitter: highlight config for %s: %v", lang, err))
	}
	return cfg
}

// NewHighlightConfiguration compiles query against grammar.
func NewHighlightConfiguration(lang Language, grammar *tree_sitter.Language, query string) (*HighlightConfiguration, error) {
	q, qerr := tree_sitter.NewQuery(grammar, query)
	if qerr != nil {
		return nil, fmt.Errorf("compile highlight query: %s", qerr.Error())
	}

	names := q.CaptureNames()
	highlights := make([]int, len(names))
	for i := range highlights {
		highlights[i] = -1
	}
	return &HighlightConfiguration{
		Language:     lang,
		Query:        q,
		captureNames: names,
		highlights:   highlights,
	}, nil
}

// CaptureNames returns the capture names used by the query.
func (c *HighlightConfiguration) CaptureNames() []string {
	return c.captureNames
}

// Configure maps the query's captures onto the caller's highlight names.
// A capture matches the recognized name that is its longest dotted prefix:
// with names ["function", "function.method"], the capture "function.method"
// maps to "function.method" and "function.call" maps to "function".
func (c *HighlightConfiguration) Configure(recognized []string) {
	for i, capture := range c.captureNames {
		c.highlights[i] = bestHighlight(capture, recognized)
	}
}

func bestHighlight(capture string, recognized []string) int {
	parts := strings.Split(capture, ".")
	best, bestLen := -1, 0
	for i, name := range recognized {
		rparts := strings.Split(name, ".")
		if len(rparts) > len(parts) || len(rparts) <= bestLen {
			continue
		}
		match := true
		for j, p := range rparts {
			if parts[j] != p {
				match = false
				break
			}
		}
		if match {
			best, bestLen = i, len(rparts)
		}
	}
	return best
}

// Highlight runs the query over tree and returns the captured spans ordered
// by start byte.
func (c *HighlightConfiguration) Highlight(tree *tree_sitter.Tree, source []byte) []HighlightSpan {
	qc := tree_sitter.NewQueryCursor()
	defer qc.Close()

	var spans []HighlightSpan
	captures := qc.Captures(c.Query, tree.RootNode(), source)
	for {
		match, idx := captures.Next()
		if match == nil {
			break
		}
		capture := match.Captures[idx]
		ci := int(capture.Index)
		spans = append(spans, HighlightSpan{
			StartByte: capture.Node.StartByte(),
			EndByte:   capture.Node.EndByte(),
			StartLine: capture.Node.StartPosition().Row,
			Capture:   c.captureNames[ci],
			Highlight: c.highlights[ci],
		})
	}
	sort.SliceStable(spans, func(i, j int) bool {
		return spans[i].StartByte < spans[j].StartByte
	})
	return spans
}

// Close releases the compiled query.
func (c *HighlightConfiguration) Close() {
	if c.Query != nil {
		c.Query.Close()
		c.Query = nil
	}
}
