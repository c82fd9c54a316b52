// Package codelens decides which source lines are structurally significant
// for code folding and code lens display. It walks a parsed syntax tree
// through a narrow Cursor interface and has no dependency on any particular
// parser, so the adapters (tree-sitter) and the tests (synthetic trees) drive
// the same walk.
package codelens

import (
	"slices"
	"strings"
)

// Cursor is the traversal capability the classifier needs from a syntax tree.
// Implementations are exclusively owned by one Classify call at a time.
type Cursor interface {
	Kind() string
	StartLine() uint
	EndLine() uint
	GotoFirstChild() bool
	GotoNextSibling() bool
	GotoParent() bool
}

// NodeKindLists holds the per-language node kinds that drive classification.
// Expand lists the container kinds whose children are visited. Ignore lists
// kinds whose boundary lines are never marked.
type NodeKindLists struct {
	Expand []string
	Ignore []string
}

// Clone returns a deep copy so callers can't mutate shared tables.
func (l NodeKindLists) Clone() NodeKindLists {
	return NodeKindLists{
		Expand: slices.Clone(l.Expand),
		Ignore: slices.Clone(l.Ignore),
	}
}

// LineSet is a set of 0-based line indices.
type LineSet map[uint]struct{}

// Add inserts a line.
func (s LineSet) Add(line uint) { s[line] = struct{}{} }

// Has reports whether line is in the set.
func (s LineSet) Has(line uint) bool {
	_, ok := s[line]
	return ok
}

// Len returns the number of distinct lines.
func (s LineSet) Len() int { return len(s) }

// Sorted returns the lines in ascending order.
func (s LineSet) Sorted() []uint {
	lines := make([]uint, 0, len(s))
	for line := range s {
		lines = append(lines, line)
	}
	slices.Sort(lines)
	return lines
}

// NewLineSet builds a set from the given lines.
func NewLineSet(lines ...uint) LineSet {
	s := make(LineSet, len(lines))
	for _, line := range lines {
		s.Add(line)
	}
	return s
}

// Classify walks the tree below the cursor's current node in pre-order and
// returns its significant lines. A node marks its start and end lines unless
// its trimmed kind is empty or ignored; only nodes whose kind is in the
// expand list have their children visited. The cursor is returned to the
// node it started on.
func Classify(lists NodeKindLists, c Cursor) LineSet {
	lines := make(LineSet)
	ClassifyInto(lines, lists, c)
	return lines
}

// ClassifyInto is Classify accumulating into an existing set.
func ClassifyInto(lines LineSet, lists NodeKindLists, c Cursor) {
	expand := kindSet(lists.Expand)
	ignore := kindSet(lists.Ignore)

	// Iterative walk: depth counts how far below the starting node the cursor
	// is, so deep trees cost no Go stack and siblings of the start node are
	// never visited.
	depth := 0
	for {
		kind := strings.TrimSpace(c.Kind())
		if kind != "" && !ignore[kind] {
			lines.Add(c.StartLine())
			lines.Add(c.EndLine())
		}

		if expand[kind] && c.GotoFirstChild() {
			depth++
			continue
		}

		for {
			if depth == 0 {
				return
			}
			if c.GotoNextSibling() {
				break
			}
			c.GotoParent()
			depth--
		}
	}
}

func kindSet(kinds []string) map[string]bool {
	set := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		set[k] = true
	}
	return set
}
