// Package ahocorasick filters source lines by a set of substrings using an
// Aho-Corasick automaton, so any number of patterns costs one pass per line.
package ahocorasick

import (
	"strings"

	aho "github.com/petar-dambovaliev/aho-corasick"
)

// LineFilter keeps lines that contain at least one of its patterns.
type LineFilter struct {
	automaton aho.AhoCorasick
	patterns  []string
}

// NewLineFilter compiles patterns. Empty patterns are dropped; a filter with
// no patterns keeps every line. ignoreCase folds ASCII letters only.
func NewLineFilter(patterns []string, ignoreCase bool) *LineFilter {
	var p []string
	for _, s := range patterns {
		if s != "" {
			p = append(p, s)
		}
	}
	f := &LineFilter{patterns: p}
	if len(p) > 0 {
		builder := aho.NewAhoCorasickBuilder(aho.Opts{
			AsciiCaseInsensitive: ignoreCase,
			MatchKind:            aho.LeftMostLongestMatch,
			DFA:                  true,
		})
		f.automaton = builder.Build(p)
	}
	return f
}

// Empty reports whether the filter has no patterns.
func (f *LineFilter) Empty() bool {
	return len(f.patterns) == 0
}

// Match returns the distinct patterns found in text, in first-seen order.
func (f *LineFilter) Match(text string) []string {
	if f.Empty() {
		return nil
	}
	matches := f.automaton.FindAll(text)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[int]bool, len(matches))
	var result []string
	for _, m := range matches {
		if !seen[m.Pattern()] {
			seen[m.Pattern()] = true
			result = append(result, f.patterns[m.Pattern()])
		}
	}
	return result
}

// Keep reports whether text contains any pattern.
func (f *LineFilter) Keep(text string) bool {
	return f.Empty() || len(f.Match(text)) > 0
}

// Lines returns the subset of lines (0-based indices into source's lines)
// whose text matches. Indices past the end of source are dropped.
func (f *LineFilter) Lines(source []byte, lines []uint) []uint {
	if f.Empty() {
		return lines
	}
	text := strings.Split(string(source), "\n")
	var kept []uint
	for _, l := range lines {
		if int(l) < len(text) && f.Keep(text[l]) {
			kept = append(kept, l)
		}
	}
	return kept
}
