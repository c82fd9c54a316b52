//go:build !lean

package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const rustSource = "use std::fmt;\n\nimpl Foo {\n    fn a() {}\n\n}\n"

func TestLines_Text(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "foo.rs", rustSource)

	out, err := run(t, "lines", path, "--root", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "(rust) │ 3 lines")
	assert.Contains(t, out, "   3: impl Foo {\n")
	assert.Contains(t, out, "   4:     fn a() {}\n")
	assert.Contains(t, out, "   6: }\n")
}

func TestLines_JSON(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "foo.rs", rustSource)

	out, err := run(t, "lines", path, "--json", "--root", dir)
	require.NoError(t, err)

	var got linesResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "rust", got.Language)
	assert.Equal(t, []uint{2, 3, 5}, got.Lines)
}

func TestLines_Match(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "foo.rs", rustSource)

	out, err := run(t, "lines", path, "--json", "--match", "IMPL,fn ", "-i", "--root", dir)
	require.NoError(t, err)

	var got linesResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []uint{2, 3}, got.Lines)
}

func TestLines_Unsupported(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "notes.md", "# hi\n")

	_, err := run(t, "lines", path, "--root", dir)
	assert.ErrorContains(t, err, "no supported language")
}

func TestHighlight_JSON(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "main.go", "package main\n\nfunc main() {}\n")

	out, err := run(t, "highlight", path, "--json", "--root", dir)
	require.NoError(t, err)

	var spans []highlightSpan
	require.NoError(t, json.Unmarshal([]byte(out), &spans))
	require.NotEmpty(t, spans)
	for i := 1; i < len(spans); i++ {
		assert.LessOrEqual(t, spans[i-1].StartByte, spans[i].StartByte)
	}

	var sawKeyword bool
	for _, s := range spans {
		if s.Group == "keyword" {
			sawKeyword = true
		}
	}
	assert.True(t, sawKeyword)
}

func TestScanAndShow(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "lib.rs", rustSource)
	writeSource(t, dir, "README.md", "# readme\n")

	out, err := run(t, "scan", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "│ 1 files")
	assert.Contains(t, out, "Classified:  1 (3 lines)")

	out, err = run(t, "show", filepath.Join(dir, "lib.rs"), "--root", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "lib.rs (rust)")
	assert.Contains(t, out, "Lines:    [3 4 6]")

	out, err = run(t, "scan", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Unchanged:   1")
}

func TestShow_NotScanned(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "lib.rs", rustSource)

	_, err := run(t, "show", path, "--root", dir)
	assert.ErrorContains(t, err, "not scanned")
}

func TestGrammarList_Builtin(t *testing.T) {
	out, err := run(t, "grammar", "list", "--root", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "7 languages")
	assert.Contains(t, out, "builtin")
	assert.NotContains(t, out, "missing")
}
