package treesitter

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSymbolName(t *testing.T) {
	assert.Equal(t, "tree_sitter_rust", CSymbolName("rust"))
	assert.Equal(t, "tree_sitter_tsx", CSymbolName("tsx"))
	assert.Equal(t, "tree_sitter_c_sharp", CSymbolName("c-sharp"))
}

func TestSOBaseName(t *testing.T) {
	assert.Equal(t, "typescript", SOBaseName("tsx"))
	assert.Equal(t, "typescript", SOBaseName("typescript"))
	assert.Equal(t, "go", SOBaseName("go"))
}

func TestDefaultGrammarPaths(t *testing.T) {
	extra := t.TempDir()
	t.Setenv(GrammarPathEnv, extra+string(os.PathListSeparator))

	paths := DefaultGrammarPaths("/proj")
	require.GreaterOrEqual(t, len(paths), 2)
	assert.Equal(t, extra, paths[0])
	assert.Equal(t, filepath.Join("/proj", ".codelens", "grammars"), paths[1])
}

func TestDefaultGrammarPaths_NoProject(t *testing.T) {
	t.Setenv(GrammarPathEnv, "")
	for _, p := range DefaultGrammarPaths("") {
		assert.NotContains(t, p, "/proj")
	}
}

func TestDynamicLoader_MissingGrammar(t *testing.T) {
	dl := NewDynamicLoader([]string{t.TempDir()})
	_, err := dl.LoadGrammar("rust")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.Empty(t, dl.GrammarPath("rust"))
}

func TestDynamicLoader_GrammarPathOrder(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	name := "typescript" + LibExtension()
	require.NoError(t, os.WriteFile(filepath.Join(first, name), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(second, name), nil, 0644))

	dl := NewDynamicLoader([]string{first, second})
	assert.Equal(t, filepath.Join(first, name), dl.GrammarPath("tsx"))
	assert.Equal(t, []string{first, second}, dl.SearchPaths())
}

func TestDynamicLoader_InstalledGrammars(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	ext := LibExtension()
	require.NoError(t, os.WriteFile(filepath.Join(first, "go"+ext), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(first, "notes.txt"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(second, "go"+ext), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(second, "rust"+ext), nil, 0644))
	require.NoError(t, os.Mkdir(filepath.Join(second, "sub"+ext), 0755))

	dl := NewDynamicLoader([]string{first, second, filepath.Join(first, "missing")})
	got := dl.InstalledGrammars()
	sort.Strings(got)
	assert.Equal(t, []string{"go", "rust"}, got)
}
