package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaths(t *testing.T) {
	p := NewPaths("/project")
	assert.Equal(t, "/project", p.ProjectRoot)
	assert.Equal(t, filepath.Join("/project", ".codelens"), p.Root)
	assert.Equal(t, filepath.Join("/project", ".codelens", "codelens.db"), p.DB)
	assert.Equal(t, filepath.Join("/project", ".codelens", "log"), p.LogDir)
	assert.Equal(t, filepath.Join("/project", ".codelens", "log", "watch.log"), p.WatchLog)
	assert.Equal(t, filepath.Join("/project", ".codelens", "grammars"), p.GrammarsDir)
	assert.Equal(t, "project", p.ProjectID())
}

func TestEnsureDirs(t *testing.T) {
	p := NewPaths(t.TempDir())

	require.NoError(t, p.EnsureDirs())
	for _, d := range []string{p.Root, p.LogDir, p.GrammarsDir} {
		info, err := os.Stat(d)
		require.NoError(t, err, "dir %s should exist", d)
		assert.True(t, info.IsDir())
	}
	require.NoError(t, p.EnsureDirs())
}
