package bbolt

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/codelens/internal/ports"
)

// newTestStore creates a temporary bbolt store for testing.
func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	store, err := NewStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, path
}

func sampleRecord(path string) *ports.FileLines {
	return &ports.FileLines{
		Path:     path,
		Language: "rust",
		Lines:    []uint{2, 3, 5, 130, 100000},
		Hash:     "abc123",
		Updated:  1760000000,
	}
}

func TestStore_SaveLoadFile(t *testing.T) {
	store, _ := newTestStore(t)

	want := sampleRecord("src/lib.rs")
	require.NoError(t, store.SaveFile("proj", want))

	got, err := store.LoadFile("proj", "src/lib.rs")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestStore_EmptyLines(t *testing.T) {
	store, _ := newTestStore(t)

	rec := &ports.FileLines{Path: "only_imports.go", Language: "go", Lines: nil, Hash: "h"}
	require.NoError(t, store.SaveFile("proj", rec))

	got, err := store.LoadFile("proj", "only_imports.go")
	require.NoError(t, err)
	assert.Empty(t, got.Lines)
	assert.Equal(t, "go", got.Language)
}

func TestStore_Overwrite(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.SaveFile("proj", sampleRecord("a.go")))
	updated := &ports.FileLines{Path: "a.go", Language: "go", Lines: []uint{7}, Hash: "new"}
	require.NoError(t, store.SaveFile("proj", updated))

	got, err := store.LoadFile("proj", "a.go")
	require.NoError(t, err)
	assert.Equal(t, []uint{7}, got.Lines)
	assert.Equal(t, "new", got.Hash)
}

func TestStore_LoadMissing(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.LoadFile("proj", "nope.go")
	assert.ErrorIs(t, err, ports.ErrNotFound)

	require.NoError(t, store.SaveFile("proj", sampleRecord("a.rs")))
	_, err = store.LoadFile("proj", "b.rs")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestStore_RejectsInvalidRecords(t *testing.T) {
	store, _ := newTestStore(t)

	assert.Error(t, store.SaveFile("proj", nil))
	assert.Error(t, store.SaveFile("proj", &ports.FileLines{}))
	assert.Error(t, store.SaveFile("proj", &ports.FileLines{Path: "x.go", Lines: []uint{3, 3}}))
	assert.Error(t, store.SaveFile("proj", &ports.FileLines{Path: "x.go", Lines: []uint{5, 1}}))
}

func TestStore_ListAndDeleteFile(t *testing.T) {
	store, _ := newTestStore(t)

	for _, p := range []string{"b.go", "a.go", "dir/c.py"} {
		require.NoError(t, store.SaveFile("proj", sampleRecord(p)))
	}
	paths, err := store.ListFiles("proj")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.go", "b.go", "dir/c.py"}, paths)

	require.NoError(t, store.DeleteFile("proj", "b.go"))
	require.NoError(t, store.DeleteFile("proj", "b.go"), "deleting twice is fine")
	require.NoError(t, store.DeleteFile("other", "b.go"), "unknown project is fine")

	paths, err = store.ListFiles("proj")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.go", "dir/c.py"}, paths)

	paths, err = store.ListFiles("other")
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestStore_ProjectIsolation(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.SaveFile("one", sampleRecord("x.go")))
	_, err := store.LoadFile("two", "x.go")
	assert.ErrorIs(t, err, ports.ErrNotFound)

	require.NoError(t, store.DeleteProject("one"))
	require.NoError(t, store.DeleteProject("one"))
	_, err = store.LoadFile("one", "x.go")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.db")

	store, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store.SaveFile("proj", sampleRecord("main.go")))
	require.NoError(t, store.Close())

	reopened, err := NewStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.LoadFile("proj", "main.go")
	require.NoError(t, err)
	assert.Equal(t, sampleRecord("main.go"), got)
}

func TestStore_ConcurrentWrites(t *testing.T) {
	store, _ := newTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, store.SaveFile("proj", sampleRecord(fmt.Sprintf("f%02d.go", i))))
		}(i)
	}
	wg.Wait()

	paths, err := store.ListFiles("proj")
	require.NoError(t, err)
	assert.Len(t, paths, 20)
}

func TestStore_LockedDatabase(t *testing.T) {
	_, path := newTestStore(t)

	_, err := NewStore(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
}

func TestDecodeRecord_Corrupt(t *testing.T) {
	_, err := decodeRecord(nil)
	assert.Error(t, err)

	_, err = decodeRecord([]byte{9})
	assert.ErrorContains(t, err, "version")

	good, err := encodeRecord(sampleRecord("a.go"))
	require.NoError(t, err)
	_, err = decodeRecord(good[:len(good)-1])
	assert.ErrorContains(t, err, "truncated")
	_, err = decodeRecord(good[:3])
	assert.ErrorContains(t, err, "truncated")
}
