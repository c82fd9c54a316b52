package socket

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/codelens/internal/ports"
)

type fakeQueries struct {
	mu      sync.Mutex
	records map[string]*ports.FileLines
	rescans int
}

func (f *fakeQueries) ProjectName() string { return "demo" }

func (f *fakeQueries) Lookup(path string) (*ports.FileLines, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[path]
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ports.ErrNotFound)
	}
	return rec, nil
}

func (f *fakeQueries) ListFiles() ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var files []string
	for p := range f.records {
		files = append(files, p)
	}
	return files, nil
}

func (f *fakeQueries) Rescan(ctx context.Context) (*RescanResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rescans++
	return &RescanResult{Files: len(f.records), Unchanged: len(f.records), Elapsed: "1ms"}, nil
}

func startServer(t *testing.T) (*Server, *Client, *fakeQueries) {
	t.Helper()
	q := &fakeQueries{records: map[string]*ports.FileLines{
		"src/lib.rs": {Path: "src/lib.rs", Language: "rust", Lines: []uint{2, 3, 5}, Hash: "abc", Updated: 1700000000},
	}}
	sock := SocketPath(t.TempDir())
	srv := NewServer(q, sock)
	require.NoError(t, srv.Start())
	t.Cleanup(func() { srv.Stop() })
	return srv, NewClient(sock), q
}

func TestSocketPath_Stable(t *testing.T) {
	a := SocketPath("/work/project")
	assert.Equal(t, a, SocketPath("/work/project"))
	assert.NotEqual(t, a, SocketPath("/work/other"))
	assert.Regexp(t, `^/tmp/codelens-[0-9a-f]{12}\.sock$`, a)
}

func TestServer_Health(t *testing.T) {
	_, client, _ := startServer(t)
	require.True(t, client.Ping())

	h, err := client.Health()
	require.NoError(t, err)
	assert.Equal(t, "ok", h.Status)
	assert.Equal(t, "demo", h.Project)
	assert.Equal(t, 1, h.Files)
}

func TestServer_Lookup(t *testing.T) {
	_, client, _ := startServer(t)

	rec, err := client.Lookup("src/lib.rs")
	require.NoError(t, err)
	assert.Equal(t, "rust", rec.Language)
	assert.Equal(t, []uint{2, 3, 5}, rec.Lines)

	_, err = client.Lookup("missing.go")
	assert.True(t, errors.Is(err, ports.ErrNotFound))
}

func TestServer_FilesAndRescan(t *testing.T) {
	_, client, q := startServer(t)

	files, err := client.Files()
	require.NoError(t, err)
	assert.Equal(t, []string{"src/lib.rs"}, files.Files)

	res, err := client.Rescan()
	require.NoError(t, err)
	assert.Equal(t, 1, res.Unchanged)
	assert.Equal(t, 1, q.rescans)
}

func TestServer_UnknownMethod(t *testing.T) {
	_, client, _ := startServer(t)
	err := client.invoke("bogus", nil, nil, time.Second)
	assert.ErrorContains(t, err, "unknown method")
}

func TestServer_Shutdown(t *testing.T) {
	srv, client, _ := startServer(t)
	require.NoError(t, client.Shutdown())

	select {
	case <-srv.ShutdownCh():
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown channel not closed")
	}
	require.NoError(t, srv.Stop())
	assert.False(t, client.Ping())
}

func TestServer_SecondStartRefused(t *testing.T) {
	srv, _, q := startServer(t)
	other := NewServer(q, srv.Addr())
	assert.Error(t, other.Start())
}

func TestServer_ConcurrentClients(t *testing.T) {
	_, client, _ := startServer(t)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.Lookup("src/lib.rs")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestServer_StopWithIdleClient(t *testing.T) {
	srv, _, _ := startServer(t)

	conn, err := net.Dial("unix", srv.Addr())
	require.NoError(t, err)
	defer conn.Close()

	// Wait until the connection is being served, then leave it idle.
	_, err = conn.Write([]byte(`{"id":"1","method":"health"}` + "\n"))
	require.NoError(t, err)
	buf := make([]byte, 4096)
	_, err = conn.Read(buf)
	require.NoError(t, err)

	stopped := make(chan struct{})
	go func() {
		srv.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop blocked on an idle connection")
	}

	_, err = conn.Read(buf)
	assert.Error(t, err, "server side closed")
}
