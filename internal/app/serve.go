package app

import (
	"context"
	"time"

	"github.com/corey/codelens/internal/adapters/socket"
	"github.com/corey/codelens/internal/ports"
)

// Serve starts answering socket queries for this project. The caller must
// Stop the returned server.
func (a *App) Serve(sockPath string) (*socket.Server, error) {
	srv := socket.NewServer(queries{a}, sockPath)
	if err := srv.Start(); err != nil {
		return nil, err
	}
	a.Logger.Info("serving", "socket", sockPath)
	return srv, nil
}

// queries adapts App to socket.Queries.
type queries struct{ a *App }

func (q queries) ProjectName() string { return q.a.ProjectID }

func (q queries) Lookup(path string) (*ports.FileLines, error) { return q.a.Lookup(path) }

func (q queries) ListFiles() ([]string, error) { return q.a.Store.ListFiles(q.a.ProjectID) }

func (q queries) Rescan(ctx context.Context) (*socket.RescanResult, error) { return q.a.Rescan(ctx) }

// Rescan runs Scan and reports it in wire form with the elapsed time.
func (a *App) Rescan(ctx context.Context) (*socket.RescanResult, error) {
	start := time.Now()
	res, err := a.Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &socket.RescanResult{
		Files:      res.Files,
		Classified: res.Classified,
		Unchanged:  res.Unchanged,
		Skipped:    res.Skipped,
		Removed:    res.Removed,
		Lines:      res.Lines,
		Elapsed:    time.Since(start).Round(time.Millisecond).String(),
	}, nil
}
