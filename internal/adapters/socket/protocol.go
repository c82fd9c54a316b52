// Package socket implements a JSON-over-Unix-socket protocol so CLI commands
// can query a running `codelens watch` instead of opening the locked database.
// The protocol uses newline-delimited JSON: each message is one JSON object + \n.
package socket

import (
	"context"
	"crypto/sha256"
	"fmt"
	"path/filepath"

	"github.com/corey/codelens/internal/ports"
)

// SocketPath returns the Unix socket path for a given project root.
// Format: /tmp/codelens-{first12hex}.sock
func SocketPath(projectRoot string) string {
	abs, err := filepath.Abs(projectRoot)
	if err != nil {
		abs = projectRoot
	}
	h := sha256.Sum256([]byte(abs))
	return fmt.Sprintf("/tmp/codelens-%x.sock", h[:6])
}

// Method names for the protocol.
const (
	MethodHealth   = "health"
	MethodLookup   = "lookup"
	MethodFiles    = "files"
	MethodRescan   = "rescan"
	MethodShutdown = "shutdown"
)

// Request is the wire format for client-to-server messages.
type Request struct {
	ID     string `json:"id"`
	Method string `json:"method"`
	Params any    `json:"params,omitempty"`
}

// Response is the wire format for server-to-client messages.
type Response struct {
	ID     string `json:"id"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
	// NotFound distinguishes a missing record from a server failure.
	NotFound bool `json:"not_found,omitempty"`
}

// LookupParams is the params for a lookup request.
type LookupParams struct {
	Path string `json:"path"` // relative to the project root
}

// HealthResult is the result of a health request.
type HealthResult struct {
	Status  string `json:"status"`
	Project string `json:"project"`
	Files   int    `json:"files"`
	Uptime  string `json:"uptime"`
}

// FilesResult is the result of a files request.
type FilesResult struct {
	Files []string `json:"files"`
	Count int      `json:"count"`
}

// RescanResult is the result of a rescan request.
type RescanResult struct {
	Files      int    `json:"files"`
	Classified int    `json:"classified"`
	Unchanged  int    `json:"unchanged"`
	Skipped    int    `json:"skipped"`
	Removed    int    `json:"removed"`
	Lines      int    `json:"lines"`
	Elapsed    string `json:"elapsed"`
}

// Queries provides read access to project state for server handlers.
// Thread safety is the implementor's responsibility.
type Queries interface {
	ProjectName() string
	Lookup(path string) (*ports.FileLines, error)
	ListFiles() ([]string, error)
	Rescan(ctx context.Context) (*RescanResult, error)
}
