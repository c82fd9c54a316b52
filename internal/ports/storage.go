// Package ports defines the interfaces (contracts) that adapters must implement.
// Domain and app logic depend only on these interfaces, never on concrete
// implementations.
package ports

import "errors"

// ErrNotFound is returned by LensStore lookups for unknown files.
var ErrNotFound = errors.New("not found")

// LensStore persists per-file significant-line records. The backing store
// (bbolt) is project-scoped: each projectID gets its own namespace. Concurrent
// reads are safe; writes are serialized by the adapter and transactional.
type LensStore interface {
	// SaveFile stores rec under rec.Path, replacing any prior record.
	SaveFile(projectID string, rec *FileLines) error

	// LoadFile returns the record for path, or ErrNotFound.
	LoadFile(projectID, path string) (*FileLines, error)

	// DeleteFile removes the record for path. Deleting a missing record is
	// not an error.
	DeleteFile(projectID, path string) error

	// ListFiles returns the stored paths in lexical order.
	ListFiles(projectID string) ([]string, error)

	// DeleteProject removes every record of a project. Idempotent.
	DeleteProject(projectID string) error
}

// FileLines is the classification result for one file.
type FileLines struct {
	Path     string `json:"path"`     // relative to the project root
	Language string `json:"language"` // registry language name
	Lines    []uint `json:"lines"`    // 0-based, ascending
	Hash     string `json:"hash"`     // hex SHA-256 of the classified content
	Updated  int64  `json:"updated"`  // unix seconds
}
