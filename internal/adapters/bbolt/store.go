// Package bbolt implements ports.LensStore using bbolt (embedded B+ tree).
// Each project gets its own top-level bucket with a "files" sub-bucket keyed
// by relative path. Writes are transactional: a crash mid-write cannot corrupt
// previously committed records.
package bbolt

import (
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/corey/codelens/internal/ports"
)

var bucketFiles = []byte("files")

// Store implements ports.LensStore backed by bbolt.
type Store struct {
	db *bolt.DB
}

// NewStore opens (or creates) a bbolt database at the given path.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveFile stores rec under rec.Path, replacing any prior record.
func (s *Store) SaveFile(projectID string, rec *ports.FileLines) error {
	if rec == nil {
		return fmt.Errorf("nil record")
	}
	if rec.Path == "" {
		return fmt.Errorf("record has empty path")
	}
	data, err := encodeRecord(rec)
	if err != nil {
		return fmt.Errorf("encode %s: %w", rec.Path, err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		proj, err := tx.CreateBucketIfNotExists([]byte(projectID))
		if err != nil {
			return err
		}
		fb, err := proj.CreateBucketIfNotExists(bucketFiles)
		if err != nil {
			return err
		}
		return fb.Put([]byte(rec.Path), data)
	})
}

// LoadFile returns the record for path, or ports.ErrNotFound.
func (s *Store) LoadFile(projectID, path string) (*ports.FileLines, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		fb := filesBucket(tx, projectID)
		if fb == nil {
			return nil
		}
		// Copy out: bbolt slices are only valid within the transaction.
		if v := fb.Get([]byte(path)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, fmt.Errorf("%s: %w", path, ports.ErrNotFound)
	}

	rec, err := decodeRecord(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return rec, nil
}

// DeleteFile removes the record for path. Missing records are not an error.
func (s *Store) DeleteFile(projectID, path string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		fb := filesBucket(tx, projectID)
		if fb == nil {
			return nil
		}
		return fb.Delete([]byte(path))
	})
}

// ListFiles returns the stored paths in lexical (byte) order.
func (s *Store) ListFiles(projectID string) ([]string, error) {
	var paths []string
	err := s.db.View(func(tx *bolt.Tx) error {
		fb := filesBucket(tx, projectID)
		if fb == nil {
			return nil
		}
		return fb.ForEach(func(k, _ []byte) error {
			paths = append(paths, string(k))
			return nil
		})
	})
	return paths, err
}

// DeleteProject removes all records for a project.
// Idempotent: deleting a nonexistent project is not an error.
func (s *Store) DeleteProject(projectID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		err := tx.DeleteBucket([]byte(projectID))
		if errors.Is(err, bolt.ErrBucketNotFound) {
			return nil
		}
		return err
	})
}

func filesBucket(tx *bolt.Tx, projectID string) *bolt.Bucket {
	proj := tx.Bucket([]byte(projectID))
	if proj == nil {
		return nil
	}
	return proj.Bucket(bucketFiles)
}
