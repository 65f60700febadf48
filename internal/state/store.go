// Package state persists the reconciler's recorded view of each
// resource's table descriptor to a JSON document on disk, guarded by an
// advisory file lock so two reconciler runs never interleave writes.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"aquaform/internal/core"
)

// ErrLocked is returned by Open when another process already holds the
// state file's advisory lock.
var ErrLocked = errors.New("state: file is locked by another process")

// Document is the on-disk shape: a mapping from resource ID to its last
// recorded table descriptor, plus the timestamp of the last commit.
type Document struct {
	Resources   map[string]core.Table `json:"resources"`
	LastUpdated string                 `json:"last_updated,omitempty"`
}

// Store loads, mutates, and atomically persists a Document at Path,
// holding an advisory lock for the lifetime of the Store.
type Store struct {
	path string
	lock *flock.Flock
	mu   sync.Mutex
	doc  Document
}

// Open acquires an advisory lock on path and loads its current
// contents. If the file does not exist, an empty document is used. If
// the file exists but is malformed, the document is treated as empty
// rather than aborting the run (§4.2).
func Open(path string) (*Store, error) {
	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("state: acquiring lock: %w", err)
	}
	if !locked {
		return nil, ErrLocked
	}

	s := &Store{path: path, lock: lock, doc: Document{Resources: map[string]core.Table{}}}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return s, nil
	case err != nil:
		_ = lock.Unlock()
		return nil, fmt.Errorf("state: reading %s: %w", path, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return s, nil
	}
	if doc.Resources == nil {
		doc.Resources = map[string]core.Table{}
	}
	s.doc = doc
	return s, nil
}

// Exists reports whether path already holds a state document, without
// acquiring the lock - used by Init to detect "already initialized".
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Get returns the recorded table for resourceID, if present.
func (s *Store) Get(resourceID string) (core.Table, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.doc.Resources[resourceID]
	return t, ok
}

// All returns a snapshot copy of every recorded resource.
func (s *Store) All() map[string]core.Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := make(map[string]core.Table, len(s.doc.Resources))
	for k, v := range s.doc.Resources {
		snapshot[k] = v
	}
	return snapshot
}

// Put idempotently replaces the recorded table for resourceID.
func (s *Store) Put(resourceID string, table core.Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Resources[resourceID] = table
}

// Remove idempotently deletes resourceID from the recorded set.
func (s *Store) Remove(resourceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.doc.Resources, resourceID)
}

// Commit stamps last_updated and writes the document atomically via a
// temp-file-then-rename, regardless of whether earlier per-resource
// operations in this run failed (§4.2's contract: progress already
// recorded in the Store must not be lost).
func (s *Store) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc.LastUpdated = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("state: marshaling document: %w", err)
	}

	dir := filepath.Dir(s.path)
	base := filepath.Base(s.path)
	tmp, err := os.CreateTemp(dir, base+".tmp.*")
	if err != nil {
		return fmt.Errorf("state: creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("state: writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("state: syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("state: closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("state: replacing %s: %w", s.path, err)
	}
	return nil
}

// Close releases the advisory lock. It does not commit; callers must
// call Commit explicitly beforehand.
func (s *Store) Close() error {
	return s.lock.Unlock()
}
