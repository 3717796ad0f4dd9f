package vfs

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Store is the read/write surface of a virtual file collection. A Store is
// session-scoped: callers create one per agent session and pass it
// explicitly through every operation rather than sharing ambient state.
//
// Implementations must normalize every incoming path and keep single-record
// reads and writes atomic; there is no atomicity requirement across the
// whole store.
type Store interface {
	// Read returns a copy of the record at path, or ErrNotFound.
	Read(ctx context.Context, path string) (*FileRecord, error)

	// Write creates the record at path or overwrites its content.
	// It never merges partial content.
	Write(ctx context.Context, path, content string) error

	// List returns the sorted paths with basePath as a string prefix.
	List(ctx context.Context, basePath string) ([]string, error)

	// Delete removes the record at path, or returns ErrNotFound.
	Delete(ctx context.Context, path string) error

	// Snapshot returns a deep copy of every entry, keyed by path.
	// Search engines operate over snapshots and never mutate the store.
	Snapshot(ctx context.Context) (map[string]*FileRecord, error)
}

// MemStore is the in-memory Store implementation: a mutex-guarded map from
// normalized path to FileRecord. State lives for the duration of a session
// and is discarded at the end unless persisted through a memory backend.
type MemStore struct {
	files map[string]*FileRecord
	mu    sync.RWMutex
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		files: make(map[string]*FileRecord),
	}
}

// Read returns a copy of the record at path.
func (s *MemStore) Read(_ context.Context, path string) (*FileRecord, error) {
	p, err := NormalizePath(path)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, exists := s.files[p]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
	}
	return rec.Clone(), nil
}

// Write creates or overwrites the record at path. A new record gets
// CreatedAt = ModifiedAt = now; an overwrite preserves CreatedAt and bumps
// ModifiedAt.
func (s *MemStore) Write(_ context.Context, path, content string) error {
	p, err := NormalizePath(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, exists := s.files[p]; exists {
		existing.Update(content)
		return nil
	}
	s.files[p] = NewFileRecord(content)
	return nil
}

// List returns the sorted paths that have basePath as a string prefix.
func (s *MemStore) List(_ context.Context, basePath string) ([]string, error) {
	base, err := NormalizePath(basePath)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var paths []string
	for p := range s.files {
		if strings.HasPrefix(p, base) {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// Delete removes the record at path.
func (s *MemStore) Delete(_ context.Context, path string) error {
	p, err := NormalizePath(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.files[p]; !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, p)
	}
	delete(s.files, p)
	return nil
}

// Snapshot returns a deep copy of every entry in the store.
func (s *MemStore) Snapshot(_ context.Context) (map[string]*FileRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make(map[string]*FileRecord, len(s.files))
	for p, rec := range s.files {
		snapshot[p] = rec.Clone()
	}
	return snapshot, nil
}
