package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/entrhq/attic/pkg/logging"
	"github.com/entrhq/attic/pkg/vfs"
)

const (
	// MemoriesPrefix is the reserved subtree exposed as a view over a
	// Backend. Virtual paths under it are never held in the session store.
	MemoriesPrefix = "/memories/"

	// StartupMemoryKey is the well-known backend key whose content, when
	// present, is loaded into the caller's initial context at session
	// start.
	StartupMemoryKey = "/agent.md"

	// StartupSource tags startup content as backend-sourced so the
	// caller can distinguish it from built-in defaults.
	StartupSource = "long_term_memory"
)

// StartupContext is backend-sourced instruction content loaded at session
// start.
type StartupContext struct {
	Source  string // always StartupSource
	Path    string // virtual path of the content, under MemoriesPrefix
	Content string
}

// MountStore is a vfs.Store that exposes the reserved /memories/ subtree
// as a view over a Backend. Operations under the prefix forward to the
// backend with the prefix stripped and re-added on results; every access
// reads or writes through, so the view can never silently diverge from
// the backend. Everything else goes to the wrapped session store.
//
// Deleting under the prefix returns vfs.ErrUnsupported: the backend
// protocol has no delete, by design.
type MountStore struct {
	session vfs.Store
	backend Backend
	logger  *logging.Logger
}

// NewMountStore wraps a session store with a memory backend mounted at
// MemoriesPrefix.
func NewMountStore(session vfs.Store, backend Backend) *MountStore {
	logger, _ := logging.NewLogger("memory-mount")
	return &MountStore{
		session: session,
		backend: backend,
		logger:  logger,
	}
}

// mounted reports whether a normalized path falls under the memory
// mount, and returns the backend key with the prefix stripped.
// "/memories" itself maps to the backend root "/".
func mounted(path string) (string, bool) {
	root := strings.TrimSuffix(MemoriesPrefix, "/")
	if path == root {
		return "/", true
	}
	if strings.HasPrefix(path, MemoriesPrefix) {
		return path[len(root):], true
	}
	return "", false
}

// mountPath re-adds the mount prefix to a backend key.
func mountPath(key string) string {
	return strings.TrimSuffix(MemoriesPrefix, "/") + key
}

// Read returns the record at path, reading through to the backend for
// mounted paths.
func (m *MountStore) Read(ctx context.Context, path string) (*vfs.FileRecord, error) {
	p, err := vfs.NormalizePath(path)
	if err != nil {
		return nil, err
	}

	key, ok := mounted(p)
	if !ok {
		return m.session.Read(ctx, p)
	}

	rec, err := m.backend.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: %s", vfs.ErrNotFound, p)
	}
	return rec, nil
}

// Write stores content at path, writing through to the backend for
// mounted paths. A backend overwrite keeps the original CreatedAt and
// bumps ModifiedAt, mirroring session store semantics.
func (m *MountStore) Write(ctx context.Context, path, content string) error {
	p, err := vfs.NormalizePath(path)
	if err != nil {
		return err
	}

	key, ok := mounted(p)
	if !ok {
		return m.session.Write(ctx, p, content)
	}

	existing, err := m.backend.Get(ctx, key)
	if err != nil {
		return err
	}
	if existing != nil {
		existing.Update(content)
		return m.backend.Put(ctx, key, existing)
	}
	return m.backend.Put(ctx, key, vfs.NewFileRecord(content))
}

// List returns paths under basePath. A base path under the mount
// enumerates backend keys with the prefix re-added; any other base path
// lists the session store only.
func (m *MountStore) List(ctx context.Context, basePath string) ([]string, error) {
	base, err := vfs.NormalizePath(basePath)
	if err != nil {
		return nil, err
	}

	key, ok := mounted(base)
	if !ok {
		return m.session.List(ctx, base)
	}

	keys, err := m.backend.List(ctx)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, k := range keys {
		p := mountPath(k)
		if strings.HasPrefix(p, mountPath(key)) {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// Delete removes a session file. Deleting under the memory mount is
// refused: the backend protocol has no delete operation.
func (m *MountStore) Delete(ctx context.Context, path string) error {
	p, err := vfs.NormalizePath(path)
	if err != nil {
		return err
	}

	if _, ok := mounted(p); ok {
		return fmt.Errorf("%w: cannot delete %s, long-term memory is append-only", vfs.ErrUnsupported, p)
	}
	return m.session.Delete(ctx, p)
}

// Snapshot merges the session store's entries with the backend's, keyed
// by virtual path, so glob and grep searches see the mounted subtree.
func (m *MountStore) Snapshot(ctx context.Context) (map[string]*vfs.FileRecord, error) {
	snapshot, err := m.session.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	keys, err := m.backend.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, k := range keys {
		rec, err := m.backend.Get(ctx, k)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			// Key disappeared between List and Get; skip it.
			continue
		}
		snapshot[mountPath(k)] = rec
	}
	return snapshot, nil
}

// StartupMemory reads the well-known startup key from the backend. It
// returns (nil, nil) when the backend holds no startup content; a
// non-nil StartupContext is tagged with StartupSource so the caller can
// tell backend instructions apart from its own defaults.
func (m *MountStore) StartupMemory(ctx context.Context) (*StartupContext, error) {
	rec, err := m.backend.Get(ctx, StartupMemoryKey)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}

	m.logger.Infof("loaded startup memory from %s", mountPath(StartupMemoryKey))
	return &StartupContext{
		Source:  StartupSource,
		Path:    mountPath(StartupMemoryKey),
		Content: rec.String(),
	}, nil
}
