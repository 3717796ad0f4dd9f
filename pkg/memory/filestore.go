package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/entrhq/attic/pkg/logging"
	"github.com/entrhq/attic/pkg/vfs"
)

const fileExtension = ".json"

// fileDocument is the on-disk JSON shape of one stored key.
type fileDocument struct {
	Content    []string  `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
}

func (d fileDocument) record() *vfs.FileRecord {
	return &vfs.FileRecord{
		Content:    d.Content,
		CreatedAt:  d.CreatedAt,
		ModifiedAt: d.ModifiedAt,
	}
}

// FileBackend stores one JSON document per key under
// <basePath>/<agentID>/, mirroring the key's path structure as nested
// directories: key "/notes/todo.md" becomes "notes/todo.md.json".
// With no agent ID, documents live directly under basePath.
type FileBackend struct {
	root   string
	logger *logging.Logger
}

// NewFileBackend creates a filesystem backend rooted at basePath, scoped
// to agentID when non-empty. The root directory is created if needed.
func NewFileBackend(basePath, agentID string) (*FileBackend, error) {
	root := basePath
	if agentID != "" {
		root = filepath.Join(basePath, agentID)
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("memory: init directory %s: %w", root, err)
	}

	logger, _ := logging.NewLogger("memory-file")
	return &FileBackend{root: root, logger: logger}, nil
}

func (b *FileBackend) keyPath(key string) (string, error) {
	k, err := vfs.NormalizePath(key)
	if err != nil {
		return "", err
	}
	if k == "/" {
		return "", fmt.Errorf("%w: %q is not a storable key", vfs.ErrInvalidPath, key)
	}
	rel := filepath.FromSlash(strings.TrimPrefix(k, "/"))
	return filepath.Join(b.root, rel+fileExtension), nil
}

// Get reads and decodes the document for key. An absent file, and a file
// that fails to decode, both yield (nil, nil): a corrupt document must
// never crash the caller, it is simply not a value.
func (b *FileBackend) Get(_ context.Context, key string) (*vfs.FileRecord, error) {
	path, err := b.keyPath(key)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("memory: read %s: %w", path, err)
	}

	var doc fileDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		b.logger.Debugf("treating undecodable memory file as absent: path=%s err=%v", path, err)
		return nil, nil
	}
	return doc.record(), nil
}

// Put writes the document for key, creating intermediate directories as
// needed. The write goes to a temporary file first and is renamed into
// place so a concurrent Get never observes a half-written document. An
// overwrite preserves the CreatedAt recorded by the first write.
func (b *FileBackend) Put(ctx context.Context, key string, record *vfs.FileRecord) error {
	path, err := b.keyPath(key)
	if err != nil {
		return err
	}

	doc := fileDocument{
		Content:    record.Content,
		CreatedAt:  record.CreatedAt,
		ModifiedAt: record.ModifiedAt,
	}
	if existing, err := b.Get(ctx, key); err == nil && existing != nil {
		doc.CreatedAt = existing.CreatedAt
	}

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("memory: encode %s: %w", key, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("memory: create directories for %s: %w", key, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("memory: write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp) // best-effort cleanup
		return fmt.Errorf("memory: atomic rename %s: %w", path, err)
	}
	return nil
}

// List walks the agent's subtree and reconstructs keys from file paths,
// reversing the storage encoding. Keys are returned sorted ascending.
func (b *FileBackend) List(_ context.Context) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(b.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, fileExtension) {
			return nil
		}
		rel, err := filepath.Rel(b.root, path)
		if err != nil {
			return err
		}
		key := "/" + filepath.ToSlash(strings.TrimSuffix(rel, fileExtension))
		keys = append(keys, key)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("memory: list %s: %w", b.root, err)
	}
	sort.Strings(keys)
	return keys, nil
}
