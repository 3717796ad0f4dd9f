package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/entrhq/attic/pkg/vfs"
)

// KVStore is the minimal surface of an externally supplied key/value
// store: opaque byte values under string keys. It exists so callers who
// already hold such a store can back agent memory with it without the
// store knowing anything about this package's protocol.
type KVStore interface {
	// Get returns the value for key and whether the key exists.
	Get(key string) ([]byte, bool, error)

	// Put stores value under key, overwriting any existing value.
	Put(key string, value []byte) error

	// Keys enumerates every key in the store.
	Keys() ([]string, error)
}

// KVBackend adapts a generic KVStore to the Backend protocol. It adds no
// semantics beyond agent namespacing: keys are prefixed with the agent ID
// and values are the same JSON documents the filesystem backend writes.
type KVBackend struct {
	kv      KVStore
	agentID string
}

// NewKVBackend wraps an external key/value store, scoped to agentID when
// non-empty.
func NewKVBackend(kv KVStore, agentID string) *KVBackend {
	return &KVBackend{kv: kv, agentID: agentID}
}

// nsKey namespaces a normalized key: agent "a" and key "/notes.txt"
// store under "a/notes.txt"; with no agent ID the key is used as-is.
func (b *KVBackend) nsKey(key string) (string, error) {
	k, err := vfs.NormalizePath(key)
	if err != nil {
		return "", err
	}
	return b.agentID + k, nil
}

// Get returns the record stored under key, or (nil, nil) when absent.
func (b *KVBackend) Get(_ context.Context, key string) (*vfs.FileRecord, error) {
	nk, err := b.nsKey(key)
	if err != nil {
		return nil, err
	}

	raw, found, err := b.kv.Get(nk)
	if err != nil {
		return nil, fmt.Errorf("memory: kv get %s: %w", key, err)
	}
	if !found {
		return nil, nil
	}

	var doc fileDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("memory: decode kv value for %s: %w", key, err)
	}
	return doc.record(), nil
}

// Put stores the record under key, preserving the CreatedAt of an
// existing value.
func (b *KVBackend) Put(ctx context.Context, key string, record *vfs.FileRecord) error {
	nk, err := b.nsKey(key)
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

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("memory: encode kv value for %s: %w", key, err)
	}
	if err := b.kv.Put(nk, raw); err != nil {
		return fmt.Errorf("memory: kv put %s: %w", key, err)
	}
	return nil
}

// List enumerates this agent's keys, stripping the namespace prefix.
// Keys belonging to other agents never appear in the result.
func (b *KVBackend) List(_ context.Context) ([]string, error) {
	all, err := b.kv.Keys()
	if err != nil {
		return nil, fmt.Errorf("memory: kv keys: %w", err)
	}

	var keys []string
	for _, k := range all {
		stripped, ok := strings.CutPrefix(k, b.agentID)
		if !ok || !strings.HasPrefix(stripped, "/") {
			continue
		}
		keys = append(keys, stripped)
	}
	sort.Strings(keys)
	return keys, nil
}

// MapKVStore is an in-process KVStore for tests and single-session use.
type MapKVStore struct {
	data map[string][]byte
	mu   sync.RWMutex
}

// NewMapKVStore creates an empty in-process key/value store.
func NewMapKVStore() *MapKVStore {
	return &MapKVStore{data: make(map[string][]byte)}
}

// Get returns the value for key and whether it exists.
func (s *MapKVStore) Get(key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, found := s.data[key]
	if !found {
		return nil, false, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

// Put stores value under key.
func (s *MapKVStore) Put(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]byte, len(value))
	copy(stored, value)
	s.data[key] = stored
	return nil
}

// Keys enumerates every key in the store.
func (s *MapKVStore) Keys() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys, nil
}
