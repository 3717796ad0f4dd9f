// Package memory provides the pluggable persistence layer behind the
// virtual file store's long-term subtree. A Backend stores file records
// under path-shaped keys, scoped to an agent ID so multiple agents can
// share one physical resource without observing each other's keys.
package memory

import (
	"context"

	"github.com/entrhq/attic/pkg/vfs"
)

// Backend is the capability interface every persistent memory store
// satisfies. It is deliberately minimal - get, put, list - so any storage
// technology can implement it, and deliberately has no delete: long-term
// memory is append/overwrite-only from the agent's perspective, and
// destructive cleanup is an operator action outside the protocol.
//
// All three operations are scoped to the backend's configured agent ID.
// An empty agent ID selects a single shared namespace.
type Backend interface {
	// Get returns the record stored under key, or (nil, nil) when the key
	// is absent. Absence is a normal result, not an error.
	Get(ctx context.Context, key string) (*vfs.FileRecord, error)

	// Put stores record under key with full overwrite semantics. An
	// overwrite preserves the CreatedAt of the first write; ModifiedAt
	// changes only through Put, never through Get.
	Put(ctx context.Context, key string, record *vfs.FileRecord) error

	// List enumerates every key in this backend's namespace, sorted
	// ascending. There is no pagination; callers must be prepared for
	// large result sets.
	List(ctx context.Context) ([]string, error)
}
