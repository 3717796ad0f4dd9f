package memory

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/entrhq/attic/pkg/vfs"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS memory (
	agent_id    TEXT NOT NULL DEFAULT '',
	key         TEXT NOT NULL,
	content     TEXT NOT NULL,
	created_at  TEXT NOT NULL,
	modified_at TEXT NOT NULL,
	PRIMARY KEY (agent_id, key)
);
CREATE INDEX IF NOT EXISTS idx_memory_agent_key ON memory (agent_id, key);
`

// SQLBackend stores memory in an embedded SQLite database. Multiple agent
// IDs can safely share one database file: every statement filters on
// agent_id, so a backend never observes another agent's rows. Put relies
// on the database's transactional upsert for concurrent safety.
type SQLBackend struct {
	db      *sql.DB
	agentID string
}

// NewSQLBackend opens (creating if needed) the database at dbPath, scoped
// to agentID. An empty agentID selects the shared default namespace.
func NewSQLBackend(dbPath, agentID string) (*SQLBackend, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		return nil, fmt.Errorf("memory: create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("memory: open database %s: %w", dbPath, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("memory: init schema: %w", err)
	}

	return &SQLBackend{db: db, agentID: agentID}, nil
}

// Close releases the underlying database handle.
func (b *SQLBackend) Close() error {
	return b.db.Close()
}

// Get returns the record stored under key, or (nil, nil) when absent.
func (b *SQLBackend) Get(ctx context.Context, key string) (*vfs.FileRecord, error) {
	k, err := vfs.NormalizePath(key)
	if err != nil {
		return nil, err
	}

	row := b.db.QueryRowContext(ctx,
		`SELECT content, created_at, modified_at FROM memory WHERE agent_id = ? AND key = ?`,
		b.agentID, k)

	var contentJSON, createdAt, modifiedAt string
	if err := row.Scan(&contentJSON, &createdAt, &modifiedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("memory: query %s: %w", k, err)
	}

	var content []string
	if err := json.Unmarshal([]byte(contentJSON), &content); err != nil {
		return nil, fmt.Errorf("memory: decode content for %s: %w", k, err)
	}
	created, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("memory: parse created_at for %s: %w", k, err)
	}
	modified, err := time.Parse(time.RFC3339Nano, modifiedAt)
	if err != nil {
		return nil, fmt.Errorf("memory: parse modified_at for %s: %w", k, err)
	}

	return &vfs.FileRecord{Content: content, CreatedAt: created, ModifiedAt: modified}, nil
}

// Put upserts the record under key. The ON CONFLICT clause updates only
// content and modified_at, so created_at keeps the value from the first
// write of this key.
func (b *SQLBackend) Put(ctx context.Context, key string, record *vfs.FileRecord) error {
	k, err := vfs.NormalizePath(key)
	if err != nil {
		return err
	}

	contentJSON, err := json.Marshal(record.Content)
	if err != nil {
		return fmt.Errorf("memory: encode content for %s: %w", k, err)
	}

	_, err = b.db.ExecContext(ctx, `
		INSERT INTO memory (agent_id, key, content, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (agent_id, key) DO UPDATE SET
			content = excluded.content,
			modified_at = excluded.modified_at`,
		b.agentID, k, string(contentJSON),
		record.CreatedAt.UTC().Format(time.RFC3339Nano),
		record.ModifiedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("memory: upsert %s: %w", k, err)
	}
	return nil
}

// List enumerates this agent's keys, sorted ascending.
func (b *SQLBackend) List(ctx context.Context) ([]string, error) {
	rows, err := b.db.QueryContext(ctx,
		`SELECT key FROM memory WHERE agent_id = ? ORDER BY key`, b.agentID)
	if err != nil {
		return nil, fmt.Errorf("memory: list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("memory: scan key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("memory: iterate keys: %w", err)
	}
	return keys, nil
}
