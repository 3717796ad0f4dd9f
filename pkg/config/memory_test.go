package config

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/entrhq/attic/pkg/vfs"
)

func TestMemorySection_Defaults(t *testing.T) {
	section := NewMemorySection()

	if section.ID() != SectionIDMemory {
		t.Errorf("ID() = %v, want %v", section.ID(), SectionIDMemory)
	}
	if section.Backend() != BackendKindFile {
		t.Errorf("Backend() = %v, want %v", section.Backend(), BackendKindFile)
	}
	if err := section.Validate(); err != nil {
		t.Errorf("Default section should validate: %v", err)
	}
}

func TestMemorySection_SetData(t *testing.T) {
	section := NewMemorySection()

	err := section.SetData(map[string]interface{}{
		"backend":  BackendKindSQLite,
		"agent_id": "assistant",
	})
	if err != nil {
		t.Fatalf("SetData failed: %v", err)
	}

	if section.Backend() != BackendKindSQLite {
		t.Errorf("Backend() = %v", section.Backend())
	}
	if section.AgentID() != "assistant" {
		t.Errorf("AgentID() = %v", section.AgentID())
	}
}

func TestMemorySection_SetData_RejectsNonString(t *testing.T) {
	section := NewMemorySection()

	if err := section.SetData(map[string]interface{}{"backend": 42}); err == nil {
		t.Error("Expected error for non-string value")
	}
}

func TestMemorySection_Validate(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		wantErr bool
	}{
		{"file backend", BackendKindFile, false},
		{"sqlite backend", BackendKindSQLite, false},
		{"in-memory backend", BackendKindInMemory, false},
		{"unknown backend", "redis", true},
		{"empty backend", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			section := NewMemorySection()
			section.SetBackend(tt.backend)

			err := section.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMemorySection_Reset(t *testing.T) {
	section := NewMemorySection()
	section.SetBackend(BackendKindSQLite)
	section.SetAgentID("assistant")

	section.Reset()

	if section.Backend() != BackendKindFile {
		t.Errorf("Backend() after reset = %v", section.Backend())
	}
	if section.AgentID() != "" {
		t.Errorf("AgentID() after reset = %v", section.AgentID())
	}
}

func TestMemorySection_NewBackend_File(t *testing.T) {
	section := NewMemorySection()
	section.SetData(map[string]interface{}{
		"backend":   BackendKindFile,
		"base_path": t.TempDir(),
		"agent_id":  "assistant",
	})

	backend, err := section.NewBackend()
	if err != nil {
		t.Fatalf("NewBackend failed: %v", err)
	}

	ctx := context.Background()
	if err := backend.Put(ctx, "/agent.md", vfs.NewFileRecord("remember")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	rec, err := backend.Get(ctx, "/agent.md")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if rec == nil || rec.String() != "remember" {
		t.Errorf("Get returned %v", rec)
	}
}

func TestMemorySection_NewBackend_SQLite(t *testing.T) {
	section := NewMemorySection()
	section.SetData(map[string]interface{}{
		"backend":       BackendKindSQLite,
		"database_path": filepath.Join(t.TempDir(), "memories.db"),
	})

	backend, err := section.NewBackend()
	if err != nil {
		t.Fatalf("NewBackend failed: %v", err)
	}

	ctx := context.Background()
	if err := backend.Put(ctx, "/notes.md", vfs.NewFileRecord("persisted")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	keys, err := backend.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(keys) != 1 || keys[0] != "/notes.md" {
		t.Errorf("List returned %v", keys)
	}
}

func TestMemorySection_NewBackend_InMemory(t *testing.T) {
	section := NewMemorySection()
	section.SetBackend(BackendKindInMemory)

	backend, err := section.NewBackend()
	if err != nil {
		t.Fatalf("NewBackend failed: %v", err)
	}

	ctx := context.Background()
	if err := backend.Put(ctx, "/k.md", vfs.NewFileRecord("v")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	rec, err := backend.Get(ctx, "/k.md")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if rec == nil || rec.String() != "v" {
		t.Errorf("Get returned %v", rec)
	}
}

func TestMemorySection_NewBackend_InvalidKind(t *testing.T) {
	section := NewMemorySection()
	section.SetBackend("redis")

	if _, err := section.NewBackend(); err == nil {
		t.Error("Expected error for unknown backend kind")
	}
}
