package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/entrhq/attic/pkg/vfs"
)

func TestFileBackendRoundTrip(t *testing.T) {
	ctx := context.Background()
	b, err := NewFileBackend(t.TempDir(), "agent-1")
	if err != nil {
		t.Fatalf("NewFileBackend failed: %v", err)
	}

	rec := vfs.NewFileRecord("line one\nline two")
	if err := b.Put(ctx, "/notes/todo.md", rec); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := b.Get(ctx, "/notes/todo.md")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected record, got absent")
	}
	if got.String() != "line one\nline two" {
		t.Errorf("expected content round-trip, got %q", got.String())
	}
	if !got.CreatedAt.Equal(rec.CreatedAt) {
		t.Errorf("expected CreatedAt %v, got %v", rec.CreatedAt, got.CreatedAt)
	}
}

func TestFileBackendOverwritePreservesCreatedAt(t *testing.T) {
	ctx := context.Background()
	b, err := NewFileBackend(t.TempDir(), "")
	if err != nil {
		t.Fatalf("NewFileBackend failed: %v", err)
	}

	first := vfs.NewFileRecord("v1")
	if err := b.Put(ctx, "/agent.md", first); err != nil {
		t.Fatalf("first Put failed: %v", err)
	}

	second := vfs.NewFileRecord("v2")
	if err := b.Put(ctx, "/agent.md", second); err != nil {
		t.Fatalf("second Put failed: %v", err)
	}

	got, err := b.Get(ctx, "/agent.md")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.String() != "v2" {
		t.Errorf("expected overwritten content, got %q", got.String())
	}
	if !got.CreatedAt.Equal(first.CreatedAt) {
		t.Error("overwrite must preserve CreatedAt from the original write")
	}
	if got.ModifiedAt.Before(first.ModifiedAt) {
		t.Error("ModifiedAt must not move backwards on overwrite")
	}
}

func TestFileBackendGetAbsent(t *testing.T) {
	b, err := NewFileBackend(t.TempDir(), "a")
	if err != nil {
		t.Fatalf("NewFileBackend failed: %v", err)
	}

	got, err := b.Get(context.Background(), "/missing.md")
	if err != nil {
		t.Fatalf("Get of absent key must not error, got %v", err)
	}
	if got != nil {
		t.Errorf("expected absent, got %+v", got)
	}
}

func TestFileBackendCorruptDocumentTreatedAbsent(t *testing.T) {
	dir := t.TempDir()
	b, err := NewFileBackend(dir, "")
	if err != nil {
		t.Fatalf("NewFileBackend failed: %v", err)
	}

	path := filepath.Join(dir, "broken.md.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	got, err := b.Get(context.Background(), "/broken.md")
	if err != nil {
		t.Fatalf("corrupt document must not crash the caller, got %v", err)
	}
	if got != nil {
		t.Errorf("expected corrupt document treated as absent, got %+v", got)
	}
}

func TestFileBackendListReconstructsKeys(t *testing.T) {
	ctx := context.Background()
	b, err := NewFileBackend(t.TempDir(), "agent-1")
	if err != nil {
		t.Fatalf("NewFileBackend failed: %v", err)
	}

	for _, key := range []string{"/b.md", "/a.md", "/nested/deep/file.md"} {
		if err := b.Put(ctx, key, vfs.NewFileRecord("x")); err != nil {
			t.Fatalf("Put %s failed: %v", key, err)
		}
	}

	keys, err := b.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	want := []string{"/a.md", "/b.md", "/nested/deep/file.md"}
	if len(keys) != len(want) {
		t.Fatalf("expected %v, got %v", want, keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], keys[i])
		}
	}
}

func TestFileBackendAgentIsolation(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	a, err := NewFileBackend(dir, "a")
	if err != nil {
		t.Fatalf("NewFileBackend a failed: %v", err)
	}
	b, err := NewFileBackend(dir, "b")
	if err != nil {
		t.Fatalf("NewFileBackend b failed: %v", err)
	}

	if err := a.Put(ctx, "/secret.md", vfs.NewFileRecord("for a only")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := b.Get(ctx, "/secret.md")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Error("agent b must not observe agent a's keys")
	}

	keys, err := b.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("agent b's list must not leak agent a's keys, got %v", keys)
	}
}

func TestFileBackendRejectsInvalidKeys(t *testing.T) {
	b, err := NewFileBackend(t.TempDir(), "")
	if err != nil {
		t.Fatalf("NewFileBackend failed: %v", err)
	}

	ctx := context.Background()
	for _, key := range []string{"", "relative.md", "/../escape.md", "/"} {
		if err := b.Put(ctx, key, vfs.NewFileRecord("x")); err == nil {
			t.Errorf("expected error for key %q", key)
		}
	}
}
