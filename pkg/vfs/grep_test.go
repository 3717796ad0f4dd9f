package vfs

import (
	"strings"
	"testing"
	"time"
)

func grepSnapshot() map[string]*FileRecord {
	mod := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return map[string]*FileRecord{
		"/file.py": {
			Content:    []string{"import os", "print('hi')"},
			CreatedAt:  mod,
			ModifiedAt: mod,
		},
		"/main.go": {
			Content:    []string{"package main", `import "fmt"`, "", `import "os"`},
			CreatedAt:  mod,
			ModifiedAt: mod,
		},
		"/notes/todo.md": {
			Content:    []string{"remember to import the fixtures"},
			CreatedAt:  mod,
			ModifiedAt: mod,
		},
	}
}

func TestGrepSearchFilesWithMatches(t *testing.T) {
	files := map[string]*FileRecord{
		"/file.py": {Content: []string{"import os", "print('hi')"}},
	}

	got := GrepSearch(files, "import", "/", "", GrepFilesWithMatches)
	if got != "/file.py" {
		t.Errorf("expected %q, got %q", "/file.py", got)
	}
}

func TestGrepSearchContentMode(t *testing.T) {
	files := map[string]*FileRecord{
		"/file.py": {Content: []string{"import os", "print('hi')"}},
	}

	got := GrepSearch(files, "import", "/", "", GrepContent)
	if got != "/file.py:1:import os" {
		t.Errorf("expected %q, got %q", "/file.py:1:import os", got)
	}
}

func TestGrepSearchCountMode(t *testing.T) {
	got := GrepSearch(grepSnapshot(), "import", "/", "", GrepCount)
	want := "/file.py:1\n/main.go:2\n/notes/todo.md:1"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestGrepSearchGroupsByFileInPathOrder(t *testing.T) {
	got := GrepSearch(grepSnapshot(), "import", "/", "", GrepContent)
	want := strings.Join([]string{
		"/file.py:1:import os",
		`/main.go:2:import "fmt"`,
		`/main.go:4:import "os"`,
		"/notes/todo.md:1:remember to import the fixtures",
	}, "\n")
	if got != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, got)
	}
}

func TestGrepSearchIncludeFiltersBasename(t *testing.T) {
	got := GrepSearch(grepSnapshot(), "import", "/", "*.go", GrepFilesWithMatches)
	if got != "/main.go" {
		t.Errorf("expected %q, got %q", "/main.go", got)
	}

	// include matches basenames only, so a path-shaped glob matches nothing
	got = GrepSearch(grepSnapshot(), "import", "/", "notes/*.md", GrepFilesWithMatches)
	if got != NoMatchesFound {
		t.Errorf("expected sentinel for path-shaped include, got %q", got)
	}
}

func TestGrepSearchBasePath(t *testing.T) {
	got := GrepSearch(grepSnapshot(), "import", "/notes", "", GrepFilesWithMatches)
	if got != "/notes/todo.md" {
		t.Errorf("expected %q, got %q", "/notes/todo.md", got)
	}
}

func TestGrepSearchRegexSemantics(t *testing.T) {
	files := map[string]*FileRecord{
		"/log.txt": {Content: []string{"error: disk full", "warning: low memory", "errors everywhere"}},
	}

	// Search semantics: the expression may match anywhere in the line.
	got := GrepSearch(files, "^error", "/", "", GrepCount)
	if got != "/log.txt:2" {
		t.Errorf("expected %q, got %q", "/log.txt:2", got)
	}
}

func TestGrepSearchInvalidPattern(t *testing.T) {
	got := GrepSearch(grepSnapshot(), "(unbalanced", "/", "", GrepFilesWithMatches)
	if !strings.Contains(got, "Invalid regex pattern") {
		t.Errorf("expected invalid-pattern message, got %q", got)
	}
}

func TestGrepSearchNoMatches(t *testing.T) {
	got := GrepSearch(grepSnapshot(), "nonexistent_token", "/", "", GrepFilesWithMatches)
	if got != NoMatchesFound {
		t.Errorf("expected sentinel %q, got %q", NoMatchesFound, got)
	}
}

func TestGrepSearchBadBasePath(t *testing.T) {
	got := GrepSearch(grepSnapshot(), "import", "no-slash", "", GrepFilesWithMatches)
	if got != NoMatchesFound {
		t.Errorf("expected sentinel for invalid base path, got %q", got)
	}
}
