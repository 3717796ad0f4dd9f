package filesystem

import (
	"context"
	"encoding/xml"
	"fmt"

	"github.com/entrhq/attic/pkg/tools"
	"github.com/entrhq/attic/pkg/vfs"
)

// GlobTool finds files whose paths match a glob pattern, most recently
// modified first.
type GlobTool struct {
	store vfs.Store
}

// NewGlobTool creates a new GlobTool over the given store.
func NewGlobTool(store vfs.Store) *GlobTool {
	return &GlobTool{store: store}
}

// Name returns the tool name.
func (t *GlobTool) Name() string {
	return "glob"
}

// Description returns the tool description.
func (t *GlobTool) Description() string {
	return "Find files matching a glob pattern (e.g. '*.py', '**/*.md'). Results are ordered most recently modified first."
}

// Schema returns the JSON schema for the tool's input parameters.
func (t *GlobTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"pattern": map[string]interface{}{
				"type":        "string",
				"description": "Glob pattern to match file paths against",
			},
			"path": map[string]interface{}{
				"type":        "string",
				"description": "Base path to search under (default '/')",
			},
		},
		[]string{"pattern"},
	)
}

// Execute runs the glob search over a snapshot of the store.
func (t *GlobTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input struct {
		XMLName xml.Name `xml:"arguments"`
		Pattern string   `xml:"pattern"`
		Path    string   `xml:"path"`
	}
	if err := xml.Unmarshal(argsXML, &input); err != nil {
		return "", nil, fmt.Errorf("invalid arguments: %w", err)
	}
	if input.Path == "" {
		input.Path = "/"
	}

	files, err := t.store.Snapshot(ctx)
	if err != nil {
		return "", nil, err
	}

	result := vfs.GlobSearch(files, input.Pattern, input.Path)
	metadata := map[string]interface{}{
		"pattern": input.Pattern,
		"path":    input.Path,
		"count":   len(result.Paths),
	}
	return result.Render(), metadata, nil
}

// IsLoopBreaking returns false as this tool doesn't break the agent loop.
func (t *GlobTool) IsLoopBreaking() bool {
	return false
}
