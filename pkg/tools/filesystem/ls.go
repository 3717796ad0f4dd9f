package filesystem

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/entrhq/attic/pkg/tools"
	"github.com/entrhq/attic/pkg/vfs"
)

// LsTool lists files under a path in the virtual store.
type LsTool struct {
	store vfs.Store
}

// NewLsTool creates a new LsTool over the given store.
func NewLsTool(store vfs.Store) *LsTool {
	return &LsTool{store: store}
}

// Name returns the tool name.
func (t *LsTool) Name() string {
	return "ls"
}

// Description returns the tool description.
func (t *LsTool) Description() string {
	return "List files in the virtual filesystem under a given path. Defaults to the root."
}

// Schema returns the JSON schema for the tool's input parameters.
func (t *LsTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"path": map[string]interface{}{
				"type":        "string",
				"description": "Path to list files under (default '/')",
			},
		},
		nil,
	)
}

// Execute lists the files.
func (t *LsTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input struct {
		XMLName xml.Name `xml:"arguments"`
		Path    string   `xml:"path"`
	}
	if err := xml.Unmarshal(argsXML, &input); err != nil {
		return "", nil, fmt.Errorf("invalid arguments: %w", err)
	}
	if input.Path == "" {
		input.Path = "/"
	}

	paths, err := t.store.List(ctx, input.Path)
	if err != nil {
		return "", nil, err
	}

	metadata := map[string]interface{}{
		"path":  input.Path,
		"count": len(paths),
	}
	if len(paths) == 0 {
		return vfs.NoFilesFound, metadata, nil
	}
	return strings.Join(paths, "\n"), metadata, nil
}

// IsLoopBreaking returns false as this tool doesn't break the agent loop.
func (t *LsTool) IsLoopBreaking() bool {
	return false
}
