package filesystem

import (
	"context"
	"encoding/xml"
	"fmt"

	"github.com/entrhq/attic/pkg/tools"
	"github.com/entrhq/attic/pkg/vfs"
)

// GrepTool searches file contents with a regular expression.
type GrepTool struct {
	store vfs.Store
}

// NewGrepTool creates a new GrepTool over the given store.
func NewGrepTool(store vfs.Store) *GrepTool {
	return &GrepTool{store: store}
}

// Name returns the tool name.
func (t *GrepTool) Name() string {
	return "grep"
}

// Description returns the tool description.
func (t *GrepTool) Description() string {
	return "Search file contents with a regular expression. Supports output modes files_with_matches (default), content and count, and an include glob to filter by file name."
}

// Schema returns the JSON schema for the tool's input parameters.
func (t *GrepTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"pattern": map[string]interface{}{
				"type":        "string",
				"description": "Regular expression to search for",
			},
			"path": map[string]interface{}{
				"type":        "string",
				"description": "Base path to search under (default '/')",
			},
			"include": map[string]interface{}{
				"type":        "string",
				"description": "Glob filter applied to file names (e.g. '*.py')",
			},
			"output_mode": map[string]interface{}{
				"type":        "string",
				"description": "One of files_with_matches (default), content, count",
			},
		},
		[]string{"pattern"},
	)
}

// Execute runs the grep search over a snapshot of the store.
func (t *GrepTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input struct {
		XMLName    xml.Name `xml:"arguments"`
		Pattern    string   `xml:"pattern"`
		Path       string   `xml:"path"`
		Include    string   `xml:"include"`
		OutputMode string   `xml:"output_mode"`
	}
	if err := xml.Unmarshal(argsXML, &input); err != nil {
		return "", nil, fmt.Errorf("invalid arguments: %w", err)
	}
	if input.Path == "" {
		input.Path = "/"
	}
	mode := vfs.GrepMode(input.OutputMode)
	if mode == "" {
		mode = vfs.GrepFilesWithMatches
	}

	files, err := t.store.Snapshot(ctx)
	if err != nil {
		return "", nil, err
	}

	metadata := map[string]interface{}{
		"pattern":     input.Pattern,
		"path":        input.Path,
		"output_mode": string(mode),
	}
	return vfs.GrepSearch(files, input.Pattern, input.Path, input.Include, mode), metadata, nil
}

// IsLoopBreaking returns false as this tool doesn't break the agent loop.
func (t *GrepTool) IsLoopBreaking() bool {
	return false
}
