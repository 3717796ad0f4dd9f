package filesystem

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"

	"github.com/entrhq/attic/pkg/tools"
	"github.com/entrhq/attic/pkg/vfs"
)

// WriteFileTool creates a new file in the virtual store. It is
// create-only: overwriting an existing file requires reading it first and
// going through edit_file, which keeps the agent from clobbering content
// it has not seen.
type WriteFileTool struct {
	store vfs.Store
}

// NewWriteFileTool creates a new WriteFileTool over the given store.
func NewWriteFileTool(store vfs.Store) *WriteFileTool {
	return &WriteFileTool{store: store}
}

// Name returns the tool name.
func (t *WriteFileTool) Name() string {
	return "write_file"
}

// Description returns the tool description.
func (t *WriteFileTool) Description() string {
	return "Create a new file in the virtual filesystem. Fails if the file already exists; use edit_file to change existing content. Paths under /memories/ persist across sessions."
}

// Schema returns the JSON schema for the tool's input parameters.
func (t *WriteFileTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"file_path": map[string]interface{}{
				"type":        "string",
				"description": "Absolute virtual path to create",
			},
			"content": map[string]interface{}{
				"type":        "string",
				"description": "Full file content",
			},
		},
		[]string{"file_path", "content"},
	)
}

// Execute creates the file.
func (t *WriteFileTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input struct {
		XMLName  xml.Name `xml:"arguments"`
		FilePath string   `xml:"file_path"`
		Content  string   `xml:"content"`
	}
	if err := xml.Unmarshal(argsXML, &input); err != nil {
		return "", nil, fmt.Errorf("invalid arguments: %w", err)
	}

	if _, err := t.store.Read(ctx, input.FilePath); err == nil {
		return fmt.Sprintf("Cannot write to %s because it already exists. Read and then make an edit, or write to a new path.", input.FilePath), nil, nil
	} else if !errors.Is(err, vfs.ErrNotFound) {
		return "", nil, err
	}

	if err := t.store.Write(ctx, input.FilePath, input.Content); err != nil {
		return "", nil, err
	}

	metadata := map[string]interface{}{
		"file_path": input.FilePath,
	}
	return fmt.Sprintf("Updated file %s", input.FilePath), metadata, nil
}

// IsLoopBreaking returns false as this tool doesn't break the agent loop.
func (t *WriteFileTool) IsLoopBreaking() bool {
	return false
}
