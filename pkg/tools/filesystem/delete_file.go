package filesystem

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"

	"github.com/entrhq/attic/pkg/tools"
	"github.com/entrhq/attic/pkg/vfs"
)

// DeleteFileTool removes a file from the virtual store. Long-term memory
// paths refuse deletion; the refusal is rendered as a result string so
// the agent can react to it.
type DeleteFileTool struct {
	store vfs.Store
}

// NewDeleteFileTool creates a new DeleteFileTool over the given store.
func NewDeleteFileTool(store vfs.Store) *DeleteFileTool {
	return &DeleteFileTool{store: store}
}

// Name returns the tool name.
func (t *DeleteFileTool) Name() string {
	return "delete_file"
}

// Description returns the tool description.
func (t *DeleteFileTool) Description() string {
	return "Delete a file from the virtual filesystem. Files under /memories/ cannot be deleted."
}

// Schema returns the JSON schema for the tool's input parameters.
func (t *DeleteFileTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"file_path": map[string]interface{}{
				"type":        "string",
				"description": "Absolute virtual path to delete",
			},
		},
		[]string{"file_path"},
	)
}

// Execute deletes the file.
func (t *DeleteFileTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input struct {
		XMLName  xml.Name `xml:"arguments"`
		FilePath string   `xml:"file_path"`
	}
	if err := xml.Unmarshal(argsXML, &input); err != nil {
		return "", nil, fmt.Errorf("invalid arguments: %w", err)
	}

	err := t.store.Delete(ctx, input.FilePath)
	switch {
	case errors.Is(err, vfs.ErrNotFound):
		return fmt.Sprintf("Error: File '%s' not found", input.FilePath), nil, nil
	case errors.Is(err, vfs.ErrUnsupported):
		return fmt.Sprintf("Error: cannot delete %s, long-term memory is append-only", input.FilePath), nil, nil
	case err != nil:
		return "", nil, err
	}

	metadata := map[string]interface{}{
		"file_path": input.FilePath,
	}
	return fmt.Sprintf("Deleted file %s", input.FilePath), metadata, nil
}

// IsLoopBreaking returns false as this tool doesn't break the agent loop.
func (t *DeleteFileTool) IsLoopBreaking() bool {
	return false
}
