package filesystem

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"strings"

	"github.com/entrhq/attic/pkg/tools"
	"github.com/entrhq/attic/pkg/vfs"
)

// EditFileTool replaces a string in an existing file. The old string must
// be unique in the file unless replace_all is set, so an ambiguous edit
// fails loudly instead of changing the wrong occurrence.
type EditFileTool struct {
	store vfs.Store
}

// NewEditFileTool creates a new EditFileTool over the given store.
func NewEditFileTool(store vfs.Store) *EditFileTool {
	return &EditFileTool{store: store}
}

// Name returns the tool name.
func (t *EditFileTool) Name() string {
	return "edit_file"
}

// Description returns the tool description.
func (t *EditFileTool) Description() string {
	return "Edit a file by replacing an exact string. The old string must appear exactly once unless replace_all is true."
}

// Schema returns the JSON schema for the tool's input parameters.
func (t *EditFileTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"file_path": map[string]interface{}{
				"type":        "string",
				"description": "Absolute virtual path to edit",
			},
			"old_string": map[string]interface{}{
				"type":        "string",
				"description": "Exact string to find and replace",
			},
			"new_string": map[string]interface{}{
				"type":        "string",
				"description": "Replacement string",
			},
			"replace_all": map[string]interface{}{
				"type":        "boolean",
				"description": "Replace every occurrence instead of requiring a unique match (default false)",
			},
		},
		[]string{"file_path", "old_string", "new_string"},
	)
}

// Execute performs the replacement and writes the file back.
func (t *EditFileTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input struct {
		XMLName    xml.Name `xml:"arguments"`
		FilePath   string   `xml:"file_path"`
		OldString  string   `xml:"old_string"`
		NewString  string   `xml:"new_string"`
		ReplaceAll bool     `xml:"replace_all"`
	}
	if err := xml.Unmarshal(argsXML, &input); err != nil {
		return "", nil, fmt.Errorf("invalid arguments: %w", err)
	}

	rec, err := t.store.Read(ctx, input.FilePath)
	if errors.Is(err, vfs.ErrNotFound) {
		return fmt.Sprintf("Error: File '%s' not found", input.FilePath), nil, nil
	}
	if err != nil {
		return "", nil, err
	}

	content := rec.String()
	occurrences := strings.Count(content, input.OldString)
	if occurrences == 0 {
		return fmt.Sprintf("Error: String not found in file: '%s'", input.OldString), nil, nil
	}
	if occurrences > 1 && !input.ReplaceAll {
		return fmt.Sprintf("Error: String '%s' appears %d times in file. Use replace_all to replace all instances, or provide a more specific string with surrounding context.", input.OldString, occurrences), nil, nil
	}

	if err := t.store.Write(ctx, input.FilePath, strings.ReplaceAll(content, input.OldString, input.NewString)); err != nil {
		return "", nil, err
	}

	metadata := map[string]interface{}{
		"file_path":   input.FilePath,
		"occurrences": occurrences,
	}
	return fmt.Sprintf("Successfully replaced %d instance(s) of the string in '%s'", occurrences, input.FilePath), metadata, nil
}

// IsLoopBreaking returns false as this tool doesn't break the agent loop.
func (t *EditFileTool) IsLoopBreaking() bool {
	return false
}
