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

const (
	// EmptyContentWarning is returned instead of numbered lines when a
	// file exists but holds no content.
	EmptyContentWarning = "System reminder: File exists but has empty contents"

	// maxLineLength caps each rendered line; longer lines are truncated.
	maxLineLength = 2000

	// defaultReadLimit is the number of lines returned when no limit is given.
	defaultReadLimit = 2000
)

// ReadFileTool reads a file from the virtual store, rendering content
// with cat -n style line numbers.
type ReadFileTool struct {
	store vfs.Store
}

// NewReadFileTool creates a new ReadFileTool over the given store.
func NewReadFileTool(store vfs.Store) *ReadFileTool {
	return &ReadFileTool{store: store}
}

// Name returns the tool name.
func (t *ReadFileTool) Name() string {
	return "read_file"
}

// Description returns the tool description.
func (t *ReadFileTool) Description() string {
	return "Read a file from the virtual filesystem. Returns content with line numbers. Use offset and limit to read part of a large file."
}

// Schema returns the JSON schema for the tool's input parameters.
func (t *ReadFileTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"file_path": map[string]interface{}{
				"type":        "string",
				"description": "Absolute virtual path to read (e.g. '/notes.txt', '/memories/agent.md')",
			},
			"offset": map[string]interface{}{
				"type":        "integer",
				"description": "Line offset to start reading from (0-indexed, default 0)",
			},
			"limit": map[string]interface{}{
				"type":        "integer",
				"description": "Maximum number of lines to read (default 2000)",
			},
		},
		[]string{"file_path"},
	)
}

// Execute reads the file and formats its content.
func (t *ReadFileTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input struct {
		XMLName  xml.Name `xml:"arguments"`
		FilePath string   `xml:"file_path"`
		Offset   int      `xml:"offset"`
		Limit    int      `xml:"limit"`
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

	metadata := map[string]interface{}{
		"file_path":  input.FilePath,
		"line_count": len(rec.Content),
	}
	return renderRecord(rec, input.Offset, input.Limit), metadata, nil
}

// IsLoopBreaking returns false as this tool doesn't break the agent loop.
func (t *ReadFileTool) IsLoopBreaking() bool {
	return false
}

// renderRecord formats a record's content window with line numbers.
func renderRecord(rec *vfs.FileRecord, offset, limit int) string {
	if strings.TrimSpace(rec.String()) == "" {
		return EmptyContentWarning
	}
	if limit <= 0 {
		limit = defaultReadLimit
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(rec.Content) {
		return fmt.Sprintf("Error: Line offset %d exceeds file length (%d lines)", offset, len(rec.Content))
	}

	end := offset + limit
	if end > len(rec.Content) {
		end = len(rec.Content)
	}
	return formatWithLineNumbers(rec.Content[offset:end], offset+1)
}

// formatWithLineNumbers renders lines in cat -n style, truncating lines
// longer than maxLineLength.
func formatWithLineNumbers(lines []string, startLine int) string {
	var sb strings.Builder
	for i, line := range lines {
		if i > 0 {
			sb.WriteString("\n")
		}
		if len(line) > maxLineLength {
			line = line[:maxLineLength]
		}
		sb.WriteString(fmt.Sprintf("%6d\t%s", startLine+i, line))
	}
	return sb.String()
}
