// Package tools defines the capability interface the agent loop invokes
// through XML-formatted tool calls. The loop itself is an external
// collaborator; this package only fixes the contract tools implement and
// the argument encoding they receive.
package tools

import (
	"context"
	"encoding/xml"
)

// Tool represents a capability an agent can use during execution.
//
// Example tool call format from the LLM:
//
//	<tool>
//	<tool_name>glob</tool_name>
//	<arguments>
//	  <pattern>**/*.py</pattern>
//	</arguments>
//	</tool>
type Tool interface {
	// Name returns the unique identifier for this tool (e.g., "glob")
	Name() string

	// Description returns a human-readable description of what this tool does
	Description() string

	// Schema returns the JSON schema for this tool's input parameters
	Schema() map[string]interface{}

	// Execute runs the tool with the given XML arguments and returns a
	// result string rendered back to the caller.
	// Returns: (result string, metadata map, error)
	// Metadata is optional and can be nil - it is included in tool result events
	Execute(ctx context.Context, argumentsXML []byte) (string, map[string]interface{}, error)

	// IsLoopBreaking indicates whether this tool should terminate the agent loop
	IsLoopBreaking() bool
}

// ToolCall represents a parsed tool invocation from the LLM's response
type ToolCall struct {
	XMLName   xml.Name       `xml:"tool"`
	ToolName  string         `xml:"tool_name"`
	Arguments ArgumentsBlock `xml:"arguments"`
}

// ArgumentsBlock holds the raw XML of the arguments element
type ArgumentsBlock struct {
	InnerXML []byte `xml:",innerxml"`
}

// GetArgumentsXML returns the arguments wrapped in <arguments> tags for
// unmarshaling into a tool's argument struct.
func (tc *ToolCall) GetArgumentsXML() []byte {
	const prefix = "<arguments>"
	const suffix = "</arguments>"

	result := make([]byte, 0, len(prefix)+len(tc.Arguments.InnerXML)+len(suffix))
	result = append(result, []byte(prefix)...)
	result = append(result, tc.Arguments.InnerXML...)
	result = append(result, []byte(suffix)...)
	return result
}

// BaseToolSchema creates a common JSON schema structure for a tool
// with the given properties and required fields
func BaseToolSchema(properties map[string]interface{}, required []string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}
