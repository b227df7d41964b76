// Package tool implements the function / tool calling subsystem that lets
// agents invoke structured capabilities (profile lookups, searches, report
// retrieval) with schema validated arguments and consistent error handling.
package tool

import (
	"context"
	"fmt"
)

// Tool is a named, independently invocable capability exposed to an agent's
// model. The description is consumed by the LLM for selection; Parameters is
// a JSON Schema object describing the accepted arguments.
//
// Tool implementations should:
//   - Provide clear, descriptive names (snake_case) and descriptions
//   - Treat "nothing found" as a normal, describable text outcome, never an error
//   - Read the caller identity from the context, never from arguments
//   - Be safe for concurrent use
type Tool interface {
	// Name returns the unique identifier for this tool.
	Name() string

	// Description returns a human-readable description of what this tool
	// does, provided to the LLM to guide selection.
	Description() string

	// Parameters returns a JSON schema describing the expected arguments.
	Parameters() map[string]any

	// Call executes the tool with already decoded arguments and returns a
	// text payload: a serialized structured result on success, or a
	// descriptive "nothing found" message. The ambient caller identity is
	// read from ctx.
	Call(ctx context.Context, args map[string]any) (string, error)
}

// ToolError represents errors that occur during tool execution.
type ToolError struct {
	Tool    string `json:"tool"`              // Name of the tool that failed
	Message string `json:"message"`           // Error message
	Code    string `json:"code"`              // Error code for categorization
	Details any    `json:"details,omitempty"` // Additional error details
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewToolError creates a new ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{
		Tool:    tool,
		Message: message,
		Code:    code,
	}
}
