package tools

import (
	"errors"
	"fmt"

	"github.com/dtnitsch/stealth-fetch-mcp/models"
)

// JSON-RPC error codes reported to MCP clients.
const (
	CodeInvalidParams int64 = -32602
	CodeInternalError int64 = -32603
)

// ToolError is the only error type Invoke returns. Code and Message go on
// the wire as a JSON-RPC error.
type ToolError struct {
	Code    int64
	Message string
	Err     error
}

func (e *ToolError) Error() string {
	return e.Message
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

type UnknownOperationError struct {
	Name string
}

func (e *UnknownOperationError) Error() string {
	return fmt.Sprintf("Unknown tool: %s", e.Name)
}

// classify maps a handler failure for operation name onto a ToolError.
// Caller mistakes are invalid params; everything else is internal.
func classify(name string, err error) *ToolError {
	var (
		toolErr    *ToolError
		validation *models.ValidationError
		unknown    *UnknownOperationError
	)
	switch {
	case errors.As(err, &toolErr):
		return toolErr
	case errors.As(err, &validation), errors.As(err, &unknown):
		return &ToolError{Code: CodeInvalidParams, Message: err.Error(), Err: err}
	default:
		return &ToolError{
			Code:    CodeInternalError,
			Message: fmt.Sprintf("Error processing %s: %v", name, err),
			Err:     err,
		}
	}
}
