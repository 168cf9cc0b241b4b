package tools

import (
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/healthsignal/health-engine/pkg/apperrors"
	"github.com/healthsignal/health-engine/pkg/logging"
)

// ErrorResponse represents a structured error in tool results.
// Recoverable errors are returned as successful tool results carrying this
// payload, so the calling agent sees the message and corrective action
// instead of an opaque protocol failure.
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// NewErrorResult creates a tool result containing a structured error.
func NewErrorResult(code, message string) *mcp.CallToolResult {
	resp := ErrorResponse{
		Error:   true,
		Code:    code,
		Message: message,
	}
	jsonBytes, _ := json.Marshal(resp)
	result := mcp.NewToolResultText(string(jsonBytes))
	result.IsError = true
	return result
}

// errResult classifies an engine error into a structured tool error. The
// message is sanitized so credentials never leak into tool output.
func errResult(err error) *mcp.CallToolResult {
	msg := logging.SanitizeError(err)

	switch {
	case apperrors.IsConfig(err):
		return NewErrorResult("configuration_error", msg)
	case errors.Is(err, apperrors.ErrNotFound):
		return NewErrorResult("not_found", msg)
	case errors.Is(err, apperrors.ErrTimeout):
		return NewErrorResult("timeout", msg)
	case errors.Is(err, apperrors.ErrConnectivity):
		return NewErrorResult("connectivity_error", msg)
	default:
		return NewErrorResult("operation_failed", msg)
	}
}
