// Package tool provides the data-provider registry: named travel-data
// tools dispatched by function name with parameter routing validation
// and per-tool execution metrics.
package tool

import (
	"context"

	"github.com/sanketp27/travel-concierge/internal/types"
)

// Tool represents an atomic, stateless data-fetch operation. Tools are
// the building blocks the planning engine dispatches tasks against.
//
// Execute returns either a success payload or a domain error payload
// containing an "error" key (e.g. "hotel not found"); the returned
// error is reserved for transport-level failures (network, timeout,
// provider outage) which callers may retry.
type Tool interface {
	// Name returns the unique identifier for this tool
	Name() string

	// Description returns a human-readable description of what this tool does
	Description() string

	// Tags returns a list of tags for categorization and discovery
	Tags() []string

	// Execute runs the tool with the given parameters.
	// Context is used for cancellation and per-task deadlines.
	Execute(ctx context.Context, params map[string]any) (map[string]any, error)

	// Health returns the current health status of this tool
	Health(ctx context.Context) types.HealthStatus
}

// ErrorPayload builds a well-formed domain error result.
func ErrorPayload(message string, details map[string]any) map[string]any {
	payload := map[string]any{"error": message}
	for k, v := range details {
		payload[k] = v
	}
	return payload
}

// IsErrorPayload reports whether a tool result carries the explicit
// domain error marker.
func IsErrorPayload(result map[string]any) bool {
	if result == nil {
		return false
	}
	_, ok := result["error"]
	return ok
}
