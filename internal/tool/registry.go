package tool

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/sanketp27/travel-concierge/internal/observability"
	"github.com/sanketp27/travel-concierge/internal/types"
)

// Registry manages tool registration, discovery, and execution. It is
// an explicit, injected capability: constructed once per process and
// passed into the executor, never reached through package state.
type Registry interface {
	// Register adds a tool implementation
	Register(tool Tool) error

	// Unregister removes a tool from the registry by name
	Unregister(name string) error

	// Get retrieves a tool by name, returning an error if not found
	Get(name string) (Tool, error)

	// Names returns the sorted names of all registered tools
	Names() []string

	// Execute runs a tool by name with the given parameters, recording
	// metrics. An unknown name or a routing mismatch yields a domain
	// error payload, not a Go error; the error return is reserved for
	// transport failures from the tool itself.
	Execute(ctx context.Context, name string, params map[string]any) (map[string]any, error)

	// Health returns the overall health status of the registry
	Health(ctx context.Context) types.HealthStatus

	// Metrics returns execution metrics for a specific tool
	Metrics(name string) (MetricsSnapshot, error)
}

// DefaultRegistry implements Registry with thread-safe operations.
type DefaultRegistry struct {
	mu      sync.RWMutex
	tools   map[string]Tool
	metrics map[string]*Metrics
	tracer  trace.Tracer
}

// RegistryOption is a functional option for NewRegistry.
type RegistryOption func(*DefaultRegistry)

// WithTracer sets the tracer that spans each tool call.
func WithTracer(tracer trace.Tracer) RegistryOption {
	return func(r *DefaultRegistry) {
		if tracer != nil {
			r.tracer = tracer
		}
	}
}

// NewRegistry creates an empty DefaultRegistry.
func NewRegistry(opts ...RegistryOption) *DefaultRegistry {
	r := &DefaultRegistry{
		tools:   make(map[string]Tool),
		metrics: make(map[string]*Metrics),
		tracer:  trace.NewNoopTracerProvider().Tracer("tool"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a tool implementation.
// Returns types.TOOL_ALREADY_EXISTS if a tool with the same name is already registered.
func (r *DefaultRegistry) Register(tool Tool) error {
	if tool == nil {
		return types.NewError(types.TOOL_INVALID_INPUT, "tool cannot be nil")
	}

	name := tool.Name()
	if name == "" {
		return types.NewError(types.TOOL_INVALID_INPUT, "tool name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; exists {
		return types.NewError(types.TOOL_ALREADY_EXISTS, fmt.Sprintf("tool %q already registered", name))
	}

	r.tools[name] = tool
	r.metrics[name] = NewMetrics()
	return nil
}

// Unregister removes a tool from the registry by name.
// Returns types.TOOL_NOT_FOUND if the tool doesn't exist.
func (r *DefaultRegistry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; !exists {
		return types.NewError(types.TOOL_NOT_FOUND, fmt.Sprintf("tool %q not found", name))
	}

	delete(r.tools, name)
	delete(r.metrics, name)
	return nil
}

// Get retrieves a tool by name. A bare name is also tried with the
// "_tool" suffix the planner sometimes emits.
func (r *DefaultRegistry) Get(name string) (Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if tool, exists := r.tools[name]; exists {
		return tool, nil
	}
	if tool, exists := r.tools[name+"_tool"]; exists {
		return tool, nil
	}

	return nil, types.NewError(types.TOOL_NOT_FOUND, fmt.Sprintf("tool %q not found", name))
}

// Names returns the sorted names of all registered tools.
func (r *DefaultRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Execute runs a tool by name with the given parameters, recording metrics.
func (r *DefaultRegistry) Execute(ctx context.Context, name string, params map[string]any) (map[string]any, error) {
	if params == nil {
		params = make(map[string]any)
	}

	ctx, span := r.tracer.Start(ctx, observability.SpanToolExecute,
		trace.WithAttributes(observability.ToolAttributes(name)...))
	defer span.End()

	tool, err := r.Get(name)
	if err != nil {
		// Unknown names are a routing problem for the oracle to see and
		// correct, not a transport failure worth retrying.
		span.SetStatus(codes.Error, "tool not found")
		return ErrorPayload(
			fmt.Sprintf("Function %q not found.", name),
			map[string]any{"available_functions": r.Names()},
		), nil
	}

	if routingErr := validateRouting(tool.Name(), params); routingErr != nil {
		span.SetStatus(codes.Error, "routing validation failed")
		return routingErr, nil
	}

	start := time.Now()
	output, execErr := tool.Execute(ctx, params)
	duration := time.Since(start)

	r.mu.Lock()
	if metrics, exists := r.metrics[tool.Name()]; exists {
		if execErr != nil || IsErrorPayload(output) {
			metrics.RecordFailure(duration)
		} else {
			metrics.RecordSuccess(duration)
		}
	}
	r.mu.Unlock()

	if execErr != nil {
		span.RecordError(execErr)
		span.SetStatus(codes.Error, execErr.Error())
		return nil, types.WrapRetryableError(types.TOOL_EXECUTION_FAILED,
			fmt.Sprintf("tool %q execution failed", tool.Name()), execErr)
	}

	if IsErrorPayload(output) {
		msg, _ := output["error"].(string)
		span.SetStatus(codes.Error, msg)
	}

	return output, nil
}

// Health returns the overall health status of the registry. The
// registry is healthy if all tools are healthy, degraded if some are
// unhealthy, and unhealthy if all are or none are registered.
func (r *DefaultRegistry) Health(ctx context.Context) types.HealthStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.tools) == 0 {
		return types.Unhealthy("no tools registered")
	}

	var unhealthy []string
	for name, tool := range r.tools {
		if !tool.Health(ctx).IsHealthy() {
			unhealthy = append(unhealthy, name)
		}
	}

	switch {
	case len(unhealthy) == 0:
		return types.Healthy(fmt.Sprintf("%d tools registered", len(r.tools)))
	case len(unhealthy) == len(r.tools):
		return types.Unhealthy("all tools unhealthy")
	default:
		sort.Strings(unhealthy)
		return types.Degraded("unhealthy tools: " + strings.Join(unhealthy, ", "))
	}
}

// Metrics returns execution metrics for a specific tool.
func (r *DefaultRegistry) Metrics(name string) (MetricsSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	metrics, exists := r.metrics[name]
	if !exists {
		return MetricsSnapshot{}, types.NewError(types.TOOL_NOT_FOUND, fmt.Sprintf("tool %q not found", name))
	}
	return metrics.Snapshot(), nil
}
