package observability

import (
	"go.opentelemetry.io/otel/attribute"

	"github.com/sanketp27/travel-concierge/internal/task"
	"github.com/sanketp27/travel-concierge/internal/types"
)

// Concierge-specific attribute keys.
const (
	// ConciergeSessionID is the session the run belongs to
	ConciergeSessionID = "concierge.session.id"

	// ConciergeTaskID is the unique identifier of a planned task
	ConciergeTaskID = "concierge.task.id"

	// ConciergeTaskFunction is the tool function a task invokes
	ConciergeTaskFunction = "concierge.task.function"

	// ConciergeTaskPriority is the dispatch priority of a task
	ConciergeTaskPriority = "concierge.task.priority"

	// ConciergeTaskCached marks a task answered from the run cache
	ConciergeTaskCached = "concierge.task.cached"

	// ConciergeToolName is the name of the tool being called
	ConciergeToolName = "concierge.tool.name"

	// ConciergeIteration is the refinement round number
	ConciergeIteration = "concierge.iteration.number"
)

// Span names for the traced operations.
const (
	// SpanRun covers one full chat turn
	SpanRun = "concierge.orchestrator.run"

	// SpanClarify covers the clarification gate
	SpanClarify = "concierge.oracle.clarify"

	// SpanPlan covers initial plan proposal
	SpanPlan = "concierge.oracle.plan"

	// SpanLoop covers the execute/review/merge loop
	SpanLoop = "concierge.orchestrator.loop"

	// SpanSummarize covers final summary generation
	SpanSummarize = "concierge.oracle.summarize"

	// SpanTaskExecute covers one task execution including retries
	SpanTaskExecute = "concierge.task.execute"

	// SpanToolExecute covers one tool call through the registry
	SpanToolExecute = "concierge.tool.execute"
)

// SessionAttributes builds the attributes every span of a run carries.
func SessionAttributes(sessionID types.ID) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(ConciergeSessionID, sessionID.String()),
	}
}

// TaskAttributes builds span attributes for a task execution.
func TaskAttributes(t *task.Task) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(ConciergeTaskID, t.TaskID),
		attribute.String(ConciergeTaskFunction, t.Function),
		attribute.Int(ConciergeTaskPriority, t.Priority),
	}
}

// ToolAttributes builds span attributes for a tool call.
func ToolAttributes(name string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(ConciergeToolName, name),
	}
}
