package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/sanketp27/travel-concierge/internal/database"
	"github.com/sanketp27/travel-concierge/internal/executor"
	"github.com/sanketp27/travel-concierge/internal/observability"
	"github.com/sanketp27/travel-concierge/internal/oracle"
	"github.com/sanketp27/travel-concierge/internal/planner"
	"github.com/sanketp27/travel-concierge/internal/state"
	"github.com/sanketp27/travel-concierge/internal/task"
	"github.com/sanketp27/travel-concierge/internal/tool"
	"github.com/sanketp27/travel-concierge/internal/types"
)

const (
	// historyWindow bounds how many prior turns feed the clarification
	// prompt.
	historyWindow = 5

	apologyMessage = "I apologize, but I encountered an error while planning your trip. Please try again or rephrase your request."
)

// Sessions is the persistence surface the orchestrator needs: state
// snapshots plus conversation history and run records.
type Sessions interface {
	state.Persister
	Messages(ctx context.Context, sessionID types.ID) ([]database.Message, error)
	RecentMessages(ctx context.Context, sessionID types.ID, n int) ([]database.Message, error)
	AppendUserMessage(ctx context.Context, sessionID types.ID, content string) error
	AppendAssistantMessage(ctx context.Context, sessionID types.ID, content string) error
	SaveRunRecord(ctx context.Context, sessionID types.ID, name string, value any) error
}

// Orchestrator sequences one chat turn end to end: the clarification
// gate, initial planning, the bounded refinement loop, summarization,
// the single state commit, and history persistence. It is the only
// component that calls the state store's Commit.
type Orchestrator struct {
	client        *oracle.Client
	registry      tool.Registry
	sessions      Sessions
	merger        *planner.Merger
	maxIterations int
	execOpts      []executor.Option
	logger        *slog.Logger
	tracer        trace.Tracer
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithMaxIterations caps refinement rounds per run.
func WithMaxIterations(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxIterations = n
		}
	}
}

// WithExecutorOptions forwards options to the per-run executor.
func WithExecutorOptions(opts ...executor.Option) Option {
	return func(o *Orchestrator) {
		o.execOpts = opts
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithTracer sets the tracer used to span each run and its phases.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *Orchestrator) {
		if tracer != nil {
			o.tracer = tracer
		}
	}
}

// New creates an Orchestrator.
func New(client *oracle.Client, registry tool.Registry, sessions Sessions, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		client:        client,
		registry:      registry,
		sessions:      sessions,
		merger:        planner.NewMerger(),
		maxIterations: DefaultMaxIterations,
		logger:        slog.Default(),
		tracer:        trace.NewNoopTracerProvider().Tracer("orchestrator"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run handles one user message for a session and returns the assistant
// reply. Failures anywhere in the pipeline degrade to an apology rather
// than surfacing an error to the caller; the error return reports what
// went wrong for logging.
func (o *Orchestrator) Run(ctx context.Context, sessionID types.ID, userQuery string) (reply string, err error) {
	ctx, span := o.tracer.Start(ctx, observability.SpanRun,
		trace.WithAttributes(observability.SessionAttributes(sessionID)...))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("orchestration panic: %v", r)
			reply = apologyMessage
			o.saveExchange(ctx, sessionID, userQuery, reply)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	reply, err = o.run(ctx, sessionID, userQuery)
	if err != nil {
		o.logger.Error("run failed",
			"session_id", sessionID.String(),
			"error", err,
		)
		reply = apologyMessage
		o.saveExchange(ctx, sessionID, userQuery, reply)
	}
	return reply, err
}

func (o *Orchestrator) run(ctx context.Context, sessionID types.ID, userQuery string) (string, error) {
	started := time.Now()

	store, err := state.NewStore(ctx, sessionID, o.sessions)
	if err != nil {
		return "", err
	}

	history, err := o.recentHistory(ctx, sessionID)
	if err != nil {
		return "", err
	}

	snapshot := store.Get()

	// Clarification gate: without enough trip detail, ask and return
	// before any planning happens.
	clarifyCtx, clarifySpan := o.tracer.Start(ctx, observability.SpanClarify)
	clarification, err := o.client.Clarify(clarifyCtx, userQuery, history, snapshot)
	endSpan(clarifySpan, err)
	if err != nil {
		return "", err
	}

	if !clarification.HasSufficientInfo {
		o.logger.Info("clarification needed",
			"session_id", sessionID.String(),
			"missing", clarification.MissingInfo,
		)
		reply, err := o.client.ComposeClarification(ctx, userQuery, *clarification)
		if err != nil {
			return "", err
		}
		o.saveExchange(ctx, sessionID, userQuery, reply)
		return reply, nil
	}

	planCtx, planSpan := o.tracer.Start(ctx, observability.SpanPlan)
	proposals, err := o.client.ProposePlan(planCtx, userQuery, clarification.ExtractedInfo, snapshot, tool.Docs(o.registry))
	endSpan(planSpan, err)
	if err != nil {
		return "", err
	}

	plan := planner.FromProposals(proposals)
	if plan.PendingCount() == 0 {
		o.logger.Info("empty plan, nothing to execute", "session_id", sessionID.String())
	}

	exec := executor.New(o.registry, append([]executor.Option{
		executor.WithLogger(o.logger),
		executor.WithTracer(o.tracer),
	}, o.execOpts...)...)
	controller := NewController(exec, o.merger, o.client, o.maxIterations, o.logger)

	loopCtx, loopSpan := o.tracer.Start(ctx, observability.SpanLoop)
	loop, err := controller.Run(loopCtx, userQuery, plan, snapshot)
	endSpan(loopSpan, err)
	if err != nil {
		return "", err
	}

	summaryCtx, summarySpan := o.tracer.Start(ctx, observability.SpanSummarize)
	summary, err := o.client.Summarize(summaryCtx, userQuery, loop.Iterations, snapshot)
	endSpan(summarySpan, err)
	if err != nil {
		return "", err
	}

	// Single-writer commit: fold the run's outcome into session state.
	if err := store.Commit(ctx, o.stateUpdates(clarification, loop)); err != nil {
		return "", err
	}

	o.saveExchange(ctx, sessionID, userQuery, summary)

	if err := o.sessions.SaveRunRecord(ctx, sessionID, "execution_metadata", map[string]any{
		"query":      userQuery,
		"iterations": loop.Iterations,
		"elapsed":    time.Since(started).String(),
	}); err != nil {
		o.logger.Warn("failed to save run record", "error", err)
	}

	return summary, nil
}

// endSpan closes a phase span, marking it errored when the phase
// failed.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// stateUpdates builds the one diff the run commits: extracted travel
// details plus a task ledger entry per executed task.
func (o *Orchestrator) stateUpdates(clarification *oracle.ClarificationResult, loop *LoopResult) map[string]any {
	updates := map[string]any{}

	travelInfo := map[string]any{}
	for _, key := range []string{"origin", "destination", "departure_date", "return_date"} {
		if v, ok := clarification.ExtractedInfo[key]; ok && v != "" {
			switch key {
			case "departure_date":
				travelInfo["start_date"] = v
			case "return_date":
				travelInfo["end_date"] = v
			default:
				travelInfo[key] = v
			}
		}
	}
	if len(travelInfo) > 0 {
		updates["travel_info"] = travelInfo
	}

	var ledger []map[string]any
	for _, category := range task.Categories() {
		for _, t := range loop.Plan[category] {
			ledger = append(ledger, map[string]any{
				"task_id":   t.TaskID,
				"intent":    t.TaskName,
				"status":    t.Status.String(),
				"timestamp": time.Now().UTC().Format(time.RFC3339),
				"metadata": map[string]any{
					"category": category.String(),
					"function": t.Function,
				},
			})
		}
	}
	if len(ledger) > 0 {
		updates["tasks"] = ledger
	}

	return updates
}

func (o *Orchestrator) recentHistory(ctx context.Context, sessionID types.ID) ([]oracle.Message, error) {
	messages, err := o.sessions.RecentMessages(ctx, sessionID, historyWindow)
	if err != nil {
		return nil, err
	}

	history := make([]oracle.Message, 0, len(messages))
	for _, m := range messages {
		role := oracle.RoleUser
		if strings.EqualFold(m.Type, "ai") {
			role = oracle.RoleAssistant
		}
		history = append(history, oracle.Message{Role: role, Content: m.Content})
	}
	return history, nil
}

func (o *Orchestrator) saveExchange(ctx context.Context, sessionID types.ID, userQuery, reply string) {
	if err := o.sessions.AppendUserMessage(ctx, sessionID, userQuery); err != nil {
		o.logger.Warn("failed to save user message", "error", err)
		return
	}
	if err := o.sessions.AppendAssistantMessage(ctx, sessionID, reply); err != nil {
		o.logger.Warn("failed to save assistant message", "error", err)
	}
}
