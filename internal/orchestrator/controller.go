package orchestrator

import (
	"context"
	"log/slog"

	"github.com/sanketp27/travel-concierge/internal/executor"
	"github.com/sanketp27/travel-concierge/internal/oracle"
	"github.com/sanketp27/travel-concierge/internal/planner"
	"github.com/sanketp27/travel-concierge/internal/task"
)

// DefaultMaxIterations caps refinement rounds per run.
const DefaultMaxIterations = 3

// Phase names a step of the refinement loop.
type Phase string

const (
	PhasePlanning          Phase = "planning"
	PhaseExecuting         Phase = "executing"
	PhaseAwaitingNextSteps Phase = "awaiting_next_steps"
	PhaseMerging           Phase = "merging"
	PhaseDone              Phase = "done"
)

// Controller drives the bounded execute/review/merge loop over a plan.
// A single caller drives it sequentially; all fan-out happens inside the
// executor and joins before the next phase starts.
type Controller struct {
	exec          *executor.Executor
	merger        *planner.Merger
	client        *oracle.Client
	maxIterations int
	logger        *slog.Logger
}

// LoopResult is the outcome of one full loop: the final plan and the
// immutable per-round records.
type LoopResult struct {
	Plan       task.Plan
	Iterations []*task.Iteration
}

// NewController creates a Controller. maxIterations <= 0 falls back to
// the default cap.
func NewController(exec *executor.Executor, merger *planner.Merger, client *oracle.Client, maxIterations int, logger *slog.Logger) *Controller {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		exec:          exec,
		merger:        merger,
		client:        client,
		maxIterations: maxIterations,
		logger:        logger,
	}
}

// Run executes the plan to completion or to the iteration cap. Each
// pass produces one iteration record. A round that completes zero tasks
// stalls the loop; nothing further would succeed.
func (c *Controller) Run(ctx context.Context, userQuery string, plan task.Plan, stateSnapshot map[string]any) (*LoopResult, error) {
	result := &LoopResult{Plan: plan}
	phase := PhaseExecuting

	for round := 0; round < c.maxIterations && phase != PhaseDone; {
		summary, err := c.exec.Execute(ctx, result.Plan)
		if err != nil {
			return nil, err
		}

		record := task.NewIteration(round+1, result.Plan, summary)
		result.Iterations = append(result.Iterations, record)

		c.logger.Info("iteration finished",
			"iteration", round+1,
			"completed", summary.CompletedCount,
			"total", summary.TotalCount,
			"total_execution_time", summary.TotalExecutionTime,
		)

		if summary.CompletedCount == 0 {
			c.logger.Warn("no tasks completed, stopping iterations")
			phase = PhaseDone
			break
		}

		phase = PhaseAwaitingNextSteps
		callbacks := callbackResults(result.Plan)
		if len(callbacks) == 0 {
			phase = PhaseDone
			break
		}

		steps, err := c.client.NextSteps(ctx, userQuery, callbacks, stateSnapshot)
		if err != nil {
			return nil, err
		}
		record.AppendDecision(map[string]any{
			"phase":                  string(PhaseAwaitingNextSteps),
			"needs_additional_tasks": steps.NeedsAdditionalTasks,
			"reasoning":              steps.Reasoning,
			"insights":               steps.Insights,
		})

		if !steps.NeedsAdditionalTasks {
			phase = PhaseDone
			break
		}

		phase = PhaseMerging
		result.Plan = c.merger.Merge(result.Plan, planner.FromProposals(steps.NewTasks))
		round++

		if result.Plan.PendingCount() == 0 {
			c.logger.Info("no pending tasks after merge")
			phase = PhaseDone
			break
		}
		phase = PhaseExecuting
	}

	return result, nil
}

// callbackResults gathers completed tasks that were flagged for oracle
// review, grouped by category for the next-steps prompt.
func callbackResults(plan task.Plan) map[string][]*task.Task {
	out := make(map[string][]*task.Task)
	for _, pt := range plan.Completed() {
		if pt.Task.AgentCallRequired {
			out[pt.Category.String()] = append(out[pt.Category.String()], pt.Task)
		}
	}
	return out
}
