package task

import "time"

// ExecutionSummary aggregates one executor pass over a plan. The time
// total sums per-task wall time rather than elapsed wall clock, so it
// reflects aggregate work done by the pool.
type ExecutionSummary struct {
	TotalCount         int           `json:"total_count"`
	CompletedCount     int           `json:"completed_count"`
	FailedCount        int           `json:"failed_count"`
	TotalExecutionTime time.Duration `json:"total_execution_time"`
}

// DecisionRecord captures one oracle decision taken during an iteration.
type DecisionRecord struct {
	Timestamp time.Time      `json:"timestamp"`
	Decision  map[string]any `json:"decision"`
}

// Iteration is an immutable record of one pass through the refinement
// loop: the plan snapshot after execution plus its summary. Only
// AgentDecisions may be appended after creation.
type Iteration struct {
	IterationNumber  int              `json:"iteration_number"`
	Timestamp        time.Time        `json:"timestamp"`
	Tasks            Plan             `json:"tasks"`
	ExecutionSummary ExecutionSummary `json:"execution_summary"`
	AgentDecisions   []DecisionRecord `json:"agent_decisions,omitempty"`
}

// NewIteration snapshots the given plan into an iteration record.
// The plan is deep-copied so later executor mutations cannot reach it.
func NewIteration(number int, plan Plan, summary ExecutionSummary) *Iteration {
	return &Iteration{
		IterationNumber:  number,
		Timestamp:        time.Now(),
		Tasks:            plan.Clone(),
		ExecutionSummary: summary,
	}
}

// AppendDecision records an oracle decision against this iteration.
func (it *Iteration) AppendDecision(decision map[string]any) {
	it.AgentDecisions = append(it.AgentDecisions, DecisionRecord{
		Timestamp: time.Now(),
		Decision:  decision,
	})
}
