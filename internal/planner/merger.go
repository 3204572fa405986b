package planner

import (
	"log/slog"
	"strings"

	"github.com/sanketp27/travel-concierge/internal/task"
)

// ParentPolicy decides whether an existing task should adopt a newly
// proposed task as a subtask.
type ParentPolicy interface {
	Matches(candidate, proposed *task.Task) bool
}

// PrefixPolicy links tasks whose function names share a first token,
// split on underscore: get_flight_offers_tool descends from
// search_flights_tool only when their first tokens match. This is a
// heuristic, not declared dependency linkage, and can attach a task to
// a sibling of the intended parent when first tokens collide.
type PrefixPolicy struct{}

// Matches reports whether candidate can parent proposed: it must have
// required an oracle callback, be completed, and share a first function
// name token with the proposed task.
func (PrefixPolicy) Matches(candidate, proposed *task.Task) bool {
	if !candidate.AgentCallRequired || candidate.Status != task.StatusCompleted {
		return false
	}
	prefix, _, _ := strings.Cut(candidate.Function, "_")
	return prefix != "" && strings.HasPrefix(proposed.Function, prefix)
}

// Merger folds newly proposed tasks into an existing plan, attaching
// each to the first matching completed parent in its category or
// appending it top-level when no parent matches.
type Merger struct {
	policy ParentPolicy
	logger *slog.Logger
}

// MergerOption configures a Merger.
type MergerOption func(*Merger)

// WithPolicy replaces the default prefix parent policy.
func WithPolicy(policy ParentPolicy) MergerOption {
	return func(m *Merger) {
		if policy != nil {
			m.policy = policy
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) MergerOption {
	return func(m *Merger) {
		m.logger = logger
	}
}

// NewMerger creates a Merger with the prefix parent policy.
func NewMerger(opts ...MergerOption) *Merger {
	m := &Merger{
		policy: PrefixPolicy{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Merge returns a new plan combining existing with the proposed tasks.
// The input plan is not mutated. Within each category the first
// policy-matching parent adopts the new task as a subtask and stamps its
// parent_task_id; otherwise the task joins the category top-level.
func (m *Merger) Merge(existing task.Plan, proposed task.Plan) task.Plan {
	merged := existing.Clone()

	for _, category := range task.Categories() {
		for _, newTask := range proposed[category] {
			adopted := false

			for _, candidate := range merged[category] {
				if m.policy.Matches(candidate, newTask) {
					newTask.ParentTaskID = candidate.TaskID
					candidate.Subtasks = append(candidate.Subtasks, newTask)
					adopted = true

					m.logger.Debug("attached subtask",
						"category", category.String(),
						"parent_function", candidate.Function,
						"function", newTask.Function,
					)
					break
				}
			}

			if !adopted {
				merged[category] = append(merged[category], newTask)
			}
		}
	}

	return merged
}
