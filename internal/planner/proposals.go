package planner

import (
	"github.com/sanketp27/travel-concierge/internal/oracle"
	"github.com/sanketp27/travel-concierge/internal/task"
)

// FromProposals converts oracle task proposals into a concrete plan.
// Unknown categories are dropped; proposals without a function name are
// skipped.
func FromProposals(proposals map[string][]oracle.TaskProposal) task.Plan {
	plan := task.NewPlan()

	for name, list := range proposals {
		category := task.Category(name)
		if !category.IsValid() {
			continue
		}
		for _, p := range list {
			if p.Function == "" {
				continue
			}
			plan[category] = append(plan[category],
				task.New(p.TaskName, p.Function, p.Request, p.AgentCallRequired, p.Priority))
		}
	}

	return plan
}
