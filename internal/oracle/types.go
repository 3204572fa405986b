package oracle

// ClarificationResult is the structured outcome of the clarification gate.
// When HasSufficientInfo is false the ClarifyingQuestions are surfaced to
// the user and no plan is produced.
type ClarificationResult struct {
	HasSufficientInfo   bool           `json:"has_sufficient_info"`
	MissingInfo         []string       `json:"missing_info"`
	ClarifyingQuestions []string       `json:"clarifying_questions"`
	ExtractedInfo       map[string]any `json:"extracted_info"`
	Intent              string         `json:"intent"`
	Reasoning           string         `json:"reasoning"`
}

// TaskProposal is a single task suggested by the oracle, either in the
// initial plan or as a follow-up after results come back.
type TaskProposal struct {
	TaskName          string         `json:"task_name"`
	Function          string         `json:"function"`
	Request           map[string]any `json:"request"`
	AgentCallRequired bool           `json:"agent_call_required"`
	Priority          int            `json:"priority"`
}

// PlanResult groups proposed tasks by travel category. Categories the
// oracle has nothing for may be absent or empty.
type PlanResult map[string][]TaskProposal

// NextSteps is the oracle's verdict after reviewing completed results:
// whether another round of tasks is warranted and, if so, which ones.
type NextSteps struct {
	NeedsAdditionalTasks bool                      `json:"needs_additional_tasks"`
	Reasoning            string                    `json:"reasoning"`
	Insights             []string                  `json:"insights"`
	NewTasks             map[string][]TaskProposal `json:"new_tasks"`
}
