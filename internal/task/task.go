// Package task defines the task and plan model for one itinerary
// planning run: units of data-fetch work produced by the planning
// oracle, grouped into fixed travel categories and tracked through a
// monotone status lifecycle.
package task

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Status represents the execution state of a task
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsValid checks if the Status is a valid value
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusFailed:
		return true
	default:
		return false
	}
}

// IsTerminal returns true once the task has reached a final state.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransitionTo reports whether moving from s to next is a legal
// lifecycle transition. Transitions are monotone: pending never recurs
// once left, and terminal states only re-enter in_progress on retry.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusInProgress
	case StatusInProgress:
		return next == StatusCompleted || next == StatusFailed
	case StatusFailed:
		// Retries re-enter in_progress.
		return next == StatusInProgress
	default:
		return false
	}
}

// MarshalJSON implements json.Marshaler
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

// UnmarshalJSON implements json.Unmarshaler
func (s *Status) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	status := Status(str)
	if !status.IsValid() {
		return fmt.Errorf("invalid task status: %s", str)
	}

	*s = status
	return nil
}

// Task represents a single data-fetch unit of work proposed by the
// oracle and executed against the tool registry.
type Task struct {
	TaskID            string         `json:"task_id"`
	TaskName          string         `json:"task_name"`
	Function          string         `json:"function"`
	Request           map[string]any `json:"request"`
	Response          any            `json:"response,omitempty"`
	AgentCallRequired bool           `json:"agent_call_required"`
	Status            Status         `json:"status"`
	Error             string         `json:"error,omitempty"`
	ExecutionTime     time.Duration  `json:"execution_time,omitempty"`
	Priority          int            `json:"priority"`
	RetryCount        int            `json:"retry_count"`
	MaxRetries        int            `json:"max_retries"`
	Cached            bool           `json:"cached"`
	ParentTaskID      string         `json:"parent_task_id,omitempty"`
	Dependencies      []string       `json:"dependencies,omitempty"`

	// Subtasks is exclusively owned by this task; it is never shared
	// between tasks or plans.
	Subtasks []*Task `json:"subtasks,omitempty"`
}

// DefaultMaxRetries bounds transport-failure retries per task.
const DefaultMaxRetries = 3

// New creates a pending Task with a freshly assigned TaskID.
// The ID is assigned exactly once here and never changes.
func New(name, function string, request map[string]any, agentCallRequired bool, priority int) *Task {
	if request == nil {
		request = make(map[string]any)
	}
	return &Task{
		TaskID:            newTaskID(function, request),
		TaskName:          name,
		Function:          function,
		Request:           request,
		AgentCallRequired: agentCallRequired,
		Status:            StatusPending,
		Priority:          priority,
		MaxRetries:        DefaultMaxRetries,
	}
}

// newTaskID derives a short identifier from the task's function, request
// and creation instant. Stable within a run; not globally unique across runs.
func newTaskID(function string, request map[string]any) string {
	encoded, err := json.Marshal(request)
	if err != nil {
		encoded = []byte(fmt.Sprintf("%v", request))
	}
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s_%s_%d", function, encoded, time.Now().UnixNano())))
	return hex.EncodeToString(sum[:])[:12]
}

// Clone returns a deep copy of the task, including its subtask tree.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}

	cp := *t
	cp.Request = cloneMap(t.Request)
	cp.Response = cloneValue(t.Response)
	if t.Dependencies != nil {
		cp.Dependencies = append([]string(nil), t.Dependencies...)
	}
	if t.Subtasks != nil {
		cp.Subtasks = make([]*Task, len(t.Subtasks))
		for i, sub := range t.Subtasks {
			cp.Subtasks[i] = sub.Clone()
		}
	}
	return &cp
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
