package task

// Category names one of the fixed travel-data groupings a plan is
// organized by. The set is closed; every plan carries all categories,
// possibly empty.
type Category string

const (
	CategoryFlights Category = "flights"
	CategoryHotels  Category = "hotels"
	CategoryTrains  Category = "trains"
	CategoryMaps    Category = "maps"
)

// Categories returns the fixed category set in presentation order.
func Categories() []Category {
	return []Category{CategoryFlights, CategoryHotels, CategoryTrains, CategoryMaps}
}

// IsValid checks if the Category is part of the fixed set
func (c Category) IsValid() bool {
	switch c {
	case CategoryFlights, CategoryHotels, CategoryTrains, CategoryMaps:
		return true
	default:
		return false
	}
}

// String returns the string representation of Category
func (c Category) String() string {
	return string(c)
}

// Plan maps each category to its ordered task list for one run.
type Plan map[Category][]*Task

// NewPlan returns a plan with every category present and empty.
func NewPlan() Plan {
	p := make(Plan, len(Categories()))
	for _, c := range Categories() {
		p[c] = nil
	}
	return p
}

// Pending returns every task across all categories whose status is
// pending, paired with its category, preserving category and insertion
// order.
func (p Plan) Pending() []PlannedTask {
	var out []PlannedTask
	for _, c := range Categories() {
		for _, t := range p[c] {
			if t.Status == StatusPending {
				out = append(out, PlannedTask{Category: c, Task: t})
			}
		}
	}
	return out
}

// PlannedTask pairs a task with the category it belongs to.
type PlannedTask struct {
	Category Category
	Task     *Task
}

// Completed returns every completed task across all categories.
func (p Plan) Completed() []PlannedTask {
	var out []PlannedTask
	for _, c := range Categories() {
		for _, t := range p[c] {
			if t.Status == StatusCompleted {
				out = append(out, PlannedTask{Category: c, Task: t})
			}
		}
	}
	return out
}

// TotalCount returns the number of top-level tasks in the plan.
func (p Plan) TotalCount() int {
	n := 0
	for _, tasks := range p {
		n += len(tasks)
	}
	return n
}

// PendingCount returns the number of top-level pending tasks.
func (p Plan) PendingCount() int {
	return len(p.Pending())
}

// Clone returns a deep copy of the plan with every category present.
func (p Plan) Clone() Plan {
	out := NewPlan()
	for _, c := range Categories() {
		if len(p[c]) == 0 {
			continue
		}
		cloned := make([]*Task, len(p[c]))
		for i, t := range p[c] {
			cloned[i] = t.Clone()
		}
		out[c] = cloned
	}
	return out
}
