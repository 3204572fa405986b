package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanketp27/travel-concierge/internal/oracle"
	"github.com/sanketp27/travel-concierge/internal/task"
)

func completedParent(name, function string) *task.Task {
	t := task.New(name, function, map[string]any{"origin": "BOM"}, true, 1)
	t.Status = task.StatusCompleted
	t.Response = map[string]any{"results": []any{"r1"}}
	return t
}

func TestMerger_AttachesSubtaskToCompletedParent(t *testing.T) {
	parent := completedParent("Search flights", "search_flights_tool")
	existing := task.NewPlan()
	existing[task.CategoryFlights] = []*task.Task{parent}

	child := task.New("Flight offers", "search_flight_offers_tool", map[string]any{"flight_id": "AI-101"}, false, 1)
	proposed := task.NewPlan()
	proposed[task.CategoryFlights] = []*task.Task{child}

	merged := NewMerger().Merge(existing, proposed)

	require.Len(t, merged[task.CategoryFlights], 1)
	mergedParent := merged[task.CategoryFlights][0]
	require.Len(t, mergedParent.Subtasks, 1)
	assert.Equal(t, "search_flight_offers_tool", mergedParent.Subtasks[0].Function)
	assert.Equal(t, mergedParent.TaskID, mergedParent.Subtasks[0].ParentTaskID)
}

func TestMerger_DoesNotMutateInput(t *testing.T) {
	parent := completedParent("Search hotels", "search_hotels_tool")
	existing := task.NewPlan()
	existing[task.CategoryHotels] = []*task.Task{parent}

	child := task.New("Hotel offers", "search_hotel_offers_tool", map[string]any{"hotel_id": "H1"}, false, 1)
	proposed := task.NewPlan()
	proposed[task.CategoryHotels] = []*task.Task{child}

	merged := NewMerger().Merge(existing, proposed)

	// The subtask attached to a clone, never to the caller's plan.
	require.Len(t, merged[task.CategoryHotels][0].Subtasks, 1)
	assert.Empty(t, parent.Subtasks)
}

func TestMerger_NoParentAppendsTopLevel(t *testing.T) {
	existing := task.NewPlan()

	child := task.New("Find places", "find_places_tool", map[string]any{"city": "Goa"}, false, 1)
	proposed := task.NewPlan()
	proposed[task.CategoryMaps] = []*task.Task{child}

	merged := NewMerger().Merge(existing, proposed)

	require.Len(t, merged[task.CategoryMaps], 1)
	assert.Equal(t, "find_places_tool", merged[task.CategoryMaps][0].Function)
	assert.Empty(t, merged[task.CategoryMaps][0].ParentTaskID)
	assert.Equal(t, task.StatusPending, merged[task.CategoryMaps][0].Status)
}

func TestMerger_SkipsPendingAndNonCallbackParents(t *testing.T) {
	pending := task.New("Pending search", "search_hotels_tool", map[string]any{"city": "Goa"}, true, 1)

	noCallback := task.New("Plain search", "search_hotels_tool", map[string]any{"city": "Goa"}, false, 1)
	noCallback.Status = task.StatusCompleted

	existing := task.NewPlan()
	existing[task.CategoryHotels] = []*task.Task{pending, noCallback}

	// Shares the "search" prefix with both candidates, but neither
	// qualifies: one is still pending, the other needed no callback.
	child := task.New("Hotel availability", "search_hotel_availability_tool", map[string]any{"hotel_id": "H1"}, false, 1)
	proposed := task.NewPlan()
	proposed[task.CategoryHotels] = []*task.Task{child}

	merged := NewMerger().Merge(existing, proposed)

	require.Len(t, merged[task.CategoryHotels], 3)
	for _, existingTask := range merged[task.CategoryHotels][:2] {
		assert.Empty(t, existingTask.Subtasks)
	}
}

func TestMerger_FirstMatchWinsAcrossSiblings(t *testing.T) {
	// Two completed searches share the first function token. The first
	// one in category order adopts the subtask even if the second was
	// the intended parent. That is the accepted cost of prefix matching.
	outbound := completedParent("Outbound flights", "search_flights_tool")
	returning := completedParent("Return flights", "search_return_flights_tool")

	existing := task.NewPlan()
	existing[task.CategoryFlights] = []*task.Task{outbound, returning}

	child := task.New("Return offers", "search_return_flights_tool", map[string]any{"leg": "return"}, false, 1)
	proposed := task.NewPlan()
	proposed[task.CategoryFlights] = []*task.Task{child}

	merged := NewMerger().Merge(existing, proposed)

	first := merged[task.CategoryFlights][0]
	second := merged[task.CategoryFlights][1]
	require.Len(t, first.Subtasks, 1)
	assert.Empty(t, second.Subtasks)
	assert.Equal(t, first.TaskID, first.Subtasks[0].ParentTaskID)
}

func TestMerger_CrossCategoryNeverMatches(t *testing.T) {
	parent := completedParent("Search flights", "search_flights_tool")
	existing := task.NewPlan()
	existing[task.CategoryFlights] = []*task.Task{parent}

	// Same first token, different category: stays top-level in its own
	// category.
	child := task.New("Search hotels", "search_hotels_tool", map[string]any{"city": "Goa"}, false, 1)
	proposed := task.NewPlan()
	proposed[task.CategoryHotels] = []*task.Task{child}

	merged := NewMerger().Merge(existing, proposed)

	assert.Empty(t, merged[task.CategoryFlights][0].Subtasks)
	require.Len(t, merged[task.CategoryHotels], 1)
}

func TestFromProposals(t *testing.T) {
	plan := FromProposals(map[string][]oracle.TaskProposal{
		"flights": {
			{
				TaskName:          "Search flights",
				Function:          "search_flights_tool",
				Request:           map[string]any{"origin": "BOM"},
				AgentCallRequired: true,
				Priority:          2,
			},
		},
		"weather":  {{TaskName: "Forecast", Function: "get_weather_tool"}},
		"hotels":   {{TaskName: "No function"}},
		"unwanted": nil,
	})

	require.Len(t, plan[task.CategoryFlights], 1)
	created := plan[task.CategoryFlights][0]
	assert.Equal(t, "search_flights_tool", created.Function)
	assert.Equal(t, task.StatusPending, created.Status)
	assert.Equal(t, 2, created.Priority)
	assert.True(t, created.AgentCallRequired)
	assert.NotEmpty(t, created.TaskID)

	assert.Empty(t, plan[task.CategoryHotels])
	assert.Len(t, plan, len(task.Categories()))
}
