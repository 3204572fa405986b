package orchestrator

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	otelcodes "go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/sanketp27/travel-concierge/internal/database"
	"github.com/sanketp27/travel-concierge/internal/observability"
	"github.com/sanketp27/travel-concierge/internal/oracle"
	"github.com/sanketp27/travel-concierge/internal/tool"
	"github.com/sanketp27/travel-concierge/internal/types"
)

// memSessions is an in-memory Sessions implementation for tests.
type memSessions struct {
	mu       sync.Mutex
	states   map[types.ID]map[string]any
	messages map[types.ID][]database.Message
	records  map[types.ID][]any
}

func newMemSessions() *memSessions {
	return &memSessions{
		states:   make(map[types.ID]map[string]any),
		messages: make(map[types.ID][]database.Message),
		records:  make(map[types.ID][]any),
	}
}

func (m *memSessions) SaveState(ctx context.Context, sessionID types.ID, state map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[sessionID] = state
	return nil
}

func (m *memSessions) LoadState(ctx context.Context, sessionID types.ID) (map[string]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.states[sessionID], nil
}

func (m *memSessions) Messages(ctx context.Context, sessionID types.ID) ([]database.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]database.Message(nil), m.messages[sessionID]...), nil
}

func (m *memSessions) RecentMessages(ctx context.Context, sessionID types.ID, n int) ([]database.Message, error) {
	msgs, _ := m.Messages(ctx, sessionID)
	if n > 0 && len(msgs) > n {
		msgs = msgs[len(msgs)-n:]
	}
	return msgs, nil
}

func (m *memSessions) AppendUserMessage(ctx context.Context, sessionID types.ID, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages[sessionID] = append(m.messages[sessionID], database.Message{Type: "human", Content: content})
	return nil
}

func (m *memSessions) AppendAssistantMessage(ctx context.Context, sessionID types.ID, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages[sessionID] = append(m.messages[sessionID], database.Message{Type: "ai", Content: content})
	return nil
}

func (m *memSessions) SaveRunRecord(ctx context.Context, sessionID types.ID, name string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[sessionID] = append(m.records[sessionID], value)
	return nil
}

// echoTool answers every call with a fixed payload.
type echoTool struct {
	name    string
	payload map[string]any
	mu      sync.Mutex
	calls   int
}

func (e *echoTool) Name() string        { return e.name }
func (e *echoTool) Description() string { return "test tool" }
func (e *echoTool) Tags() []string      { return nil }

func (e *echoTool) Execute(ctx context.Context, params map[string]any) (map[string]any, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()
	return e.payload, nil
}

func (e *echoTool) Health(ctx context.Context) types.HealthStatus {
	return types.Healthy("ok")
}

func (e *echoTool) callCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

const sufficientClarification = `{
	"has_sufficient_info": true,
	"missing_info": [],
	"clarifying_questions": [],
	"extracted_info": {"origin": "BOM", "destination": "Goa", "departure_date": "2026-01-10"},
	"intent": "weekend trip to Goa",
	"reasoning": "all details present"
}`

const singleFlightPlan = `{
	"flights": [
		{
			"task_name": "Search flights from Mumbai to Goa",
			"function": "search_flights_tool",
			"request": {"origin": "BOM", "destination": "GOI", "departure_date": "2026-01-10"},
			"agent_call_required": true,
			"priority": 1
		}
	],
	"hotels": [], "trains": [], "maps": []
}`

const noMoreTasks = `{
	"needs_additional_tasks": false,
	"reasoning": "search results satisfy the request",
	"insights": ["one direct flight found"],
	"new_tasks": {}
}`

func newTestRegistry(t *testing.T, tools ...tool.Tool) tool.Registry {
	t.Helper()
	r := tool.NewRegistry()
	for _, tl := range tools {
		require.NoError(t, r.Register(tl))
	}
	return r
}

func TestOrchestrator_FullRun(t *testing.T) {
	provider := oracle.NewScriptedProvider([]string{
		sufficientClarification,
		singleFlightPlan,
		noMoreTasks,
		"Flights: IndiGo 10:30, Rs 4850. Have a great trip!",
	})
	client := oracle.NewClient(provider)

	flights := &echoTool{name: "search_flights_tool", payload: map[string]any{"flights": []any{"6E-204"}}}
	sessions := newMemSessions()
	o := New(client, newTestRegistry(t, flights), sessions)

	sessionID := types.NewID()
	reply, err := o.Run(context.Background(), sessionID, "Plan a Goa trip from Mumbai on Jan 10")
	require.NoError(t, err)
	assert.Contains(t, reply, "IndiGo")

	// clarify, plan, next steps, summary
	assert.Equal(t, 4, provider.CallCount())
	assert.Equal(t, 1, flights.callCount())

	// Committed state carries the extracted trip details and the ledger.
	state := sessions.states[sessionID]
	require.NotNil(t, state)
	travelInfo, ok := state["travel_info"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Goa", travelInfo["destination"])
	assert.Equal(t, "2026-01-10", travelInfo["start_date"])

	tasks, ok := state["tasks"].([]any)
	require.True(t, ok)
	require.Len(t, tasks, 1)

	msgs := sessions.messages[sessionID]
	require.Len(t, msgs, 2)
	assert.Equal(t, "human", msgs[0].Type)
	assert.Equal(t, "ai", msgs[1].Type)

	assert.Len(t, sessions.records[sessionID], 1)
}

func TestOrchestrator_ClarificationShortCircuits(t *testing.T) {
	provider := oracle.NewScriptedProvider([]string{
		`{
			"has_sufficient_info": false,
			"missing_info": ["departure_date"],
			"clarifying_questions": ["When would you like to travel?"],
			"extracted_info": {"destination": "Goa"},
			"intent": "trip to Goa",
			"reasoning": "no dates"
		}`,
		"Happy to help! When would you like to travel?",
	})
	client := oracle.NewClient(provider)

	flights := &echoTool{name: "search_flights_tool", payload: map[string]any{}}
	sessions := newMemSessions()
	o := New(client, newTestRegistry(t, flights), sessions)

	sessionID := types.NewID()
	reply, err := o.Run(context.Background(), sessionID, "I want to go to Goa")
	require.NoError(t, err)
	assert.Contains(t, reply, "When would you like to travel?")

	// Only the gate and the composed reply; no planning, no tools.
	assert.Equal(t, 2, provider.CallCount())
	assert.Equal(t, 0, flights.callCount())
	assert.Empty(t, sessions.states[sessionID])
	require.Len(t, sessions.messages[sessionID], 2)
}

func TestOrchestrator_FollowUpRound(t *testing.T) {
	followUp := `{
		"needs_additional_tasks": true,
		"reasoning": "hotel details worth fetching",
		"new_tasks": {
			"hotels": [
				{
					"task_name": "Get hotel details",
					"function": "get_hotel_details_tool",
					"request": {"hotel_id": "HTGOA001"},
					"agent_call_required": false,
					"priority": 1
				}
			]
		}
	}`
	hotelPlan := `{
		"hotels": [
			{
				"task_name": "Search hotels in Goa",
				"function": "search_hotels_tool",
				"request": {"city": "Goa"},
				"agent_call_required": true,
				"priority": 1
			}
		],
		"flights": [], "trains": [], "maps": []
	}`

	provider := oracle.NewScriptedProvider([]string{
		sufficientClarification,
		hotelPlan,
		followUp,
		noMoreTasks,
		"Hotels: Taj Fort Aguada looks great.",
	})
	client := oracle.NewClient(provider)

	search := &echoTool{name: "search_hotels_tool", payload: map[string]any{"hotels": []any{map[string]any{"hotel_id": "HTGOA001"}}}}
	details := &echoTool{name: "get_hotel_details_tool", payload: map[string]any{"hotel_id": "HTGOA001", "rating": 4.8}}
	sessions := newMemSessions()
	o := New(client, newTestRegistry(t, search, details), sessions)

	reply, err := o.Run(context.Background(), types.NewID(), "Find me a good hotel in Goa for Jan 10")
	require.NoError(t, err)
	assert.Contains(t, reply, "Taj")

	assert.Equal(t, 1, search.callCount())
	assert.Equal(t, 1, details.callCount())
	assert.Equal(t, 5, provider.CallCount())
}

func TestOrchestrator_StallProducesSummaryWithoutNextSteps(t *testing.T) {
	// The planned function does not exist, so the only task fails and
	// the loop stalls after one round.
	provider := oracle.NewScriptedProvider([]string{
		sufficientClarification,
		singleFlightPlan,
		"Sorry, I could not fetch flight data this time.",
	})
	client := oracle.NewClient(provider)

	sessions := newMemSessions()
	o := New(client, newTestRegistry(t), sessions)

	reply, err := o.Run(context.Background(), types.NewID(), "Plan a Goa trip")
	require.NoError(t, err)
	assert.Contains(t, reply, "could not fetch")

	// clarify, plan, summary; the next-steps call is skipped on stall.
	assert.Equal(t, 3, provider.CallCount())
}

func TestOrchestrator_RunEmitsPhaseSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	provider := oracle.NewScriptedProvider([]string{
		sufficientClarification,
		singleFlightPlan,
		noMoreTasks,
		"All set.",
	})
	client := oracle.NewClient(provider)

	flights := &echoTool{name: "search_flights_tool", payload: map[string]any{"flights": []any{"6E-204"}}}
	sessions := newMemSessions()
	o := New(client, newTestRegistry(t, flights), sessions, WithTracer(tp.Tracer("test")))

	sessionID := types.NewID()
	_, err := o.Run(context.Background(), sessionID, "Plan a Goa trip from Mumbai on Jan 10")
	require.NoError(t, err)

	names := map[string]int{}
	for _, s := range recorder.Ended() {
		names[s.Name()]++
	}
	assert.Equal(t, 1, names[observability.SpanRun])
	assert.Equal(t, 1, names[observability.SpanClarify])
	assert.Equal(t, 1, names[observability.SpanPlan])
	assert.Equal(t, 1, names[observability.SpanLoop])
	assert.Equal(t, 1, names[observability.SpanSummarize])
	assert.Equal(t, 1, names[observability.SpanTaskExecute], "executor inherits the run tracer")

	// The run span carries the session and closes last, unerrored.
	spans := recorder.Ended()
	last := spans[len(spans)-1]
	require.Equal(t, observability.SpanRun, last.Name())
	assert.Equal(t, otelcodes.Unset, last.Status().Code)
	found := false
	for _, attr := range last.Attributes() {
		if string(attr.Key) == observability.ConciergeSessionID {
			found = true
			assert.Equal(t, sessionID.String(), attr.Value.AsString())
		}
	}
	assert.True(t, found)
}

func TestOrchestrator_ProviderFailureApologizes(t *testing.T) {
	provider := oracle.NewScriptedProvider(nil)
	provider.FailNext(errors.New("connection refused"))
	client := oracle.NewClient(provider)

	sessions := newMemSessions()
	o := New(client, newTestRegistry(t), sessions)

	sessionID := types.NewID()
	reply, err := o.Run(context.Background(), sessionID, "Plan a trip")
	require.Error(t, err)
	assert.Equal(t, apologyMessage, reply)

	// The failed exchange still lands in history.
	require.Len(t, sessions.messages[sessionID], 2)
	assert.Equal(t, apologyMessage, sessions.messages[sessionID][1].Content)
}
