package oracle

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// promptPair is a user prompt plus the system instruction that frames it.
type promptPair struct {
	prompt string
	system string
}

func marshalIndent(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}

func stateContext(state map[string]any) string {
	if len(state) == 0 {
		return ""
	}
	return fmt.Sprintf(`
Current State (you can read this, but cannot modify directly):
%s

Note: You can propose state updates in your response, but only the session owner will commit them.
`, marshalIndent(state))
}

func renderHistory(history []Message) string {
	if len(history) == 0 {
		return "No previous conversation."
	}
	var b strings.Builder
	for _, m := range history {
		fmt.Fprintf(&b, "%s: %s\n", m.Role, m.Content)
	}
	return b.String()
}

// clarificationPrompt frames the gate that decides whether enough trip
// detail exists to plan, or whether to ask the user questions first.
func clarificationPrompt(userQuery string, history []Message, state map[string]any) promptPair {
	prompt := fmt.Sprintf(`
Conversation so far:
%s
%s
User Message: %s

Decide whether enough information exists to start planning this trip.
`, renderHistory(history), stateContext(state), userQuery)

	system := `
You are the intake step of a travel planning assistant. Review the user's
message, the conversation history, and the current session state, then decide
whether there is enough information to plan the trip.

Sufficient information means at minimum: an origin or a clear home location,
a destination, and approximate travel dates. Traveler count, budget, and
preferences are helpful but optional.

Return ONLY a JSON object in this exact format:

{
  "has_sufficient_info": true,
  "missing_info": ["list of missing fields, empty when sufficient"],
  "clarifying_questions": ["questions to ask the user, empty when sufficient"],
  "extracted_info": {
    "origin": "",
    "destination": "",
    "departure_date": "",
    "return_date": "",
    "travelers": 1,
    "travel_mode": "",
    "budget_range": "",
    "preferences": {}
  },
  "intent": "one line describing what the user wants",
  "reasoning": "one line explaining the decision"
}

Rules:
- Dates in YYYY-MM-DD format. Resolve relative dates against the current date.
- Reuse details already present in state or history rather than asking again.
- Ask at most three clarifying questions, most important first.
`
	return promptPair{prompt: prompt, system: system}
}

// planPrompt asks for the initial task plan grouped by travel category.
func planPrompt(userQuery string, extracted map[string]any, state map[string]any, apiDocs string, now time.Time) promptPair {
	prompt := fmt.Sprintf(`
User Request: %s

Extracted Information:
%s
%s
Available APIs:
%s

Current Date: %s

Create a comprehensive task plan to fulfill this travel request.
`, userQuery, marshalIndent(extracted), stateContext(state), apiDocs, now.Format("2006-01-02"))

	system := `
You are the planning step of a travel assistant. Break the user's request into
concrete tasks that fetch real-time data, grouped by category.

Return ONLY a JSON object in this exact format:

{
  "flights": [
    {
      "task_name": "Search flights from Mumbai to Goa",
      "function": "search_flights_tool",
      "request": {"origin": "BOM", "destination": "GOI", "departure_date": "2026-01-10", "adults": 1},
      "agent_call_required": true,
      "priority": 1
    }
  ],
  "hotels": [],
  "trains": [],
  "maps": []
}

Guidelines:
1. Use exact function names from the API docs (they end with _tool).
2. Match parameter names exactly as shown in each request schema.
3. Dates in YYYY-MM-DD. Airport codes like BOM, DEL, GOI. Station codes like
   NDLS, BCT, CSMT. Travel modes: DRIVE, WALK, TRANSIT, BICYCLE.
4. Set agent_call_required to true when the response feeds a follow-up
   decision (a search whose results need detail lookups), false for final
   information retrieval.
5. Higher priority numbers run first within a category.
6. Only request offers, pricing, or details when the user asked for them.
7. Never invent IDs. Detail lookups belong in a later round, after search
   results exist.
`
	return promptPair{prompt: prompt, system: system}
}

// nextStepsPrompt asks whether completed results warrant another round.
func nextStepsPrompt(originalRequest string, completedTasks any, state map[string]any) promptPair {
	prompt := fmt.Sprintf(`
Original User Request: %s

Completed Tasks Requiring Analysis:
%s
%s
Based on these results, determine what additional tasks (if any) are needed.
`, originalRequest, marshalIndent(completedTasks), stateContext(state))

	system := `
You are reviewing completed task results in a travel planning loop and
deciding whether a follow-up round is needed.

Create follow-up tasks when results contain items worth drilling into: a
hotel search that returned hotels worth fetching details for, a flight search
whose top option needs offer details, a place worth routing to. Do not create
follow-up tasks when the results already satisfy the request or the user is
only browsing.

Return ONLY a JSON object in this exact format:

{
  "needs_additional_tasks": false,
  "reasoning": "why another round is or is not needed",
  "insights": ["notable findings from the data"],
  "new_tasks": {
    "hotels": [
      {
        "task_name": "Get details for top rated hotel",
        "function": "get_hotel_details_tool",
        "request": {"hotel_id": "HTGOA001"},
        "agent_call_required": false,
        "priority": 1
      }
    ]
  }
}

Rules:
- Only use IDs that appear in the completed results. Never invent IDs.
- Keep new_tasks empty or omit categories when needs_additional_tasks is false.
- Each follow-up must use exact function names and parameter names.
`
	return promptPair{prompt: prompt, system: system}
}

// summaryPrompt asks for the user-facing recap of everything found.
func summaryPrompt(originalRequest string, iterations any, state map[string]any) promptPair {
	prompt := fmt.Sprintf(`
Original Request: %s

All Task Executions & Results:
%s
%s
Create a short, well-structured travel summary with clear sections.
Avoid long paragraphs. Keep it concise, friendly, and visually organized.
`, originalRequest, marshalIndent(iterations), stateContext(state))

	system := `
You are a friendly travel planner summarizing trip findings for the user.

Include, when data exists:
- Flights: best options with prices and timings
- Hotels: names, ratings, prices
- Trains: departures and classes
- Attractions: key highlights
- Estimated cost range
- Next steps: actionable suggestions

Formatting:
- Use short headed sections, one point per line, no long paragraphs.
- If data for a section is missing, say so politely and move on.
- Return plain text only, no JSON.
`
	return promptPair{prompt: prompt, system: system}
}

// composeQuestionsPrompt turns clarifying questions into a single friendly
// reply when the gate decides more detail is needed.
func composeQuestionsPrompt(userQuery string, result ClarificationResult) promptPair {
	prompt := fmt.Sprintf(`
User Message: %s

Missing Information: %s
Questions To Ask: %s

Write one short, friendly reply that acknowledges the request and asks these
questions.
`, userQuery, marshalIndent(result.MissingInfo), marshalIndent(result.ClarifyingQuestions))

	system := `
You are a travel assistant asking the user for the details needed to plan
their trip. Be warm and brief. Ask the given questions naturally, in at most
a few sentences. Return plain text only.
`
	return promptPair{prompt: prompt, system: system}
}
