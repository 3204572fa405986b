package oracle

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/sanketp27/travel-concierge/internal/types"
)

const (
	defaultTemperature = 0.2
	defaultMaxTokens   = 4096
)

// Client drives the reasoning steps of the planning loop through a
// Provider: the clarification gate, plan proposal, follow-up decisions,
// and the final summary. Unparseable structured responses degrade to safe
// zero decisions rather than failing the session.
type Client struct {
	provider    Provider
	model       string
	temperature float64
	maxTokens   int
	now         func() time.Time
	logger      *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithModel sets the model passed to the provider.
func WithModel(model string) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) ClientOption {
	return func(c *Client) {
		c.temperature = t
	}
}

// WithMaxTokens sets the completion token limit.
func WithMaxTokens(n int) ClientOption {
	return func(c *Client) {
		c.maxTokens = n
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithClock overrides the time source used for date resolution in prompts.
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) {
		c.now = now
	}
}

// NewClient creates an oracle client over the given provider.
func NewClient(provider Provider, opts ...ClientOption) *Client {
	c := &Client{
		provider:    provider,
		temperature: defaultTemperature,
		maxTokens:   defaultMaxTokens,
		now:         time.Now,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Provider returns the underlying provider.
func (c *Client) Provider() Provider {
	return c.provider
}

// Health reports the health of the underlying provider.
func (c *Client) Health(ctx context.Context) types.HealthStatus {
	return c.provider.Health(ctx)
}

func (c *Client) complete(ctx context.Context, p promptPair) (string, error) {
	req := CompletionRequest{
		Model:       c.model,
		System:      p.system,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Messages: []Message{
			{Role: RoleUser, Content: p.prompt},
		},
	}

	resp, err := c.provider.Complete(ctx, req)
	if err != nil {
		return "", types.WrapRetryableError(types.ORACLE_REQUEST_FAILED, "completion request failed", err)
	}
	return resp.Content, nil
}

// Clarify runs the clarification gate over the user's message. A response
// that cannot be parsed is treated as insufficient information so the
// conversation falls back to asking the user.
func (c *Client) Clarify(ctx context.Context, userQuery string, history []Message, state map[string]any) (*ClarificationResult, error) {
	content, err := c.complete(ctx, clarificationPrompt(userQuery, history, state))
	if err != nil {
		return nil, err
	}

	var result ClarificationResult
	if perr := c.parseJSON(content, &result, "clarification"); perr != nil {
		return &ClarificationResult{
			HasSufficientInfo:   false,
			ClarifyingQuestions: []string{"Could you share your origin, destination, and travel dates?"},
			Reasoning:           "response could not be parsed",
		}, nil
	}
	return &result, nil
}

// ProposePlan asks for the initial task plan. An unparseable response
// degrades to an empty plan, which the loop reports as nothing to do.
func (c *Client) ProposePlan(ctx context.Context, userQuery string, extracted map[string]any, state map[string]any, apiDocs string) (PlanResult, error) {
	content, err := c.complete(ctx, planPrompt(userQuery, extracted, state, apiDocs, c.now()))
	if err != nil {
		return nil, err
	}

	var plan PlanResult
	if perr := c.parseJSON(content, &plan, "plan"); perr != nil {
		return PlanResult{}, nil
	}
	return plan, nil
}

// NextSteps asks whether completed results warrant another round. An
// unparseable response degrades to "no additional tasks", terminating
// the loop.
func (c *Client) NextSteps(ctx context.Context, originalRequest string, completedTasks any, state map[string]any) (*NextSteps, error) {
	content, err := c.complete(ctx, nextStepsPrompt(originalRequest, completedTasks, state))
	if err != nil {
		return nil, err
	}

	var steps NextSteps
	if perr := c.parseJSON(content, &steps, "next_steps"); perr != nil {
		return &NextSteps{
			NeedsAdditionalTasks: false,
			Reasoning:            "response could not be parsed",
		}, nil
	}
	return &steps, nil
}

// Summarize produces the user-facing recap of everything executed.
func (c *Client) Summarize(ctx context.Context, originalRequest string, iterations any, state map[string]any) (string, error) {
	content, err := c.complete(ctx, summaryPrompt(originalRequest, iterations, state))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

// ComposeClarification turns the gate's questions into a single friendly
// reply. Falls back to joining the raw questions if the provider fails.
func (c *Client) ComposeClarification(ctx context.Context, userQuery string, result ClarificationResult) (string, error) {
	content, err := c.complete(ctx, composeQuestionsPrompt(userQuery, result))
	if err != nil || strings.TrimSpace(content) == "" {
		if len(result.ClarifyingQuestions) > 0 {
			return "To plan your trip I need a bit more detail. " + strings.Join(result.ClarifyingQuestions, " "), nil
		}
		return "Could you tell me more about the trip you have in mind?", nil
	}
	return strings.TrimSpace(content), nil
}

func (c *Client) parseJSON(content string, dst any, stage string) error {
	raw, err := ExtractJSON(content)
	if err != nil {
		c.logger.Warn("no JSON found in oracle response", "stage", stage, "error", err)
		return types.WrapError(types.ORACLE_BAD_RESPONSE, "no JSON in response", err)
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		c.logger.Warn("failed to decode oracle response", "stage", stage, "error", err)
		return types.WrapError(types.ORACLE_BAD_RESPONSE, "malformed JSON in response", err)
	}
	return nil
}
