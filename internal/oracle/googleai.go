package oracle

import (
	"context"
	"os"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/schema"

	"github.com/sanketp27/travel-concierge/internal/types"
)

// GoogleConfig holds settings for the Gemini-backed provider.
type GoogleConfig struct {
	APIKey       string `mapstructure:"api_key" yaml:"api_key"`
	DefaultModel string `mapstructure:"default_model" yaml:"default_model"`
}

// GoogleProvider implements Provider on Google's Gemini models.
type GoogleProvider struct {
	client *googleai.GoogleAI
	config GoogleConfig
}

// NewGoogleProvider creates a Gemini provider. The API key falls back to
// the GOOGLE_API_KEY environment variable.
func NewGoogleProvider(ctx context.Context, cfg GoogleConfig) (*GoogleProvider, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GOOGLE_API_KEY")
	}

	if apiKey == "" {
		return nil, types.NewError(types.ORACLE_AUTH_FAILED, "google API key not configured")
	}

	opts := []googleai.Option{
		googleai.WithAPIKey(apiKey),
	}

	if cfg.DefaultModel != "" {
		opts = append(opts, googleai.WithDefaultModel(cfg.DefaultModel))
	}

	client, err := googleai.New(ctx, opts...)
	if err != nil {
		return nil, types.WrapError(types.ORACLE_REQUEST_FAILED, "failed to create google client", err)
	}

	return &GoogleProvider{
		client: client,
		config: cfg,
	}, nil
}

// Name returns the provider name
func (p *GoogleProvider) Name() string {
	return "google"
}

// Complete sends a completion request
func (p *GoogleProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	messages := toSchemaMessages(req)
	callOpts := buildCallOptions(req)

	resp, err := p.client.GenerateContent(ctx, messages, callOpts...)
	if err != nil {
		return nil, types.WrapRetryableError(types.ORACLE_REQUEST_FAILED, "google completion failed", err)
	}

	model := req.Model
	if model == "" {
		model = p.config.DefaultModel
	}

	content := ""
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Content
	}

	return &CompletionResponse{
		Model:   model,
		Content: content,
	}, nil
}

// Health checks the provider health with a minimal completion.
func (p *GoogleProvider) Health(ctx context.Context) types.HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := p.Complete(ctx, CompletionRequest{
		Model:     p.config.DefaultModel,
		Messages:  []Message{{Role: RoleUser, Content: "ping"}},
		MaxTokens: 8,
	})
	if err != nil {
		return types.Unhealthy("google provider unreachable: " + err.Error())
	}
	return types.Healthy("google provider reachable")
}

// toSchemaMessages converts a CompletionRequest into langchaingo message
// content, folding the system instruction into the message list.
func toSchemaMessages(req CompletionRequest) []llms.MessageContent {
	messages := make([]llms.MessageContent, 0, len(req.Messages)+1)

	if req.System != "" {
		messages = append(messages, llms.TextParts(schema.ChatMessageTypeSystem, req.System))
	}

	for _, m := range req.Messages {
		role := schema.ChatMessageTypeHuman
		switch m.Role {
		case RoleAssistant:
			role = schema.ChatMessageTypeAI
		case RoleSystem:
			role = schema.ChatMessageTypeSystem
		}
		messages = append(messages, llms.TextParts(role, m.Content))
	}

	return messages
}

func buildCallOptions(req CompletionRequest) []llms.CallOption {
	opts := []llms.CallOption{}
	if req.Model != "" {
		opts = append(opts, llms.WithModel(req.Model))
	}
	if req.Temperature > 0 {
		opts = append(opts, llms.WithTemperature(req.Temperature))
	}
	if req.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(req.MaxTokens))
	}
	return opts
}
