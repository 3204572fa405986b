package oracle

import (
	"context"
	"fmt"
	"sync"

	"github.com/sanketp27/travel-concierge/internal/types"
)

// ScriptedCall records a single request made to the scripted provider.
type ScriptedCall struct {
	Request CompletionRequest
}

// ScriptedProvider implements Provider for testing. It replays a fixed
// sequence of responses and records every call it receives.
type ScriptedProvider struct {
	mu            sync.Mutex
	responses     []string
	responseIndex int
	calls         []ScriptedCall
	failNext      error
}

// NewScriptedProvider creates a scripted provider that cycles through
// the given responses.
func NewScriptedProvider(responses []string) *ScriptedProvider {
	return &ScriptedProvider{
		responses: responses,
		calls:     make([]ScriptedCall, 0),
	}
}

// Name returns the provider name
func (p *ScriptedProvider) Name() string {
	return "scripted"
}

// FailNext makes the next Complete call return err instead of a response.
func (p *ScriptedProvider) FailNext(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failNext = err
}

// Complete replays the next scripted response.
func (p *ScriptedProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls = append(p.calls, ScriptedCall{Request: req})

	if p.failNext != nil {
		err := p.failNext
		p.failNext = nil
		return nil, err
	}

	if len(p.responses) == 0 {
		return nil, fmt.Errorf("no responses configured")
	}

	response := p.responses[p.responseIndex%len(p.responses)]
	p.responseIndex++

	return &CompletionResponse{
		Model:   req.Model,
		Content: response,
	}, nil
}

// Health always reports healthy.
func (p *ScriptedProvider) Health(ctx context.Context) types.HealthStatus {
	return types.Healthy("scripted provider ready")
}

// Calls returns a copy of all recorded calls.
func (p *ScriptedProvider) Calls() []ScriptedCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	calls := make([]ScriptedCall, len(p.calls))
	copy(calls, p.calls)
	return calls
}

// CallCount returns the number of recorded calls.
func (p *ScriptedProvider) CallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}
