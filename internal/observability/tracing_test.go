package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanketp27/travel-concierge/internal/task"
	"github.com/sanketp27/travel-concierge/internal/types"
)

func TestInitTracing_DisabledReturnsProvider(t *testing.T) {
	tp, err := InitTracing(context.Background(), TracingConfig{Enabled: false})
	require.NoError(t, err)
	require.NotNil(t, tp)

	// The provider still hands out usable tracers.
	_, span := tp.Tracer("test").Start(context.Background(), "noop")
	span.End()

	assert.NoError(t, ShutdownTracing(context.Background(), tp))
}

func TestInitTracing_NoopProvider(t *testing.T) {
	cfg := DefaultTracingConfig()
	cfg.Enabled = true

	tp, err := InitTracing(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, tp)
	assert.NoError(t, ShutdownTracing(context.Background(), tp))
}

func TestInitTracing_InvalidProvider(t *testing.T) {
	_, err := InitTracing(context.Background(), TracingConfig{
		Enabled:  true,
		Provider: "jaeger",
	})
	require.Error(t, err)

	var cerr *types.ConciergeError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, types.TRACING_INIT_FAILED, cerr.Code)
}

func TestTracingConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*TracingConfig)
		valid  bool
	}{
		{"disabled is always valid", func(c *TracingConfig) { c.Enabled = false; c.Provider = "bogus" }, true},
		{"noop", func(c *TracingConfig) {}, true},
		{"otlp with endpoint", func(c *TracingConfig) { c.Provider = "otlp"; c.Endpoint = "localhost:4317" }, true},
		{"otlp without endpoint", func(c *TracingConfig) { c.Provider = "otlp" }, false},
		{"unknown provider", func(c *TracingConfig) { c.Provider = "zipkin" }, false},
		{"sample rate over one", func(c *TracingConfig) { c.SampleRate = 1.5 }, false},
		{"negative sample rate", func(c *TracingConfig) { c.SampleRate = -0.1 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultTracingConfig()
			cfg.Enabled = true
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestShutdownTracing_NilProvider(t *testing.T) {
	assert.NoError(t, ShutdownTracing(context.Background(), nil))
}

func TestTaskAttributes(t *testing.T) {
	tk := task.New("Search flights", "search_flights_tool", map[string]any{"origin": "BOM"}, true, 3)

	attrs := TaskAttributes(tk)
	require.Len(t, attrs, 3)

	got := map[string]any{}
	for _, a := range attrs {
		got[string(a.Key)] = a.Value.Emit()
	}
	assert.Equal(t, tk.TaskID, got[ConciergeTaskID])
	assert.Equal(t, "search_flights_tool", got[ConciergeTaskFunction])
	assert.Equal(t, "3", got[ConciergeTaskPriority])
}

func TestSessionAndToolAttributes(t *testing.T) {
	id := types.NewID()

	session := SessionAttributes(id)
	require.Len(t, session, 1)
	assert.Equal(t, id.String(), session[0].Value.AsString())

	tool := ToolAttributes("get_route_tool")
	require.Len(t, tool, 1)
	assert.Equal(t, "get_route_tool", tool[0].Value.AsString())
}
