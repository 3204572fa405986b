// Package observability initializes distributed tracing for the
// concierge. Spans cover the orchestration run, each task execution,
// and each tool call; when tracing is disabled every component falls
// back to a no-op tracer with no overhead.
package observability

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc/credentials"

	"github.com/sanketp27/travel-concierge/internal/types"
)

const (
	defaultBatchTimeout = 5 * time.Second
	defaultServiceName  = "concierge"
)

// TracingConfig configures span export.
type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled" yaml:"enabled"`
	Provider     string  `mapstructure:"provider" yaml:"provider"` // "otlp" or "noop"
	Endpoint     string  `mapstructure:"endpoint" yaml:"endpoint"`
	ServiceName  string  `mapstructure:"service_name" yaml:"service_name"`
	SampleRate   float64 `mapstructure:"sample_rate" yaml:"sample_rate"`
	InsecureMode bool    `mapstructure:"insecure_mode" yaml:"insecure_mode"` // Disable TLS (unsafe)
}

// DefaultTracingConfig returns tracing disabled with sane export
// settings for when it is switched on.
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		Enabled:     false,
		Provider:    "noop",
		ServiceName: defaultServiceName,
		SampleRate:  1.0,
	}
}

// Validate checks the tracing configuration. A disabled config is
// always valid.
func (c *TracingConfig) Validate() error {
	if !c.Enabled {
		return nil
	}

	switch strings.ToLower(c.Provider) {
	case "otlp":
		if c.Endpoint == "" {
			return types.NewError(types.TRACING_INIT_FAILED, "tracing.endpoint is required for the otlp provider")
		}
	case "noop":
	default:
		return types.NewError(types.TRACING_INIT_FAILED,
			fmt.Sprintf("invalid tracing provider: %s (must be otlp or noop)", c.Provider))
	}

	if c.SampleRate < 0 || c.SampleRate > 1 {
		return types.NewError(types.TRACING_INIT_FAILED,
			fmt.Sprintf("tracing.sample_rate must be between 0 and 1, got %g", c.SampleRate))
	}
	return nil
}

// TracingOption is a functional option for InitTracing.
type TracingOption func(*tracingOptions)

type tracingOptions struct {
	sampler      sdktrace.Sampler
	batchTimeout time.Duration
}

// WithSampler overrides the ratio-based sampler derived from the
// configured sample rate.
func WithSampler(sampler sdktrace.Sampler) TracingOption {
	return func(o *tracingOptions) {
		o.sampler = sampler
	}
}

// WithBatchTimeout sets the maximum time between batch exports.
func WithBatchTimeout(timeout time.Duration) TracingOption {
	return func(o *tracingOptions) {
		if timeout > 0 {
			o.batchTimeout = timeout
		}
	}
}

// InitTracing builds the tracer provider from configuration and
// installs it as the global provider. A disabled config yields a
// provider that records nothing.
func InitTracing(ctx context.Context, cfg TracingConfig, opts ...TracingOption) (*sdktrace.TracerProvider, error) {
	if !cfg.Enabled {
		return sdktrace.NewTracerProvider(), nil
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := &tracingOptions{batchTimeout: defaultBatchTimeout}
	for _, opt := range opts {
		opt(options)
	}

	if options.sampler == nil {
		options.sampler = sdktrace.TraceIDRatioBased(cfg.SampleRate)
	}

	if strings.ToLower(cfg.Provider) == "noop" {
		return sdktrace.NewTracerProvider(), nil
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = defaultServiceName
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(serviceName)),
		resource.WithFromEnv(),
		resource.WithTelemetrySDK(),
	)
	if err != nil {
		return nil, types.WrapError(types.TRACING_INIT_FAILED, "failed to create resource", err)
	}

	otlpOpts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.InsecureMode {
		otlpOpts = append(otlpOpts, otlptracegrpc.WithInsecure())
	} else {
		otlpOpts = append(otlpOpts, otlptracegrpc.WithTLSCredentials(credentials.NewTLS(nil)))
	}

	exporter, err := otlptracegrpc.New(ctx, otlpOpts...)
	if err != nil {
		return nil, types.WrapError(types.TRACING_INIT_FAILED,
			fmt.Sprintf("failed to connect otlp exporter at %s", cfg.Endpoint), err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(options.batchTimeout)),
		sdktrace.WithSampler(options.sampler),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	return tp, nil
}

// ShutdownTracing flushes pending spans and shuts the provider down.
func ShutdownTracing(ctx context.Context, provider *sdktrace.TracerProvider) error {
	if provider == nil {
		return nil
	}
	if err := provider.Shutdown(ctx); err != nil {
		return types.WrapError(types.TRACING_SHUTDOWN_FAILED, "failed to shutdown tracer provider", err)
	}
	return nil
}
