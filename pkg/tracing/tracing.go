package tracing

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	logx "github.com/nash-core-poc/server/pkg/logger"
)

type Config struct {
	Enabled     bool    `envconfig:"TRACING_ENABLED" default:"false"`
	Endpoint    string  `envconfig:"TRACING_ENDPOINT"` // OTLP gRPC endpoint, e.g. "otel-collector:4317"
	Insecure    bool    `envconfig:"TRACING_INSECURE" default:"true"`
	ServiceName string  `envconfig:"TRACING_SERVICE_NAME" default:"nash"`
	SampleRatio float64 `envconfig:"TRACING_SAMPLE_RATIO" default:"1"`
}

// Provider owns the process tracer provider.
type Provider struct {
	tp      *sdktrace.TracerProvider
	enabled bool
}

// New exports spans over OTLP gRPC when cfg.Enabled and installs the provider
// globally. A disabled config yields a no-op provider.
func New(ctx context.Context, cfg Config) (*Provider, error) {
	if !cfg.Enabled {
		logx.Debug().Msg("Tracing disabled")
		return &Provider{}, nil
	}
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("tracing enabled but endpoint not configured")
	}

	dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	exporter, err := otlptracegrpc.New(dialCtx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	p, err := NewWithExporter(ctx, cfg, exporter)
	if err != nil {
		return nil, err
	}
	otel.SetTracerProvider(p.tp)
	logx.Info().Str("endpoint", cfg.Endpoint).Msg("Tracing initialized")
	return p, nil
}

// NewWithExporter builds a provider around an arbitrary exporter without
// touching the global provider.
func NewWithExporter(ctx context.Context, cfg Config, exporter sdktrace.SpanExporter) (*Provider, error) {
	name := cfg.ServiceName
	if name == "" {
		name = "nash"
	}
	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(name)))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	ratio := cfg.SampleRatio
	if ratio <= 0 || ratio > 1 {
		ratio = 1
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))),
	)
	return &Provider{tp: tp, enabled: true}, nil
}

func (p *Provider) Enabled() bool {
	return p != nil && p.enabled
}

// Tracer returns a named tracer; no-op when tracing is disabled.
func (p *Provider) Tracer(name string) trace.Tracer {
	if !p.Enabled() {
		return noop.NewTracerProvider().Tracer(name)
	}
	return p.tp.Tracer(name)
}

// Flush exports buffered spans without stopping the provider.
func (p *Provider) Flush(ctx context.Context) error {
	if !p.Enabled() {
		return nil
	}
	return p.tp.ForceFlush(ctx)
}

// Shutdown flushes pending spans and stops the provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if !p.Enabled() {
		return nil
	}
	return p.tp.Shutdown(ctx)
}
