// Package tracing sets up the OpenTelemetry tracer provider. Finished spans
// are written to the application log at debug level.
package tracing

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/amaumene/cinemahome/internal/config"
)

const serviceName = "cinemahome"

// NewProvider builds a tracer provider and installs it as the global one.
// When tracing is disabled spans are still created but never sampled.
// The returned function flushes and shuts the provider down.
func NewProvider(cfg *config.Config, logger zerolog.Logger) (*sdktrace.TracerProvider, func(context.Context) error) {
	sampler := sdktrace.NeverSample()
	if cfg.TracingEnabled {
		sampler = sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.TracingSampleRatio))
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sampler),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", serviceName))),
		sdktrace.WithBatcher(NewLogExporter(logger)),
	)
	otel.SetTracerProvider(provider)

	logger.Debug().
		Bool("enabled", cfg.TracingEnabled).
		Float64("sample_ratio", cfg.TracingSampleRatio).
		Msg("Tracer provider installed")

	return provider, func(ctx context.Context) error {
		if err := provider.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shut down tracer provider: %w", err)
		}
		return nil
	}
}

// LogExporter writes finished spans to a zerolog logger
type LogExporter struct {
	logger zerolog.Logger
}

func NewLogExporter(logger zerolog.Logger) *LogExporter {
	return &LogExporter{logger: logger.With().Str("component", "tracing").Logger()}
}

func (e *LogExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, span := range spans {
		event := e.logger.Debug().
			Str("trace_id", span.SpanContext().TraceID().String()).
			Str("span_id", span.SpanContext().SpanID().String()).
			Str("span", span.Name()).
			Dur("duration", span.EndTime().Sub(span.StartTime())).
			Str("status", span.Status().Code.String())
		if span.Parent().IsValid() {
			event = event.Str("parent_id", span.Parent().SpanID().String())
		}
		for _, kv := range span.Attributes() {
			event = event.Str(string(kv.Key), kv.Value.Emit())
		}
		event.Msg("Span finished")
	}
	return nil
}

func (e *LogExporter) Shutdown(ctx context.Context) error {
	return nil
}
