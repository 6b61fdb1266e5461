package telemetry

import (
	"context"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/mutuals/internal/core/ports"
)

// PhaseTimer is a span processor that reports every finished span's
// duration to the metrics port, keyed by span name.
type PhaseTimer struct {
	metrics ports.Metrics
}

// NewPhaseTimer creates a new PhaseTimer.
func NewPhaseTimer(metrics ports.Metrics) *PhaseTimer {
	return &PhaseTimer{metrics: metrics}
}

// OnStart does nothing.
func (p *PhaseTimer) OnStart(context.Context, sdktrace.ReadWriteSpan) {}

// OnEnd records the span duration.
func (p *PhaseTimer) OnEnd(s sdktrace.ReadOnlySpan) {
	p.metrics.PhaseDuration(s.Name(), s.EndTime().Sub(s.StartTime()))
}

// Shutdown does nothing.
func (p *PhaseTimer) Shutdown(context.Context) error { return nil }

// ForceFlush does nothing.
func (p *PhaseTimer) ForceFlush(context.Context) error { return nil }

// NewProvider returns a tracer provider sampling every span into a PhaseTimer.
func NewProvider(metrics ports.Metrics, extra ...sdktrace.SpanProcessor) *sdktrace.TracerProvider {
	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithSpanProcessor(NewPhaseTimer(metrics)),
	}
	for _, p := range extra {
		opts = append(opts, sdktrace.WithSpanProcessor(p))
	}
	return sdktrace.NewTracerProvider(opts...)
}
