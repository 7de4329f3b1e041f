package operations

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"bikeshare/internal/infrastructure"
)

// StepTracer provides OpenTelemetry instrumentation for analysis steps
type StepTracer struct {
	tracer  trace.Tracer
	metrics *infrastructure.AnalysisMetrics
}

// NewStepTracer creates a step tracer on the given providers
func NewStepTracer(providers *infrastructure.OTelProviders) (*StepTracer, error) {
	metrics, err := infrastructure.CreateAnalysisMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis metrics: %w", err)
	}
	return &StepTracer{
		tracer:  providers.Tracer,
		metrics: metrics,
	}, nil
}

// NewStepTracerWith builds a tracer from explicit parts. metrics may be nil.
func NewStepTracerWith(tracer trace.Tracer, metrics *infrastructure.AnalysisMetrics) *StepTracer {
	return &StepTracer{tracer: tracer, metrics: metrics}
}

// TraceQuery creates the parent span for one load, filter and statistics pass
func (st *StepTracer) TraceQuery(ctx context.Context, queryID, city, month, day string) (context.Context, trace.Span) {
	return st.tracer.Start(ctx, "analysis.query",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("query.id", queryID),
			attribute.String("query.city", city),
			attribute.String("query.month", month),
			attribute.String("query.day", day),
		),
	)
}

// TraceStep creates a span for an individual step
func (st *StepTracer) TraceStep(ctx context.Context, stepID string) (context.Context, trace.Span) {
	return st.tracer.Start(ctx, "analysis.step."+stepID,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("step.id", stepID),
			attribute.String("step.name", StepName(stepID)),
		),
	)
}

// RecordStepCompletion closes out a step span and records its metrics
func (st *StepTracer) RecordStepCompletion(ctx context.Context, span trace.Span, state *StepState) {
	success := state.GetStatus() == StepStatusCompleted
	duration := state.Duration()

	span.SetAttributes(
		attribute.String("step.status", string(state.GetStatus())),
		attribute.Float64("step.duration_seconds", duration.Seconds()),
	)
	if !success && state.Error != nil {
		span.RecordError(state.Error)
		span.SetStatus(codes.Error, state.Error.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}

	infrastructure.RecordStepMetrics(ctx, st.metrics, state.ID, duration, success)
}

// RecordRows counts rows seen by the query
func (st *StepTracer) RecordRows(ctx context.Context, city, stage string, n int) {
	infrastructure.RecordRows(ctx, st.metrics, city, stage, n)

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(attribute.Int("rows."+stage, n))
	}
}
