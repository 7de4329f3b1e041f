package operations

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"bikeshare/internal/infrastructure"
	"bikeshare/internal/shared/testutil"
)

type telemetry struct {
	spans  *tracetest.SpanRecorder
	reader *sdkmetric.ManualReader
}

func (tm *telemetry) spanNames() []string {
	var names []string
	for _, s := range tm.spans.Ended() {
		names = append(names, s.Name())
	}
	return names
}

func (tm *telemetry) collect(t *testing.T) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, tm.reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func newTestRunner(t *testing.T, logger *slog.Logger) (*Runner, *telemetry) {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		_ = mp.Shutdown(context.Background())
	})

	metrics, err := infrastructure.CreateAnalysisMetrics(mp.Meter(infrastructure.MeterName))
	require.NoError(t, err)

	tracer := NewStepTracerWith(tp.Tracer("test"), metrics)
	return NewRunnerWithTracer(tracer, logger), &telemetry{spans: recorder, reader: reader}
}

func TestRunner_Run(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	runner, tm := newTestRunner(t, logger)

	called := false
	state, err := runner.Run(context.Background(), StepStation, func(ctx context.Context) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)

	assert.Equal(t, StepStatusCompleted, state.GetStatus())
	assert.Equal(t, "Calculating The Most Popular Stations and Trip", state.Name)
	assert.NotNil(t, state.StartTime)
	assert.NotNil(t, state.EndTime)

	require.Len(t, tm.spans.Ended(), 1)
	span := tm.spans.Ended()[0]
	assert.Equal(t, "analysis.step.station", span.Name())
	assert.Equal(t, otelcodes.Ok, span.Status().Code)
	assert.Contains(t, span.Attributes(), attribute.String("step.status", "completed"))

	testutil.AssertLogContains(t, handler, slog.LevelInfo, "Step completed")
	testutil.AssertLogAttr(t, handler, "step", StepStation)
	testutil.AssertLogAttr(t, handler, "component", "operations")
	testutil.AssertNoErrors(t, handler)
}

func TestRunner_RunFailure(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	runner, tm := newTestRunner(t, logger)
	cause := errors.New("disk on fire")

	state, err := runner.Run(context.Background(), StepLoad, func(ctx context.Context) error {
		return cause
	})
	require.ErrorIs(t, err, cause)
	require.NotNil(t, state)
	assert.Equal(t, StepStatusFailed, state.GetStatus())
	assert.Same(t, cause, state.Error)

	require.Len(t, tm.spans.Ended(), 1)
	span := tm.spans.Ended()[0]
	assert.Equal(t, otelcodes.Error, span.Status().Code)
	assert.Equal(t, "disk on fire", span.Status().Description)
	require.NotEmpty(t, span.Events())
	assert.Equal(t, "exception", span.Events()[0].Name)

	testutil.AssertLogContains(t, handler, slog.LevelError, "Step failed")
}

func TestRunner_StepMetrics(t *testing.T) {
	runner, tm := newTestRunner(t, slog.New(slog.NewJSONHandler(io.Discard, nil)))
	ctx := context.Background()

	_, _ = runner.Run(ctx, StepTemporal, func(context.Context) error { return nil })
	_, _ = runner.Run(ctx, StepTemporal, func(context.Context) error { return nil })
	_, _ = runner.Run(ctx, StepLoad, func(context.Context) error { return errors.New("x") })

	metrics := tm.collect(t)

	steps, ok := metrics["analysis_steps_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	counts := map[string]int64{}
	for _, dp := range steps.DataPoints {
		id, _ := dp.Attributes.Value("step_id")
		status, _ := dp.Attributes.Value("status")
		counts[id.AsString()+"/"+status.AsString()] = dp.Value
	}
	assert.Equal(t, map[string]int64{"temporal/success": 2, "load/failure": 1}, counts)

	hist, ok := metrics["analysis_step_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	assert.Len(t, hist.DataPoints, 2)
}

func TestNewRunner(t *testing.T) {
	_, err := NewRunner(nil, nil)
	require.Error(t, err)

	providers, err := infrastructure.InitializeOTel(infrastructure.DefaultOTelConfig(), slog.New(slog.NewJSONHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	runner, err := NewRunner(providers, nil)
	require.NoError(t, err)

	state, err := runner.Run(context.Background(), StepUser, func(context.Context) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, StepStatusCompleted, state.GetStatus())
}
