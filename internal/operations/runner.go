package operations

import (
	"context"
	"fmt"
	"log/slog"

	"bikeshare/internal/infrastructure"
)

// Runner executes timed analysis steps. Each step gets a span, a duration
// histogram sample and a log line carrying its elapsed time.
type Runner struct {
	tracer *StepTracer
	logger *slog.Logger
}

// NewRunner creates a runner on the process telemetry providers
func NewRunner(providers *infrastructure.OTelProviders, logger *slog.Logger) (*Runner, error) {
	if providers == nil {
		return nil, fmt.Errorf("telemetry providers are required")
	}
	tracer, err := NewStepTracer(providers)
	if err != nil {
		return nil, err
	}
	return NewRunnerWithTracer(tracer, logger), nil
}

// NewRunnerWithTracer creates a runner around an existing step tracer
func NewRunnerWithTracer(tracer *StepTracer, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		tracer: tracer,
		logger: infrastructure.WithComponent(logger, "operations"),
	}
}

// Run executes fn as the step stepID and returns its timing record. The
// error of fn is returned unchanged; the state is returned in both cases.
func (r *Runner) Run(ctx context.Context, stepID string, fn func(ctx context.Context) error) (*StepState, error) {
	state := NewStepState(stepID, StepName(stepID))

	ctx, span := r.tracer.TraceStep(ctx, stepID)
	defer span.End()

	r.logger.DebugContext(ctx, "Step started", slog.String("step", stepID))

	state.Start()
	err := fn(ctx)
	if err != nil {
		state.Fail(err)
	} else {
		state.Complete()
	}
	r.tracer.RecordStepCompletion(ctx, span, state)

	if err != nil {
		r.logger.ErrorContext(ctx, "Step failed",
			slog.String("step", stepID),
			slog.Duration("elapsed", state.Duration()),
			slog.String("error", err.Error()))
		return state, err
	}

	r.logger.InfoContext(ctx, "Step completed",
		slog.String("step", stepID),
		slog.String("name", state.Name),
		slog.Float64("seconds", state.Seconds()))
	return state, nil
}
