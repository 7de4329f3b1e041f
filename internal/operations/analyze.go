package operations

import (
	"context"
	"log/slog"

	"bikeshare/internal/infrastructure"
	"bikeshare/pkg/contracts/domain"
)

// TableLoader loads the full trip table of a city
type TableLoader interface {
	Load(ctx context.Context, city string) (*domain.Table, error)
}

// TableFilter narrows a table to the rows matching a spec
type TableFilter interface {
	Filter(table *domain.Table, spec domain.FilterSpec) (*domain.Table, error)
}

// StatsComputer computes the four statistic groups over a table
type StatsComputer interface {
	ComputeTemporalStats(ctx context.Context, table *domain.Table, monthWasAll, dayWasAll bool) domain.TemporalStats
	ComputeStationStats(ctx context.Context, table *domain.Table) domain.StationStats
	ComputeDurationStats(ctx context.Context, table *domain.Table) domain.DurationStats
	ComputeUserStats(ctx context.Context, table *domain.Table) domain.UserStats
}

// Report is the outcome of one query
type Report struct {
	QueryID string            `json:"query_id"`
	Spec    domain.FilterSpec `json:"spec"`
	// Rows is the size of the city table before filtering.
	Rows  int           `json:"rows"`
	Table *domain.Table `json:"-"`

	Temporal domain.TemporalStats `json:"temporal"`
	Station  domain.StationStats  `json:"station"`
	Duration domain.DurationStats `json:"duration"`
	User     domain.UserStats     `json:"user"`

	Steps []*StepState `json:"steps"`
}

// Step returns the timing record of stepID, or nil if the step did not run
func (r *Report) Step(id string) *StepState {
	for _, s := range r.Steps {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// Analyze loads the city named by spec, filters it and computes every
// statistic group, timing each step. The table is reloaded on every call.
// On error the partial report holds the steps that ran.
func (r *Runner) Analyze(ctx context.Context, loader TableLoader, filter TableFilter, stats StatsComputer, spec domain.FilterSpec) (*Report, error) {
	ctx = infrastructure.EnsureTraceID(ctx)
	report := &Report{
		QueryID: infrastructure.GetTraceID(ctx),
		Spec:    spec,
	}

	ctx, span := r.tracer.TraceQuery(ctx, report.QueryID, spec.City, spec.Month, spec.Day)
	defer span.End()

	r.logger.InfoContext(ctx, "Query started",
		slog.String("city", spec.City),
		slog.String("month", spec.Month),
		slog.String("day", spec.Day))

	var full *domain.Table
	steps := []struct {
		id string
		fn func(ctx context.Context) error
	}{
		{StepLoad, func(ctx context.Context) error {
			t, err := loader.Load(ctx, spec.City)
			if err != nil {
				return err
			}
			full = t
			report.Rows = t.Len()
			r.tracer.RecordRows(ctx, t.City, "loaded", t.Len())
			return nil
		}},
		{StepFilter, func(ctx context.Context) error {
			t, err := filter.Filter(full, spec)
			if err != nil {
				return err
			}
			report.Table = t
			r.tracer.RecordRows(ctx, full.City, "matched", t.Len())
			return nil
		}},
		{StepTemporal, func(ctx context.Context) error {
			report.Temporal = stats.ComputeTemporalStats(ctx, report.Table, spec.AllMonths(), spec.AllDays())
			return nil
		}},
		{StepStation, func(ctx context.Context) error {
			report.Station = stats.ComputeStationStats(ctx, report.Table)
			return nil
		}},
		{StepDuration, func(ctx context.Context) error {
			report.Duration = stats.ComputeDurationStats(ctx, report.Table)
			return nil
		}},
		{StepUser, func(ctx context.Context) error {
			report.User = stats.ComputeUserStats(ctx, report.Table)
			return nil
		}},
	}

	for _, step := range steps {
		state, err := r.Run(ctx, step.id, step.fn)
		report.Steps = append(report.Steps, state)
		if err != nil {
			infrastructure.RecordError(ctx, err)
			return report, err
		}
	}

	r.logger.InfoContext(ctx, "Query completed",
		slog.String("city", spec.City),
		slog.Int("rows", report.Rows),
		slog.Int("matched", report.Table.Len()))
	return report, nil
}
