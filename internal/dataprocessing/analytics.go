package dataprocessing

import (
	"context"
	"log/slog"
	"math"

	"bikeshare/pkg/contracts/domain"
)

// Analyzer computes the statistic groups over a filtered table. Every method
// tolerates an empty or nil table and returns zero or "no data" results.
type Analyzer struct {
	logger *slog.Logger
}

// NewAnalyzer creates an analyzer. A nil logger falls back to slog.Default().
func NewAnalyzer(logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{logger: logger}
}

type stationPair struct {
	start, end string
}

// ComputeTemporalStats finds the most frequent month, weekday and start
// hour. The month mode is only computed when monthWasAll is set, the weekday
// mode only when dayWasAll is set.
func (a *Analyzer) ComputeTemporalStats(ctx context.Context, table *domain.Table, monthWasAll, dayWasAll bool) domain.TemporalStats {
	months := NewCounter[string]()
	days := NewCounter[string]()
	hours := NewCounter[int]()

	for _, rec := range records(table) {
		if monthWasAll {
			months.Add(rec.MonthName)
		}
		if dayWasAll {
			days.Add(rec.DayOfWeek)
		}
		hours.Add(rec.Hour)
	}

	var stats domain.TemporalStats
	if monthWasAll {
		m := months.Mode()
		stats.MostCommonMonth = &m
	}
	if dayWasAll {
		d := days.Mode()
		stats.MostCommonDay = &d
	}
	stats.MostCommonHour = hours.Mode()

	a.logger.DebugContext(ctx, "Temporal stats computed",
		slog.Int("rows", table.Len()),
		slog.String("hour", stats.MostCommonHour.String()))
	return stats
}

// ComputeStationStats finds the most used start station, end station and
// start/end combination.
func (a *Analyzer) ComputeStationStats(ctx context.Context, table *domain.Table) domain.StationStats {
	starts := NewCounter[string]()
	ends := NewCounter[string]()
	pairs := NewCounter[stationPair]()

	for _, rec := range records(table) {
		starts.Add(rec.StartStation)
		ends.Add(rec.EndStation)
		pairs.Add(stationPair{start: rec.StartStation, end: rec.EndStation})
	}

	stats := domain.StationStats{
		MostCommonStart: starts.Mode(),
		MostCommonEnd:   ends.Mode(),
	}
	if trip := pairs.Mode(); trip.Valid {
		stats.HasTrip = true
		stats.MostCommonTrip = domain.StationPair{
			Start: trip.Value.start,
			End:   trip.Value.end,
			Count: trip.Count,
		}
	}

	a.logger.DebugContext(ctx, "Station stats computed",
		slog.Int("rows", table.Len()),
		slog.Int("distinct_pairs", pairs.Len()))
	return stats
}

// ComputeDurationStats sums and averages trip durations, both truncated to
// whole seconds. An empty table yields zero durations.
func (a *Analyzer) ComputeDurationStats(ctx context.Context, table *domain.Table) domain.DurationStats {
	var total float64
	recs := records(table)
	for _, rec := range recs {
		total += rec.TripDuration
	}

	stats := domain.DurationStats{
		Trips: len(recs),
		Total: domain.TripDuration{Seconds: int64(math.Trunc(total))},
	}
	if len(recs) > 0 {
		stats.Mean = domain.TripDuration{Seconds: int64(math.Trunc(total / float64(len(recs))))}
	}

	a.logger.DebugContext(ctx, "Duration stats computed",
		slog.Int("trips", stats.Trips),
		slog.Int64("total_seconds", stats.Total.Seconds))
	return stats
}

// ComputeUserStats breaks trips down by user type and, when the source
// carries them, by gender and birth year. Empty values are not counted.
func (a *Analyzer) ComputeUserStats(ctx context.Context, table *domain.Table) domain.UserStats {
	var schema domain.Schema
	if table != nil {
		schema = table.Schema
	}

	userTypes := NewCounter[string]()
	genders := NewCounter[string]()
	years := NewCounter[int]()
	var earliest, latest domain.Mode[int]

	for _, rec := range records(table) {
		if rec.UserType != "" {
			userTypes.Add(rec.UserType)
		}
		if schema.HasGender && rec.Gender != "" {
			genders.Add(rec.Gender)
		}
		if schema.HasBirthYear && rec.BirthYear != nil {
			y := *rec.BirthYear
			years.Add(y)
			if !earliest.Valid || y < earliest.Value {
				earliest = domain.Mode[int]{Value: y, Valid: true}
			}
			if !latest.Valid || y > latest.Value {
				latest = domain.Mode[int]{Value: y, Valid: true}
			}
		}
	}

	stats := domain.UserStats{
		UserTypes: valueCounts(userTypes),
		HasGender: schema.HasGender,
	}
	if schema.HasGender {
		stats.Gender = valueCounts(genders)
	}
	if schema.HasBirthYear {
		earliest.Count = years.Count(earliest.Value)
		latest.Count = years.Count(latest.Value)
		stats.BirthYear = &domain.BirthYearStats{
			Earliest: earliest,
			Latest:   latest,
			Common:   years.Mode(),
		}
	}

	a.logger.DebugContext(ctx, "User stats computed",
		slog.Int("user_types", userTypes.Len()),
		slog.Bool("has_gender", schema.HasGender),
		slog.Bool("has_birth_year", schema.HasBirthYear))
	return stats
}

func valueCounts(c *Counter[string]) []domain.ValueCount {
	ranked := c.Ranked()
	out := make([]domain.ValueCount, len(ranked))
	for i, e := range ranked {
		out[i] = domain.ValueCount{Value: e.Value, Count: e.Count}
	}
	return out
}

func records(table *domain.Table) []domain.TripRecord {
	if table == nil {
		return nil
	}
	return table.Records
}
