// Package operations runs a bike-share query as a sequence of timed steps.
//
// A query loads one city table, applies the month and day filters and then
// computes four statistic groups: times of travel, stations, trip duration
// and users. Each of those is a step executed by a Runner, which records:
//
//   - a StepState with start and end times, reported as "This took N seconds."
//   - an OpenTelemetry span named analysis.step.<id> under an analysis.query span
//   - the analysis_step_duration_seconds histogram and analysis_steps_total counter
//
// Analyze wires a TableLoader, TableFilter and StatsComputer together and
// returns a Report holding every result plus the step timings. Steps run
// sequentially and nothing is cached between queries.
package operations
