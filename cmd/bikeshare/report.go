package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"bikeshare/internal/operations"
	"bikeshare/pkg/contracts/domain"
)

const rule = "----------------------------------------"

// printReport renders the four statistic groups in the order they ran
func printReport(w io.Writer, r *operations.Report) {
	fmt.Fprintf(w, "\n%d of %d %s trips match month=%s day=%s\n",
		r.Table.Len(), r.Rows, r.Table.City, r.Spec.Month, r.Spec.Day)

	printTemporal(w, r.Temporal)
	printElapsed(w, r.Step(operations.StepTemporal))

	printStation(w, r.Station)
	printElapsed(w, r.Step(operations.StepStation))

	printDuration(w, r.Duration)
	printElapsed(w, r.Step(operations.StepDuration))

	printUser(w, r.User)
	printElapsed(w, r.Step(operations.StepUser))
}

func printTemporal(w io.Writer, s domain.TemporalStats) {
	fmt.Fprintf(w, "\n%s...\n", operations.StepName(operations.StepTemporal))
	if s.MostCommonMonth != nil {
		printValue(w, "Most common month", s.MostCommonMonth.String())
	}
	if s.MostCommonDay != nil {
		printValue(w, "Most common day", s.MostCommonDay.String())
	}
	printValue(w, "Most Popular Start Hour", s.MostCommonHour.String())
}

func printStation(w io.Writer, s domain.StationStats) {
	fmt.Fprintf(w, "\n%s...\n", operations.StepName(operations.StepStation))
	printValue(w, "Most commonly used start station", s.MostCommonStart.String())
	printValue(w, "Most commonly used end station", s.MostCommonEnd.String())

	combo := domain.NoData
	if s.HasTrip {
		combo = fmt.Sprintf("%s (%d trips)", s.MostCommonTrip, s.MostCommonTrip.Count)
	}
	printValue(w, "Most frequent combination of start and end stations", combo)
}

func printDuration(w io.Writer, s domain.DurationStats) {
	fmt.Fprintf(w, "\n%s...\n", operations.StepName(operations.StepDuration))
	printValue(w, "Total travel time", s.Total.String())
	printValue(w, "Mean travel time", s.Mean.String())
}

func printUser(w io.Writer, s domain.UserStats) {
	fmt.Fprintf(w, "\n%s...\n", operations.StepName(operations.StepUser))

	fmt.Fprint(w, "\nUser types:\n\n")
	printCounts(w, s.UserTypes)

	if s.HasGender {
		fmt.Fprint(w, "\nGender:\n\n")
		printCounts(w, s.Gender)
	}

	if s.BirthYear != nil {
		printValue(w, "Earliest birth year", s.BirthYear.Earliest.String())
		printValue(w, "Latest birth year", s.BirthYear.Latest.String())
		printValue(w, "Most common birth year", s.BirthYear.Common.String())
	}
}

func printValue(w io.Writer, label, value string) {
	fmt.Fprintf(w, "\n%s:\n    %s\n", label, value)
}

func printCounts(w io.Writer, counts []domain.ValueCount) {
	if len(counts) == 0 {
		fmt.Fprintf(w, "    %s\n", domain.NoData)
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 4, ' ', 0)
	for _, c := range counts {
		fmt.Fprintf(tw, "    %s\t%d\n", c.Value, c.Count)
	}
	tw.Flush()
}

func printElapsed(w io.Writer, step *operations.StepState) {
	if step == nil {
		return
	}
	fmt.Fprintf(w, "\nThis took %s seconds.\n", strconv.FormatFloat(step.Seconds(), 'f', -1, 64))
	fmt.Fprintf(w, "\n%s\n", rule)
}
