package domain

import (
	"fmt"
)

// NoData is how an undefined statistic is rendered.
const NoData = "no data"

// Mode is the most frequent value of a column. Valid is false when the
// column had no non-null values to count.
type Mode[T comparable] struct {
	Value T    `json:"value"`
	Count int  `json:"count"`
	Valid bool `json:"valid"`
}

// String renders the mode value, or NoData when undefined.
func (m Mode[T]) String() string {
	if !m.Valid {
		return NoData
	}
	return fmt.Sprint(m.Value)
}

// ValueCount is one row of a frequency breakdown.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// StationPair is a (start station, end station) combination and how many
// trips used it.
type StationPair struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Count int    `json:"count"`
}

// String renders the pair as "start -> end".
func (p StationPair) String() string {
	return fmt.Sprintf("%s -> %s", p.Start, p.End)
}

// TripDuration is a whole number of seconds rendered as
// "[N day[s], ]H:MM:SS".
type TripDuration struct {
	Seconds int64 `json:"seconds"`
}

const secondsPerDay = 24 * 60 * 60

// Days returns the whole days component. Days are floored, so a negative
// duration has a negative day count and a non-negative clock part.
func (d TripDuration) Days() int64 {
	days := d.Seconds / secondsPerDay
	if d.Seconds%secondsPerDay < 0 {
		days--
	}
	return days
}

func (d TripDuration) clock() int64 {
	return d.Seconds - d.Days()*secondsPerDay
}

// Hours returns the hours component (0-23).
func (d TripDuration) Hours() int64 { return d.clock() / 3600 }

// Minutes returns the minutes component (0-59).
func (d TripDuration) Minutes() int64 { return d.clock() % 3600 / 60 }

// Secs returns the seconds component (0-59).
func (d TripDuration) Secs() int64 { return d.clock() % 60 }

// String renders the duration the way the reports have always shown it.
func (d TripDuration) String() string {
	clock := fmt.Sprintf("%d:%02d:%02d", d.Hours(), d.Minutes(), d.Secs())
	days := d.Days()
	switch {
	case days == 0:
		return clock
	case days == 1 || days == -1:
		return fmt.Sprintf("%d day, %s", days, clock)
	default:
		return fmt.Sprintf("%d days, %s", days, clock)
	}
}

// TemporalStats holds the most frequent times of travel. MostCommonMonth and
// MostCommonDay are nil when the corresponding filter pinned the value.
type TemporalStats struct {
	MostCommonMonth *Mode[string] `json:"most_common_month,omitempty"`
	MostCommonDay   *Mode[string] `json:"most_common_day,omitempty"`
	MostCommonHour  Mode[int]     `json:"most_common_hour"`
}

// StationStats holds the most popular stations and trip.
type StationStats struct {
	MostCommonStart Mode[string] `json:"most_common_start"`
	MostCommonEnd   Mode[string] `json:"most_common_end"`
	MostCommonTrip  StationPair  `json:"most_common_trip"`
	HasTrip         bool         `json:"has_trip"`
}

// DurationStats holds total and mean travel time.
type DurationStats struct {
	Trips int          `json:"trips"`
	Total TripDuration `json:"total"`
	Mean  TripDuration `json:"mean"`
}

// BirthYearStats holds the birth year extremes and mode.
type BirthYearStats struct {
	Earliest Mode[int] `json:"earliest"`
	Latest   Mode[int] `json:"latest"`
	Common   Mode[int] `json:"common"`
}

// UserStats holds the demographic breakdowns. Gender is only meaningful when
// HasGender is set and BirthYear is nil when the source has no birth years.
type UserStats struct {
	UserTypes []ValueCount    `json:"user_types"`
	HasGender bool            `json:"has_gender"`
	Gender    []ValueCount    `json:"gender,omitempty"`
	BirthYear *BirthYearStats `json:"birth_year,omitempty"`
}
