package domain

import (
	"strings"
	"time"
)

// FilterAll is the sentinel accepted for both month and day meaning
// "apply no predicate".
const FilterAll = "all"

// Source column names as they appear in the city files.
const (
	ColumnStartTime    = "Start Time"
	ColumnEndTime      = "End Time"
	ColumnTripDuration = "Trip Duration"
	ColumnStartStation = "Start Station"
	ColumnEndStation   = "End Station"
	ColumnUserType     = "User Type"
	ColumnGender       = "Gender"
	ColumnBirthYear    = "Birth Year"
)

// TripRecord represents one bike-share trip row from a city file.
// Month, MonthName, DayOfWeek and Hour are derived from StartTime once at
// load time.
type TripRecord struct {
	StartTime    time.Time  `json:"start_time" validate:"required"`
	EndTime      *time.Time `json:"end_time,omitempty"`
	TripDuration float64    `json:"trip_duration"` // seconds
	StartStation string     `json:"start_station" validate:"required"`
	EndStation   string     `json:"end_station" validate:"required"`
	UserType     string     `json:"user_type,omitempty"`
	Gender       string     `json:"gender,omitempty"`
	BirthYear    *int       `json:"birth_year,omitempty"`

	Month     int    `json:"month" validate:"min=1,max=12"`
	MonthName string `json:"month_name"`
	DayOfWeek string `json:"day_of_week"`
	Hour      int    `json:"hour" validate:"min=0,max=23"`
}

// Schema describes which optional columns a city file carries.
// The statistics engine consults these flags instead of probing records.
type Schema struct {
	HasEndTime   bool `json:"has_end_time"`
	HasGender    bool `json:"has_gender"`
	HasBirthYear bool `json:"has_birth_year"`
}

// Table is an ordered collection of trips for one city. Record order is
// the order of the source file.
type Table struct {
	City    string       `json:"city"`
	Schema  Schema       `json:"schema"`
	Records []TripRecord `json:"records"`
}

// Len returns the number of records in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// IsEmpty reports whether the table has no records.
func (t *Table) IsEmpty() bool {
	return t.Len() == 0
}

// FilterSpec narrows which rows participate in statistics.
// Month and Day are either FilterAll or a member of the registry lists.
type FilterSpec struct {
	City  string `json:"city" validate:"required"`
	Month string `json:"month" validate:"required,month"`
	Day   string `json:"day" validate:"required,weekday"`
}

// AllMonths reports whether no month predicate applies.
func (f FilterSpec) AllMonths() bool {
	return isAll(f.Month)
}

// AllDays reports whether no day predicate applies.
func (f FilterSpec) AllDays() bool {
	return isAll(f.Day)
}

func isAll(v string) bool {
	return strings.EqualFold(strings.TrimSpace(v), FilterAll)
}
