package testutil

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"bikeshare/pkg/contracts/domain"
)

// TripLayout is the timestamp layout used by fixtures.
const TripLayout = "2006-01-02 15:04:05"

// Trip describes one fixture row. A zero BirthYear means the value is null.
type Trip struct {
	Start     string
	From      string
	To        string
	Duration  float64
	UserType  string
	Gender    string
	BirthYear int
}

// TripTableBuilder assembles in-memory trip tables with the same derived
// calendar fields the loader produces.
type TripTableBuilder struct {
	t     testing.TB
	table domain.Table
}

// NewTripTableBuilder starts a table for city with no optional columns.
func NewTripTableBuilder(t testing.TB, city string) *TripTableBuilder {
	return &TripTableBuilder{t: t, table: domain.Table{City: city}}
}

// WithGender marks the table as carrying a Gender column.
func (b *TripTableBuilder) WithGender() *TripTableBuilder {
	b.table.Schema.HasGender = true
	return b
}

// WithBirthYear marks the table as carrying a Birth Year column.
func (b *TripTableBuilder) WithBirthYear() *TripTableBuilder {
	b.table.Schema.HasBirthYear = true
	return b
}

// Add appends a trip.
func (b *TripTableBuilder) Add(trip Trip) *TripTableBuilder {
	b.t.Helper()

	start, err := time.Parse(TripLayout, trip.Start)
	if err != nil {
		b.t.Fatalf("bad fixture start time %q: %v", trip.Start, err)
	}

	rec := domain.TripRecord{
		StartTime:    start,
		TripDuration: trip.Duration,
		StartStation: trip.From,
		EndStation:   trip.To,
		UserType:     trip.UserType,
		Gender:       trip.Gender,
		Month:        int(start.Month()),
		MonthName:    start.Month().String(),
		DayOfWeek:    start.Weekday().String(),
		Hour:         start.Hour(),
	}
	if trip.BirthYear != 0 {
		y := trip.BirthYear
		rec.BirthYear = &y
	}

	b.table.Records = append(b.table.Records, rec)
	return b
}

// AddStations appends a subscriber trip between two stations at start.
func (b *TripTableBuilder) AddStations(start, from, to string) *TripTableBuilder {
	b.t.Helper()
	return b.Add(Trip{Start: start, From: from, To: to, Duration: 60, UserType: "Subscriber"})
}

// Build returns a copy of the assembled table.
func (b *TripTableBuilder) Build() *domain.Table {
	out := b.table
	out.Records = append([]domain.TripRecord(nil), b.table.Records...)
	return &out
}

// WriteCSV writes header and rows to dir/name and returns the path.
func WriteCSV(t testing.TB, dir, name string, header []string, rows [][]string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create fixture %s: %v", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		t.Fatalf("write fixture header: %v", err)
	}
	if err := w.WriteAll(rows); err != nil {
		t.Fatalf("write fixture rows: %v", err)
	}
	return path
}

// ChicagoHeader is the full column set of a city that records gender and
// birth year, led by the unnamed index column the published files carry.
var ChicagoHeader = []string{
	"", "Start Time", "End Time", "Trip Duration", "Start Station",
	"End Station", "User Type", "Gender", "Birth Year",
}

// WashingtonHeader lacks the Gender and Birth Year columns.
var WashingtonHeader = []string{
	"", "Start Time", "End Time", "Trip Duration", "Start Station",
	"End Station", "User Type",
}
