package dataprocessing

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	apperrors "bikeshare/internal/errors"
	"bikeshare/pkg/contracts/domain"
)

// timestampLayouts are tried in order. Timestamps are naive and parsed as UTC
// without conversion.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"2006-01-02",
}

var requiredColumns = []string{
	domain.ColumnStartTime,
	domain.ColumnTripDuration,
	domain.ColumnStartStation,
	domain.ColumnEndStation,
	domain.ColumnUserType,
}

// columnMap holds header positions. Optional columns are -1 when absent.
type columnMap struct {
	startTime    int
	endTime      int
	tripDuration int
	startStation int
	endStation   int
	userType     int
	gender       int
	birthYear    int
}

func (m columnMap) schema() domain.Schema {
	return domain.Schema{
		HasEndTime:   m.endTime >= 0,
		HasGender:    m.gender >= 0,
		HasBirthYear: m.birthYear >= 0,
	}
}

// mapHeader locates the known columns in a header row. Unknown columns,
// such as an unnamed index column, are ignored.
func mapHeader(header []string) (columnMap, error) {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := positions[name]; !dup {
			positions[name] = i
		}
	}

	for _, col := range requiredColumns {
		if _, ok := positions[col]; !ok {
			return columnMap{}, apperrors.NewMalformedInputError(
				fmt.Sprintf("missing required column %q", col), nil).
				WithContext("column", col)
		}
	}

	lookup := func(name string) int {
		if i, ok := positions[name]; ok {
			return i
		}
		return -1
	}

	return columnMap{
		startTime:    lookup(domain.ColumnStartTime),
		endTime:      lookup(domain.ColumnEndTime),
		tripDuration: lookup(domain.ColumnTripDuration),
		startStation: lookup(domain.ColumnStartStation),
		endStation:   lookup(domain.ColumnEndStation),
		userType:     lookup(domain.ColumnUserType),
		gender:       lookup(domain.ColumnGender),
		birthYear:    lookup(domain.ColumnBirthYear),
	}, nil
}

// timeParser turns a cell into a timestamp. Spreadsheet sources fall back to
// serial date numbers.
type timeParser func(string) (time.Time, error)

// rowParser converts source rows into trip records.
type rowParser struct {
	cols      columnMap
	parseTime timeParser
}

// parse builds a record from row. line is the 1-based source line used in
// error context.
func (p *rowParser) parse(row []string, line int) (domain.TripRecord, error) {
	var rec domain.TripRecord

	startRaw := cell(row, p.cols.startTime)
	if startRaw == "" {
		return rec, malformed("empty start time", nil, line, domain.ColumnStartTime)
	}
	start, err := p.parseTime(startRaw)
	if err != nil {
		return rec, malformed("unparseable start time", err, line, domain.ColumnStartTime)
	}
	rec.StartTime = start

	if raw := cell(row, p.cols.endTime); raw != "" {
		end, err := p.parseTime(raw)
		if err != nil {
			return rec, malformed("unparseable end time", err, line, domain.ColumnEndTime)
		}
		rec.EndTime = &end
	}

	duration, err := strconv.ParseFloat(cell(row, p.cols.tripDuration), 64)
	if err != nil {
		return rec, malformed("unparseable trip duration", err, line, domain.ColumnTripDuration)
	}
	rec.TripDuration = duration

	rec.StartStation = cell(row, p.cols.startStation)
	if rec.StartStation == "" {
		return rec, malformed("empty start station", nil, line, domain.ColumnStartStation)
	}
	rec.EndStation = cell(row, p.cols.endStation)
	if rec.EndStation == "" {
		return rec, malformed("empty end station", nil, line, domain.ColumnEndStation)
	}

	rec.UserType = cell(row, p.cols.userType)
	rec.Gender = cell(row, p.cols.gender)

	if raw := cell(row, p.cols.birthYear); raw != "" {
		year, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return rec, malformed("unparseable birth year", err, line, domain.ColumnBirthYear)
		}
		y := int(math.Trunc(year))
		rec.BirthYear = &y
	}

	deriveCalendarFields(&rec)
	return rec, nil
}

// deriveCalendarFields fills Month, MonthName, DayOfWeek and Hour from
// StartTime.
func deriveCalendarFields(rec *domain.TripRecord) {
	rec.Month = int(rec.StartTime.Month())
	rec.MonthName = rec.StartTime.Month().String()
	rec.DayOfWeek = rec.StartTime.Weekday().String()
	rec.Hour = rec.StartTime.Hour()
}

// parseTimestamp tries each accepted layout in turn.
func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("no known layout matches %q", value)
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func malformed(msg string, cause error, line int, column string) *apperrors.AppError {
	return apperrors.NewMalformedInputError(msg, cause).
		WithContext("line", line).
		WithContext("column", column)
}
