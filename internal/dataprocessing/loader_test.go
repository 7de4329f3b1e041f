package dataprocessing

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"bikeshare/internal/config"
	apperrors "bikeshare/internal/errors"
	"bikeshare/internal/shared/testutil"
)

var chicagoRows = [][]string{
	{"1423854", "2017-06-23 15:09:32", "2017-06-23 15:14:53", "321", "Wood St & Hubbard St", "Damen Ave & Chicago Ave", "Subscriber", "Male", "1992.0"},
	{"955915", "2017-05-25 18:19:03", "2017-05-25 18:45:53", "1610", "Theater on the Lake", "Sheffield Ave & Waveland Ave", "Subscriber", "Female", "1992.0"},
	{"9031", "2017-01-04 08:27:49", "2017-01-04 08:34:45", "416", "May St & Taylor St", "Wood St & Taylor St", "Subscriber", "Male", "1981.0"},
	{"304487", "2017-03-06 13:49:38", "2017-03-06 13:55:28", "350", "Christiana Ave & Lawrence Ave", "St. Louis Ave & Balmoral Ave", "Customer", "", ""},
}

func newTestLoader(t *testing.T, dir string) (*Loader, *testutil.BufferedSlogHandler) {
	t.Helper()
	logger, handler := testutil.NewTestLogger(t)
	return NewLoader(config.DefaultRegistry(dir), logger), handler
}

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteCSV(t, dir, "chicago.csv", testutil.ChicagoHeader, chicagoRows)
	loader, handler := newTestLoader(t, dir)

	table, err := loader.Load(context.Background(), "Chicago")
	require.NoError(t, err)

	assert.Equal(t, "chicago", table.City)
	assert.True(t, table.Schema.HasGender)
	assert.True(t, table.Schema.HasBirthYear)
	assert.True(t, table.Schema.HasEndTime)
	require.Equal(t, 4, table.Len())

	// source order is preserved
	assert.Equal(t, "Wood St & Hubbard St", table.Records[0].StartStation)
	assert.Equal(t, "June", table.Records[0].MonthName)
	assert.Equal(t, 6, table.Records[0].Month)
	assert.Equal(t, "Friday", table.Records[0].DayOfWeek)
	assert.Equal(t, 15, table.Records[0].Hour)
	assert.Nil(t, table.Records[3].BirthYear)

	testutil.AssertLogContains(t, handler, slog.LevelInfo, "Trip table loaded")
	testutil.AssertLogAttr(t, handler, "rows", int64(4))
}

func TestLoader_LoadWithoutDemographics(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteCSV(t, dir, "washington.csv", testutil.WashingtonHeader, [][]string{
		{"1621326", "2017-06-21 08:36:34", "2017-06-21 08:44:43", "489.066", "14th & Belmont St NW", "15th & K St NW", "Subscriber"},
	})
	loader, _ := newTestLoader(t, dir)

	table, err := loader.Load(context.Background(), "washington")
	require.NoError(t, err)

	assert.False(t, table.Schema.HasGender)
	assert.False(t, table.Schema.HasBirthYear)
	assert.InDelta(t, 489.066, table.Records[0].TripDuration, 1e-9)
}

func TestLoader_LoadErrors(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteCSV(t, dir, "chicago.csv", testutil.ChicagoHeader, [][]string{
		chicagoRows[0],
		{"2", "not a time", "", "60", "A", "B", "Customer", "", ""},
	})
	testutil.WriteCSV(t, dir, "washington.csv", []string{"Start Time", "Trip Duration"}, nil)
	loader, _ := newTestLoader(t, dir)

	tests := []struct {
		name     string
		city     string
		sentinel error
		errType  apperrors.ErrorType
	}{
		{"unknown city", "boston", apperrors.ErrUnknownCity, apperrors.ErrTypeUnknownCity},
		{"unparseable row", "chicago", apperrors.ErrMalformedInput, apperrors.ErrTypeMalformedInput},
		{"missing columns", "washington", apperrors.ErrMalformedInput, apperrors.ErrTypeMalformedInput},
		{"missing file", "new york city", nil, apperrors.ErrTypeStorage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := loader.Load(context.Background(), tt.city)
			require.Error(t, err)
			assert.Nil(t, table)
			if tt.sentinel != nil {
				assert.True(t, errors.Is(err, tt.sentinel))
			}
			assert.Equal(t, tt.errType, apperrors.TypeOf(err))
		})
	}
}

func TestLoader_MalformedRowReportsLine(t *testing.T) {
	loader, _ := newTestLoader(t, "")
	input := strings.Join([]string{
		"Start Time,Trip Duration,Start Station,End Station,User Type",
		"2017-01-01 00:00:00,60,A,B,Customer",
		"2017-01-01 00:00:00,abc,A,B,Customer",
	}, "\n")

	_, err := loader.LoadReader(context.Background(), "chicago", strings.NewReader(input))
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 3, appErr.Context["line"])
	assert.Equal(t, "Trip Duration", appErr.Context["column"])
}

func TestLoader_LoadReaderEdgeCases(t *testing.T) {
	loader, _ := newTestLoader(t, "")
	ctx := context.Background()

	t.Run("empty input", func(t *testing.T) {
		_, err := loader.LoadReader(ctx, "chicago", strings.NewReader(""))
		assert.True(t, errors.Is(err, apperrors.ErrMalformedInput))
	})

	t.Run("header only", func(t *testing.T) {
		table, err := loader.LoadReader(ctx, "chicago",
			strings.NewReader("Start Time,Trip Duration,Start Station,End Station,User Type\n"))
		require.NoError(t, err)
		assert.True(t, table.IsEmpty())
	})

	t.Run("blank separator rows skipped", func(t *testing.T) {
		input := "Start Time,Trip Duration,Start Station,End Station,User Type\n" +
			"2017-01-01 00:00:00,60,A,B,Customer\n" +
			",,,,\n" +
			"2017-01-02 00:00:00,60,A,B,Customer\n"
		table, err := loader.LoadReader(ctx, "chicago", strings.NewReader(input))
		require.NoError(t, err)
		assert.Equal(t, 2, table.Len())
	})
}

func TestLoader_LoadXLSX(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chicago.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	header := []interface{}{"Start Time", "Trip Duration", "Start Station", "End Station", "User Type", "Gender"}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))
	rows := [][]interface{}{
		{"2017-02-07 09:15:00", 300, "Canal St", "Clark St", "Subscriber", "Male"},
		{42736.5, 120.5, "Canal St", "State St", "Customer", ""},
	}
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellRef, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	reg, err := config.LoadRegistry(writeRegistry(t, dir, "cities:\n  - {id: chicago, file: chicago.xlsx}\n"), dir)
	require.NoError(t, err)
	logger, _ := testutil.NewTestLogger(t)

	table, err := NewLoader(reg, logger).Load(context.Background(), "chicago")
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())

	assert.True(t, table.Schema.HasGender)
	assert.False(t, table.Schema.HasBirthYear)
	assert.Equal(t, "Tuesday", table.Records[0].DayOfWeek)
	assert.Equal(t, 300.0, table.Records[0].TripDuration)
	assert.Equal(t, "January", table.Records[1].MonthName)
	assert.Equal(t, 12, table.Records[1].Hour)
	assert.Empty(t, table.Records[1].Gender)
}

func writeRegistry(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "cities.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
