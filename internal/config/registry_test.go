package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "bikeshare/internal/errors"
)

func TestDefaultRegistry_ResolveCity(t *testing.T) {
	reg := DefaultRegistry("data")

	tests := []struct {
		name    string
		city    string
		want    string
		wantErr bool
	}{
		{"chicago", "chicago", filepath.Join("data", "chicago.csv"), false},
		{"multi word city", "new york city", filepath.Join("data", "new_york_city.csv"), false},
		{"case and whitespace insensitive", "  Washington ", filepath.Join("data", "washington.csv"), false},
		{"unknown city", "boston", "", true},
		{"empty city", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reg.ResolveCity(tt.city)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, apperrors.ErrUnknownCity))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegistry_Lists(t *testing.T) {
	reg := DefaultRegistry("")

	assert.Equal(t, []string{"chicago", "new york city", "washington"}, reg.CityIDs())
	assert.Equal(t, []string{"january", "february", "march", "april", "may", "june"}, reg.Months())
	assert.Len(t, reg.Weekdays(), 7)
	assert.Equal(t, "sunday", reg.Weekdays()[0])

	// accessors hand out copies
	m := reg.Months()
	m[0] = "smarch"
	assert.Equal(t, "january", reg.Months()[0])

	c := reg.Cities()
	c[0].File = "elsewhere.csv"
	path, err := reg.ResolveCity("chicago")
	require.NoError(t, err)
	assert.Equal(t, "chicago.csv", path)
}

func TestRegistry_MonthIndex(t *testing.T) {
	reg := DefaultRegistry("")

	tests := []struct {
		name   string
		month  string
		want   int
		wantOK bool
	}{
		{"first", "january", 1, true},
		{"last", "june", 6, true},
		{"title case", "February", 2, true},
		{"outside data range", "july", 0, false},
		{"sentinel is not a month", "all", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := reg.MonthIndex(tt.month)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegistry_ValidMonthAndDay(t *testing.T) {
	reg := DefaultRegistry("")

	assert.True(t, reg.ValidMonth("all"))
	assert.True(t, reg.ValidMonth("ALL"))
	assert.True(t, reg.ValidMonth("march"))
	assert.False(t, reg.ValidMonth("december"))

	assert.True(t, reg.ValidDay("all"))
	assert.True(t, reg.ValidDay("Tuesday"))
	assert.False(t, reg.ValidDay("tues"))
	assert.False(t, reg.IsWeekday("all"))
}

func TestLoadRegistry(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantErr  bool
		wantIDs  []string
		wantPath string
	}{
		{
			name: "valid file",
			content: `
cities:
  - id: Chicago
    file: chi.xlsx
  - id: boston
    file: /abs/boston.csv
`,
			wantIDs:  []string{"chicago", "boston"},
			wantPath: filepath.Join("trips", "chi.xlsx"),
		},
		{name: "no cities", content: "cities: []\n", wantErr: true},
		{name: "missing file", content: "cities:\n  - id: chicago\n", wantErr: true},
		{name: "duplicate", content: "cities:\n  - {id: a, file: a.csv}\n  - {id: A, file: b.csv}\n", wantErr: true},
		{name: "bad yaml", content: "cities: {", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cities.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			reg, err := LoadRegistry(path, "trips")
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, apperrors.ErrTypeConfig, apperrors.TypeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantIDs, reg.CityIDs())

			got, err := reg.ResolveCity("chicago")
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, got)

			abs, err := reg.ResolveCity("boston")
			require.NoError(t, err)
			assert.Equal(t, "/abs/boston.csv", abs)
		})
	}
}

func TestLoadRegistry_MissingFile(t *testing.T) {
	_, err := LoadRegistry(filepath.Join(t.TempDir(), "nope.yaml"), "")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrTypeConfig, apperrors.TypeOf(err))
}

func TestNewRegistryFromConfig(t *testing.T) {
	cfg := Default()
	reg, err := NewRegistryFromConfig(cfg)
	require.NoError(t, err)
	assert.True(t, reg.HasCity("washington"))

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cities.yaml"), []byte("cities:\n  - {id: denver, file: denver.csv}\n"), 0644))
	cfg.Data.Dir = dir
	cfg.Data.RegistryFile = "cities.yaml"

	reg, err = NewRegistryFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"denver"}, reg.CityIDs())
	assert.False(t, reg.HasCity("chicago"))
}
