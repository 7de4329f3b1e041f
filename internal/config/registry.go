package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"

	apperrors "bikeshare/internal/errors"
)

// City binds a city identifier to its source file.
type City struct {
	ID   string `yaml:"id" validate:"required"`
	File string `yaml:"file" validate:"required"`
}

var defaultCities = []City{
	{ID: "chicago", File: "chicago.csv"},
	{ID: "new york city", File: "new_york_city.csv"},
	{ID: "washington", File: "washington.csv"},
}

// months lists the months the data covers, in calendar order.
var months = []string{"january", "february", "march", "april", "may", "june"}

var weekdays = []string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

// Registry is the fixed mapping from city to source file together with the
// valid month and weekday names. It is built once and never mutated; every
// accessor returns a copy.
type Registry struct {
	dataDir string
	cities  []City
	byID    map[string]City
}

type registryFile struct {
	Cities []City `yaml:"cities"`
}

// DefaultRegistry returns the registry for the three bundled cities with
// source files resolved against dataDir.
func DefaultRegistry(dataDir string) *Registry {
	return newRegistry(dataDir, defaultCities)
}

// LoadRegistry reads city bindings from a YAML file of the form
//
//	cities:
//	  - id: chicago
//	    file: chicago.csv
//
// Month and weekday lists are fixed and cannot be overridden.
func LoadRegistry(path, dataDir string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewConfigError("failed to read registry file", err).WithContext("path", path)
	}

	var rf registryFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, apperrors.NewConfigError("failed to parse registry file", err).WithContext("path", path)
	}
	if len(rf.Cities) == 0 {
		return nil, apperrors.NewConfigError("registry file declares no cities", nil).WithContext("path", path)
	}

	seen := make(map[string]bool, len(rf.Cities))
	for i, c := range rf.Cities {
		id := normalize(c.ID)
		if id == "" || strings.TrimSpace(c.File) == "" {
			return nil, apperrors.NewConfigError("registry entry needs id and file", nil).
				WithContext("path", path).
				WithContext("index", i)
		}
		if seen[id] {
			return nil, apperrors.NewConfigError("duplicate city in registry", nil).
				WithContext("path", path).
				WithContext("city", id)
		}
		seen[id] = true
	}

	return newRegistry(dataDir, rf.Cities), nil
}

// NewRegistryFromConfig loads the configured registry file, or falls back to
// the default cities when none is set.
func NewRegistryFromConfig(cfg *Config) (*Registry, error) {
	if path := cfg.RegistryPath(); path != "" {
		return LoadRegistry(path, cfg.Data.Dir)
	}
	return DefaultRegistry(cfg.Data.Dir), nil
}

func newRegistry(dataDir string, cities []City) *Registry {
	r := &Registry{
		dataDir: dataDir,
		cities:  make([]City, 0, len(cities)),
		byID:    make(map[string]City, len(cities)),
	}
	for _, c := range cities {
		c.ID = normalize(c.ID)
		c.File = strings.TrimSpace(c.File)
		r.cities = append(r.cities, c)
		r.byID[c.ID] = c
	}
	return r
}

// Cities returns the registered cities in declaration order.
func (r *Registry) Cities() []City {
	out := make([]City, len(r.cities))
	copy(out, r.cities)
	return out
}

// CityIDs returns the registered city identifiers in declaration order.
func (r *Registry) CityIDs() []string {
	ids := make([]string, len(r.cities))
	for i, c := range r.cities {
		ids[i] = c.ID
	}
	return ids
}

// ResolveCity returns the source path bound to city.
func (r *Registry) ResolveCity(city string) (string, error) {
	c, ok := r.byID[normalize(city)]
	if !ok {
		return "", apperrors.NewUnknownCityError(city)
	}
	if filepath.IsAbs(c.File) || r.dataDir == "" {
		return c.File, nil
	}
	return filepath.Join(r.dataDir, c.File), nil
}

// HasCity reports whether city is registered.
func (r *Registry) HasCity(city string) bool {
	_, ok := r.byID[normalize(city)]
	return ok
}

// Months returns the supported month names in calendar order.
func (r *Registry) Months() []string {
	out := make([]string, len(months))
	copy(out, months)
	return out
}

// Weekdays returns the weekday names starting with sunday.
func (r *Registry) Weekdays() []string {
	out := make([]string, len(weekdays))
	copy(out, weekdays)
	return out
}

// MonthIndex returns the 1-based position of name in the month list.
func (r *Registry) MonthIndex(name string) (int, bool) {
	name = normalize(name)
	for i, m := range months {
		if m == name {
			return i + 1, true
		}
	}
	return 0, false
}

// IsWeekday reports whether name is one of the seven weekdays.
func (r *Registry) IsWeekday(name string) bool {
	name = normalize(name)
	for _, d := range weekdays {
		if d == name {
			return true
		}
	}
	return false
}

// ValidMonth accepts "all" or a supported month name.
func (r *Registry) ValidMonth(name string) bool {
	if normalize(name) == "all" {
		return true
	}
	_, ok := r.MonthIndex(name)
	return ok
}

// ValidDay accepts "all" or a weekday name.
func (r *Registry) ValidDay(name string) bool {
	return normalize(name) == "all" || r.IsWeekday(name)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
