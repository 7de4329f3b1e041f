package dataprocessing

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"bikeshare/internal/config"
	apperrors "bikeshare/internal/errors"
	"bikeshare/pkg/contracts/domain"
)

// FilterEngine narrows a table by month and weekday.
type FilterEngine struct {
	registry *config.Registry
	validate *validator.Validate
	logger   *slog.Logger
}

// NewFilterEngine creates a filter engine whose month and weekday domains
// come from registry.
func NewFilterEngine(registry *config.Registry, logger *slog.Logger) *FilterEngine {
	if logger == nil {
		logger = slog.Default()
	}

	v := validator.New()
	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("month", func(fl validator.FieldLevel) bool {
		return registry.ValidMonth(fl.Field().String())
	})
	_ = v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		return registry.ValidDay(fl.Field().String())
	})

	return &FilterEngine{
		registry: registry,
		validate: v,
		logger:   logger,
	}
}

// Validate checks the month and day of spec against the registry. The city
// is not checked here; the loader resolves it.
func (f *FilterEngine) Validate(spec domain.FilterSpec) error {
	err := f.validate.StructExcept(spec, "City")
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return apperrors.NewInvalidFilterError(strings.ToLower(fe.Field()), fmt.Sprint(fe.Value()))
	}
	return apperrors.NewAppValidationError(err.Error())
}

// Filter returns the rows of table matching spec, in their original order.
// An empty result is not an error.
func (f *FilterEngine) Filter(table *domain.Table, spec domain.FilterSpec) (*domain.Table, error) {
	if err := f.Validate(spec); err != nil {
		return nil, err
	}

	out := &domain.Table{}
	if table == nil {
		return out, nil
	}
	out.City = table.City
	out.Schema = table.Schema

	month := 0
	if !spec.AllMonths() {
		month, _ = f.registry.MonthIndex(spec.Month)
	}
	day := ""
	if !spec.AllDays() {
		day = strings.TrimSpace(spec.Day)
	}

	out.Records = make([]domain.TripRecord, 0, len(table.Records))
	for _, rec := range table.Records {
		if month != 0 && rec.Month != month {
			continue
		}
		if day != "" && !strings.EqualFold(rec.DayOfWeek, day) {
			continue
		}
		out.Records = append(out.Records, rec)
	}

	f.logger.Debug("Table filtered",
		slog.String("city", out.City),
		slog.String("month", spec.Month),
		slog.String("day", spec.Day),
		slog.Int("rows_in", table.Len()),
		slog.Int("rows_out", out.Len()))

	return out, nil
}
