package dataprocessing

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"bikeshare/internal/config"
	apperrors "bikeshare/internal/errors"
	"bikeshare/pkg/contracts/domain"
)

// rowSource yields raw rows. The first row is the header. Next returns
// io.EOF when exhausted.
type rowSource interface {
	Next() ([]string, error)
}

// Loader reads the trip table for a city.
type Loader struct {
	registry *config.Registry
	logger   *slog.Logger
}

// NewLoader creates a loader bound to registry. A nil logger falls back to
// slog.Default().
func NewLoader(registry *config.Registry, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		registry: registry,
		logger:   logger,
	}
}

// Load reads the full record set bound to city. Files ending in .xlsx are
// read from their first sheet; anything else is read as CSV.
func (l *Loader) Load(ctx context.Context, city string) (*domain.Table, error) {
	path, err := l.registry.ResolveCity(city)
	if err != nil {
		return nil, err
	}

	l.logger.DebugContext(ctx, "Loading trip table",
		slog.String("city", city),
		slog.String("path", path))

	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return l.loadXLSX(ctx, city, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open trip file", err).
			WithContext("city", city).
			WithContext("path", path)
	}
	defer f.Close()

	table, err := l.LoadReader(ctx, city, f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return table, nil
}

// LoadReader reads CSV trip rows from r.
func (l *Loader) LoadReader(ctx context.Context, city string, r io.Reader) (*domain.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	return l.build(ctx, city, &csvSource{reader: reader}, parseTimestamp)
}

func (l *Loader) loadXLSX(ctx context.Context, city, path string) (*domain.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open trip workbook", err).
			WithContext("city", city).
			WithContext("path", path)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewMalformedInputError("workbook has no sheets", nil).
			WithContext("path", path)
	}

	rows, err := f.Rows(sheets[0])
	if err != nil {
		return nil, apperrors.NewStorageError("failed to read sheet", err).
			WithContext("path", path).
			WithContext("sheet", sheets[0])
	}
	defer rows.Close()

	table, err := l.build(ctx, city, &xlsxSource{rows: rows}, parseSpreadsheetTime)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return table, nil
}

// build consumes src into a table. A malformed row aborts the load: skipping
// rows would shrink the population the statistics are computed over.
func (l *Loader) build(ctx context.Context, city string, src rowSource, parseTime timeParser) (*domain.Table, error) {
	start := time.Now()

	header, err := src.Next()
	if errors.Is(err, io.EOF) {
		return nil, apperrors.NewMalformedInputError("trip file is empty", nil).WithContext("city", city)
	}
	if err != nil {
		return nil, apperrors.NewMalformedInputError("failed to read header", err).WithContext("city", city)
	}

	cols, err := mapHeader(header)
	if err != nil {
		return nil, err
	}

	table := &domain.Table{
		City:   strings.ToLower(strings.TrimSpace(city)),
		Schema: cols.schema(),
	}
	parser := &rowParser{cols: cols, parseTime: parseTime}

	for line := 2; ; line++ {
		row, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperrors.NewMalformedInputError("failed to read row", err).WithContext("line", line)
		}
		if line%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if isBlankRow(row) {
			continue
		}

		rec, err := parser.parse(row, line)
		if err != nil {
			return nil, err
		}
		table.Records = append(table.Records, rec)
	}

	l.logger.InfoContext(ctx, "Trip table loaded",
		slog.String("city", table.City),
		slog.Int("rows", table.Len()),
		slog.Bool("has_gender", table.Schema.HasGender),
		slog.Bool("has_birth_year", table.Schema.HasBirthYear),
		slog.Duration("elapsed", time.Since(start)))

	return table, nil
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

type csvSource struct {
	reader *csv.Reader
}

func (s *csvSource) Next() ([]string, error) {
	return s.reader.Read()
}

type xlsxSource struct {
	rows *excelize.Rows
}

func (s *xlsxSource) Next() ([]string, error) {
	if !s.rows.Next() {
		if err := s.rows.Error(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	return s.rows.Columns(excelize.Options{RawCellValue: true})
}

// parseSpreadsheetTime accepts text timestamps and spreadsheet serial dates.
func parseSpreadsheetTime(value string) (time.Time, error) {
	if t, err := parseTimestamp(value); err == nil {
		return t, nil
	}
	serial, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("no known layout matches %q", value)
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, err
	}
	// serial dates carry float noise below the second
	return t.Round(time.Second), nil
}
