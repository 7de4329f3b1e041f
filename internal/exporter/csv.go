package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"bikeshare/pkg/contracts/domain"
)

// Derived column names appended after the source columns.
const (
	ColumnMonth     = "Month"
	ColumnDayOfWeek = "Day Of Week"
	ColumnHour      = "Hour"
)

// Header returns the column names written for a table with schema. Optional
// source columns appear only when the schema carries them.
func Header(schema domain.Schema) []string {
	h := []string{domain.ColumnStartTime}
	if schema.HasEndTime {
		h = append(h, domain.ColumnEndTime)
	}
	h = append(h,
		domain.ColumnTripDuration,
		domain.ColumnStartStation,
		domain.ColumnEndStation,
		domain.ColumnUserType,
	)
	if schema.HasGender {
		h = append(h, domain.ColumnGender)
	}
	if schema.HasBirthYear {
		h = append(h, domain.ColumnBirthYear)
	}
	return append(h, ColumnMonth, ColumnDayOfWeek, ColumnHour)
}

// Record renders rec in Header(schema) order
func Record(rec domain.TripRecord, schema domain.Schema) []string {
	r := []string{formatTime(rec.StartTime)}
	if schema.HasEndTime {
		r = append(r, formatOptionalTime(rec.EndTime))
	}
	r = append(r,
		formatFloat(rec.TripDuration),
		rec.StartStation,
		rec.EndStation,
		rec.UserType,
	)
	if schema.HasGender {
		r = append(r, rec.Gender)
	}
	if schema.HasBirthYear {
		r = append(r, formatOptionalInt(rec.BirthYear))
	}
	return append(r, rec.MonthName, rec.DayOfWeek, formatInt(rec.Hour))
}

// RowWriter writes trip records as CSV to any io.Writer
type RowWriter struct {
	writer *csv.Writer
	schema domain.Schema
}

// NewRowWriter creates a row writer for tables with schema
func NewRowWriter(w io.Writer, schema domain.Schema) *RowWriter {
	return &RowWriter{writer: csv.NewWriter(w), schema: schema}
}

// WriteHeader writes the header line
func (w *RowWriter) WriteHeader() error {
	if err := w.writer.Write(Header(w.schema)); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	return nil
}

// WriteRows writes records in order
func (w *RowWriter) WriteRows(records []domain.TripRecord) error {
	for i, rec := range records {
		if err := w.writer.Write(Record(rec, w.schema)); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	return nil
}

// Flush flushes buffered rows and reports any write error
func (w *RowWriter) Flush() error {
	w.writer.Flush()
	return w.writer.Error()
}

// WriteOptions configures file export
type WriteOptions struct {
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// CSVWriter exports tables to files
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger}
}

// WriteTable writes the header and every record of table to filePath,
// creating parent directories and truncating an existing file.
func (w *CSVWriter) WriteTable(filePath string, table *domain.Table, options WriteOptions) error {
	if table == nil {
		table = &domain.Table{}
	}

	w.logger.Info("Writing CSV file",
		slog.String("file_path", filePath),
		slog.String("city", table.City),
		slog.Int("record_count", table.Len()))

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	if options.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	rw := NewRowWriter(file, table.Schema)
	if err := rw.WriteHeader(); err != nil {
		return err
	}
	if err := rw.WriteRows(table.Records); err != nil {
		return err
	}
	if err := rw.Flush(); err != nil {
		return err
	}
	return file.Close()
}
