// Package exporter renders trip records as CSV.
//
// RowWriter streams records to any io.Writer in a fixed column order: the
// source columns the table's schema carries, followed by the derived month,
// day of week and hour. Pager uses it to show raw rows a page at a time and
// CSVWriter uses it to save a filtered table to a file.
package exporter
