package exporter

import (
	"strconv"
	"time"
)

const timestampLayout = "2006-01-02 15:04:05"

// formatFloat renders a trip duration without trailing zeros, so 321 stays
// "321" and 100.5 stays "100.5".
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatInt formats an int value for CSV output
func formatInt(i int) string {
	return strconv.Itoa(i)
}

// formatOptionalInt renders nil as an empty cell
func formatOptionalInt(i *int) string {
	if i == nil {
		return ""
	}
	return formatInt(*i)
}

func formatTime(t time.Time) string {
	return t.Format(timestampLayout)
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}
