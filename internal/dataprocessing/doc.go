// Package dataprocessing loads bike-share trip tables, filters them by month
// and weekday, and computes the descriptive statistics shown to riders.
//
// # Architecture
//
// The package is organized into three components:
//
// 1. Loader: reads a city's CSV or XLSX source into a domain.Table
// 2. FilterEngine: applies month and weekday predicates
// 3. Analyzer: computes temporal, station, duration and user statistics
//
// # Usage
//
//	reg := config.DefaultRegistry("data")
//	loader := dataprocessing.NewLoader(reg, logger)
//	table, err := loader.Load(ctx, "chicago")
//	if err != nil {
//	    return err
//	}
//
//	filter := dataprocessing.NewFilterEngine(reg, logger)
//	june, err := filter.Filter(table, domain.FilterSpec{City: "chicago", Month: "june", Day: "all"})
//
//	analyzer := dataprocessing.NewAnalyzer(logger)
//	stations := analyzer.ComputeStationStats(ctx, june)
//
// # Modes and Ties
//
// Every "most common" value is a mode computed by Counter. When several
// values share the highest count, the one that appears first in the table
// wins, so results are reproducible across runs.
//
// # Error Handling
//
// Loading fails with an UNKNOWN_CITY, MALFORMED_INPUT or STORAGE AppError.
// Malformed errors carry the source line and column in their context. Filter
// fails with INVALID_FILTER. The Analyzer never fails.
package dataprocessing
