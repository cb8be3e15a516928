// Package dataprocessing implements the monthly sales pipeline: loading and
// validating delimited tabular input, and deriving the moving-average column
// and summary scalars the dashboard displays.
//
// # Architecture
//
// The package is organized into two components:
//
// 1. Loader: parses raw CSV bytes (or the embedded sample) into a SalesTable
// 2. Analytics: pure transforms producing the DerivedTable and SummaryStats
//
// # Usage
//
// Load and validate:
//
//	table := dataprocessing.Load(raw, useSample)
//	if !table.Valid() {
//	    // reject: empty result or missing required columns
//	}
//
// Derive:
//
//	derived := dataprocessing.Augment(table, 3)
//	stats := dataprocessing.Summarize(table)
//
// The loader never returns an error: a structurally unusable input yields a
// table that fails Valid(), row-level period failures drop the row, and
// non-numeric cells become NaN while the row is kept. Callers must treat NaN
// as "missing" when rendering.
package dataprocessing
