// Package exporter encodes the derived sales table for download, as
// BOM-prefixed CSV or as an Excel workbook.
package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"salespulse/pkg/contracts/domain"
)

// utf8BOM helps Excel recognize the download as UTF-8.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DerivedHeaders returns the column headers of a derived-table export. The
// first four match the loader's required schema, so a downloaded file can be
// re-uploaded as-is.
func DerivedHeaders() []string {
	return []string{"month", "revenue", "prior_year", "growth_pct", "moving_average"}
}

// WriteDerivedCSV writes the derived table to w as UTF-8 CSV with a leading
// byte-order mark. Missing values encode as empty cells; numbers use the
// shortest representation that parses back to the same float64.
func WriteDerivedCSV(w io.Writer, table domain.DerivedTable) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(DerivedHeaders()); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, row := range table.Rows {
		record := []string{
			row.PeriodLabel(),
			formatCell(row.Revenue),
			formatCell(row.PriorYear),
			formatCell(row.GrowthPct),
			formatCell(row.MovingAvg),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// formatCell renders a numeric cell, encoding a missing value as an empty
// string so the loader reads it back as missing.
func formatCell(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
