package exporter

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/xuri/excelize/v2"

	"salespulse/pkg/contracts/domain"
)

const derivedSheet = "Monthly Sales"

// WriteDerivedXLSX writes the derived table and its summary block to w as an
// Excel workbook, for the user who wants the report outside the browser.
// Missing values become empty cells.
func WriteDerivedXLSX(w io.Writer, table domain.DerivedTable, stats domain.SummaryStats) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName(f.GetSheetName(0), derivedSheet)

	for col, header := range DerivedHeaders() {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to address header cell: %w", err)
		}
		if err := f.SetCellValue(derivedSheet, cell, header); err != nil {
			return fmt.Errorf("failed to write header %q: %w", header, err)
		}
	}

	for i, row := range table.Rows {
		values := []interface{}{
			row.PeriodLabel(),
			cellValue(row.Revenue),
			cellValue(row.PriorYear),
			cellValue(row.GrowthPct),
			cellValue(row.MovingAvg),
		}
		for col, v := range values {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("failed to address cell: %w", err)
			}
			if err := f.SetCellValue(derivedSheet, cell, v); err != nil {
				return fmt.Errorf("failed to write row %d: %w", i, err)
			}
		}
	}

	if err := writeSummaryBlock(f, table, stats); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to encode workbook: %w", err)
	}
	return nil
}

// writeSummaryBlock appends the summary scalars two rows below the table.
func writeSummaryBlock(f *excelize.File, table domain.DerivedTable, stats domain.SummaryStats) error {
	row := len(table.Rows) + 3

	entries := []struct {
		label string
		value interface{}
	}{
		{"total_revenue", cellValue(stats.TotalRevenue)},
		{"mean_growth_pct", cellValue(stats.MeanGrowthPct)},
		{"cumulative_yoy_pct", cellValue(stats.CumulativeYoYPct)},
		{"max_revenue_month", periodValue(stats.MaxRevenuePeriod)},
		{"min_revenue_month", periodValue(stats.MinRevenuePeriod)},
	}
	for i, entry := range entries {
		labelCell, err := excelize.CoordinatesToCellName(1, row+i)
		if err != nil {
			return fmt.Errorf("failed to address summary cell: %w", err)
		}
		if err := f.SetCellValue(derivedSheet, labelCell, entry.label); err != nil {
			return fmt.Errorf("failed to write summary label: %w", err)
		}
		if entry.value == nil {
			continue
		}
		valueCell, err := excelize.CoordinatesToCellName(2, row+i)
		if err != nil {
			return fmt.Errorf("failed to address summary cell: %w", err)
		}
		if err := f.SetCellValue(derivedSheet, valueCell, entry.value); err != nil {
			return fmt.Errorf("failed to write summary value: %w", err)
		}
	}
	return nil
}

func cellValue(v float64) interface{} {
	if math.IsNaN(v) {
		return nil
	}
	return v
}

func periodValue(p time.Time) interface{} {
	if p.IsZero() {
		return nil
	}
	return p.Format(domain.PeriodFormat)
}
