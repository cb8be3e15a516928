package dataprocessing

import (
	"bytes"
	"encoding/csv"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"salespulse/pkg/contracts/domain"
)

// Required column headers, matched by name so that files carrying extra
// columns (for example a re-uploaded export with its moving_average column)
// still load.
const (
	ColumnMonth     = "month"
	ColumnRevenue   = "revenue"
	ColumnPriorYear = "prior_year"
	ColumnGrowthPct = "growth_pct"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// RequiredColumns returns the four column headers every input must carry.
func RequiredColumns() []string {
	return []string{ColumnMonth, ColumnRevenue, ColumnPriorYear, ColumnGrowthPct}
}

// Load parses raw delimited bytes into a SalesTable. When useSample is true,
// or no bytes were supplied, the embedded sample dataset is parsed instead.
//
// Load never returns an error: a file that cannot be parsed at all, or that
// lacks required columns, yields a table failing Valid(). A row whose month
// cell does not parse as YYYY-MM is dropped; a numeric cell that does not
// parse becomes NaN and the row is kept. Retained rows come back stable-sorted
// ascending by period.
func Load(raw []byte, useSample bool) domain.SalesTable {
	src := raw
	if useSample || len(raw) == 0 {
		src = SampleCSV()
	}
	src = bytes.TrimPrefix(src, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(src))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil || len(rows) == 0 {
		return domain.SalesTable{MissingColumns: RequiredColumns()}
	}

	index := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		index[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, col := range RequiredColumns() {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return domain.SalesTable{MissingColumns: missing}
	}

	table := domain.SalesTable{Records: make([]domain.MonthlyRecord, 0, len(rows)-1)}
	for _, row := range rows[1:] {
		period, ok := parsePeriod(row, index[ColumnMonth])
		if !ok {
			table.DroppedRows++
			continue
		}
		table.Records = append(table.Records, domain.MonthlyRecord{
			Period:    period,
			Revenue:   parseNumeric(row, index[ColumnRevenue]),
			PriorYear: parseNumeric(row, index[ColumnPriorYear]),
			GrowthPct: parseNumeric(row, index[ColumnGrowthPct]),
		})
	}

	sort.SliceStable(table.Records, func(i, j int) bool {
		return table.Records[i].Period.Before(table.Records[j].Period)
	})

	return table
}

// parsePeriod coerces a cell to a calendar month. The format is strict:
// four-digit year, hyphen, two-digit month, no day component.
func parsePeriod(row []string, idx int) (time.Time, bool) {
	if idx >= len(row) {
		return time.Time{}, false
	}
	t, err := time.Parse(domain.PeriodFormat, strings.TrimSpace(row[idx]))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// parseNumeric coerces a cell to float64, returning NaN for anything that is
// not numerically interpretable. The row is kept either way.
func parseNumeric(row []string, idx int) float64 {
	if idx >= len(row) {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(row[idx]), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
