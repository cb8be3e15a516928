package domain

import (
	"math"
	"time"
)

// PeriodFormat is the wire format for a calendar month (year + month, no day).
const PeriodFormat = "2006-01"

// MonthlyRecord is one row of the sales table. Numeric fields use NaN to
// represent a value that was present in the input but not numerically
// interpretable; such rows are kept and the NaN flows into derived results.
type MonthlyRecord struct {
	Period    time.Time `json:"period"`     // first day of the month, UTC
	Revenue   float64   `json:"revenue"`    // current-period sales amount
	PriorYear float64   `json:"prior_year"` // same-month revenue one year earlier
	GrowthPct float64   `json:"growth_pct"` // externally supplied YoY percent change
}

// PeriodLabel returns the YYYY-MM label used in CSV output and API responses.
func (r MonthlyRecord) PeriodLabel() string {
	return r.Period.Format(PeriodFormat)
}

// SalesTable is an ordered sequence of monthly records, sorted ascending by
// period. Rows whose period failed to parse have already been dropped by the
// loader; DroppedRows counts them.
type SalesTable struct {
	Records        []MonthlyRecord
	MissingColumns []string // required column headers absent from the input
	DroppedRows    int      // rows discarded because the period cell did not parse
}

// Valid reports whether the table can enter the aggregation pipeline:
// it must be non-empty and the input must have carried all required columns.
func (t SalesTable) Valid() bool {
	return len(t.Records) > 0 && len(t.MissingColumns) == 0
}

// Len returns the number of retained rows.
func (t SalesTable) Len() int {
	return len(t.Records)
}

// DerivedRow is a monthly record augmented with the trailing moving average
// of revenue. MovingAvg is NaN for the first window-1 rows and for any window
// that contains a missing revenue value.
type DerivedRow struct {
	MonthlyRecord
	MovingAvg float64 `json:"moving_average"`
}

// DerivedTable is the augmented table produced by the aggregator.
type DerivedTable struct {
	Rows   []DerivedRow
	Window int
}

// SummaryStats holds the scalar reductions computed once per table.
// MeanGrowthPct and CumulativeYoYPct are NaN when undefined (all-missing
// growth column, or a zero prior-year denominator); the extremum periods are
// zero time values when no revenue value was interpretable.
type SummaryStats struct {
	TotalRevenue     float64
	MeanGrowthPct    float64
	CumulativeYoYPct float64
	MaxRevenuePeriod time.Time
	MinRevenuePeriod time.Time
}

// Missing reports whether v is the missing-value marker.
func Missing(v float64) bool {
	return math.IsNaN(v)
}
