package dataprocessing

import (
	"math"
	"time"

	"salespulse/pkg/contracts/domain"
)

// Moving-average window bounds, in months. The transport layer enforces the
// range; Augment itself trusts its caller.
const (
	MinWindow = 2
	MaxWindow = 12
)

// Augment derives the trailing moving average of revenue over the given
// window. The value at row i is the mean of rows [i-window+1, i]; it is NaN
// for the first window-1 rows and for any window containing a missing
// revenue. There is no partial-window smoothing.
//
// Augment is a pure function of its inputs: the source table is not mutated.
func Augment(table domain.SalesTable, window int) domain.DerivedTable {
	derived := domain.DerivedTable{
		Rows:   make([]domain.DerivedRow, len(table.Records)),
		Window: window,
	}
	for i, rec := range table.Records {
		derived.Rows[i] = domain.DerivedRow{
			MonthlyRecord: rec,
			MovingAvg:     windowMean(table.Records, i, window),
		}
	}
	return derived
}

// windowMean computes the mean revenue over the window ending at row i, or
// NaN when the window is incomplete or contains a missing value.
func windowMean(records []domain.MonthlyRecord, i, window int) float64 {
	if i < window-1 {
		return math.NaN()
	}
	var sum float64
	for j := i - window + 1; j <= i; j++ {
		v := records[j].Revenue
		if math.IsNaN(v) {
			return math.NaN()
		}
		sum += v
	}
	return sum / float64(window)
}

// Summarize computes the fixed set of summary scalars over the table.
// Reductions skip missing values; an all-missing growth column or a zero
// prior-year denominator yields NaN, and the extremum periods stay zero when
// no revenue value was interpretable. Ties on max/min revenue resolve to the
// earliest period. No rounding is applied here; that belongs to presentation.
func Summarize(table domain.SalesTable) domain.SummaryStats {
	var (
		total, priorSum, growthSum float64
		growthCount                int
		maxV                       = math.Inf(-1)
		minV                       = math.Inf(1)
		maxPeriod, minPeriod       time.Time
	)

	for _, rec := range table.Records {
		if !math.IsNaN(rec.Revenue) {
			total += rec.Revenue
			if rec.Revenue > maxV {
				maxV = rec.Revenue
				maxPeriod = rec.Period
			}
			if rec.Revenue < minV {
				minV = rec.Revenue
				minPeriod = rec.Period
			}
		}
		if !math.IsNaN(rec.PriorYear) {
			priorSum += rec.PriorYear
		}
		if !math.IsNaN(rec.GrowthPct) {
			growthSum += rec.GrowthPct
			growthCount++
		}
	}

	stats := domain.SummaryStats{
		TotalRevenue:     total,
		MeanGrowthPct:    math.NaN(),
		CumulativeYoYPct: math.NaN(),
		MaxRevenuePeriod: maxPeriod,
		MinRevenuePeriod: minPeriod,
	}
	if growthCount > 0 {
		stats.MeanGrowthPct = growthSum / float64(growthCount)
	}
	if priorSum != 0 {
		stats.CumulativeYoYPct = (total - priorSum) / priorSum * 100
	}
	return stats
}
