package dataprocessing

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salespulse/pkg/contracts/domain"
)

func TestLoad_SampleDataset(t *testing.T) {
	table := Load(nil, true)

	require.True(t, table.Valid())
	assert.Equal(t, 12, table.Len())
	assert.Equal(t, 0, table.DroppedRows)
	assert.Equal(t, "2024-01", table.Records[0].PeriodLabel())
	assert.Equal(t, "2024-12", table.Records[11].PeriodLabel())
	assert.Equal(t, 12000000.0, table.Records[0].Revenue)
	assert.Equal(t, 14.3, table.Records[0].GrowthPct)
}

func TestLoad_SampleWhenNoBytes(t *testing.T) {
	// An empty upload falls back to the embedded dataset even without the flag.
	table := Load([]byte{}, false)

	require.True(t, table.Valid())
	assert.Equal(t, 12, table.Len())
}

func TestLoad_StripsByteOrderMark(t *testing.T) {
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("month,revenue,prior_year,growth_pct\n2024-01,100,90,11.1\n")...)

	table := Load(raw, false)

	require.True(t, table.Valid())
	assert.Equal(t, 1, table.Len())
	assert.Equal(t, 100.0, table.Records[0].Revenue)
}

func TestLoad_DropsRowsWithBadPeriod(t *testing.T) {
	raw := []byte(`month,revenue,prior_year,growth_pct
2024-01,100,90,11.1
not-a-month,200,180,11.1
2024-13,300,270,11.1
2024-02,400,360,11.1
`)

	table := Load(raw, false)

	require.True(t, table.Valid())
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, 2, table.DroppedRows)
	assert.Equal(t, "2024-01", table.Records[0].PeriodLabel())
	assert.Equal(t, "2024-02", table.Records[1].PeriodLabel())
}

func TestLoad_KeepsRowsWithBadNumerics(t *testing.T) {
	raw := []byte(`month,revenue,prior_year,growth_pct
2024-01,abc,90,11.1
2024-02,200,,5.0
`)

	table := Load(raw, false)

	require.True(t, table.Valid())
	require.Equal(t, 2, table.Len())
	assert.True(t, domain.Missing(table.Records[0].Revenue))
	assert.Equal(t, 90.0, table.Records[0].PriorYear)
	assert.True(t, domain.Missing(table.Records[1].PriorYear))
	assert.Equal(t, 200.0, table.Records[1].Revenue)
}

func TestLoad_SortsByPeriod(t *testing.T) {
	raw := []byte(`month,revenue,prior_year,growth_pct
2024-03,300,270,11.1
2024-01,100,90,11.1
2024-02,200,180,11.1
`)

	table := Load(raw, false)

	require.Equal(t, 3, table.Len())
	for i := 1; i < table.Len(); i++ {
		assert.True(t, table.Records[i-1].Period.Before(table.Records[i].Period))
	}
}

func TestLoad_MissingColumns(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		missing []string
	}{
		{
			name:    "no growth column",
			raw:     "month,revenue,prior_year\n2024-01,100,90\n",
			missing: []string{"growth_pct"},
		},
		{
			name:    "unrelated headers",
			raw:     "a,b\n1,2\n",
			missing: []string{"month", "revenue", "prior_year", "growth_pct"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := Load([]byte(tt.raw), false)

			assert.False(t, table.Valid())
			assert.Equal(t, tt.missing, table.MissingColumns)
		})
	}
}

func TestLoad_HeaderOnlyIsInvalid(t *testing.T) {
	table := Load([]byte("month,revenue,prior_year,growth_pct\n"), false)

	assert.False(t, table.Valid())
	assert.Empty(t, table.MissingColumns)
	assert.Equal(t, 0, table.Len())
}

func TestLoad_UnparseableInputIsInvalid(t *testing.T) {
	// Mismatched quotes make the CSV reader fail outright.
	table := Load([]byte("month,\"revenue\n2024-01,100"), false)

	assert.False(t, table.Valid())
	assert.Equal(t, RequiredColumns(), table.MissingColumns)
}

func TestLoad_MatchesColumnsByName(t *testing.T) {
	// Reordered and extra columns still load; an exported file with its
	// moving_average column round-trips.
	raw := []byte(`growth_pct,month,moving_average,revenue,prior_year
11.1,2024-01,,100,90
`)

	table := Load(raw, false)

	require.True(t, table.Valid())
	require.Equal(t, 1, table.Len())
	assert.Equal(t, 100.0, table.Records[0].Revenue)
	assert.Equal(t, 90.0, table.Records[0].PriorYear)
	assert.Equal(t, 11.1, table.Records[0].GrowthPct)
}

func TestLoad_ShortRowBecomesMissing(t *testing.T) {
	raw := []byte(`month,revenue,prior_year,growth_pct
2024-01,100
`)

	table := Load(raw, false)

	require.True(t, table.Valid())
	require.Equal(t, 1, table.Len())
	assert.Equal(t, 100.0, table.Records[0].Revenue)
	assert.True(t, math.IsNaN(table.Records[0].PriorYear))
	assert.True(t, math.IsNaN(table.Records[0].GrowthPct))
}

func TestParsePeriod_StrictFormat(t *testing.T) {
	tests := []struct {
		cell string
		ok   bool
	}{
		{"2024-01", true},
		{" 2024-01 ", true},
		{"2024-1", false},
		{"2024-01-15", false},
		{"Jan 2024", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.cell, func(t *testing.T) {
			got, ok := parsePeriod([]string{tt.cell}, 0)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, time.January, got.Month())
			}
		})
	}
}
