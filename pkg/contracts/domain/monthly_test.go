package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonthlyRecord_PeriodLabel(t *testing.T) {
	rec := MonthlyRecord{Period: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, "2024-03", rec.PeriodLabel())
}

func TestSalesTable_Valid(t *testing.T) {
	tests := []struct {
		name  string
		table SalesTable
		want  bool
	}{
		{
			name:  "rows and full schema",
			table: SalesTable{Records: []MonthlyRecord{{}}},
			want:  true,
		},
		{
			name:  "no rows",
			table: SalesTable{},
			want:  false,
		},
		{
			name:  "missing columns",
			table: SalesTable{Records: []MonthlyRecord{{}}, MissingColumns: []string{"growth_pct"}},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.table.Valid())
		})
	}
}

func TestMissing(t *testing.T) {
	assert.True(t, Missing(math.NaN()))
	assert.False(t, Missing(0))
	assert.False(t, Missing(math.Inf(1)))
}
