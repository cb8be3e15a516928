package exporter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteDerivedXLSX_SheetLayout(t *testing.T) {
	derived, stats := sampleDerived(t, 3)
	var buf bytes.Buffer

	require.NoError(t, WriteDerivedXLSX(&buf, derived, stats))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	require.Contains(t, f.GetSheetList(), "Monthly Sales")

	header, err := f.GetCellValue("Monthly Sales", "A1")
	require.NoError(t, err)
	assert.Equal(t, "month", header)

	firstMonth, err := f.GetCellValue("Monthly Sales", "A2")
	require.NoError(t, err)
	assert.Equal(t, "2024-01", firstMonth)

	// Incomplete windows leave the moving_average cell empty.
	firstAvg, err := f.GetCellValue("Monthly Sales", "E2")
	require.NoError(t, err)
	assert.Equal(t, "", firstAvg)

	thirdAvg, err := f.GetCellValue("Monthly Sales", "E4")
	require.NoError(t, err)
	assert.NotEqual(t, "", thirdAvg)
}

func TestWriteDerivedXLSX_SummaryBlock(t *testing.T) {
	derived, stats := sampleDerived(t, 3)
	var buf bytes.Buffer

	require.NoError(t, WriteDerivedXLSX(&buf, derived, stats))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	// 12 data rows plus header, then one blank row before the summary.
	label, err := f.GetCellValue("Monthly Sales", "A15")
	require.NoError(t, err)
	assert.Equal(t, "total_revenue", label)

	maxMonth, err := f.GetCellValue("Monthly Sales", "B18")
	require.NoError(t, err)
	assert.Equal(t, "2024-12", maxMonth)

	minMonth, err := f.GetCellValue("Monthly Sales", "B19")
	require.NoError(t, err)
	assert.Equal(t, "2024-03", minMonth)
}
