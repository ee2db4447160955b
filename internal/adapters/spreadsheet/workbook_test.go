package spreadsheet_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/reorder-dashboard/internal/adapters/spreadsheet"
	"github.com/ammerola/reorder-dashboard/test/helpers"
)

func TestWorkbook_WriteAndRead(t *testing.T) {
	wb := spreadsheet.NewWorkbook(helpers.TestLogger())

	headers := []string{"SKU", "Product", "Stock", "Avg Daily Sales", "PO Required"}
	rows := [][]any{
		{"1001003", "Sunscreen Cream", 12, 1.25, "Yes"},
		{"ACC-02", "Ice Roller", 40, decimal.RequireFromString("0.5"), "No"},
	}

	data, err := wb.Write("Reorder", headers, rows)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	file, err := xlsx.OpenBinary(data)
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)
	assert.Equal(t, "Reorder", file.Sheets[0].Name)

	got, err := wb.ReadRows(data)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, headers, got[0])
	assert.Equal(t, []string{"1001003", "Sunscreen Cream", "12", "1.25", "Yes"}, got[1])
	assert.Equal(t, "ACC-02", got[2][0])
	assert.Equal(t, "0.5", got[2][3])
}

func TestWorkbook_HeaderStyle(t *testing.T) {
	wb := spreadsheet.NewWorkbook(helpers.TestLogger())

	data, err := wb.Write("Pivot", []string{"SKU Code", "Grand Total"}, nil)
	require.NoError(t, err)

	file, err := xlsx.OpenBinary(data)
	require.NoError(t, err)

	cell, err := file.Sheets[0].Cell(0, 0)
	require.NoError(t, err)
	assert.Equal(t, "SKU Code", cell.String())
	assert.True(t, cell.GetStyle().Font.Bold)
}

func TestWorkbook_CountDataRows(t *testing.T) {
	wb := spreadsheet.NewWorkbook(helpers.TestLogger())

	tests := []struct {
		name string
		rows [][]any
		want int
	}{
		{name: "header_only", rows: nil, want: 0},
		{name: "two_rows", rows: [][]any{{"a", 1}, {"b", 2}}, want: 2},
		{name: "blank_rows_ignored", rows: [][]any{{"a", 1}, {"", nil}, {"c", 3}}, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := wb.Write("Sheet1", []string{"order_id", "qty"}, tt.rows)
			require.NoError(t, err)

			n, err := wb.CountDataRows(data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestWorkbook_CountDataRows_NotAWorkbook(t *testing.T) {
	wb := spreadsheet.NewWorkbook(helpers.TestLogger())

	_, err := wb.CountDataRows([]byte("sku,qty\n1001003,4\n"))
	assert.Error(t, err)
}
