// internal/adapters/spreadsheet/workbook.go
package spreadsheet

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/reorder-dashboard/internal/core/ports"
)

// ContentType is the MIME type of generated workbooks
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const defaultColWidth = 15

// ErrNoSheets is returned for workbooks without any worksheet
var ErrNoSheets = errors.New("workbook has no sheets")

// Workbook reads and writes xlsx files in memory
type Workbook struct {
	logger *slog.Logger
}

// Statically assert that *Workbook implements the WorkbookReader interface.
var _ ports.WorkbookReader = (*Workbook)(nil)

// NewWorkbook creates a workbook adapter
func NewWorkbook(logger *slog.Logger) *Workbook {
	return &Workbook{logger: logger.With(slog.String("component", "spreadsheet"))}
}

// Write renders a single-sheet workbook with a styled header row
func (w *Workbook) Write(sheetName string, headers []string, rows [][]any) ([]byte, error) {
	file := xlsx.NewFile()

	sheet, err := file.AddSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to add worksheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, header := range headers {
		cell := headerRow.AddCell()
		cell.Value = header
		cell.GetStyle().Font.Bold = true
		cell.GetStyle().Fill.PatternType = "solid"
		cell.GetStyle().Fill.FgColor = "CCCCCC"
	}

	for _, values := range rows {
		dataRow := sheet.AddRow()
		for _, value := range values {
			setCell(dataRow.AddCell(), value)
		}
	}

	for i := 1; i <= len(headers); i++ {
		sheet.SetColWidth(i, i, defaultColWidth)
	}

	var buffer bytes.Buffer
	if err := file.Write(&buffer); err != nil {
		return nil, fmt.Errorf("failed to write Excel file to buffer: %w", err)
	}

	w.logger.Debug("workbook written",
		slog.String("sheet", sheetName),
		slog.Int("rows", len(rows)),
		slog.Int("bytes", buffer.Len()))

	return buffer.Bytes(), nil
}

// ReadRows returns the cell text of every row of the first sheet, header included.
// Trailing empty rows are dropped.
func (w *Workbook) ReadRows(content []byte) ([][]string, error) {
	file, err := xlsx.OpenBinary(content)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	if len(file.Sheets) == 0 {
		return nil, ErrNoSheets
	}

	var rows [][]string
	err = file.Sheets[0].ForEachRow(func(r *xlsx.Row) error {
		var cells []string
		if err := r.ForEachCell(func(c *xlsx.Cell) error {
			cells = append(cells, strings.TrimSpace(c.String()))
			return nil
		}); err != nil {
			return err
		}
		rows = append(rows, cells)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	for len(rows) > 0 && isBlank(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}
	return rows, nil
}

// CountDataRows counts non-empty rows below the header of the first sheet
func (w *Workbook) CountDataRows(content []byte) (int, error) {
	rows, err := w.ReadRows(content)
	if err != nil {
		return 0, err
	}
	if len(rows) <= 1 {
		return 0, nil
	}

	count := 0
	for _, row := range rows[1:] {
		if !isBlank(row) {
			count++
		}
	}
	return count, nil
}

func setCell(cell *xlsx.Cell, value any) {
	switch v := value.(type) {
	case nil:
		cell.SetString("")
	case string:
		cell.SetString(v)
	case int:
		cell.SetInt(v)
	case int64:
		cell.SetInt64(v)
	case float64:
		cell.SetFloat(v)
	case bool:
		cell.SetBool(v)
	case decimal.Decimal:
		f, _ := v.Float64()
		cell.SetFloat(f)
	case time.Time:
		cell.SetDateTime(v)
	case fmt.Stringer:
		cell.SetString(v.String())
	default:
		cell.SetString(fmt.Sprint(v))
	}
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
