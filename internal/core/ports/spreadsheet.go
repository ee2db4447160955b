// internal/core/ports/spreadsheet.go
package ports

// WorkbookReader inspects uploaded spreadsheets before they are forwarded
type WorkbookReader interface {
	// CountDataRows returns the number of non-empty rows below the header
	// row of the first sheet
	CountDataRows(content []byte) (int, error)
}
