// internal/core/services/projection.go
package services

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ammerola/reorder-dashboard/internal/core/domain"
)

// TableFilters are the table-level toggles. Both are ANDed when set.
type TableFilters struct {
	PORequiredOnly  bool `json:"po_required_only"`
	Below45DaysOnly bool `json:"below_45_days_only"`
}

// Apply filters records without mutating them
func (f TableFilters) Apply(records []domain.InventoryRecord) []domain.InventoryRecord {
	if !f.PORequiredOnly && !f.Below45DaysOnly {
		return records
	}
	out := make([]domain.InventoryRecord, 0, len(records))
	for _, r := range records {
		if f.PORequiredOnly && !r.NeedsPurchaseOrder() {
			continue
		}
		if f.Below45DaysOnly && r.NumberOfDays >= domain.WarningBelowDays {
			continue
		}
		out = append(out, r)
	}
	return out
}

// SortField is a sortable table column
type SortField string

// Sortable columns
const (
	SortNone          SortField = ""
	SortSKU           SortField = "sku_code"
	SortCurrentStock  SortField = "current_stock"
	SortAvgDailySales SortField = "avg_daily_sales"
	SortNumberOfDays  SortField = "number_of_days"
	SortSuggestedQty  SortField = "suggested_reorder_qty"
)

// SortSpec is the user-selected table ordering. The zero value keeps dataset order.
type SortSpec struct {
	Field      SortField `json:"field,omitempty"`
	Descending bool      `json:"descending,omitempty"`
}

// ParseSortSpec validates a field name and an "asc"/"desc" order
func ParseSortSpec(field, order string) (SortSpec, error) {
	spec := SortSpec{Field: SortField(field)}
	switch spec.Field {
	case SortNone, SortSKU, SortCurrentStock, SortAvgDailySales, SortNumberOfDays, SortSuggestedQty:
	default:
		return SortSpec{}, &domain.ValidationError{Field: "sort_by", Message: fmt.Sprintf("cannot sort by %q", field)}
	}
	switch strings.ToLower(order) {
	case "", "asc":
	case "desc":
		spec.Descending = true
	default:
		return SortSpec{}, &domain.ValidationError{Field: "sort_order", Message: "sort_order must be asc or desc"}
	}
	return spec, nil
}

// SortRecords returns a stably sorted copy; SortNone returns records as given
func SortRecords(records []domain.InventoryRecord, spec SortSpec) []domain.InventoryRecord {
	if spec.Field == SortNone {
		return records
	}
	less := func(a, b domain.InventoryRecord) bool {
		switch spec.Field {
		case SortSKU:
			return a.SKUCode < b.SKUCode
		case SortCurrentStock:
			return a.CurrentStock < b.CurrentStock
		case SortAvgDailySales:
			return a.AvgDailySales < b.AvgDailySales
		case SortSuggestedQty:
			return a.SuggestedReorderQty < b.SuggestedReorderQty
		default:
			return a.NumberOfDays < b.NumberOfDays
		}
	}

	sorted := make([]domain.InventoryRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if spec.Descending {
			return less(sorted[j], sorted[i])
		}
		return less(sorted[i], sorted[j])
	})
	return sorted
}

// ValidatePage checks a page request against the paginator options
func ValidatePage(page, pageSize int) error {
	if page < 1 {
		return &domain.ValidationError{Field: "page", Message: "page must be at least 1"}
	}
	for _, size := range PageSizeOptions {
		if size == pageSize {
			return nil
		}
	}
	return &domain.ValidationError{Field: "page_size", Message: fmt.Sprintf("page_size must be one of %v", PageSizeOptions)}
}

// Paginate slices one page out of records. Pages past the end are clamped to the last page.
func Paginate(records []domain.InventoryRecord, allow *domain.AllowList, page, pageSize int) TablePage {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	total := len(records)
	totalPages := (total + pageSize - 1) / pageSize
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return TablePage{
		Rows:       Decorate(records[start:end], allow),
		Page:       page,
		PageSize:   pageSize,
		TotalCount: total,
		TotalPages: totalPages,
	}
}

// Decorate adds display fields to records
func Decorate(records []domain.InventoryRecord, allow *domain.AllowList) []RecordView {
	out := make([]RecordView, len(records))
	for i, r := range records {
		out[i] = RecordView{
			InventoryRecord: r,
			Description:     allow.Describe(r.SKUCode),
			Severity:        r.Severity(),
			PORequired:      r.NeedsPurchaseOrder(),
			Image:           r.ImagePath(),
		}
	}
	return out
}

// TableKey identifies the inputs of a table projection
type TableKey struct {
	View    ViewKey
	Filters TableFilters
	Sort    SortSpec
}

// TableMemo caches the filtered and sorted table rows for the latest key
type TableMemo struct {
	mu    sync.Mutex
	valid bool
	key   TableKey
	rows  []domain.InventoryRecord
}

// Project returns the filtered, sorted rows for the view identified by key.View
func (m *TableMemo) Project(key TableKey, view View) []domain.InventoryRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.valid && m.key == key {
		return m.rows
	}
	m.rows = SortRecords(key.Filters.Apply(view.Records), key.Sort)
	m.key = key
	m.valid = true
	return m.rows
}

// ExportSheetName is the worksheet holding the reorder export
const ExportSheetName = "Reorder"

// ExportHeaders are the reorder export columns in order
var ExportHeaders = []string{
	"SKU", "Product", "Stock", "Avg Daily Sales", "Days",
	"Reorder Point", "Suggested Qty", "PO Required",
}

// ExportRecord is one flattened export row
type ExportRecord struct {
	SKU           string          `json:"sku"`
	Product       string          `json:"product"`
	Stock         int             `json:"stock"`
	AvgDailySales decimal.Decimal `json:"avg_daily_sales"`
	Days          int             `json:"days"`
	ReorderPoint  decimal.Decimal `json:"reorder_point"`
	SuggestedQty  int             `json:"suggested_qty"`
	PORequired    bool            `json:"po_required"`
	Severity      domain.Severity `json:"severity"`
}

// Cells returns the row values in ExportHeaders order
func (e ExportRecord) Cells() []any {
	poRequired := "No"
	if e.PORequired {
		poRequired = "Yes"
	}
	return []any{
		e.SKU,
		e.Product,
		e.Stock,
		e.AvgDailySales.InexactFloat64(),
		e.Days,
		e.ReorderPoint.InexactFloat64(),
		e.SuggestedQty,
		poRequired,
	}
}

// ExportRecords flattens table rows for export, rounding rates to 2 decimals
func ExportRecords(records []domain.InventoryRecord, allow *domain.AllowList) []ExportRecord {
	out := make([]ExportRecord, len(records))
	for i, r := range records {
		out[i] = ExportRecord{
			SKU:           r.SKUCode,
			Product:       allow.Describe(r.SKUCode),
			Stock:         r.CurrentStock,
			AvgDailySales: decimal.NewFromFloat(r.AvgDailySales).Round(2),
			Days:          r.NumberOfDays,
			ReorderPoint:  decimal.NewFromFloat(r.ReorderPoint).Round(2),
			SuggestedQty:  r.SuggestedReorderQty,
			PORequired:    r.NeedsPurchaseOrder(),
			Severity:      r.Severity(),
		}
	}
	return out
}

// ExportFilename is deterministic for a warehouse and calendar day
func ExportFilename(warehouseID string, at time.Time) string {
	return fmt.Sprintf("reorder_%s_%s.xlsx", warehouseID, at.Format("2006-01-02"))
}
