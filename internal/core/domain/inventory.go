// internal/core/domain/inventory.go
package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Severity buckets a record by its days-of-cover runway
type Severity string

// Severity constants
const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityGood     Severity = "good"
)

// Runway thresholds in days of cover
const (
	CriticalBelowDays = 30
	WarningBelowDays  = 45
	// TopCriticalLimit caps the critical-only card view
	TopCriticalLimit = 10
)

// InventoryRecord is one SKU row of the reorder dataset as served by the reorder service
type InventoryRecord struct {
	SKUCode             string  `json:"sku_code"`
	CurrentStock        int     `json:"current_stock"`
	AvgDailySales       float64 `json:"avg_daily_sales"`
	NumberOfDays        int     `json:"number_of_days"`
	ReorderPoint        float64 `json:"reorder_point"`
	SuggestedReorderQty int     `json:"suggested_reorder_qty"`
}

// ClassifyRunway returns the severity for a days-of-cover value.
// Card, table, stats and export all classify through this function.
func ClassifyRunway(days int) Severity {
	switch {
	case days < CriticalBelowDays:
		return SeverityCritical
	case days < WarningBelowDays:
		return SeverityWarning
	default:
		return SeverityGood
	}
}

// Severity returns the record's runway classification
func (r InventoryRecord) Severity() Severity {
	return ClassifyRunway(r.NumberOfDays)
}

// NeedsPurchaseOrder reports whether the service suggests reordering this SKU
func (r InventoryRecord) NeedsPurchaseOrder() bool {
	return r.SuggestedReorderQty > 0
}

// IsCritical reports whether the runway is below the critical threshold
func (r InventoryRecord) IsCritical() bool {
	return r.NumberOfDays < CriticalBelowDays
}

// ImagePath returns the static product image location for the SKU
func (r InventoryRecord) ImagePath() string {
	return fmt.Sprintf("/images/%s.jpg", r.SKUCode)
}

// Validate checks the non-negativity constraints of a record
func (r InventoryRecord) Validate() error {
	if strings.TrimSpace(r.SKUCode) == "" {
		return fmt.Errorf("sku_code is required")
	}
	if r.CurrentStock < 0 {
		return fmt.Errorf("current_stock cannot be negative")
	}
	if r.AvgDailySales < 0 {
		return fmt.Errorf("avg_daily_sales cannot be negative")
	}
	if r.ReorderPoint < 0 {
		return fmt.Errorf("reorder_point cannot be negative")
	}
	if r.SuggestedReorderQty < 0 {
		return fmt.Errorf("suggested_reorder_qty cannot be negative")
	}
	return nil
}

// SortByRunway returns a copy of records ordered by ascending days of cover.
// Ties keep their service order.
func SortByRunway(records []InventoryRecord) []InventoryRecord {
	sorted := make([]InventoryRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].NumberOfDays < sorted[j].NumberOfDays
	})
	return sorted
}

// Stats summarizes the allow-listed dataset
type Stats struct {
	Total        int `json:"total"`
	Critical     int `json:"critical"`
	Warning      int `json:"warning"`
	Healthy      int `json:"healthy"`
	NeedsReorder int `json:"needs_reorder"`
}

// Add folds one record into the summary
func (s *Stats) Add(r InventoryRecord) {
	s.Total++
	switch r.Severity() {
	case SeverityCritical:
		s.Critical++
	case SeverityWarning:
		s.Warning++
	default:
		s.Healthy++
	}
	if r.NeedsPurchaseOrder() {
		s.NeedsReorder++
	}
}
