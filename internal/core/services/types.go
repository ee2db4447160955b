// internal/core/services/types.go
package services

import (
	"time"

	"github.com/ammerola/reorder-dashboard/internal/core/domain"
)

// Pagination defaults for the reorder table
const (
	DefaultPageSize = 10
)

// PageSizeOptions are the page sizes offered by the table paginator
var PageSizeOptions = []int{10, 20, 50}

// RecordView is a dataset row decorated for display
type RecordView struct {
	domain.InventoryRecord
	Description string          `json:"description"`
	Severity    domain.Severity `json:"severity"`
	PORequired  bool            `json:"po_required"`
	Image       string          `json:"image"`
}

// TablePage is one page of the reorder table
type TablePage struct {
	Rows       []RecordView `json:"rows"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalCount int          `json:"total_count"`
	TotalPages int          `json:"total_pages"`
}

// Snapshot is everything the dashboard shell renders
type Snapshot struct {
	Warehouse        domain.Warehouse            `json:"warehouse"`
	Warehouses       []domain.Warehouse          `json:"warehouses"`
	DatasetWarehouse string                      `json:"dataset_warehouse,omitempty"`
	Loading          bool                        `json:"loading"`
	Stale            bool                        `json:"stale"`
	Search           string                      `json:"search"`
	CriticalOnly     bool                        `json:"critical_only"`
	Stats            domain.Stats                `json:"stats"`
	Cards            []RecordView                `json:"cards"`
	Filters          TableFilters                `json:"filters"`
	Sort             SortSpec                    `json:"sort"`
	Table            TablePage                   `json:"table"`
	Sync             []domain.SyncOperationState `json:"sync"`
	LastUpdated      *time.Time                  `json:"last_updated"`
	Notifications    []domain.Notification       `json:"notifications"`
}
