// internal/core/domain/sync.go
package domain

import (
	"fmt"
	"time"
)

// SyncKind names one of the long-running backend operations
type SyncKind string

// Sync kinds
const (
	SyncInventory SyncKind = "inventory"
	SyncOrders    SyncKind = "orders"
	SyncReorder   SyncKind = "reorder"
)

// SyncKinds lists every kind in display order
func SyncKinds() []SyncKind {
	return []SyncKind{SyncInventory, SyncOrders, SyncReorder}
}

// ParseSyncKind validates a kind received from a caller
func ParseSyncKind(s string) (SyncKind, error) {
	switch k := SyncKind(s); k {
	case SyncInventory, SyncOrders, SyncReorder:
		return k, nil
	default:
		return "", &ValidationError{Field: "kind", Message: fmt.Sprintf("unknown sync kind %q", s)}
	}
}

// BusyMessage is the status text shown while the kind is running
func (k SyncKind) BusyMessage() string {
	switch k {
	case SyncInventory:
		return "Syncing inventory snapshot..."
	case SyncOrders:
		return "Syncing order history, this can take several minutes..."
	case SyncReorder:
		return "Generating reorder suggestions..."
	default:
		return "Working..."
	}
}

// FailureFallback is shown when a failed run carries no server message
func (k SyncKind) FailureFallback() string {
	switch k {
	case SyncInventory:
		return "Inventory sync failed"
	case SyncOrders:
		return "Orders sync failed"
	case SyncReorder:
		return "Failed to generate reorder"
	default:
		return GenericFailureMessage
	}
}

// SyncOperationState is the observable state of one kind's slot
type SyncOperationState struct {
	Kind          SyncKind   `json:"kind"`
	Busy          bool       `json:"busy"`
	StatusMessage string     `json:"status_message,omitempty"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
}

// InventorySyncResult is the reorder service's inventory sync report
type InventorySyncResult struct {
	Success  int       `json:"success"`
	Failed   int       `json:"failed"`
	LastSync time.Time `json:"lastSync"`
}

// OrderSyncCounts carries the order sync statistics
type OrderSyncCounts struct {
	PagesProcessed int `json:"pages_processed"`
	Inserted       int `json:"inserted"`
	RawRecords     int `json:"raw_records"`
}

// OrderSyncResult is the reorder service's order sync report
type OrderSyncResult struct {
	Success bool            `json:"success"`
	Data    OrderSyncCounts `json:"data"`
	Message string          `json:"message,omitempty"`
}

// UploadType is a raw file category accepted by the reorder service
type UploadType string

// Upload types
const (
	UploadOrders    UploadType = "orders"
	UploadInventory UploadType = "inventory"
)

// ParseUploadType validates an upload category
func ParseUploadType(s string) (UploadType, error) {
	switch t := UploadType(s); t {
	case UploadOrders, UploadInventory:
		return t, nil
	default:
		return "", &ValidationError{Field: "type", Message: fmt.Sprintf("unsupported upload type %q", s)}
	}
}

// UploadAck is returned after the service accepted a raw file
type UploadAck struct {
	Type     UploadType `json:"type"`
	Filename string     `json:"filename"`
	Rows     int        `json:"rows,omitempty"`
	Message  string     `json:"message,omitempty"`
}

// PivotRow is one SKU line of the SKU × date sales pivot
type PivotRow struct {
	SKUCode string         `json:"skuCode"`
	Counts  map[string]int `json:"counts"`
	Total   int            `json:"total"`
	Average float64        `json:"average"`
}

// PivotResult is the sales pivot returned by the reorder service
type PivotResult struct {
	Data  []PivotRow `json:"data"`
	Dates []string   `json:"dates"`
}
