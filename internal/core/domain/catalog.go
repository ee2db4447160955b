// internal/core/domain/catalog.go
package domain

import "strings"

// CatalogEntry is an allow-listed SKU with its display name
type CatalogEntry struct {
	SKUCode     string `json:"sku_code"`
	Description string `json:"description"`
}

// AllowList is the fixed set of SKUs the dashboard is permitted to show.
// It is built once and never mutated, so a pointer identifies it.
type AllowList struct {
	entries []CatalogEntry
	index   map[string]string
}

// NewAllowList builds an allow-list; later duplicates keep the first description
func NewAllowList(entries ...CatalogEntry) *AllowList {
	a := &AllowList{
		entries: make([]CatalogEntry, 0, len(entries)),
		index:   make(map[string]string, len(entries)),
	}
	for _, e := range entries {
		if _, seen := a.index[e.SKUCode]; seen {
			continue
		}
		a.index[e.SKUCode] = e.Description
		a.entries = append(a.entries, e)
	}
	return a
}

// Contains reports whether the SKU is allow-listed
func (a *AllowList) Contains(sku string) bool {
	_, ok := a.index[sku]
	return ok
}

// Describe returns the product description, or "" for unknown SKUs
func (a *AllowList) Describe(sku string) string {
	return a.index[sku]
}

// Len returns the number of allow-listed SKUs
func (a *AllowList) Len() int {
	return len(a.entries)
}

// Entries returns a copy of the catalog in declaration order
func (a *AllowList) Entries() []CatalogEntry {
	out := make([]CatalogEntry, len(a.entries))
	copy(out, a.entries)
	return out
}

// Matches reports whether the search text is a case-insensitive substring
// of the SKU code or its description. Empty text matches everything.
func (a *AllowList) Matches(sku, text string) bool {
	if text == "" {
		return true
	}
	needle := strings.ToLower(text)
	return strings.Contains(strings.ToLower(sku), needle) ||
		strings.Contains(strings.ToLower(a.Describe(sku)), needle)
}

var defaultAllowList = NewAllowList(
	CatalogEntry{"1001033", "Pokonut stretch mark cream"},
	CatalogEntry{"1001049", "Dark patch reducer cream"},
	CatalogEntry{"1001062", "Dark Spot removal cream"},
	CatalogEntry{"1001007", "Natural beauty face cream"},
	CatalogEntry{"1001059", "Foot cream"},
	CatalogEntry{"1001003", "Sunscreen Cream"},
	CatalogEntry{"1001057", "Sunscreen Lotion"},
	CatalogEntry{"1001041-A", "Kumkumadi oil"},
	CatalogEntry{"1001058", "Kumkumadi face wash"},
	CatalogEntry{"1001071", "Vita-c face serum"},
	CatalogEntry{"1001070", "Hair growth serum"},
	CatalogEntry{"1001035", "Pokonut stretch mark roll"},
	CatalogEntry{"1001008", "Skin shine Soap-100g"},
	CatalogEntry{"1001048", "Charcoal Detox Soap (100g)"},
	CatalogEntry{"1001010", "Anti Blemish Soap-100gm"},
	CatalogEntry{"1001018", "Golden Glow Soap"},
	CatalogEntry{"1001013", "Anti acne soap"},
	CatalogEntry{"1001017", "D-tan soap"},
	CatalogEntry{"ACC-01", "Derma Roller"},
	CatalogEntry{"ACC-02", "Ice Roller"},
	CatalogEntry{"ACC-03", "Pumice Stone"},
	CatalogEntry{"ACC-04", "Comb"},
)

// DefaultAllowList returns the compile-time product catalog
func DefaultAllowList() *AllowList {
	return defaultAllowList
}

// Warehouse identifies a stock location known to the reorder service
type Warehouse struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// DefaultWarehouseID is selected when the dashboard starts
const DefaultWarehouseID = "WH3"

// DefaultWarehouses returns the warehouses offered in the selector
func DefaultWarehouses() []Warehouse {
	return []Warehouse{
		{ID: "WH3", Label: "Bangalore Warehouse"},
		{ID: "WH4", Label: "Pinjore Warehouse"},
	}
}

// FindWarehouse looks a warehouse up by id
func FindWarehouse(warehouses []Warehouse, id string) (Warehouse, bool) {
	for _, w := range warehouses {
		if w.ID == id {
			return w, true
		}
	}
	return Warehouse{}, false
}
