// internal/core/services/filter.go
package services

import (
	"sync"

	"github.com/ammerola/reorder-dashboard/internal/core/domain"
)

// View is the card-level projection of the dataset.
// Records and the dataset it came from are shared and must not be mutated.
type View struct {
	Records []domain.InventoryRecord `json:"records"`
	Stats   domain.Stats             `json:"stats"`
}

// DeriveView applies, in order: the allow-list, the case-insensitive search
// over code and description, and the critical-only cut (runway below 30,
// first TopCriticalLimit in dataset order). Stats always describe the
// allow-listed set, independent of search and critical-only.
func DeriveView(dataset []domain.InventoryRecord, allow *domain.AllowList, search string, criticalOnly bool) View {
	var stats domain.Stats
	allowed := make([]domain.InventoryRecord, 0, len(dataset))
	for _, r := range dataset {
		if !allow.Contains(r.SKUCode) {
			continue
		}
		allowed = append(allowed, r)
		stats.Add(r)
	}

	visible := allowed
	if search != "" {
		visible = make([]domain.InventoryRecord, 0, len(allowed))
		for _, r := range allowed {
			if allow.Matches(r.SKUCode, search) {
				visible = append(visible, r)
			}
		}
	}

	if criticalOnly {
		critical := make([]domain.InventoryRecord, 0, domain.TopCriticalLimit)
		for _, r := range visible {
			if !r.IsCritical() {
				continue
			}
			critical = append(critical, r)
			if len(critical) == domain.TopCriticalLimit {
				break
			}
		}
		visible = critical
	}

	return View{Records: visible, Stats: stats}
}

// ViewKey identifies the inputs of a derived view. DatasetVersion changes
// every time the dataset is replaced.
type ViewKey struct {
	DatasetVersion uint64
	AllowList      *domain.AllowList
	Search         string
	CriticalOnly   bool
}

// ViewMemo caches the most recent DeriveView result
type ViewMemo struct {
	mu           sync.Mutex
	valid        bool
	key          ViewKey
	view         View
	computations int
}

// Derive returns the cached view when key is unchanged, otherwise recomputes.
// dataset must be the dataset identified by key.DatasetVersion.
func (m *ViewMemo) Derive(key ViewKey, dataset []domain.InventoryRecord) View {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.valid && m.key == key {
		return m.view
	}

	m.view = DeriveView(dataset, key.AllowList, key.Search, key.CriticalOnly)
	m.key = key
	m.valid = true
	m.computations++
	return m.view
}

// Computations reports how many times the view was actually derived
func (m *ViewMemo) Computations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.computations
}
