// internal/core/services/dashboard.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ammerola/reorder-dashboard/internal/core/domain"
	"github.com/ammerola/reorder-dashboard/internal/core/ports"
	"github.com/ammerola/reorder-dashboard/internal/pkg/metrics"
)

const (
	datasetLoadFailed  = "Failed to load reorder data"
	defaultSnapshotTTL = 24 * time.Hour
)

// DatasetCacheKey is where the last good dataset of a warehouse is kept
func DatasetCacheKey(warehouseID string) string {
	return ports.BuildKey(ports.PrefixDataset, warehouseID)
}

// datasetSnapshot is the cached copy served when the reorder service is down
type datasetSnapshot struct {
	Warehouse string                   `json:"warehouse"`
	Records   []domain.InventoryRecord `json:"records"`
	FetchedAt time.Time                `json:"fetched_at"`
}

// DashboardConfig configures the dashboard service
type DashboardConfig struct {
	Warehouses           []domain.Warehouse
	DefaultWarehouse     string
	AllowList            *domain.AllowList
	SnapshotTTL          time.Duration
	NotificationCapacity int
}

// FilterUpdate carries the user-editable view inputs; nil fields are left unchanged
type FilterUpdate struct {
	Search          *string
	CriticalOnly    *bool
	PORequiredOnly  *bool
	Below45DaysOnly *bool
	Sort            *SortSpec
	Page            *int
	PageSize        *int
}

// ExportSet is the exact row set to write to a reorder export
type ExportSet struct {
	Warehouse   string         `json:"warehouse"`
	Filename    string         `json:"filename"`
	GeneratedAt time.Time      `json:"generated_at"`
	Records     []ExportRecord `json:"records"`
}

// DashboardService owns the dashboard state: the active warehouse, its
// dataset, the view inputs and the last-updated timestamp. Derived views are
// memoized and the sync orchestrator writes back through hooks.
type DashboardService struct {
	gateway       ports.ReorderGateway
	cache         ports.CacheRepository
	logger        *slog.Logger
	allow         *domain.AllowList
	warehouses    []domain.Warehouse
	snapshotTTL   time.Duration
	notifications *NotificationCenter
	orchestrator  *SyncOrchestrator
	views         ViewMemo
	tables        TableMemo
	now           func() time.Time

	mu                sync.RWMutex
	warehouse         string
	dataset           []domain.InventoryRecord
	version           uint64
	loadedFor         string
	stale             bool
	inflight          int
	search            string
	criticalOnly      bool
	filters           TableFilters
	sort              SortSpec
	page              int
	pageSize          int
	lastUpdated       *time.Time
	lastUpdatedBySync bool
}

// NewDashboardService creates the dashboard state container. cache may be nil.
func NewDashboardService(
	gateway ports.ReorderGateway,
	cache ports.CacheRepository,
	syncMetrics *metrics.SyncMetrics,
	cfg DashboardConfig,
	logger *slog.Logger,
) *DashboardService {
	if len(cfg.Warehouses) == 0 {
		cfg.Warehouses = domain.DefaultWarehouses()
	}
	if _, ok := domain.FindWarehouse(cfg.Warehouses, cfg.DefaultWarehouse); !ok {
		cfg.DefaultWarehouse = cfg.Warehouses[0].ID
	}
	if cfg.AllowList == nil {
		cfg.AllowList = domain.DefaultAllowList()
	}
	if cfg.SnapshotTTL <= 0 {
		cfg.SnapshotTTL = defaultSnapshotTTL
	}

	s := &DashboardService{
		gateway:       gateway,
		cache:         cache,
		logger:        logger.With(slog.String("service", "dashboard")),
		allow:         cfg.AllowList,
		warehouses:    cfg.Warehouses,
		snapshotTTL:   cfg.SnapshotTTL,
		notifications: NewNotificationCenter(cfg.NotificationCapacity, nil),
		now:           time.Now,
		warehouse:     cfg.DefaultWarehouse,
		page:          1,
		pageSize:      DefaultPageSize,
	}
	s.orchestrator = NewSyncOrchestrator(gateway, SyncHooks{
		RefreshDataset:     s.Reload,
		AdvanceLastUpdated: s.advanceLastUpdated,
		Notify:             s.notify,
	}, syncMetrics, logger)
	return s
}

// Init loads the dataset and the last sync time concurrently.
// Failures are reported as notifications and never abort startup.
func (s *DashboardService) Init(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = s.Reload(ctx)
	}()
	go func() {
		defer wg.Done()
		s.loadLastSync(ctx)
	}()
	wg.Wait()
}

// Reload fetches the dataset of the active warehouse. A response for a
// warehouse that is no longer active is discarded.
func (s *DashboardService) Reload(ctx context.Context) error {
	s.mu.Lock()
	warehouseID := s.warehouse
	s.inflight++
	s.mu.Unlock()

	records, err := s.gateway.FetchDataset(ctx, warehouseID)

	s.mu.Lock()
	s.inflight--
	if s.warehouse != warehouseID {
		s.mu.Unlock()
		s.logger.DebugContext(ctx, "discarding dataset for inactive warehouse",
			slog.String("warehouse", warehouseID))
		return nil
	}
	if err != nil {
		hasData := s.loadedFor == warehouseID
		s.mu.Unlock()

		s.logger.ErrorContext(ctx, "failed to load dataset",
			slog.String("warehouse", warehouseID),
			slog.String("error", err.Error()))
		s.notify(domain.Failure("Error", domain.UserMessage(err, datasetLoadFailed)))
		if !hasData {
			s.restoreSnapshot(ctx, warehouseID)
			s.dropForeignDataset(warehouseID)
		}
		return fmt.Errorf("load dataset for %s: %w", warehouseID, err)
	}

	sorted := domain.SortByRunway(records)
	s.dataset = sorted
	s.version++
	s.loadedFor = warehouseID
	s.stale = false
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "dataset loaded",
		slog.String("warehouse", warehouseID),
		slog.Int("records", len(sorted)))
	s.storeSnapshot(ctx, warehouseID, sorted)
	return nil
}

// SelectWarehouse switches the active warehouse, resets table filters and
// paging, and loads the new warehouse's dataset
func (s *DashboardService) SelectWarehouse(ctx context.Context, warehouseID string) error {
	if _, ok := domain.FindWarehouse(s.warehouses, warehouseID); !ok {
		return &domain.ValidationError{Field: "warehouse", Message: fmt.Sprintf("unknown warehouse %q", warehouseID)}
	}

	s.mu.Lock()
	if s.warehouse == warehouseID {
		s.mu.Unlock()
		return nil
	}
	s.warehouse = warehouseID
	s.filters = TableFilters{}
	s.page = 1
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "warehouse selected", slog.String("warehouse", warehouseID))
	return s.Reload(ctx)
}

// UpdateFilters validates and applies view inputs atomically.
// Any change other than paging returns the table to page 1.
func (s *DashboardService) UpdateFilters(u FilterUpdate) error {
	if u.Sort != nil {
		if _, err := ParseSortSpec(string(u.Sort.Field), ""); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	page, pageSize := s.page, s.pageSize
	if u.Page != nil {
		page = *u.Page
	}
	if u.PageSize != nil {
		pageSize = *u.PageSize
	}
	if u.Page != nil || u.PageSize != nil {
		if err := ValidatePage(page, pageSize); err != nil {
			return err
		}
	}

	resetPage := false
	if u.Search != nil {
		s.search = *u.Search
		resetPage = true
	}
	if u.CriticalOnly != nil {
		s.criticalOnly = *u.CriticalOnly
		resetPage = true
	}
	if u.PORequiredOnly != nil {
		s.filters.PORequiredOnly = *u.PORequiredOnly
		resetPage = true
	}
	if u.Below45DaysOnly != nil {
		s.filters.Below45DaysOnly = *u.Below45DaysOnly
		resetPage = true
	}
	if u.Sort != nil {
		s.sort = *u.Sort
		resetPage = true
	}

	s.pageSize = pageSize
	switch {
	case u.Page != nil:
		s.page = page
	case resetPage || u.PageSize != nil:
		s.page = 1
	}
	return nil
}

// SetSearch sets the card search text
func (s *DashboardService) SetSearch(text string) {
	_ = s.UpdateFilters(FilterUpdate{Search: &text})
}

// SetCriticalOnly toggles the top-critical card filter
func (s *DashboardService) SetCriticalOnly(on bool) {
	_ = s.UpdateFilters(FilterUpdate{CriticalOnly: &on})
}

// SetTableFilters replaces both table-only filters
func (s *DashboardService) SetTableFilters(f TableFilters) {
	_ = s.UpdateFilters(FilterUpdate{PORequiredOnly: &f.PORequiredOnly, Below45DaysOnly: &f.Below45DaysOnly})
}

// SetSort sets the table sort
func (s *DashboardService) SetSort(spec SortSpec) error {
	return s.UpdateFilters(FilterUpdate{Sort: &spec})
}

// SetPage moves the table paginator
func (s *DashboardService) SetPage(page, pageSize int) error {
	return s.UpdateFilters(FilterUpdate{Page: &page, PageSize: &pageSize})
}

// TriggerSync starts a sync run. It returns ErrSyncInProgress when that kind is busy.
func (s *DashboardService) TriggerSync(ctx context.Context, kind domain.SyncKind) (<-chan struct{}, error) {
	done, accepted := s.orchestrator.Trigger(ctx, kind)
	if !accepted {
		return nil, fmt.Errorf("%s: %w", kind, domain.ErrSyncInProgress)
	}
	return done, nil
}

// SyncStates reports every sync slot
func (s *DashboardService) SyncStates() []domain.SyncOperationState {
	return s.orchestrator.States()
}

// WaitForSyncs blocks until in-flight sync runs complete or ctx ends
func (s *DashboardService) WaitForSyncs(ctx context.Context) error {
	return s.orchestrator.Wait(ctx)
}

// Notifications returns the active notifications
func (s *DashboardService) Notifications() []domain.Notification {
	return s.notifications.Active()
}

// Notify publishes an operator notification
func (s *DashboardService) Notify(n domain.Notification) domain.Notification {
	return s.notifications.Push(n)
}

// DismissNotification removes a notification before it expires
func (s *DashboardService) DismissNotification(id string) bool {
	return s.notifications.Dismiss(id)
}

// ViewComputations reports how many times the card view was derived
func (s *DashboardService) ViewComputations() int {
	return s.views.Computations()
}

// Snapshot renders the current dashboard state
func (s *DashboardService) Snapshot() Snapshot {
	s.mu.RLock()
	st := s.captureLocked()
	s.mu.RUnlock()

	view := s.views.Derive(st.viewKey, st.dataset)
	rows := s.tables.Project(st.tableKey, view)
	warehouse, _ := domain.FindWarehouse(s.warehouses, st.warehouse)

	return Snapshot{
		Warehouse:        warehouse,
		Warehouses:       append([]domain.Warehouse(nil), s.warehouses...),
		DatasetWarehouse: st.loadedFor,
		Loading:          st.loading,
		Stale:            st.stale,
		Search:           st.viewKey.Search,
		CriticalOnly:     st.viewKey.CriticalOnly,
		Stats:            view.Stats,
		Cards:            Decorate(view.Records, s.allow),
		Filters:          st.tableKey.Filters,
		Sort:             st.tableKey.Sort,
		Table:            Paginate(rows, s.allow, st.page, st.pageSize),
		Sync:             s.orchestrator.States(),
		LastUpdated:      st.lastUpdated,
		Notifications:    s.notifications.Active(),
	}
}

// ExportRows returns every filtered and sorted table row, across all pages
func (s *DashboardService) ExportRows() (ExportSet, error) {
	s.mu.RLock()
	st := s.captureLocked()
	s.mu.RUnlock()

	if st.loadedFor == "" {
		return ExportSet{}, &domain.ValidationError{Field: "dataset", Message: "No data loaded to export"}
	}

	view := s.views.Derive(st.viewKey, st.dataset)
	rows := s.tables.Project(st.tableKey, view)
	now := s.now()

	return ExportSet{
		Warehouse:   st.loadedFor,
		Filename:    ExportFilename(st.loadedFor, now),
		GeneratedAt: now,
		Records:     ExportRecords(rows, s.allow),
	}, nil
}

// ActiveWarehouse returns the selected warehouse id
func (s *DashboardService) ActiveWarehouse() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.warehouse
}

// Ready reports whether a dataset has been loaded for the active warehouse
func (s *DashboardService) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedFor == s.warehouse
}

type stateCapture struct {
	warehouse   string
	loadedFor   string
	dataset     []domain.InventoryRecord
	loading     bool
	stale       bool
	viewKey     ViewKey
	tableKey    TableKey
	page        int
	pageSize    int
	lastUpdated *time.Time
}

// captureLocked copies the state needed for a projection; s.mu must be held
func (s *DashboardService) captureLocked() stateCapture {
	viewKey := ViewKey{
		DatasetVersion: s.version,
		AllowList:      s.allow,
		Search:         s.search,
		CriticalOnly:   s.criticalOnly,
	}
	var lastUpdated *time.Time
	if s.lastUpdated != nil {
		ts := *s.lastUpdated
		lastUpdated = &ts
	}
	return stateCapture{
		warehouse:   s.warehouse,
		loadedFor:   s.loadedFor,
		dataset:     s.dataset,
		loading:     s.inflight > 0,
		stale:       s.stale,
		viewKey:     viewKey,
		tableKey:    TableKey{View: viewKey, Filters: s.filters, Sort: s.sort},
		page:        s.page,
		pageSize:    s.pageSize,
		lastUpdated: lastUpdated,
	}
}

func (s *DashboardService) loadLastSync(ctx context.Context) {
	ts, err := s.gateway.FetchLastSync(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to fetch last sync time", slog.String("error", err.Error()))
		return
	}
	if ts == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// a sync that finished first has the fresher timestamp
	if s.lastUpdatedBySync {
		return
	}
	at := *ts
	s.lastUpdated = &at
}

func (s *DashboardService) advanceLastUpdated(ts time.Time) {
	if ts.IsZero() {
		s.logger.Warn("inventory sync reported no lastSync, keeping last updated time")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUpdated = &ts
	s.lastUpdatedBySync = true
}

// dropForeignDataset clears a dataset left over from the previous warehouse
// so its cards and stats are not shown under warehouseID
func (s *DashboardService) dropForeignDataset(warehouseID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.warehouse != warehouseID || s.loadedFor == warehouseID || s.loadedFor == "" {
		return
	}
	s.dataset = nil
	s.version++
	s.loadedFor = ""
	s.stale = false
}

func (s *DashboardService) notify(n domain.Notification) {
	s.notifications.Push(n)
}

func (s *DashboardService) storeSnapshot(ctx context.Context, warehouseID string, records []domain.InventoryRecord) {
	if s.cache == nil {
		return
	}
	snap := datasetSnapshot{Warehouse: warehouseID, Records: records, FetchedAt: s.now()}
	if err := s.cache.SetWithTTL(ctx, DatasetCacheKey(warehouseID), snap, s.snapshotTTL); err != nil {
		s.logger.WarnContext(ctx, "failed to cache dataset snapshot",
			slog.String("warehouse", warehouseID),
			slog.String("error", err.Error()))
	}
}

func (s *DashboardService) restoreSnapshot(ctx context.Context, warehouseID string) {
	if s.cache == nil {
		return
	}
	var snap datasetSnapshot
	if err := s.cache.Get(ctx, DatasetCacheKey(warehouseID), &snap); err != nil {
		if !errors.Is(err, ports.ErrCacheMiss) {
			s.logger.WarnContext(ctx, "failed to read dataset snapshot",
				slog.String("warehouse", warehouseID),
				slog.String("error", err.Error()))
		}
		return
	}

	s.mu.Lock()
	if s.warehouse != warehouseID || s.loadedFor == warehouseID {
		s.mu.Unlock()
		return
	}
	s.dataset = domain.SortByRunway(snap.Records)
	s.version++
	s.loadedFor = warehouseID
	s.stale = true
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "serving cached dataset",
		slog.String("warehouse", warehouseID),
		slog.Time("fetched_at", snap.FetchedAt))
	s.notify(domain.Warning("Showing cached data",
		fmt.Sprintf("Reorder service unavailable, data from %s", snap.FetchedAt.Format("2006-01-02 15:04"))))
}
