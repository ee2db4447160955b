// internal/handlers/dashboard.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ammerola/reorder-dashboard/internal/core/services"
)

// DashboardHandler exposes the dashboard state container
type DashboardHandler struct {
	dashboard *services.DashboardService
	logger    *slog.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboard *services.DashboardService, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboard: dashboard,
		logger:    logger.With(slog.String("handler", "dashboard")),
	}
}

// UpdateFiltersRequest is the body of PUT /api/v1/dashboard/filters.
// Omitted fields keep their current value.
type UpdateFiltersRequest struct {
	Search          *string `json:"search"`
	CriticalOnly    *bool   `json:"critical_only"`
	PORequiredOnly  *bool   `json:"po_required_only"`
	Below45DaysOnly *bool   `json:"below_45_days_only"`
	SortBy          *string `json:"sort_by"`
	SortOrder       *string `json:"sort_order"`
	Page            *int    `json:"page"`
	PageSize        *int    `json:"page_size"`
}

// ToUpdate converts the request, resolving a partial sort against current
func (r *UpdateFiltersRequest) ToUpdate(current services.SortSpec) (services.FilterUpdate, error) {
	u := services.FilterUpdate{
		Search:          r.Search,
		CriticalOnly:    r.CriticalOnly,
		PORequiredOnly:  r.PORequiredOnly,
		Below45DaysOnly: r.Below45DaysOnly,
		Page:            r.Page,
		PageSize:        r.PageSize,
	}

	if r.SortBy != nil || r.SortOrder != nil {
		field, order := string(current.Field), "asc"
		if current.Descending {
			order = "desc"
		}
		if r.SortBy != nil {
			field = *r.SortBy
		}
		if r.SortOrder != nil {
			order = *r.SortOrder
		}
		spec, err := services.ParseSortSpec(field, order)
		if err != nil {
			return services.FilterUpdate{}, err
		}
		u.Sort = &spec
	}

	return u, nil
}

// SelectWarehouseRequest is the body of PUT /api/v1/dashboard/warehouse
type SelectWarehouseRequest struct {
	Warehouse string `json:"warehouse"`
}

// GetDashboard handles GET /api/v1/dashboard
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	respondJSON(w, h.logger, http.StatusOK, h.dashboard.Snapshot())
}

// UpdateFilters handles PUT /api/v1/dashboard/filters
func (h *DashboardHandler) UpdateFilters(w http.ResponseWriter, r *http.Request) {
	var req UpdateFiltersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}

	update, err := req.ToUpdate(h.dashboard.Snapshot().Sort)
	if err == nil {
		err = h.dashboard.UpdateFilters(update)
	}
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to update filters")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, h.dashboard.Snapshot())
}

// SelectWarehouse handles PUT /api/v1/dashboard/warehouse
func (h *DashboardHandler) SelectWarehouse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SelectWarehouseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.dashboard.SelectWarehouse(ctx, req.Warehouse); err != nil {
		h.logger.WarnContext(ctx, "warehouse selection incomplete",
			slog.String("warehouse", req.Warehouse),
			slog.String("error", err.Error()))
		respondServiceError(w, h.logger, err, "Failed to load reorder data")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, h.dashboard.Snapshot())
}

// Reload handles POST /api/v1/dashboard/reload
func (h *DashboardHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.dashboard.Reload(r.Context()); err != nil {
		respondServiceError(w, h.logger, err, "Failed to load reorder data")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, h.dashboard.Snapshot())
}

// ListNotifications handles GET /api/v1/notifications
func (h *DashboardHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"notifications": h.dashboard.Notifications(),
	})
}

// DismissNotification handles DELETE /api/v1/notifications/{id}
func (h *DashboardHandler) DismissNotification(w http.ResponseWriter, r *http.Request) {
	if !h.dashboard.DismissNotification(r.PathValue("id")) {
		respondError(w, h.logger, http.StatusNotFound, "Notification not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
