// internal/handlers/sync.go
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ammerola/reorder-dashboard/internal/core/domain"
	"github.com/ammerola/reorder-dashboard/internal/core/services"
)

// SyncHandler triggers and reports the reorder service sync operations
type SyncHandler struct {
	dashboard *services.DashboardService
	logger    *slog.Logger
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(dashboard *services.DashboardService, logger *slog.Logger) *SyncHandler {
	return &SyncHandler{
		dashboard: dashboard,
		logger:    logger.With(slog.String("handler", "sync")),
	}
}

// SyncStatusResponse reports every sync slot
type SyncStatusResponse struct {
	Operations []domain.SyncOperationState `json:"operations"`
}

// GetStatus handles GET /api/v1/sync
func (h *SyncHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, h.logger, http.StatusOK, SyncStatusResponse{Operations: h.dashboard.SyncStates()})
}

// Trigger handles POST /api/v1/sync/{kind}. The run continues after the
// response; its outcome arrives as a notification.
func (h *SyncHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	kind, err := domain.ParseSyncKind(r.PathValue("kind"))
	if err != nil {
		respondServiceError(w, h.logger, err, "Unknown sync operation")
		return
	}

	if _, err := h.dashboard.TriggerSync(ctx, kind); err != nil {
		h.logger.InfoContext(ctx, "sync trigger dropped",
			slog.String("kind", string(kind)))
		respondServiceError(w, h.logger, err, kind.FailureFallback())
		return
	}

	h.logger.InfoContext(ctx, "sync triggered", slog.String("kind", string(kind)))
	respondJSON(w, h.logger, http.StatusAccepted, map[string]interface{}{
		"kind":    kind,
		"status":  "accepted",
		"message": kind.BusyMessage(),
	})
}
