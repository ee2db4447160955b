// internal/handlers/pivot.go
package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ammerola/reorder-dashboard/internal/adapters/spreadsheet"
	"github.com/ammerola/reorder-dashboard/internal/core/services"
)

// PivotHandler serves the SKU × date sales pivot
type PivotHandler struct {
	pivots   *services.PivotService
	workbook WorkbookWriter
	maxSize  int64
	logger   *slog.Logger
}

// NewPivotHandler creates a new pivot handler
func NewPivotHandler(pivots *services.PivotService, workbook WorkbookWriter, maxSize int64, logger *slog.Logger) *PivotHandler {
	return &PivotHandler{
		pivots:   pivots,
		workbook: workbook,
		maxSize:  maxSize,
		logger:   logger.With(slog.String("handler", "pivot")),
	}
}

// Build handles POST /api/v1/pivot/sku-date with a multipart "file" field
func (h *PivotHandler) Build(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.maxSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxSize+uploadOverhead)
	}

	filename, content, err := readUpload(r, h.maxSize)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to read uploaded file")
		return
	}

	result, err := h.pivots.Build(ctx, filename, content)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to build pivot")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, result)
}

// GetLatest handles GET /api/v1/pivot
func (h *PivotHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	result, ok := h.pivots.Latest(r.Context())
	if !ok {
		respondError(w, h.logger, http.StatusNotFound, "No pivot has been built yet")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, result)
}

// Export handles GET /api/v1/pivot/export
func (h *PivotHandler) Export(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	result, ok := h.pivots.Latest(ctx)
	if !ok {
		respondError(w, h.logger, http.StatusNotFound, "No pivot has been built yet")
		return
	}

	headers, rows := services.PivotTable(result)
	excelData, err := h.workbook.Write(services.PivotSheetName, headers, rows)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate pivot workbook", slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusInternalServerError, "Failed to generate Excel file")
		return
	}

	w.Header().Set("Content-Type", spreadsheet.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, services.PivotExportName))
	w.Header().Set("Content-Length", strconv.Itoa(len(excelData)))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

	if _, err := w.Write(excelData); err != nil {
		h.logger.ErrorContext(ctx, "failed to write pivot response", slog.String("error", err.Error()))
	}
}
